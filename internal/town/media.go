package town

// MediaArea is a zone with a shared media player. The empty→non-empty
// video transition is accepted exactly once; progress and pause updates
// are accepted only while a video is set. When the last occupant
// leaves, the player resets.
type MediaArea struct {
	areaBase

	video          string
	isPlaying      bool
	elapsedTimeSec float64
}

func NewMediaArea(id string, bounds BoundingBox, emitter AreaEmitter) *MediaArea {
	a := &MediaArea{areaBase: newAreaBase(id, bounds, emitter)}
	a.toModel = a.model
	a.onEmptied = func() {
		a.video = ""
		a.isPlaying = false
		a.elapsedTimeSec = 0
	}
	return a
}

func (a *MediaArea) Kind() string    { return KindMediaArea }
func (a *MediaArea) Video() string   { return a.video }
func (a *MediaArea) IsPlaying() bool { return a.isPlaying }

// ElapsedTimeSec returns the client-reported playback position.
func (a *MediaArea) ElapsedTimeSec() float64 { return a.elapsedTimeSec }

// IsActive reports whether a video has been set.
func (a *MediaArea) IsActive() bool { return a.video != "" }

// Update applies a playback mutation. Activation requires a non-empty
// video and an inactive area; once active, only the playback fields
// move, and a request naming a different video is rejected.
func (a *MediaArea) Update(model InteractableModel) bool {
	if a.video == "" {
		if model.Video == "" {
			return false
		}
		a.video = model.Video
	} else if model.Video != "" && model.Video != a.video {
		return false
	}
	if model.IsPlaying != nil {
		a.isPlaying = *model.IsPlaying
	}
	a.elapsedTimeSec = model.ElapsedTimeSec
	return true
}

func (a *MediaArea) ToModel() InteractableModel { return a.model() }

func (a *MediaArea) model() InteractableModel {
	playing := a.isPlaying
	return InteractableModel{
		Kind:           KindMediaArea,
		ID:             a.id,
		Occupants:      a.OccupantIDs(),
		Video:          a.video,
		IsPlaying:      &playing,
		ElapsedTimeSec: a.elapsedTimeSec,
	}
}
