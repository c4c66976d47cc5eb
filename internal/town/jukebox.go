package town

// Song is an immutable value sourced from the music-catalog
// collaborator.
type Song struct {
	SongName        string  `json:"songName"`
	ArtistName      string  `json:"artistName"`
	AlbumName       string  `json:"albumName"`
	ArtworkURL      string  `json:"artworkUrl"`
	TrackURI        string  `json:"trackUri"`
	SongDurationSec float64 `json:"songDurationSec"`
}

// JukeboxArea is a zone with a shared music queue. Unlike the other
// kinds it has no activation precondition: players are captured on
// entry regardless of queue state, and every update is accepted. The
// search list holds the town's last catalog search results.
type JukeboxArea struct {
	areaBase

	volume     int
	queue      []Song
	searchList []Song
}

func NewJukeboxArea(id string, bounds BoundingBox, emitter AreaEmitter) *JukeboxArea {
	a := &JukeboxArea{areaBase: newAreaBase(id, bounds, emitter)}
	a.toModel = a.model
	return a
}

func (a *JukeboxArea) Kind() string       { return KindJukeboxArea }
func (a *JukeboxArea) Volume() int        { return a.volume }
func (a *JukeboxArea) Queue() []Song      { return a.queue }
func (a *JukeboxArea) SearchList() []Song { return a.searchList }

// IsPlaying is derived: the jukebox plays whenever the queue is
// non-empty.
func (a *JukeboxArea) IsPlaying() bool { return len(a.queue) > 0 }

// IsActive always holds; a jukebox captures passing players even with
// an empty queue.
func (a *JukeboxArea) IsActive() bool { return true }

// Update applies the fields present in the model; absent fields keep
// their current value, so a volume-only update leaves the queue
// playing. Clearing the queue takes an explicit empty list. Jukebox
// updates carry no precondition.
func (a *JukeboxArea) Update(model InteractableModel) bool {
	if model.Volume != nil {
		a.volume = *model.Volume
	}
	if model.Queue != nil {
		a.queue = model.Queue
	}
	if model.SearchList != nil {
		a.searchList = model.SearchList
	}
	return true
}

func (a *JukeboxArea) ToModel() InteractableModel { return a.model() }

func (a *JukeboxArea) model() InteractableModel {
	playing := a.IsPlaying()
	volume := a.volume
	return InteractableModel{
		Kind:       KindJukeboxArea,
		ID:         a.id,
		Occupants:  a.OccupantIDs(),
		IsPlaying:  &playing,
		Volume:     &volume,
		Queue:      a.queue,
		SearchList: a.searchList,
	}
}
