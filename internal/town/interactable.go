package town

// Area kind discriminants, matching the `type` field carried by every
// interactableUpdate message and by map object definitions.
const (
	KindDiscussionArea = "DiscussionArea"
	KindMediaArea      = "MediaArea"
	KindJukeboxArea    = "JukeboxArea"
)

// InteractableModel is the single wire representation shared by all
// area kinds. Kind selects which of the optional fields are
// meaningful. Scalars whose zero value is a legal setting (volume,
// playback flag) are pointers so that absence is distinguishable.
type InteractableModel struct {
	Kind      string   `json:"type"`
	ID        string   `json:"id"`
	Occupants []string `json:"occupants"`

	// DiscussionArea
	Topic string `json:"topic,omitempty"`

	// MediaArea
	Video          string  `json:"video,omitempty"`
	ElapsedTimeSec float64 `json:"elapsedTimeSec,omitempty"`

	// MediaArea and JukeboxArea
	IsPlaying *bool `json:"isPlaying,omitempty"`

	// JukeboxArea
	Volume     *int   `json:"volume,omitempty"`
	Queue      []Song `json:"queue,omitempty"`
	SearchList []Song `json:"searchList,omitempty"`
}

// Interactable is a rectangular zone with shared synchronized state.
// Implementations are created once at map load and live for the town's
// lifetime; only their state changes afterward.
type Interactable interface {
	ID() string
	Kind() string
	Bounds() BoundingBox
	Contains(x, y float64) bool

	// IsActive reports whether the area currently carries state worth
	// pulling passing players into (kind specific).
	IsActive() bool

	OccupantIDs() []string
	Add(p *Player)
	Remove(p *Player)
	AddPlayersWithinBounds(players []*Player)

	// Update applies a state mutation request. A false return means the
	// request violated the kind's precondition and nothing changed;
	// callers surface that upward rather than retry.
	Update(model InteractableModel) bool

	ToModel() InteractableModel
}

// AreaEmitter is the broadcast handle handed to each area at
// construction. The town implements it; implementations must not
// acquire the town lock, as areas emit from within locked sections.
type AreaEmitter interface {
	AreaChanged(model InteractableModel)
	AreaChangedExcept(playerID string, model InteractableModel)
}

// Overlaps reports whether two areas' bounding boxes share interior
// area. Only consulted during map-load validation.
func Overlaps(a, b Interactable) bool {
	return a.Bounds().Overlaps(b.Bounds())
}

// areaBase carries the identity, geometry, and occupancy bookkeeping
// common to every area kind. Variants supply their model via the
// toModel hook and state reset behavior via onEmptied.
type areaBase struct {
	id      string
	bounds  BoundingBox
	emitter AreaEmitter

	// insertion order is arrival order
	occupants []string

	toModel   func() InteractableModel
	onEmptied func()
}

func newAreaBase(id string, bounds BoundingBox, emitter AreaEmitter) areaBase {
	return areaBase{
		id:      id,
		bounds:  bounds,
		emitter: emitter,
	}
}

func (a *areaBase) ID() string          { return a.id }
func (a *areaBase) Bounds() BoundingBox { return a.bounds }

func (a *areaBase) Contains(x, y float64) bool {
	return a.bounds.Contains(x, y)
}

func (a *areaBase) OccupantIDs() []string {
	ids := make([]string, len(a.occupants))
	copy(ids, a.occupants)
	return ids
}

// Add appends the player to the occupant list and points the player's
// location back at this area. A player already present is left alone,
// so activation over a standing occupant cannot double-count them. The
// resulting model goes to every town member except the arriving player,
// who receives area state through its own join/initialize path.
func (a *areaBase) Add(p *Player) {
	for _, id := range a.occupants {
		if id == p.ID {
			return
		}
	}
	a.occupants = append(a.occupants, p.ID)
	p.Location.InteractableID = a.id
	a.emitter.AreaChangedExcept(p.ID, a.toModel())
}

// Remove deletes the player from the occupant list. When the last
// occupant leaves, the variant resets its state and the now-empty model
// is broadcast town-wide.
func (a *areaBase) Remove(p *Player) {
	for i, id := range a.occupants {
		if id == p.ID {
			a.occupants = append(a.occupants[:i], a.occupants[i+1:]...)
			break
		}
	}
	p.Location.InteractableID = ""
	if len(a.occupants) == 0 {
		if a.onEmptied != nil {
			a.onEmptied()
		}
		a.emitter.AreaChanged(a.toModel())
	}
}

// AddPlayersWithinBounds pulls in every player already standing inside
// the rectangle. Used when an area activates underneath them.
func (a *areaBase) AddPlayersWithinBounds(players []*Player) {
	for _, p := range players {
		if a.contains(p) {
			a.Add(p)
		}
	}
}

func (a *areaBase) contains(p *Player) bool {
	return a.bounds.Contains(p.Location.X, p.Location.Y)
}
