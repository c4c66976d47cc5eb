package town

// DiscussionArea is a zone whose shared state is a single topic.
// Setting a topic activates the area; activation is one-way until the
// last occupant leaves, which clears the topic. The update path never
// clears a topic directly.
type DiscussionArea struct {
	areaBase

	topic string
}

func NewDiscussionArea(id string, bounds BoundingBox, emitter AreaEmitter) *DiscussionArea {
	a := &DiscussionArea{areaBase: newAreaBase(id, bounds, emitter)}
	a.toModel = a.model
	a.onEmptied = func() { a.topic = "" }
	return a
}

func (a *DiscussionArea) Kind() string  { return KindDiscussionArea }
func (a *DiscussionArea) Topic() string { return a.topic }

// IsActive reports whether a topic has been set.
func (a *DiscussionArea) IsActive() bool { return a.topic != "" }

// Update sets the topic. Requests with an empty topic, or arriving
// while a topic is already set, are rejected without state change.
func (a *DiscussionArea) Update(model InteractableModel) bool {
	if model.Topic == "" || a.topic != "" {
		return false
	}
	a.topic = model.Topic
	return true
}

func (a *DiscussionArea) ToModel() InteractableModel { return a.model() }

func (a *DiscussionArea) model() InteractableModel {
	return InteractableModel{
		Kind:      KindDiscussionArea,
		ID:        a.id,
		Occupants: a.OccupantIDs(),
		Topic:     a.topic,
	}
}
