package town

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hearthview/go-town/internal/random"
)

const (
	defaultCapacity      = 50
	updatePasswordLength = 24
)

// Town is the per-session coordinator. It owns the canonical player and
// area state and is the only place that mutates either. All handler
// methods serialize on one mutex, so message handling interleaves at
// handler granularity; collaborator calls (video tokens, catalog
// searches) happen in the session/api layers before any Town method is
// entered.
type Town struct {
	mu sync.Mutex

	id             string
	friendlyName   string
	updatePassword string
	publiclyListed bool
	capacity       int

	players       []*Player
	interactables []Interactable

	pub Publisher
}

// New creates a town with a fresh update password. Areas are added
// afterward via InitializeFromMap.
func New(friendlyName string, publiclyListed bool, id string, pub Publisher) *Town {
	return &Town{
		id:             id,
		friendlyName:   friendlyName,
		updatePassword: random.MustString(updatePasswordLength),
		publiclyListed: publiclyListed,
		capacity:       defaultCapacity,
		pub:            pub,
	}
}

func (t *Town) ID() string             { return t.id }
func (t *Town) UpdatePassword() string { return t.updatePassword }
func (t *Town) Capacity() int          { return t.capacity }

func (t *Town) FriendlyName() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.friendlyName
}

func (t *Town) SetFriendlyName(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.friendlyName = name
	t.broadcastEvent(EventTownSettingsUpdated, TownSettingsUpdate{FriendlyName: &name})
}

func (t *Town) IsPubliclyListed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.publiclyListed
}

func (t *Town) SetIsPubliclyListed(listed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.publiclyListed = listed
	t.broadcastEvent(EventTownSettingsUpdated, TownSettingsUpdate{IsPubliclyListed: &listed})
}

// Occupancy returns the number of connected players.
func (t *Town) Occupancy() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.players)
}

// InitializeFromMap instantiates one area per typed object in the map's
// object layer, skipping unknown types, then checks the whole-town
// layout invariants. Any error here is fatal to town creation.
func (t *Town) InitializeFromMap(m *TiledMap) error {
	objects, err := m.Objects()
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, obj := range objects {
		bounds, err := obj.boundingBox()
		if err != nil {
			return err
		}
		switch obj.Type {
		case KindDiscussionArea:
			t.interactables = append(t.interactables, NewDiscussionArea(obj.Name, bounds, t))
		case KindMediaArea:
			t.interactables = append(t.interactables, NewMediaArea(obj.Name, bounds, t))
		case KindJukeboxArea:
			t.interactables = append(t.interactables, NewJukeboxArea(obj.Name, bounds, t))
		}
	}

	return t.validateInteractables()
}

func (t *Town) validateInteractables() error {
	seen := make(map[string]bool, len(t.interactables))
	for _, area := range t.interactables {
		if seen[area.ID()] {
			return fmt.Errorf("duplicate interactable id %q", area.ID())
		}
		seen[area.ID()] = true
	}

	// O(n²) is fine here; area counts are small and this runs once.
	for i, area := range t.interactables {
		for _, other := range t.interactables[i+1:] {
			if Overlaps(area, other) {
				return fmt.Errorf("interactables %q and %q overlap", area.ID(), other.ID())
			}
		}
	}
	return nil
}

// AddPlayer registers an already-constructed player and announces the
// arrival town-wide. The caller completes the join handshake (video
// token, initialize message) around this call.
func (t *Town) AddPlayer(p *Player) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.players = append(t.players, p)
	t.broadcastEvent(EventPlayerJoined, p.ToModel())
}

// RemovePlayer removes the player from its area (if any) and the
// registry in one step, then announces the departure.
func (t *Town) RemovePlayer(p *Player) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id := p.Location.InteractableID; id != "" {
		if area := t.findInteractable(id); area != nil {
			area.Remove(p)
		}
	}
	for i, other := range t.players {
		if other.ID == p.ID {
			t.players = append(t.players[:i], t.players[i+1:]...)
			break
		}
	}
	t.broadcastEvent(EventPlayerDisconnect, p.ToModel())
}

// UpdatePlayerLocation applies a movement message: resolve any area
// transition, store the new location, and broadcast the player's full
// model to everyone, mover included.
func (t *Town) UpdatePlayerLocation(p *Player, loc Location) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prior := t.findInteractable(p.Location.InteractableID)
	if prior != nil && prior.Contains(loc.X, loc.Y) {
		loc.InteractableID = prior.ID()
		p.Location = loc
	} else {
		if prior != nil {
			prior.Remove(p)
		}
		loc.InteractableID = ""
		p.Location = loc
		for _, area := range t.interactables {
			if area.IsActive() && area.Contains(loc.X, loc.Y) {
				area.Add(p)
				break
			}
		}
	}

	t.broadcastEvent(EventPlayerMoved, p.ToModel())
}

// HandleInteractableUpdate processes a state-mutation request from the
// realtime channel. Unknown ids and kind mismatches are dropped
// silently; one town hosts heterogeneous area kinds on a single message
// channel, so a non-matching message is noise, not an error. The
// rebroadcast to the other connections happens before the canonical
// write; both complete before this returns.
func (t *Town) HandleInteractableUpdate(actor *Player, model InteractableModel) {
	t.mu.Lock()
	defer t.mu.Unlock()

	area := t.findInteractable(model.ID)
	if area == nil || area.Kind() != model.Kind {
		slog.Debug("dropping interactable update", "town", t.id, "id", model.ID, "kind", model.Kind)
		return
	}

	t.broadcastEventExcept(actor.ID, EventInteractableUpdate, model)
	if !area.Update(model) {
		slog.Debug("interactable update rejected", "town", t.id, "id", model.ID)
	}
}

// HandleChat rebroadcasts a chat message town-wide, unmodified.
func (t *Town) HandleChat(raw json.RawMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.broadcast(Message{Type: EventChatMessage, Payload: raw})
}

// ActivateArea applies an area-kind-specific activation or update
// request from the administrative surface. On success, players already
// standing inside the rectangle become occupants and the new model is
// broadcast town-wide. A false return means the area is unknown, the
// kind does not match, or the kind's precondition failed; nothing
// changed in that case.
func (t *Town) ActivateArea(model InteractableModel) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	area := t.findInteractable(model.ID)
	if area == nil || area.Kind() != model.Kind {
		return false
	}
	if !area.Update(model) {
		return false
	}
	area.AddPlayersWithinBounds(t.players)
	t.broadcastEvent(EventInteractableUpdate, area.ToModel())
	return true
}

// PlayerBySessionToken resolves the player holding the given session
// token, or nil.
func (t *Town) PlayerBySessionToken(token string) *Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.players {
		if p.SessionToken == token {
			return p
		}
	}
	return nil
}

// PlayerModels returns the current roster.
func (t *Town) PlayerModels() []PlayerModel {
	t.mu.Lock()
	defer t.mu.Unlock()
	models := make([]PlayerModel, len(t.players))
	for i, p := range t.players {
		models[i] = p.ToModel()
	}
	return models
}

// InteractableModels returns the full area roster.
func (t *Town) InteractableModels() []InteractableModel {
	t.mu.Lock()
	defer t.mu.Unlock()
	models := make([]InteractableModel, len(t.interactables))
	for i, area := range t.interactables {
		models[i] = area.ToModel()
	}
	return models
}

// Interactable looks up an area by id.
func (t *Town) Interactable(id string) (Interactable, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	area := t.findInteractable(id)
	return area, area != nil
}

// DisconnectAllPlayers broadcasts townClosing; session endpoints close
// their connections when they see it.
func (t *Town) DisconnectAllPlayers() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.broadcastEvent(EventTownClosing, nil)
}

// AreaChanged implements AreaEmitter. Called by areas from within the
// town's own locked sections; must not take the lock.
func (t *Town) AreaChanged(model InteractableModel) {
	t.broadcastEvent(EventInteractableUpdate, model)
}

// AreaChangedExcept implements AreaEmitter.
func (t *Town) AreaChangedExcept(playerID string, model InteractableModel) {
	t.broadcastEventExcept(playerID, EventInteractableUpdate, model)
}

func (t *Town) findInteractable(id string) Interactable {
	if id == "" {
		return nil
	}
	for _, area := range t.interactables {
		if area.ID() == id {
			return area
		}
	}
	return nil
}

func (t *Town) broadcastEvent(eventType string, payload any) {
	msg, err := NewMessage(eventType, payload)
	if err != nil {
		slog.Error("encoding broadcast", "town", t.id, "event", eventType, "error", err)
		return
	}
	t.broadcast(msg)
}

func (t *Town) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("encoding broadcast envelope", "town", t.id, "event", msg.Type, "error", err)
		return
	}
	if err := t.pub.PublishToTown(t.id, data); err != nil {
		slog.Warn("broadcasting to town", "town", t.id, "event", msg.Type, "error", err)
	}
}

func (t *Town) broadcastEventExcept(excludeID, eventType string, payload any) {
	msg, err := NewMessage(eventType, payload)
	if err != nil {
		slog.Error("encoding broadcast", "town", t.id, "event", eventType, "error", err)
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("encoding broadcast envelope", "town", t.id, "event", eventType, "error", err)
		return
	}
	for _, p := range t.players {
		if p.ID == excludeID {
			continue
		}
		if err := t.pub.PublishToPlayer(p.ID, data); err != nil {
			slog.Warn("broadcasting to player", "town", t.id, "player", p.ID, "event", msg.Type, "error", err)
		}
	}
}
