package town

import (
	"encoding/json"
	"fmt"
)

// Event names carried on the realtime channel.
const (
	EventInitialize          = "initialize"
	EventPlayerJoined        = "playerJoined"
	EventPlayerMoved         = "playerMoved"
	EventPlayerDisconnect    = "playerDisconnect"
	EventChatMessage         = "chatMessage"
	EventInteractableUpdate  = "interactableUpdate"
	EventTownSettingsUpdated = "townSettingsUpdated"
	EventTownClosing         = "townClosing"
	EventPlayerMovement      = "playerMovement"
)

// Message is the envelope for every realtime event, in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage wraps payload in an envelope of the given type.
func NewMessage(eventType string, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: eventType}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshalling %s payload: %w", eventType, err)
	}
	return Message{Type: eventType, Payload: data}, nil
}

// Publisher delivers encoded messages to realtime subscribers. The
// messaging package provides the NATS-backed implementation; tests
// substitute an in-memory fake.
type Publisher interface {
	// PublishToTown delivers to every connection in the town.
	PublishToTown(townID string, data []byte) error
	// PublishToPlayer delivers to a single player's connection.
	PublishToPlayer(playerID string, data []byte) error
}

// TownSettingsUpdate is the payload of a townSettingsUpdated event.
// Only the changed field is present.
type TownSettingsUpdate struct {
	FriendlyName     *string `json:"friendlyName,omitempty"`
	IsPubliclyListed *bool   `json:"isPubliclyListed,omitempty"`
}

// Initialize is the one-time payload sent to a newly joined connection.
type Initialize struct {
	UserID             string              `json:"userID"`
	SessionToken       string              `json:"sessionToken"`
	ProviderVideoToken string              `json:"providerVideoToken"`
	CurrentPlayers     []PlayerModel       `json:"currentPlayers"`
	FriendlyName       string              `json:"friendlyName"`
	IsPubliclyListed   bool                `json:"isPubliclyListed"`
	Interactables      []InteractableModel `json:"interactables"`
}
