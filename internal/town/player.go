package town

import (
	"github.com/google/uuid"

	"github.com/hearthview/go-town/internal/random"
)

// Location is an avatar's position on the 2-D plane. InteractableID is
// a weak back-reference to the area currently containing the player; it
// is set and cleared only by the town's movement step.
type Location struct {
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Rotation       string  `json:"rotation"`
	Moving         bool    `json:"moving"`
	InteractableID string  `json:"interactableID,omitempty"`
}

// Player is one connected avatar. ID and SessionToken are generated at
// construction and never change; the session token is the credential
// for the player's own administrative requests within the town.
type Player struct {
	ID           string
	UserName     string
	Location     Location
	SessionToken string

	videoToken string
}

const sessionTokenLength = 24

func NewPlayer(userName string) *Player {
	return &Player{
		ID:           uuid.NewString(),
		UserName:     userName,
		Location:     Location{Rotation: "front"},
		SessionToken: random.MustString(sessionTokenLength),
	}
}

// VideoToken returns the opaque video-conferencing credential assigned
// during the join sequence.
func (p *Player) VideoToken() string {
	return p.videoToken
}

func (p *Player) SetVideoToken(token string) {
	p.videoToken = token
}

// PlayerModel is the wire representation of a player.
type PlayerModel struct {
	ID       string   `json:"id"`
	UserName string   `json:"userName"`
	Location Location `json:"location"`
}

func (p *Player) ToModel() PlayerModel {
	return PlayerModel{
		ID:       p.ID,
		UserName: p.UserName,
		Location: p.Location,
	}
}
