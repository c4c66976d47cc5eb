package messaging

import "fmt"

// Subject layout for the realtime channel: one subject per town for
// town-wide events, one per player for targeted and all-but-one
// delivery.
func TownSubject(townID string) string {
	return fmt.Sprintf("town.%s", townID)
}

func PlayerSubject(playerID string) string {
	return fmt.Sprintf("player.%s", playerID)
}

// NatsPublisher routes town broadcasts onto the broker's subjects. It
// implements the town package's Publisher contract.
type NatsPublisher struct {
	server *NatsServer
}

func NewNatsPublisher(server *NatsServer) *NatsPublisher {
	return &NatsPublisher{server: server}
}

func (p *NatsPublisher) PublishToTown(townID string, data []byte) error {
	return p.server.Publish(TownSubject(townID), data)
}

func (p *NatsPublisher) PublishToPlayer(playerID string, data []byte) error {
	return p.server.Publish(PlayerSubject(playerID), data)
}
