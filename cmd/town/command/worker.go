package command

import (
	"fmt"

	"github.com/pixil98/go-service"

	"github.com/hearthview/go-town/internal/messaging"
	"github.com/hearthview/go-town/internal/session"
	"github.com/hearthview/go-town/internal/town"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Create the embedded message broker
	natsServer, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	publisher := messaging.NewNatsPublisher(natsServer)

	// Load the town maps
	mapStore, err := cfg.Maps.BuildMapStore()
	if err != nil {
		return nil, fmt.Errorf("creating map store: %w", err)
	}

	// Create the town registry
	store := town.NewStore(publisher, mapStore, cfg.Maps.DefaultMapFile())

	// Wire up the external collaborators
	catalogClient := cfg.Catalog.BuildClient()
	videoProvider, err := cfg.Video.BuildProvider()
	if err != nil {
		return nil, fmt.Errorf("creating video provider: %w", err)
	}

	// Create the session handler and the http server
	sessionHandler := session.NewHandler(store, videoProvider, natsServer)
	apiServer := cfg.HTTP.BuildServer(store, catalogClient, sessionHandler)

	return service.WorkerList{
		"nats": natsServer,
		"http": apiServer,
	}, nil
}
