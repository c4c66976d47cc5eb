package town

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Summary is the public listing entry for a town.
type Summary struct {
	TownID           string `json:"townID"`
	FriendlyName     string `json:"friendlyName"`
	CurrentOccupancy int    `json:"currentOccupancy"`
	MaximumOccupancy int    `json:"maximumOccupancy"`
}

// Store is the registry of live towns. It is constructed once in the
// worker builder and passed by reference to the request and connection
// handlers; town mutation only happens through its password-gated entry
// points.
type Store struct {
	mu    sync.RWMutex
	towns map[string]*Town

	pub        Publisher
	maps       *MapStore
	defaultMap string
}

func NewStore(pub Publisher, maps *MapStore, defaultMap string) *Store {
	return &Store{
		towns:      map[string]*Town{},
		pub:        pub,
		maps:       maps,
		defaultMap: defaultMap,
	}
}

// CreateTown builds a town from the named map file (or the configured
// default when empty) and registers it. Map problems — missing file,
// missing object layer, duplicate area ids, overlapping areas — abort
// creation entirely; no partial town is left behind.
func (s *Store) CreateTown(friendlyName string, publiclyListed bool, mapFile string) (*Town, error) {
	if friendlyName == "" {
		return nil, fmt.Errorf("friendlyName must be specified")
	}
	if mapFile == "" {
		mapFile = s.defaultMap
	}
	m, ok := s.maps.Get(mapFile)
	if !ok {
		return nil, fmt.Errorf("unknown map file %q", mapFile)
	}

	t := New(friendlyName, publiclyListed, uuid.NewString(), s.pub)
	if err := t.InitializeFromMap(m); err != nil {
		return nil, fmt.Errorf("initializing town from map %q: %w", mapFile, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.towns[t.ID()] = t
	return t, nil
}

// ListTowns returns summaries of publicly listed towns only.
func (s *Store) ListTowns() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := []Summary{}
	for _, t := range s.towns {
		if !t.IsPubliclyListed() {
			continue
		}
		summaries = append(summaries, Summary{
			TownID:           t.ID(),
			FriendlyName:     t.FriendlyName(),
			CurrentOccupancy: t.Occupancy(),
			MaximumOccupancy: t.Capacity(),
		})
	}
	return summaries
}

// UpdateTown applies the requested settings changes. It returns false,
// mutating nothing, when the id is unknown or the password does not
// match.
func (s *Store) UpdateTown(id, password string, friendlyName *string, publiclyListed *bool) bool {
	t := s.GetTown(id)
	if t == nil || t.UpdatePassword() != password {
		return false
	}
	if friendlyName != nil {
		t.SetFriendlyName(*friendlyName)
	}
	if publiclyListed != nil {
		t.SetIsPubliclyListed(*publiclyListed)
	}
	return true
}

// DeleteTown force-disconnects every player of the town and removes it
// from the registry. Returns false when the id is unknown or the
// password does not match.
func (s *Store) DeleteTown(id, password string) bool {
	s.mu.Lock()
	t, ok := s.towns[id]
	if !ok || t.UpdatePassword() != password {
		s.mu.Unlock()
		return false
	}
	delete(s.towns, id)
	s.mu.Unlock()

	t.DisconnectAllPlayers()
	return true
}

// GetTown returns the live town with the given id, or nil.
func (s *Store) GetTown(id string) *Town {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.towns[id]
}
