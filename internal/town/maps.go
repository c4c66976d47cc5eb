package town

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TiledMap is the subset of the Tiled JSON map format the server cares
// about: the object layer that defines interactable areas.
type TiledMap struct {
	Layers []TiledLayer `json:"layers"`
}

type TiledLayer struct {
	Name    string        `json:"name"`
	Objects []TiledObject `json:"objects"`
}

// TiledObject is one authored rectangle. Name becomes the area id and
// Type selects the area kind.
type TiledObject struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

const objectLayerName = "Objects"

// Objects returns the contents of the map's object layer.
func (m *TiledMap) Objects() ([]TiledObject, error) {
	for _, layer := range m.Layers {
		if layer.Name == objectLayerName {
			return layer.Objects, nil
		}
	}
	return nil, fmt.Errorf("map has no %q layer", objectLayerName)
}

// Validate satisfies the map store's load-time check.
func (m *TiledMap) Validate() error {
	_, err := m.Objects()
	return err
}

func (o TiledObject) boundingBox() (BoundingBox, error) {
	if o.Width <= 0 || o.Height <= 0 {
		return BoundingBox{}, fmt.Errorf("malformed area %q: width and height must be positive", o.Name)
	}
	return BoundingBox{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}, nil
}

// MapStore loads every .json map under a directory at startup and
// serves them by file name. Map files never change at runtime.
type MapStore struct {
	mu   sync.RWMutex
	maps map[string]*TiledMap
}

func NewMapStore(dir string) (*MapStore, error) {
	s := &MapStore{maps: map[string]*TiledMap{}}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading map %s: %w", path, err)
		}
		m := &TiledMap{}
		if err := json.Unmarshal(data, m); err != nil {
			return fmt.Errorf("parsing map %s: %w", filepath.Base(path), err)
		}
		if err := m.Validate(); err != nil {
			return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
		}

		s.maps[filepath.Base(path)] = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Get returns the parsed map for the given file name.
func (s *MapStore) Get(name string) (*TiledMap, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.maps[name]
	return m, ok
}
