package command

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/hearthview/go-town/internal/town"
)

type MapsConfig struct {
	Dir        string `json:"dir"`
	DefaultMap string `json:"default_map"`
}

const defaultMapFile = "indoors.json"

func (c *MapsConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Dir == "" {
		el.Add(fmt.Errorf("dir is required"))
	}

	return el.Err()
}

func (c *MapsConfig) BuildMapStore() (*town.MapStore, error) {
	return town.NewMapStore(c.Dir)
}

func (c *MapsConfig) DefaultMapFile() string {
	if c.DefaultMap == "" {
		return defaultMapFile
	}
	return c.DefaultMap
}
