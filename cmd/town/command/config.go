package command

import (
	"github.com/pixil98/go-errors"
)

type Config struct {
	HTTP    HTTPConfig    `json:"http"`
	Nats    NatsConfig    `json:"nats"`
	Maps    MapsConfig    `json:"maps"`
	Catalog CatalogConfig `json:"catalog"`
	Video   VideoConfig   `json:"video"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.HTTP.Validate())
	el.Add(c.Nats.Validate())
	el.Add(c.Maps.Validate())
	el.Add(c.Catalog.Validate())
	el.Add(c.Video.Validate())

	return el.Err()
}
