package command

import (
	"fmt"
	"net/http"

	"github.com/pixil98/go-errors"

	"github.com/hearthview/go-town/internal/api"
	"github.com/hearthview/go-town/internal/town"
)

type HTTPConfig struct {
	Port uint16 `json:"port"`
}

func (c *HTTPConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}

	return el.Err()
}

func (c *HTTPConfig) BuildServer(store *town.Store, catalog api.TrackSearcher, session http.Handler) *api.Server {
	return api.NewServer(c.Port, store, catalog, session)
}
