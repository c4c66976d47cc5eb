package command

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/hearthview/go-town/internal/catalog"
)

type CatalogConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	BaseURL      string `json:"base_url"`
	AuthURL      string `json:"auth_url"`
}

func (c *CatalogConfig) Validate() error {
	el := errors.NewErrorList()

	if c.ClientID == "" {
		el.Add(fmt.Errorf("client_id is required"))
	}
	if c.ClientSecret == "" {
		el.Add(fmt.Errorf("client_secret is required"))
	}

	return el.Err()
}

func (c *CatalogConfig) BuildClient() *catalog.Client {
	var opts []catalog.ClientOpt
	if c.BaseURL != "" {
		opts = append(opts, catalog.WithBaseURL(c.BaseURL))
	}
	if c.AuthURL != "" {
		opts = append(opts, catalog.WithAuthURL(c.AuthURL))
	}
	return catalog.NewClient(c.ClientID, c.ClientSecret, opts...)
}
