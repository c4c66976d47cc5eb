package command

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/hearthview/go-town/internal/video"
)

type VideoProviderType int

const (
	VideoProviderStatic VideoProviderType = iota
	VideoProviderHTTP
)

func (vt *VideoProviderType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "static":
		*vt = VideoProviderStatic
	case "http":
		*vt = VideoProviderHTTP
	default:
		return fmt.Errorf("unknown video provider type: %s", text)
	}
	return nil
}

type VideoConfig struct {
	Provider VideoProviderType `json:"provider"`
	URL      string            `json:"url,omitempty"`
}

func (c *VideoConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Provider == VideoProviderHTTP && c.URL == "" {
		el.Add(fmt.Errorf("url is required for the http video provider"))
	}

	return el.Err()
}

func (c *VideoConfig) BuildProvider() (video.TokenProvider, error) {
	switch c.Provider {
	case VideoProviderStatic:
		return video.StaticProvider{}, nil
	case VideoProviderHTTP:
		return video.NewClient(c.URL), nil
	default:
		return nil, fmt.Errorf("unknown video provider type: %v", c.Provider)
	}
}
