// Package catalog talks to the external music-catalog service backing
// jukebox search. The catalog requires an access token obtained through
// a client-credentials grant; the token is fetched lazily and cached
// for the life of the process.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hearthview/go-town/internal/town"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	defaultAuthURL = "https://accounts.spotify.com/api/token"

	searchLimit = 5
)

type Client struct {
	httpClient *http.Client

	baseURL      string
	authURL      string
	clientID     string
	clientSecret string

	mu          sync.Mutex
	accessToken string
}

type ClientOpt func(*Client)

// WithBaseURL overrides the catalog API endpoint (tests).
func WithBaseURL(u string) ClientOpt {
	return func(c *Client) { c.baseURL = u }
}

// WithAuthURL overrides the token endpoint (tests).
func WithAuthURL(u string) ClientOpt {
	return func(c *Client) { c.authURL = u }
}

func NewClient(clientID, clientSecret string, opts ...ClientOpt) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      defaultBaseURL,
		authURL:      defaultAuthURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchTracks queries the catalog for tracks matching query. All
// failures collapse into one opaque error; callers surface it without
// retrying.
func (c *Client) SearchTracks(ctx context.Context, query string) ([]town.Song, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}

	u, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", fmt.Sprintf("%d", searchLimit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searching catalog: unexpected status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("searching catalog: decoding response: %w", err)
	}

	songs := make([]town.Song, 0, len(body.Tracks.Items))
	for _, item := range body.Tracks.Items {
		songs = append(songs, item.song())
	}
	return songs, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching access token: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding access token: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	c.accessToken = body.AccessToken
	return c.accessToken, nil
}

type searchResponse struct {
	Tracks struct {
		Items []trackItem `json:"items"`
	} `json:"tracks"`
}

type trackItem struct {
	Name       string `json:"name"`
	URI        string `json:"uri"`
	DurationMs int    `json:"duration_ms"`
	Artists    []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
}

func (t trackItem) song() town.Song {
	s := town.Song{
		SongName:        t.Name,
		AlbumName:       t.Album.Name,
		TrackURI:        t.URI,
		SongDurationSec: float64(t.DurationMs) / 1000,
	}
	if len(t.Artists) > 0 {
		s.ArtistName = t.Artists[0].Name
	}
	if len(t.Album.Images) > 0 {
		s.ArtworkURL = t.Album.Images[0].URL
	}
	return s
}
