// Package video wraps the external video-conferencing collaborator as
// the single opaque capability the join sequence needs: a credential
// keyed by town and player.
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TokenProvider issues a video credential for a player joining a town.
// Failure aborts the join sequence.
type TokenProvider interface {
	GetToken(ctx context.Context, townID, playerID string) (string, error)
}

// Client fetches credentials from an HTTP token service.
type Client struct {
	httpClient *http.Client
	url        string
}

func NewClient(url string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		url:        url,
	}
}

func (c *Client) GetToken(ctx context.Context, townID, playerID string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"townID":   townID,
		"playerID": playerID,
	})
	if err != nil {
		return "", fmt.Errorf("encoding token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching video token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching video token: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding video token: %w", err)
	}
	if payload.Token == "" {
		return "", fmt.Errorf("token service returned empty token")
	}
	return payload.Token, nil
}

// StaticProvider issues deterministic tokens for development
// deployments without a video service.
type StaticProvider struct{}

func (StaticProvider) GetToken(_ context.Context, townID, playerID string) (string, error) {
	return fmt.Sprintf("%s-%s", townID, playerID), nil
}
