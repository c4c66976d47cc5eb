// Package api exposes the administrative REST surface: town lifecycle
// under password gating, area activation under session-token gating,
// and jukebox catalog search.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthview/go-town/internal/town"
)

// TrackSearcher matches the music-catalog capability the search
// endpoint depends on.
type TrackSearcher interface {
	SearchTracks(ctx context.Context, query string) ([]town.Song, error)
}

// Server is the HTTP worker. It serves both the REST routes and the
// websocket session endpoint.
type Server struct {
	port uint16
	mux  *http.ServeMux
}

func NewServer(port uint16, store *town.Store, catalog TrackSearcher, session http.Handler) *Server {
	h := &townsHandler{store: store, catalog: catalog}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /towns", h.listTowns)
	mux.HandleFunc("POST /towns", h.createTown)
	mux.HandleFunc("GET /towns/jukebox/search", h.searchTracks)
	mux.HandleFunc("PATCH /towns/{townID}", h.updateTown)
	mux.HandleFunc("DELETE /towns/{townID}", h.deleteTown)
	mux.HandleFunc("POST /towns/{townID}/discussionArea", h.createDiscussionArea)
	mux.HandleFunc("POST /towns/{townID}/mediaArea", h.createMediaArea)
	mux.HandleFunc("POST /towns/{townID}/jukeboxArea", h.createJukeboxArea)
	mux.Handle("GET /towns/{townID}/session", session)

	return &Server{port: port, mux: mux}
}

// Handler exposes the route table for in-process testing.
func (s *Server) Handler() http.Handler { return s.mux }

// Start serves until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	svr := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.mux,
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := svr.Shutdown(shutdownCtx); err != nil {
				slog.Warn("shutting down http server", "error", err)
			}
		case <-done:
		}
	}()

	slog.InfoContext(ctx, "http server listening", "addr", svr.Addr)

	err := svr.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http on port %d: %w", s.port, err)
	}
	return nil
}
