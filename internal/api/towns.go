package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hearthview/go-town/internal/town"
)

// Request headers carrying credentials for gated routes.
const (
	passwordHeader     = "X-Town-Password"
	sessionTokenHeader = "X-Session-Token"
)

const (
	msgInvalidUpdate = "Invalid password or update values specified"
	msgInvalidValues = "Invalid values specified"
)

type townsHandler struct {
	store   *town.Store
	catalog TrackSearcher
}

type createTownRequest struct {
	FriendlyName     string `json:"friendlyName"`
	IsPubliclyListed bool   `json:"isPubliclyListed"`
	MapFile          string `json:"mapFile,omitempty"`
}

type createTownResponse struct {
	TownID             string `json:"townID"`
	TownUpdatePassword string `json:"townUpdatePassword"`
}

type updateTownRequest struct {
	FriendlyName     *string `json:"friendlyName,omitempty"`
	IsPubliclyListed *bool   `json:"isPubliclyListed,omitempty"`
}

func (h *townsHandler) listTowns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListTowns())
}

func (h *townsHandler) createTown(w http.ResponseWriter, r *http.Request) {
	var req createTownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidValues)
		return
	}

	t, err := h.store.CreateTown(req.FriendlyName, req.IsPubliclyListed, req.MapFile)
	if err != nil {
		slog.Debug("create town rejected", "error", err)
		writeError(w, http.StatusBadRequest, msgInvalidValues)
		return
	}

	writeJSON(w, http.StatusOK, createTownResponse{
		TownID:             t.ID(),
		TownUpdatePassword: t.UpdatePassword(),
	})
}

func (h *townsHandler) updateTown(w http.ResponseWriter, r *http.Request) {
	var req updateTownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidUpdate)
		return
	}

	ok := h.store.UpdateTown(r.PathValue("townID"), r.Header.Get(passwordHeader), req.FriendlyName, req.IsPubliclyListed)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidUpdate)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *townsHandler) deleteTown(w http.ResponseWriter, r *http.Request) {
	ok := h.store.DeleteTown(r.PathValue("townID"), r.Header.Get(passwordHeader))
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidUpdate)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *townsHandler) createDiscussionArea(w http.ResponseWriter, r *http.Request) {
	h.activateArea(w, r, town.KindDiscussionArea)
}

func (h *townsHandler) createMediaArea(w http.ResponseWriter, r *http.Request) {
	h.activateArea(w, r, town.KindMediaArea)
}

func (h *townsHandler) createJukeboxArea(w http.ResponseWriter, r *http.Request) {
	h.activateArea(w, r, town.KindJukeboxArea)
}

// activateArea handles the per-kind area creation routes. The session
// token must belong to a player of the addressed town, and the area's
// kind-specific precondition must hold.
func (h *townsHandler) activateArea(w http.ResponseWriter, r *http.Request, kind string) {
	t := h.store.GetTown(r.PathValue("townID"))
	if t == nil || t.PlayerBySessionToken(r.Header.Get(sessionTokenHeader)) == nil {
		writeError(w, http.StatusBadRequest, msgInvalidValues)
		return
	}

	var model town.InteractableModel
	if err := json.NewDecoder(r.Body).Decode(&model); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidValues)
		return
	}
	model.Kind = kind

	if !t.ActivateArea(model) {
		writeError(w, http.StatusBadRequest, msgInvalidValues)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *townsHandler) searchTracks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	songs, err := h.catalog.SearchTracks(r.Context(), query)
	if err != nil {
		slog.Warn("catalog search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch tracks")
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
