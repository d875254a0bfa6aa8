package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"numduel/internal/model"
	"numduel/internal/service"
	"numduel/internal/store"
	"numduel/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// GameHandler handles game endpoints
type GameHandler struct {
	gameSvc *service.GameService
}

// NewGameHandler creates a new game handler.
func NewGameHandler(gameSvc *service.GameService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc}
}

// Create handles POST /v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := h.gameSvc.CreateGame(r.Context())
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, model.CreateGameResponse{GameID: id})
}

// Join handles POST /v1/games/{id}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req model.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	resp, err := h.gameSvc.Join(r.Context(), id, req.Username)
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Ready handles POST /v1/games/{id}/ready
func (h *GameHandler) Ready(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	slot := middleware.GetSlot(r.Context())

	resp, err := h.gameSvc.SetReady(r.Context(), id, slot)
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Guess handles POST /v1/games/{id}/guess
func (h *GameHandler) Guess(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	slot := middleware.GetSlot(r.Context())

	var req model.GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Guess == nil {
		writeError(w, http.StatusBadRequest, "no guess provided")
		return
	}

	resp, err := h.gameSvc.Guess(r.Context(), id, slot, *req.Guess)
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Position handles POST /v1/games/{id}/position
func (h *GameHandler) Position(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	slot := middleware.GetSlot(r.Context())

	var req model.PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.X == nil || req.Y == nil {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}

	err := h.gameSvc.UpdatePosition(r.Context(), id, slot, model.Position{X: *req.X, Y: *req.Y})
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// State handles GET /v1/games/{id}
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	slot := middleware.GetSlot(r.Context())

	game, err := h.gameSvc.GetState(r.Context(), id, slot)
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// Result handles GET /v1/games/{id}/result
func (h *GameHandler) Result(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	game, err := h.gameSvc.GetResult(r.Context(), id)
	if err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// errStatus maps service errors to HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrGameFinished):
		return http.StatusForbidden
	case errors.Is(err, service.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrGameFull):
		return http.StatusConflict
	case errors.Is(err, service.ErrWrongPhase), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
