package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"dungeonmaster/internal/session"
	"dungeonmaster/pkg/game"
)

// GameHandler maps the /api game endpoints onto registry calls.
//
// Routes:
//
//	POST /api/start-game   - start a new session (or resume a persisted one)
//	POST /api/make-choice  - process a choice and generate the next turn
//	POST /api/get-stats    - current player stats
//	POST /api/save-game    - write a save file
//	POST /api/get-history  - recent story entries
//	POST /api/end-session  - auto-save and remove the session
//	GET  /api/sessions     - live session IDs (monitoring)
type GameHandler struct {
	registry *session.Registry
	logger   *slog.Logger
}

func NewGameHandler(registry *session.Registry, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		registry: registry,
		logger:   logger,
	}
}

func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := strings.TrimPrefix(r.URL.Path, "/api/")

	if route == "sessions" {
		if r.Method != http.MethodGet {
			h.methodNotAllowed(w, r, http.MethodGet)
			return
		}
		h.handleSessions(w, r)
		return
	}

	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, r, http.MethodPost)
		return
	}

	switch route {
	case "start-game":
		h.handleStartGame(w, r)
	case "make-choice":
		h.handleMakeChoice(w, r)
	case "get-stats":
		h.handleGetStats(w, r)
	case "save-game":
		h.handleSaveGame(w, r)
	case "get-history":
		h.handleGetHistory(w, r)
	case "end-session":
		h.handleEndSession(w, r)
	default:
		NotFound(h.logger).ServeHTTP(w, r)
	}
}

func (h *GameHandler) methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	h.logger.Warn("Method not allowed", "method", r.Method, "path", r.URL.Path)
	writeError(w, h.logger, http.StatusMethodNotAllowed,
		"Method not allowed",
		"Only "+allowed+" is supported for this endpoint")
}

type startGameRequest struct {
	PlayerName string `json:"player_name"`
	SessionID  string `json:"session_id,omitempty"`
}

type startGameResponse struct {
	Success     bool             `json:"success"`
	SessionID   string           `json:"session_id"`
	Story       string           `json:"story"`
	Choices     []string         `json:"choices"`
	PlayerStats game.PlayerStats `json:"player_stats"`
	Message     string           `json:"message"`
}

func (h *GameHandler) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in start-game request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest,
			"Invalid request body",
			"Expected a JSON body")
		return
	}

	// A session_id in the request attempts to resume a persisted
	// session before falling back to a fresh game.
	if req.SessionID != "" {
		if id, err := uuid.Parse(req.SessionID); err == nil {
			if result, err := h.registry.ResumeSession(r.Context(), id); err == nil {
				writeJSON(w, h.logger, http.StatusOK, startGameResponse{
					Success:     true,
					SessionID:   result.SessionID.String(),
					Story:       result.Story,
					Choices:     result.Choices,
					PlayerStats: result.PlayerStats,
					Message:     "Game resumed successfully",
				})
				return
			}
		}
	}

	result, err := h.registry.CreateSession(r.Context(), req.PlayerName)
	if err != nil {
		h.logger.Error("Failed to create session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError,
			err.Error(),
			"Failed to start game")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, startGameResponse{
		Success:     true,
		SessionID:   result.SessionID.String(),
		Story:       result.Story,
		Choices:     result.Choices,
		PlayerStats: result.PlayerStats,
		Message:     "Game started successfully",
	})
}

type makeChoiceRequest struct {
	SessionID   string `json:"session_id"`
	ChoiceIndex *int   `json:"choice_index"`
}

type makeChoiceResponse struct {
	Success      bool             `json:"success"`
	Story        string           `json:"story"`
	Choices      []string         `json:"choices"`
	PlayerStats  game.PlayerStats `json:"player_stats"`
	PlayerAction string           `json:"player_action"`
	Message      string           `json:"message"`
}

func (h *GameHandler) handleMakeChoice(w http.ResponseWriter, r *http.Request) {
	var req makeChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest,
			"Invalid request body",
			"Expected JSON with session_id and choice_index")
		return
	}

	id, ok := h.parseSessionID(w, req.SessionID)
	if !ok {
		return
	}

	if req.ChoiceIndex == nil {
		writeError(w, h.logger, http.StatusBadRequest,
			"Invalid choice index",
			"Please select a valid choice")
		return
	}

	result, err := h.registry.MakeChoice(r.Context(), id, *req.ChoiceIndex)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, makeChoiceResponse{
		Success:      true,
		Story:        result.Story,
		Choices:      result.Choices,
		PlayerStats:  result.PlayerStats,
		PlayerAction: result.PlayerAction,
		Message:      "Choice processed successfully",
	})
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
	SaveName  string `json:"save_name,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

type getStatsResponse struct {
	Success     bool             `json:"success"`
	PlayerStats game.PlayerStats `json:"player_stats"`
	StoryCount  int              `json:"story_count"`
	Message     string           `json:"message"`
}

func (h *GameHandler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSessionRequest(w, r)
	if !ok {
		return
	}
	id, ok := h.parseSessionID(w, req.SessionID)
	if !ok {
		return
	}

	stats, count, err := h.registry.Stats(id)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, getStatsResponse{
		Success:     true,
		PlayerStats: stats,
		StoryCount:  count,
		Message:     "Stats retrieved successfully",
	})
}

type saveGameResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

func (h *GameHandler) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSessionRequest(w, r)
	if !ok {
		return
	}
	id, ok := h.parseSessionID(w, req.SessionID)
	if !ok {
		return
	}

	filename, err := h.registry.SaveGame(id, req.SaveName)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			h.writeRegistryError(w, err)
			return
		}
		h.logger.Error("Save failed", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError,
			err.Error(),
			"Failed to save game")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, saveGameResponse{
		Success:  true,
		Filename: filename,
		Message:  "Game saved successfully",
	})
}

type getHistoryResponse struct {
	Success      bool              `json:"success"`
	History      []game.StoryEntry `json:"history"`
	TotalEntries int               `json:"total_entries"`
	Message      string            `json:"message"`
}

func (h *GameHandler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSessionRequest(w, r)
	if !ok {
		return
	}
	id, ok := h.parseSessionID(w, req.SessionID)
	if !ok {
		return
	}

	history, total, err := h.registry.History(id, req.Limit)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, getHistoryResponse{
		Success:      true,
		History:      history,
		TotalEntries: total,
		Message:      "History retrieved successfully",
	})
}

type endSessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *GameHandler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSessionRequest(w, r)
	if !ok {
		return
	}

	// Removing an unknown or malformed id is a silent no-op.
	if id, err := uuid.Parse(req.SessionID); err == nil {
		h.registry.EndSession(r.Context(), id)
	}

	writeJSON(w, h.logger, http.StatusOK, endSessionResponse{
		Success: true,
		Message: "Session ended successfully",
	})
}

type sessionsResponse struct {
	Success        bool     `json:"success"`
	ActiveSessions int      `json:"active_sessions"`
	SessionIDs     []string `json:"session_ids"`
}

func (h *GameHandler) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, sessionsResponse{
		Success:        true,
		ActiveSessions: h.registry.Count(),
		SessionIDs:     h.registry.IDs(),
	})
}

func (h *GameHandler) decodeSessionRequest(w http.ResponseWriter, r *http.Request) (sessionRequest, bool) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest,
			"Invalid request body",
			"Expected JSON with session_id")
		return req, false
	}
	return req, true
}

func (h *GameHandler) parseSessionID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Warn("Invalid session ID", "session_id", raw)
		writeError(w, h.logger, http.StatusBadRequest,
			"Invalid or expired session",
			"Please start a new game")
		return uuid.Nil, false
	}
	return id, true
}

func (h *GameHandler) writeRegistryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, h.logger, http.StatusBadRequest,
			"Invalid or expired session",
			"Please start a new game")
	case errors.Is(err, session.ErrNoGameInProgress):
		writeError(w, h.logger, http.StatusBadRequest,
			"No game in progress",
			"Please start a new game")
	case errors.Is(err, session.ErrInvalidChoice):
		writeError(w, h.logger, http.StatusBadRequest,
			"Invalid choice index",
			"Please select a valid choice")
	default:
		h.logger.Error("Unexpected registry error", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError,
			"Internal server error",
			"An unexpected error occurred")
	}
}
