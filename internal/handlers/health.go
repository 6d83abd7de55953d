package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// HealthResponse is the body for GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthHandler reports service liveness.
type HealthHandler struct {
	logger *slog.Logger
}

func NewHealthHandler(logger *slog.Logger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed,
			"Method not allowed",
			"Only GET is supported for this endpoint")
		return
	}

	h.logger.Debug("Health check requested", "remote_addr", r.RemoteAddr)

	writeJSON(w, h.logger, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Message:   "AI Dungeon Master API is running",
		Timestamp: time.Now(),
	})
}
