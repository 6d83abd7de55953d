package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the JSON body for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, errText, message string) {
	writeJSON(w, logger, status, ErrorResponse{
		Success: false,
		Error:   errText,
		Message: message,
	})
}

// NotFound returns the JSON 404 handler for unknown routes.
func NotFound(logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("Unknown route", "method", r.Method, "path", r.URL.Path)
		writeError(w, logger, http.StatusNotFound,
			"Endpoint not found",
			"The requested API endpoint does not exist")
	})
}
