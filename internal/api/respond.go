// Package api exposes the recruit pipeline over HTTP. Error bodies use the
// legacy flat {"error": "message"} shape expected by existing clients.
package api

import (
	"encoding/json"
	"net/http"

	"recruit-backend/internal/apperr"
	"recruit-backend/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := apperr.StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": apperr.MessageOf(err)})
}
