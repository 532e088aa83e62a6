package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// --- Вспомогательные функции ---

func respondJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.ErrorContext(r.Context(), "Failed to encode JSON response",
				slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, detail string) {
	respondJSON(w, r, logger, status, map[string]string{"detail": detail})
}
