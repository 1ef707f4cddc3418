package request

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Jacobbrewer1/warden/pkg/logging"
)

// NotFoundHandler returns a handler that returns a 404 response.
func NotFoundHandler(l *slog.Logger) http.HandlerFunc {
	return messageHandler(l, http.StatusNotFound, "Not found")
}

// MethodNotAllowedHandler returns a handler that returns a 405 response.
func MethodNotAllowedHandler(l *slog.Logger) http.HandlerFunc {
	return messageHandler(l, http.StatusMethodNotAllowed, "Method not allowed")
}

func messageHandler(l *slog.Logger, status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(NewMessage(message)); err != nil {
			l.Error("Error encoding response",
				slog.String(logging.KeyError, err.Error()),
				slog.String("path", r.URL.Path),
			)
		}
	}
}
