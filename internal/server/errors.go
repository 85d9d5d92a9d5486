package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/goliatone/go-profileform/internal/logging"
)

// handleError logs err with its goerr context and writes a JSON error body.
// Client errors log at warn; 5xx responses hide the error text.
func handleError(w http.ResponseWriter, r *http.Request, err error, status int) {
	logger := logging.From(r.Context())
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	attrs := []any{"status", status, "error", err.Error()}
	var ge *goerr.Error
	if errors.As(err, &ge) {
		attrs = append(attrs, "values", ge.Values())
	}
	logger.Log(r.Context(), level, "HTTP error", attrs...)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	writeJSON(w, r, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		logging.From(r.Context()).Error("failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
