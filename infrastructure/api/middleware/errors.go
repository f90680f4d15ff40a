package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mevzuatlab/mevzuat/application/service"
	"github.com/mevzuatlab/mevzuat/internal/database"
)

// ErrBadRequest marks request decoding and validation failures so WriteError
// maps them to 400.
var ErrBadRequest = errors.New("bad request")

// ErrorResponse is the JSON body of an error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError writes a JSON error response with a status derived from the
// error type.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrClientClosed):
		status = http.StatusServiceUnavailable
	}

	requestID := chimiddleware.GetReqID(r.Context())
	if logger != nil && status >= http.StatusInternalServerError {
		logger.Error("request error",
			"request_id", requestID,
			"status", status,
			"path", r.URL.Path,
			"error", err,
		)
	}

	WriteJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: requestID})
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
