package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tomashby/ramsgen/internal/domain"
)

// maxRequestBody caps JSON request bodies at 1 MiB. Agent responses are the
// largest payloads accepted and sit well under this.
const maxRequestBody = 1 << 20

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// decodeJSON reads a JSON request body into dst, enforcing the body size cap.
// Returns a domain validation error suitable for ErrorResponse.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	const op = "handler.decode"

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return domain.Errorf(domain.ETOOLARGE, op, "request body exceeds %d bytes", maxErr.Limit)
		}
		return domain.Invalid(op, "request body is not valid JSON")
	}
	return nil
}
