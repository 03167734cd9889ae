// Package handlers contains the HTTP handlers for the Inkwell API.
// Handlers are grouped by concern (admin, public, auth, media) and
// receive their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"inkwell/internal/blog"
)

// maxBodyBytes caps JSON request bodies. Post content tops out at 100k
// characters, so 1 MB leaves generous headroom.
const maxBodyBytes = 1 << 20

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// errorBody is the uniform error payload shape.
type errorBody struct {
	Error string `json:"error"`
}

// respondError writes a JSON error body with the given status.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Error: message})
}

// respondNotFound routes missing resources to a uniform 404 payload.
func respondNotFound(w http.ResponseWriter) {
	respondError(w, http.StatusNotFound, "Not found.")
}

// decodeJSON reads a size-limited JSON body into dst, rejecting unknown
// fields so typos in payloads fail loudly instead of silently.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// respondServiceError maps blog service errors onto the wire: validation
// problems are the caller's to fix (400), missing capability is 403, and
// anything else is logged and reported generically (no retry is issued —
// the user retries manually).
func respondServiceError(w http.ResponseWriter, op string, err error) {
	var verr *blog.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, blog.ErrForbidden):
		respondError(w, http.StatusForbidden, "Forbidden.")
	default:
		slog.Error(op+" failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
	}
}
