package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/abhisek/edumate/internal/validate"
)

// maxBodyBytes bounds JSON request bodies. Image uploads use maxImageBytes.
const (
	maxBodyBytes  = 1 << 20
	maxImageBytes = 10 << 20
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, details map[string]string) {
	var kind string
	switch status {
	case http.StatusBadRequest:
		kind = "bad_request"
	case http.StatusNotFound:
		kind = "not_found"
	case http.StatusConflict:
		kind = "conflict"
	case http.StatusRequestEntityTooLarge:
		kind = "too_large"
	case http.StatusServiceUnavailable:
		kind = "unavailable"
	default:
		kind = "internal_error"
	}
	writeJSON(w, status, ErrorResponse{Error: kind, Message: message, Details: details})
}

// decodeJSON reads one JSON object into dst and validates it. It writes
// the error response itself and reports whether the handler may go on.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "request body is empty", nil)
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err), nil)
		}
		return false
	}
	if dec.More() {
		writeError(w, http.StatusBadRequest, "request body must hold a single JSON object", nil)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, err error) {
	if validate.IsError(err) {
		writeError(w, http.StatusBadRequest, "validation failed", validate.Fields(err))
		return
	}
	writeError(w, http.StatusBadRequest, err.Error(), nil)
}
