package api

import (
	"encoding/json"
	"net/http"
)

// errDatabase is the only store failure detail ever shown to callers.
const errDatabase = "Whoops! Error connecting to the database–please try again!"

// Error represents a structured error response for routes that carry no
// entity payload (unknown route, wrong method, not ready, panic).
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeNotFound       = "not_found"
	ErrCodeInternal       = "internal_error"
	ErrCodeUnavailable    = "unavailable"
	ErrCodeMethodNotAllow = "method_not_allowed"
)

// writeResult is the body of every mutating route.
type writeResult struct {
	Success bool `json:"success"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeList answers a read route: 200 with the rows under field, or 400
// with a null field and the generic error when err is non-nil.
func (s *Server) writeList(w http.ResponseWriter, r *http.Request, field string, rows any, err error) {
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("route", r.URL.Path).
			Str("request_id", requestIDFrom(r.Context())).
			Msg("store read failed")
		writeJSON(w, http.StatusBadRequest, map[string]any{
			field:   nil,
			"error": errDatabase,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{field: rows})
}

// writeFailure answers a read route whose input was rejected before the store
// was consulted.
func writeFailure(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		field:   nil,
		"error": message,
	})
}

// writeWrite answers a mutating route with {success}: 201 on success,
// 400 otherwise.
func writeWrite(w http.ResponseWriter, ok bool) {
	status := http.StatusCreated
	if !ok {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, writeResult{Success: ok})
}

// writeUnauthorized answers a mutating route whose caller failed the key check.
func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, writeResult{Success: false})
}
