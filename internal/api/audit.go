package api

import (
	"net/http"
	"strconv"

	"github.com/nerrad567/hydrochat/internal/audit"
)

// handleListAudit returns one page of the audit trail. Reading it needs the key.
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"audit": nil,
			"error": "unauthorized",
		})
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
	}

	var err error
	if filter.Limit, err = queryInt(q.Get("limit")); err != nil {
		writeFailure(w, "audit", "limit must be a non-negative integer")
		return
	}
	if filter.Offset, err = queryInt(q.Get("offset")); err != nil {
		writeFailure(w, "audit", "offset must be a non-negative integer")
		return
	}

	result, err := s.audit.List(r.Context(), filter)
	s.writeList(w, r, "audit", result, err)
}

// queryInt parses an optional non-negative query value; "" yields 0.
func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
