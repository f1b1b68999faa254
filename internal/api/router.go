package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	// Introspection (no store access)
	s.handle(r, http.MethodGet, "/", s.handleRoot)
	s.handle(r, http.MethodGet, "/health", s.handleHealth)
	s.handle(r, http.MethodGet, "/metrics", s.handleMetrics)

	r.Group(func(r chi.Router) {
		r.Use(s.readyMiddleware)

		// Chat messages
		s.handle(r, http.MethodGet, "/messages", s.handleListMessages)
		s.handle(r, http.MethodPost, "/message", s.handleCreateMessage)
		s.handle(r, http.MethodPut, "/message", s.handleUpdateMessage)
		s.handle(r, http.MethodDelete, "/message", s.handleDeleteMessage)

		// Hydrometric data (read-only)
		s.handle(r, http.MethodGet, "/hydrometric_station", s.handleListStations)
		s.handle(r, http.MethodGet, "/hydrometric_station_by_name", s.handleStationsByName)
		s.handle(r, http.MethodGet, "/waterlevel", s.handleListWaterLevels)
		s.handle(r, http.MethodGet, "/waterlevel_by_id", s.handleWaterLevelsByStation)

		// Poll
		s.handle(r, http.MethodGet, "/choices", s.handleListChoices)
		s.handle(r, http.MethodPost, "/choice", s.handleAddChoice)
		s.handle(r, http.MethodPost, "/vote", s.handleVote)
		s.handle(r, http.MethodGet, "/logs", s.handleListLogs)
		s.handle(r, http.MethodDelete, "/logs", s.handleClearLogs)

		// Audit trail
		s.handle(r, http.MethodGet, "/audit", s.handleListAudit)
	})

	return r
}

// handle registers a route and records it for the root descriptor.
func (s *Server) handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	r.Method(method, pattern, h)

	s.routesMu.Lock()
	s.routes = append(s.routes, method+" "+pattern)
	s.routesMu.Unlock()
}

// rootDescriptor is the body of GET /.
type rootDescriptor struct {
	Title  string   `json:"title"`
	Intro  string   `json:"intro"`
	Routes []string `json:"routes"`
}

// handleRoot lists every registered route.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootDescriptor{
		Title:  s.service.Title,
		Intro:  s.service.Intro,
		Routes: s.Routes(),
	})
}

// handleHealth reports the server and store status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, dbStatus, code := "ok", "ok", http.StatusOK
	if err := s.db.HealthCheck(r.Context()); err != nil {
		s.logger.Warn().Err(err).Msg("database health check failed")
		status, dbStatus, code = "degraded", "unavailable", http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":   status,
		"version":  s.version,
		"database": dbStatus,
	})
}
