package api

import (
	"errors"
	"net/http"

	"github.com/nerrad567/hydrochat/internal/chat"
	"github.com/nerrad567/hydrochat/internal/events"
)

// handleListMessages returns every chat message under "chat".
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.messages.List(r.Context())
	s.writeList(w, r, "chat", messages, err)
}

// handleCreateMessage inserts a message.
func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeUnauthorized(w)
		return
	}

	var body messagePayload
	if err := s.bindAndValidate(r, &body); err != nil {
		s.logRejected(r, err)
		writeWrite(w, false)
		return
	}

	id, err := s.messages.Create(r.Context(), body.Message)
	if err != nil {
		s.logWriteError(r, err)
		writeWrite(w, false)
		return
	}

	s.publish(r.Context(), events.New(events.EntityMessage, events.ActionCreated, id, map[string]any{
		"message": body.Message,
	}))
	writeWrite(w, true)
}

// handleUpdateMessage replaces the text of the message with the given id.
func (s *Server) handleUpdateMessage(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeUnauthorized(w)
		return
	}

	var body messageUpdatePayload
	if err := s.bindAndValidate(r, &body); err != nil {
		s.logRejected(r, err)
		writeWrite(w, false)
		return
	}

	id := int64(body.ID)
	if err := s.messages.Update(r.Context(), id, body.Message); err != nil {
		s.logWriteError(r, err)
		writeWrite(w, false)
		return
	}

	s.publish(r.Context(), events.New(events.EntityMessage, events.ActionUpdated, id, map[string]any{
		"message": body.Message,
	}))
	writeWrite(w, true)
}

// handleDeleteMessage removes the message named by ?id=.
func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeUnauthorized(w)
		return
	}

	id, err := parseID(r.URL.Query().Get("id"))
	if err != nil {
		s.logRejected(r, err)
		writeWrite(w, false)
		return
	}

	if err := s.messages.Delete(r.Context(), id); err != nil {
		s.logWriteError(r, err)
		writeWrite(w, false)
		return
	}

	s.publish(r.Context(), events.New(events.EntityMessage, events.ActionDeleted, id, nil))
	writeWrite(w, true)
}

// logRejected records why a request body or query was refused.
func (s *Server) logRejected(r *http.Request, err error) {
	s.logger.Debug().
		Err(err).
		Str("route", r.URL.Path).
		Str("request_id", requestIDFrom(r.Context())).
		Msg("request rejected")
}

// logWriteError records a failed mutation. Expected outcomes (no row
// matched, duplicate, unknown choice) are Debug; anything else is a store
// failure.
func (s *Server) logWriteError(r *http.Request, err error) {
	e := s.logger.Error()
	if isExpectedWriteError(err) {
		e = s.logger.Debug()
	}
	e.Err(err).
		Str("method", r.Method).
		Str("route", r.URL.Path).
		Str("request_id", requestIDFrom(r.Context())).
		Msg("write not applied")
}

func isExpectedWriteError(err error) bool {
	return errors.Is(err, chat.ErrMessageNotFound) ||
		errors.Is(err, chat.ErrEmptyMessage) ||
		isExpectedPollError(err)
}
