package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/nerrad567/hydrochat/internal/events"
	"github.com/nerrad567/hydrochat/internal/poll"
)

// voteResult is the body of POST /vote.
type voteResult struct {
	Success bool          `json:"success"`
	Choices []poll.Choice `json:"choices"`
}

// clearResult is the body of DELETE /logs.
type clearResult struct {
	Success bool            `json:"success"`
	Logs    []poll.LogEntry `json:"logs"`
}

func (s *Server) handleListChoices(w http.ResponseWriter, r *http.Request) {
	choices, err := s.poll.ListChoices(r.Context())
	s.writeList(w, r, "choices", choices, err)
}

// handleAddChoice adds a language to the poll.
func (s *Server) handleAddChoice(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeUnauthorized(w)
		return
	}

	var body languagePayload
	if err := s.bindAndValidate(r, &body); err != nil {
		s.logRejected(r, err)
		writeWrite(w, false)
		return
	}

	id, err := s.poll.AddChoice(r.Context(), body.Language)
	if err != nil {
		s.logWriteError(r, err)
		writeWrite(w, false)
		return
	}

	s.publish(r.Context(), events.New(events.EntityChoice, events.ActionCreated, id, map[string]any{
		"language": body.Language,
	}))
	writeWrite(w, true)
}

// handleVote records one vote. Voting needs no key.
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var body languagePayload
	if err := s.bindAndValidate(r, &body); err != nil {
		s.logRejected(r, err)
		writeJSON(w, http.StatusBadRequest, voteResult{})
		return
	}

	choices, err := s.poll.RecordVote(r.Context(), body.Language)
	if err != nil {
		s.logWriteError(r, err)
		writeJSON(w, http.StatusBadRequest, voteResult{})
		return
	}

	attrs := map[string]any{"language": body.Language}
	for _, c := range choices {
		if c.Language == body.Language {
			attrs["picks"] = c.Picks
		}
	}
	s.publish(r.Context(), events.New(events.EntityPoll, events.ActionVoted, 0, attrs))

	writeJSON(w, http.StatusCreated, voteResult{Success: true, Choices: choices})
}

// handleListLogs returns the newest vote log entries, ?limit= of them.
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	limit := poll.DefaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeFailure(w, "logs", "limit must be a positive integer")
			return
		}
		limit = n
	}

	logs, err := s.poll.ListLogs(r.Context(), limit)
	s.writeList(w, r, "logs", logs, err)
}

// handleClearLogs wipes the vote log and resets every counter.
func (s *Server) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeUnauthorized(w)
		return
	}

	logs, err := s.poll.ClearHistory(r.Context())
	if err != nil {
		s.logWriteError(r, err)
		writeJSON(w, http.StatusBadRequest, clearResult{})
		return
	}

	s.publish(r.Context(), events.New(events.EntityPoll, events.ActionCleared, 0, nil))
	writeJSON(w, http.StatusCreated, clearResult{Success: true, Logs: logs})
}

func isExpectedPollError(err error) bool {
	return errors.Is(err, poll.ErrChoiceNotFound) ||
		errors.Is(err, poll.ErrChoiceExists) ||
		errors.Is(err, poll.ErrEmptyLanguage)
}
