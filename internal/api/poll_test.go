package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/hydrochat/internal/poll"
)

type choicesBody struct {
	Choices []poll.Choice `json:"choices"`
	Error   string        `json:"error"`
}

type logsBody struct {
	Logs  []poll.LogEntry `json:"logs"`
	Error string          `json:"error"`
}

func picksByLanguage(choices []poll.Choice) map[string]int64 {
	out := make(map[string]int64, len(choices))
	for _, c := range choices {
		out[c.Language] = c.Picks
	}
	return out
}

func TestListChoices(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/choices", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[choicesBody](t, rec)
	assert.Equal(t, map[string]int64{"HTML": 0, "JavaScript": 0, "CSS": 0}, picksByLanguage(body.Choices))
}

func TestVote(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.doJSON(t, http.MethodPost, "/vote", map[string]string{"language": "CSS"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode[voteResult](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, int64(1), picksByLanguage(body.Choices)["CSS"])

	logs := decode[logsBody](t, env.do(t, http.MethodGet, "/logs", nil, nil))
	require.Len(t, logs.Logs, 1)
	assert.Equal(t, "CSS", logs.Logs[0].Choice)

	env.events.mu.Lock()
	defer env.events.mu.Unlock()
	require.Len(t, env.events.events, 1)
	assert.Equal(t, "poll.voted", env.events.events[0].Type())
	assert.Equal(t, int64(1), env.events.events[0].Attrs["picks"])
}

func TestVote_FormBody(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.doForm(t, http.MethodPost, "/vote", url.Values{"language": {"HTML"}}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestVote_Rejected(t *testing.T) {
	env := newTestEnv(t, nil)

	for name, body := range map[string]any{
		"unknown language": map[string]string{"language": "COBOL"},
		"missing language": map[string]string{},
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.doJSON(t, http.MethodPost, "/vote", body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"success":false,"choices":null}`, rec.Body.String())
		})
	}

	logs := decode[logsBody](t, env.do(t, http.MethodGet, "/logs", nil, nil))
	assert.Empty(t, logs.Logs)
}

func TestAddChoice(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.doJSON(t, http.MethodPost, "/choice", map[string]string{"language": "Go"}, testAdminKey)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = env.doJSON(t, http.MethodPost, "/choice", map[string]string{"language": "Go"}, testAdminKey)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[choicesBody](t, env.do(t, http.MethodGet, "/choices", nil, nil))
	assert.Contains(t, picksByLanguage(body.Choices), "Go")
	assert.Equal(t, []string{"choice.created"}, env.events.types())
}

func TestListLogs_Limit(t *testing.T) {
	env := newTestEnv(t, nil)

	for range 3 {
		rec := env.doJSON(t, http.MethodPost, "/vote", map[string]string{"language": "HTML"}, "")
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	logs := decode[logsBody](t, env.do(t, http.MethodGet, "/logs?limit=2", nil, nil))
	assert.Len(t, logs.Logs, 2)

	rec := env.do(t, http.MethodGet, "/logs?limit=zero", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearLogs(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.doJSON(t, http.MethodPost, "/vote", map[string]string{"language": "JavaScript"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(t, http.MethodDelete, "/logs", nil, testAdminKey)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"logs":[]}`, rec.Body.String())

	choices := decode[choicesBody](t, env.do(t, http.MethodGet, "/choices", nil, nil))
	assert.Equal(t, int64(0), picksByLanguage(choices.Choices)["JavaScript"])

	logs := decode[logsBody](t, env.do(t, http.MethodGet, "/logs", nil, nil))
	assert.Empty(t, logs.Logs)

	assert.Equal(t, []string{"poll.voted", "poll.cleared"}, env.events.types())
}
