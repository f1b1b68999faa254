package poll

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/hydrochat/internal/infrastructure/database"
)

// setupRepo opens a freshly seeded store with a controllable clock.
func setupRepo(t *testing.T) (*SQLiteRepository, *time.Time) {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "poll.db"),
		BusyTimeout: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	_, err = db.EnsureSchema(context.Background())
	require.NoError(t, err)

	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := NewSQLiteRepository(db.DB)
	repo.now = func() time.Time { return clock }
	return repo, &clock
}

func picksByLanguage(choices []Choice) map[string]int64 {
	out := make(map[string]int64, len(choices))
	for _, c := range choices {
		out[c.Language] = c.Picks
	}
	return out
}

func TestListChoices_Seeded(t *testing.T) {
	repo, _ := setupRepo(t)

	choices, err := repo.ListChoices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Choice{
		{ID: 1, Language: "HTML", Picks: 0},
		{ID: 2, Language: "JavaScript", Picks: 0},
		{ID: 3, Language: "CSS", Picks: 0},
	}, choices)
}

func TestAddChoice(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	id, err := repo.AddChoice(ctx, "Go")
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)

	_, err = repo.AddChoice(ctx, "Go")
	assert.ErrorIs(t, err, ErrChoiceExists)

	_, err = repo.AddChoice(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptyLanguage)
}

func TestRecordVote(t *testing.T) {
	repo, clock := setupRepo(t)
	ctx := context.Background()

	choices, err := repo.RecordVote(ctx, "JavaScript")
	require.NoError(t, err)
	assert.Equal(t, int64(1), picksByLanguage(choices)["JavaScript"])

	*clock = clock.Add(time.Second)
	choices, err = repo.RecordVote(ctx, "JavaScript")
	require.NoError(t, err)
	assert.Equal(t, int64(2), picksByLanguage(choices)["JavaScript"])
	assert.Equal(t, int64(0), picksByLanguage(choices)["HTML"])

	logs, err := repo.ListLogs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "2024-06-01T12:00:01.000Z", logs[0].Time, "newest entry first")
	assert.Equal(t, "JavaScript", logs[0].Choice)
}

func TestRecordVote_UnknownChoiceRollsBack(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.RecordVote(ctx, "COBOL")
	assert.ErrorIs(t, err, ErrChoiceNotFound)

	logs, err := repo.ListLogs(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, logs, "log row must not survive a failed vote")
}

func TestListLogs_Limit(t *testing.T) {
	repo, clock := setupRepo(t)
	ctx := context.Background()

	for i := 0; i < DefaultLogLimit+5; i++ {
		*clock = clock.Add(time.Millisecond)
		_, err := repo.RecordVote(ctx, "CSS")
		require.NoError(t, err)
	}

	logs, err := repo.ListLogs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, logs, DefaultLogLimit)

	logs, err = repo.ListLogs(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}

func TestClearHistory(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.RecordVote(ctx, "HTML")
	require.NoError(t, err)

	cleared, err := repo.ClearHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, cleared)

	logs, err := repo.ListLogs(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)

	choices, err := repo.ListChoices(ctx)
	require.NoError(t, err)
	for _, c := range choices {
		assert.Zero(t, c.Picks, c.Language)
	}
}

func TestFormatLogTime(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 600_000_000, time.FixedZone("X", 3600))
	assert.Equal(t, "2024-01-02T02:04:05.600Z", formatLogTime(ts))
}
