package daily

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/assets"
	"github.com/robalobadob/mastermind/internal/database"
	"github.com/robalobadob/mastermind/internal/game"
)

func TestCodeIndex_Deterministic(t *testing.T) {
	day := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	later := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)

	a := CodeIndex(day, "salt", 4096)
	assert.Equal(t, a, CodeIndex(later, "salt", 4096), "same UTC date, same index")
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 4096)
	assert.Zero(t, CodeIndex(day, "salt", 0))
}

func TestCodeIndex_SpreadsOverDates(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seen := map[int]bool{}
	for d := 0; d < 30; d++ {
		seen[CodeIndex(base.AddDate(0, 0, d), "salt", 4096)] = true
	}
	assert.Greater(t, len(seen), 20, "indices should spread over days")
}

func TestCodeFor(t *testing.T) {
	rules := game.DefaultRules()
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	idx, code := CodeFor(day, "salt", rules)
	assert.NoError(t, rules.CheckCode(code))
	assert.Equal(t, idx, code.Index(rules.PaletteSize))
}

func TestStore(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(db, assets.Migrations()))

	ctx := context.Background()
	s := NewStore(db)

	played, err := s.AlreadyPlayed(ctx, "u1", "2026-10-19")
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u1", Date: "2026-10-19", Guesses: 5, ElapsedMs: 900}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u2", Date: "2026-10-19", Guesses: 4, ElapsedMs: 2000}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u3", Date: "2026-10-19", Guesses: 4, ElapsedMs: 1500}))
	// Duplicate is ignored.
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u1", Date: "2026-10-19", Guesses: 1, ElapsedMs: 1}))

	played, err = s.AlreadyPlayed(ctx, "u1", "2026-10-19")
	require.NoError(t, err)
	assert.True(t, played)

	rows, err := s.Leaderboard(ctx, "2026-10-19", 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"u3", "u2", "u1"}, []string{rows[0].UserID, rows[1].UserID, rows[2].UserID})

	rows, err = s.Leaderboard(ctx, "2026-10-18", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
