package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/palette"
)

func TestDaily_PlayOncePerDay(t *testing.T) {
	pal := palette.Default()
	ts := newTestServer(t, pal)
	c := newClient(t, ts)

	var start dailyNewRes
	require.Equal(t, http.StatusOK, c.post("/daily/new", nil, &start))
	require.NotEmpty(t, start.GameID)
	assert.False(t, start.Played)

	// Same session on a second call.
	var again dailyNewRes
	require.Equal(t, http.StatusOK, c.post("/daily/new", nil, &again))
	assert.Equal(t, start.GameID, again.GameID)

	var e map[string]string
	assert.Equal(t, http.StatusConflict, c.post("/daily/guess",
		map[string]any{"gameId": "other", "guess": []string{"red", "red", "red", "red"}}, &e))

	_, code := daily.CodeFor(time.Now(), testConfig().DailySalt, pal.DefaultRules())
	answer := pal.Names(code)

	var res dailyGuessRes
	require.Equal(t, http.StatusOK, c.post("/daily/guess", map[string]any{"gameId": start.GameID, "guess": answer}, &res))
	assert.Equal(t, string(game.StateWon), res.State)
	assert.Equal(t, 1, res.Guesses)
	assert.Equal(t, answer, res.Secret)

	require.Equal(t, http.StatusOK, c.post("/daily/guess", map[string]any{"gameId": start.GameID, "guess": answer}, &res))
	assert.Equal(t, "locked", res.State)

	require.Equal(t, http.StatusOK, c.post("/daily/new", nil, &again))
	assert.True(t, again.Played)
	assert.Empty(t, again.GameID)

	var lb lbRes
	require.Equal(t, http.StatusOK, c.get("/daily/leaderboard", &lb))
	assert.Equal(t, start.Date, lb.Date)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 1, lb.Top[0].Guesses)

	// A second player gets the same code.
	other := newClient(t, ts)
	var second dailyNewRes
	require.Equal(t, http.StatusOK, other.post("/daily/new", nil, &second))
	assert.NotEqual(t, start.GameID, second.GameID)
	require.Equal(t, http.StatusOK, other.post("/daily/guess", map[string]any{"gameId": second.GameID, "guess": answer}, &res))
	assert.Equal(t, string(game.StateWon), res.State)
}
