package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/assets"
	"github.com/robalobadob/mastermind/internal/database"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/palette"
	"github.com/robalobadob/mastermind/internal/store"
)

func TestAuth_SignupPlayStats(t *testing.T) {
	ts := newTestServer(t, palette.Default())
	c := newClient(t, ts)
	creds := map[string]string{"username": "alice", "password": "password123"}

	var e map[string]string
	assert.Equal(t, http.StatusUnauthorized, c.get("/auth/me", &e))

	var me authUser
	require.Equal(t, http.StatusOK, c.post("/auth/signup", creds, &me))
	assert.Equal(t, "alice", me.Username)
	require.Equal(t, http.StatusOK, c.get("/auth/me", &me))
	assert.Equal(t, "alice", me.Username)

	assert.Equal(t, http.StatusConflict, newClient(t, ts).post("/auth/signup", creds, &e))

	// Win one game, lose one.
	secret := []string{"pink", "pink", "gray", "gray"}
	var g newGameRes
	require.Equal(t, http.StatusOK, c.post("/game/new", map[string]any{"secret": secret}, &g))
	require.Equal(t, http.StatusOK, c.post("/game/guess", map[string]any{"gameId": g.GameID, "guess": secret}, nil))
	require.Equal(t, http.StatusOK, c.post("/game/new", nil, &g))
	require.Equal(t, http.StatusOK, c.post("/game/giveup", map[string]string{"gameId": g.GameID}, nil))

	var stats map[string]any
	require.Equal(t, http.StatusOK, c.get("/stats/me", &stats))
	assert.EqualValues(t, 2, stats["gamesPlayed"])
	assert.EqualValues(t, 1, stats["wins"])
	assert.EqualValues(t, 0, stats["streak"])

	var games []gameRow
	require.Equal(t, http.StatusOK, c.get("/games/mine", &games))
	require.Len(t, games, 2)
	statuses := []string{games[0].Status, games[1].Status}
	assert.ElementsMatch(t, []string{"won", "lost"}, statuses)
	for _, gr := range games {
		assert.Equal(t, modeBreaker, gr.Mode)
		assert.NotEmpty(t, gr.FinishedAt)
	}

	require.Equal(t, http.StatusOK, c.post("/auth/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.get("/stats/me", &e))

	assert.Equal(t, http.StatusUnauthorized, c.post("/auth/login",
		map[string]string{"username": "alice", "password": "wrong-password"}, &e))
	require.Equal(t, http.StatusOK, c.post("/auth/login", creds, &me))
	assert.Equal(t, http.StatusOK, c.get("/stats/me", &stats))
}

func TestAuth_ClaimsAnonymousGames(t *testing.T) {
	ts := newTestServer(t, palette.Default())
	c := newClient(t, ts)

	// Guest starts a solver session and a game.
	var s newSolverRes
	require.Equal(t, http.StatusOK, c.post("/solver/new", nil, &s))
	var g newGameRes
	require.Equal(t, http.StatusOK, c.post("/game/new", nil, &g))

	require.Equal(t, http.StatusOK, c.post("/auth/signup",
		map[string]string{"username": "bob_1", "password": "password123"}, nil))

	var games []gameRow
	require.Equal(t, http.StatusOK, c.get("/games/mine", &games))
	require.Len(t, games, 2)
	modes := []string{games[0].Mode, games[1].Mode}
	assert.ElementsMatch(t, []string{modeSolver, modeBreaker}, modes)
}

func TestAuth_BadSignup(t *testing.T) {
	ts := newTestServer(t, palette.Default())
	c := newClient(t, ts)

	var e map[string]string
	assert.Equal(t, http.StatusBadRequest, c.post("/auth/signup",
		map[string]string{"username": "x", "password": "password123"}, &e))
	assert.Equal(t, http.StatusUnauthorized, c.get("/games/mine", &e))
}

func TestAuth_OnlyOwnerCanPlay(t *testing.T) {
	ts := newTestServer(t, palette.Default())
	alice, bob, guest := newClient(t, ts), newClient(t, ts), newClient(t, ts)
	require.Equal(t, http.StatusOK, alice.post("/auth/signup",
		map[string]string{"username": "alice", "password": "password123"}, nil))
	require.Equal(t, http.StatusOK, bob.post("/auth/signup",
		map[string]string{"username": "bob", "password": "password123"}, nil))

	secret := []string{"red", "blue", "red", "blue"}
	var g newGameRes
	require.Equal(t, http.StatusOK, alice.post("/game/new", map[string]any{"secret": secret}, &g))
	win := map[string]any{"gameId": g.GameID, "guess": secret}

	var e map[string]string
	assert.Equal(t, http.StatusForbidden, bob.post("/game/guess", win, &e))
	assert.Equal(t, "forbidden", e["error"])
	assert.Equal(t, http.StatusForbidden, guest.post("/game/giveup", map[string]string{"gameId": g.GameID}, &e))

	var stats map[string]any
	require.Equal(t, http.StatusOK, bob.get("/stats/me", &stats))
	assert.EqualValues(t, 0, stats["gamesPlayed"])

	require.Equal(t, http.StatusOK, alice.post("/game/guess", win, nil))
	require.Equal(t, http.StatusOK, alice.get("/stats/me", &stats))
	assert.EqualValues(t, 1, stats["gamesPlayed"])
	assert.EqualValues(t, 1, stats["wins"])

	// Guests own their sessions through the anon cookie.
	var s newSolverRes
	require.Equal(t, http.StatusOK, guest.post("/solver/new", nil, &s))
	assert.Equal(t, http.StatusForbidden, alice.get("/solver/"+s.SessionID, &e))
	assert.Equal(t, http.StatusForbidden, bob.post("/solver/feedback",
		map[string]any{"sessionId": s.SessionID, "exact": 4}, &e))
	var snap snapshotRes
	require.Equal(t, http.StatusOK, guest.get("/solver/"+s.SessionID, &snap))
	assert.Equal(t, game.StatePlaying, snap.State)
}

func TestAuth_SolverGamesLeaveStats(t *testing.T) {
	ts := newTestServer(t, palette.Default())
	c := newClient(t, ts)
	require.Equal(t, http.StatusOK, c.post("/auth/signup",
		map[string]string{"username": "carol", "password": "password123"}, nil))

	var s newSolverRes
	require.Equal(t, http.StatusOK, c.post("/solver/new", nil, &s))
	var fb feedbackRes
	require.Equal(t, http.StatusOK, c.post("/solver/feedback", map[string]any{"sessionId": s.SessionID, "exact": 4}, &fb))
	assert.Equal(t, game.StatusWon, fb.Status)

	var stats map[string]any
	require.Equal(t, http.StatusOK, c.get("/stats/me", &stats))
	assert.EqualValues(t, 0, stats["gamesPlayed"])
	assert.EqualValues(t, 0, stats["wins"])
	assert.EqualValues(t, 0, stats["streak"])

	var games []gameRow
	require.Equal(t, http.StatusOK, c.get("/games/mine", &games))
	require.Len(t, games, 1)
	assert.Equal(t, modeSolver, games[0].Mode)
	assert.Equal(t, string(game.StateWon), games[0].Status)
}

func TestAuth_StatsForDeletedUser(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, assets.Migrations()))
	srv := New(testConfig(), store.NewMemoryStore(), db, palette.Default())

	req := httptest.NewRequest(http.MethodGet, "/stats/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), ctxUserKey{}, &authUser{ID: "gone"}))
	rec := httptest.NewRecorder()
	srv.handleStats(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var e map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
	assert.Equal(t, "not_found", e["error"])
}
