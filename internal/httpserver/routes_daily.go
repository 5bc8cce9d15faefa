// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player can play once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB on win.
// Deterministic code selection is based on date + salt.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions and the games inside them
}

// dailySession holds transient in-memory state for an in-progress daily game.
type dailySession struct {
	Game      *game.Game
	UserID    string
	Date      string
	CodeIndex int
	Start     time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		now:      time.Now,
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// rules are the palette defaults; every player gets the same board.
func (d *dailyServer) rules() game.Rules { return d.srv.pal.DefaultRules() }

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise the anonymous cookie ID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string     `json:"gameId"`
	Date   string     `json:"date"`
	Played bool       `json:"played"`
	Rules  game.Rules `json:"rules"`
}

// handleNew creates or reuses a daily session for the current date.
//   - If the player already has a DB row for today → Played=true.
//   - Otherwise create/reuse an in-memory session and return its GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	now := d.now()
	date := daily.DateKey(now)
	rules := d.rules()

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("daily already played")
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true, Rules: rules})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()

	// Yesterday's sessions can no longer be finished.
	for k, sess := range d.sessions {
		if sess.Date != date {
			delete(d.sessions, k)
		}
	}
	if sess, ok := d.sessions[key]; ok {
		writeJSON(w, http.StatusOK, dailyNewRes{GameID: sess.Game.ID, Date: date, Played: sess.Game.State.Finished(), Rules: rules})
		return
	}

	idx, secret := daily.CodeFor(now, d.salt, rules)
	g, err := game.NewGame(rules, secret, nil)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	d.sessions[key] = &dailySession{Game: g, UserID: uid, Date: date, CodeIndex: idx, Start: now}

	writeJSON(w, http.StatusOK, dailyNewRes{GameID: g.ID, Date: date, Rules: rules})
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string   `json:"gameId"`
	Guess  []string `json:"guess"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	game.Feedback
	State   string   `json:"state"` // playing | won | lost | locked
	Guesses int      `json:"guesses"`
	Secret  []string `json:"secret,omitempty"`
}

// handleGuess validates and applies a guess for today's daily session.
//   - Rejects if there is no session for this player and date.
//   - A finished session answers "locked".
//   - Persists the result on a win.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if p.GameID == "" {
		writeError(w, http.StatusBadRequest, "invalid")
		return
	}
	date := daily.DateKey(d.now())

	d.mu.Lock()
	sess, ok := d.sessions[uid+"|"+date]
	if !ok || sess.Game.ID != p.GameID {
		d.mu.Unlock()
		writeError(w, http.StatusConflict, "no session")
		return
	}
	g := sess.Game
	if g.State.Finished() {
		res := dailyGuessRes{State: "locked", Guesses: len(g.Guesses)}
		d.mu.Unlock()
		writeJSON(w, http.StatusOK, res)
		return
	}
	guess, err := d.srv.pal.Code(p.Guess, g.Rules.PaletteSize)
	if err != nil {
		d.mu.Unlock()
		writeEngineError(w, err)
		return
	}
	fb, state, err := g.ApplyGuess(guess)
	if err != nil {
		d.mu.Unlock()
		writeEngineError(w, err)
		return
	}
	res := dailyGuessRes{Feedback: fb, State: string(state), Guesses: len(g.Guesses)}
	if state.Finished() {
		res.Secret = d.srv.pal.Names(g.Secret())
	}
	result := daily.Result{
		UserID:    uid,
		Date:      date,
		CodeIndex: sess.CodeIndex,
		Guesses:   len(g.Guesses),
		ElapsedMs: int(d.now().Sub(sess.Start).Milliseconds()),
	}
	d.mu.Unlock()

	if state == game.StateWon {
		if err := d.store.InsertResult(r.Context(), result); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("date", date).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
