// internal/httpserver/history.go
//
// Best-effort persistence of games (both modes) to the games table.
// Live state stays in the in-memory store; the table only records who played,
// under which rules, and how it ended. Failures are logged, never returned
// to the player.

package httpserver

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mastermind/internal/account"
	"github.com/robalobadob/mastermind/internal/game"
)

const (
	modeBreaker = "breaker" // the player guesses
	modeSolver  = "solver"  // the computer guesses
)

// owner identifies who a game row belongs to: a user or an anonymous cookie.
type owner struct {
	userID string
	anonID string
}

// ownerOf resolves the signed-in user or falls back to the anon cookie.
func (s *Server) ownerOf(w http.ResponseWriter, r *http.Request) owner {
	if me := currentUser(r); me != nil {
		return owner{userID: me.ID}
	}
	return owner{anonID: s.ensureAnonID(w, r)}
}

// errNotOwner rejects moves on a game that belongs to someone else.
var errNotOwner = errors.New("forbidden")

// authorize checks that the caller owns the games row for id. A game whose
// row was never written (persistence is best-effort) is open to anyone
// holding its ID.
func (s *Server) authorize(r *http.Request, id string) error {
	var userID, anonID sql.NullString
	err := s.db.QueryRowContext(r.Context(), `SELECT user_id, anonymous_id FROM games WHERE id=?`, id).
		Scan(&userID, &anonID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return err
	}
	if userID.Valid {
		if me := currentUser(r); me != nil && me.ID == userID.String {
			return nil
		}
		return errNotOwner
	}
	if c, err := r.Cookie(anonCookieName); err == nil && anonID.Valid && c.Value == anonID.String {
		return nil
	}
	return errNotOwner
}

// nullable maps "" to SQL NULL.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// recordStart inserts the games row for a new game or solver session.
func (s *Server) recordStart(r *http.Request, id, mode string, o owner, rules game.Rules) {
	_, err := s.db.ExecContext(r.Context(), `INSERT INTO games
		(id, user_id, anonymous_id, mode, palette_size, code_length, row_limit, status, guesses, started_at)
		VALUES (?,?,?,?,?,?,?,?,0,?)`,
		id, nullable(o.userID), nullable(o.anonID), mode, rules.PaletteSize, rules.CodeLength, rules.RowLimit,
		string(game.StatePlaying), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", id).Str("mode", mode).Msg("insert game row")
	}
}

// recordProgress updates the guess count and, once finished, the final
// status and the owning user's stats in one transaction. Solver games only
// close the row: the computer did the guessing, so they never count as the
// player's win or loss.
func (s *Server) recordProgress(r *http.Request, id string, state game.State, guesses int) {
	logger := hlog.FromRequest(r)
	ctx := r.Context()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("begin tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if !state.Finished() {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET guesses=? WHERE id=?`, guesses, id); err != nil {
			logger.Warn().Err(err).Str("gameId", id).Msg("update guesses")
			return
		}
	} else {
		var (
			userID sql.NullString
			mode   string
		)
		// Only the update that closes the row moves stats.
		err := tx.QueryRowContext(ctx, `UPDATE games SET guesses=?, status=?, finished_at=?
			WHERE id=? AND status=? RETURNING user_id, mode`,
			guesses, string(state), time.Now().UTC().Format(time.RFC3339), id, string(game.StatePlaying)).
			Scan(&userID, &mode)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return
		case err != nil:
			logger.Warn().Err(err).Str("gameId", id).Msg("finish game")
			return
		}
		if userID.Valid && mode == modeBreaker {
			if err := account.BumpStats(ctx, tx, userID.String, state == game.StateWon); err != nil {
				logger.Warn().Err(err).Str("user", userID.String).Msg("bump stats")
				return
			}
		}
	}
	if err := tx.Commit(); err != nil {
		logger.Warn().Err(err).Str("gameId", id).Msg("commit game progress")
	}
}
