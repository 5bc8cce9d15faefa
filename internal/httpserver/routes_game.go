// internal/httpserver/routes_game.go
//
// Codebreaker mode: the server holds the secret, the player guesses.
//   - POST /game/new    → start a game (random secret, or one set by a second player)
//   - POST /game/guess  → score a guess given as color names
//   - POST /game/giveup → end the game and reveal the secret
//
// Colors travel as palette names ("red", "blue", ...) and are validated
// against the colors in play; unknown names are a 400, never a silent default.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mastermind/internal/game"
)

// mountGame registers the /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess", s.handleGuess)
	r.Post("/game/giveup", s.handleGiveUp)
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	rulesReq
	Secret []string `json:"secret"` // optional; set by a second player
}
type newGameRes struct {
	GameID string `json:"gameId"`
	game.Rules
}

// handleNewGame creates an in-memory game and records an owner row.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	rules, err := s.rules(req.rulesReq)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var secret game.Code
	if len(req.Secret) > 0 {
		if secret, err = s.pal.Code(req.Secret, rules.PaletteSize); err != nil {
			writeEngineError(w, err)
			return
		}
	}
	g, err := game.NewGame(rules, secret, nil)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := s.store.SaveGame(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.recordStart(r, g.ID, modeBreaker, s.ownerOf(w, r), rules)

	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Rules: rules})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string   `json:"gameId"`
	Guess  []string `json:"guess"`
}
type guessRes struct {
	game.Feedback
	State   game.State `json:"state"` // playing | won | lost
	Guesses int        `json:"guesses"`
	Secret  []string   `json:"secret,omitempty"` // revealed once finished
}

// handleGuess applies a guess to an in-memory game and persists progress.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	if err := s.authorize(r, req.GameID); err != nil {
		writeEngineError(w, err)
		return
	}

	var res guessRes
	err := s.store.UpdateGame(r.Context(), req.GameID, func(g *game.Game) error {
		guess, err := s.pal.Code(req.Guess, g.Rules.PaletteSize)
		if err != nil {
			return err
		}
		fb, state, err := g.ApplyGuess(guess)
		if err != nil {
			return err
		}
		res = guessRes{Feedback: fb, State: state, Guesses: len(g.Guesses)}
		if state.Finished() {
			res.Secret = s.pal.Names(g.Secret())
		}
		return nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	s.recordProgress(r, req.GameID, res.State, res.Guesses)
	writeJSON(w, http.StatusOK, res)
}

// giveUpReq/Res payloads for POST /game/giveup.
type giveUpReq struct {
	GameID string `json:"gameId"`
}
type giveUpRes struct {
	State  game.State `json:"state"`
	Secret []string   `json:"secret"`
}

// handleGiveUp finishes the game as lost and reveals the secret.
func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	var req giveUpReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := s.authorize(r, req.GameID); err != nil {
		writeEngineError(w, err)
		return
	}
	var (
		res     giveUpRes
		guesses int
	)
	err := s.store.UpdateGame(r.Context(), req.GameID, func(g *game.Game) error {
		res.Secret = s.pal.Names(g.GiveUp())
		res.State = g.State
		guesses = len(g.Guesses)
		return nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	s.recordProgress(r, req.GameID, res.State, guesses)
	writeJSON(w, http.StatusOK, res)
}
