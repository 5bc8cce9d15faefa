// internal/httpserver/routes_solver.go
//
// Solver mode: the player holds a secret and the computer guesses it.
//   - POST /solver/new      → start a session; returns the opening guess
//   - POST /solver/feedback → report exact/partial for the current guess
//   - GET  /solver/{id}     → session snapshot (guess, moves, history)
//
// The player never sends the secret; the solver only sees feedback.
// Inconsistent feedback is a 400 and leaves the session as it was, so the
// player can correct a mistyped count. Feedback after the session ended is a 409.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mastermind/internal/game"
)

// mountSolver registers the /solver routes (except the websocket stream).
func (s *Server) mountSolver(r chi.Router) {
	r.Post("/solver/new", s.handleNewSolver)
	r.Post("/solver/feedback", s.handleFeedback)
	r.Get("/solver/{id}", s.handleSolverSnapshot)
}

// newSolverReq/Res payloads for POST /solver/new.
type newSolverReq struct {
	rulesReq
	Seed *uint64 `json:"seed"` // optional; makes the session reproducible
}
type newSolverRes struct {
	SessionID string     `json:"sessionId"`
	Rules     game.Rules `json:"rules"`
	Guess     []string   `json:"guess"`
	Moves     int        `json:"moves"`
	Remaining int        `json:"remaining"`
}

// handleNewSolver starts a solver session and returns its opening guess.
func (s *Server) handleNewSolver(w http.ResponseWriter, r *http.Request) {
	var req newSolverReq
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	rules, err := s.rules(req.rulesReq)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	var opts []game.SolverOption
	if req.Seed != nil {
		opts = append(opts, game.WithRand(game.NewRand(*req.Seed)))
	}
	sv, err := game.NewSolver(rules, opts...)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	id := uuid.NewString()
	if err := s.store.SaveSolver(r.Context(), id, sv); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save solver")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.recordStart(r, id, modeSolver, s.ownerOf(w, r), rules)

	writeJSON(w, http.StatusOK, newSolverRes{
		SessionID: id,
		Rules:     rules,
		Guess:     s.pal.Names(sv.FirstGuess()),
		Moves:     sv.Moves(),
		Remaining: sv.Remaining(),
	})
}

// feedbackReq/Res payloads for POST /solver/feedback.
type feedbackReq struct {
	SessionID string `json:"sessionId"`
	game.Feedback
}
type feedbackRes struct {
	Status    game.Status `json:"status"` // continue | won | lost
	Guess     []string    `json:"guess,omitempty"`
	Moves     int         `json:"moves"`
	Remaining int         `json:"remaining"`
}

// handleFeedback scores the current guess and returns the next one.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	if err := s.authorize(r, req.SessionID); err != nil {
		writeEngineError(w, err)
		return
	}

	var (
		out   game.Outcome
		state game.State
	)
	err := s.store.UpdateSolver(r.Context(), req.SessionID, func(sv *game.Solver) error {
		var err error
		out, err = sv.SubmitFeedback(req.Feedback)
		state = sv.State()
		return err
	})
	if err != nil {
		hlog.FromRequest(r).Debug().Err(err).Str("sessionId", req.SessionID).Msg("feedback rejected")
		writeEngineError(w, err)
		return
	}

	s.recordProgress(r, req.SessionID, state, out.Moves)
	res := feedbackRes{Status: out.Status, Moves: out.Moves, Remaining: out.Remaining}
	if out.Guess != nil {
		res.Guess = s.pal.Names(out.Guess)
	}
	writeJSON(w, http.StatusOK, res)
}

// turnRes is one history entry of a snapshot.
type turnRes struct {
	Guess []string `json:"guess"`
	game.Feedback
}

// snapshotRes is returned by GET /solver/{id}.
type snapshotRes struct {
	SessionID string     `json:"sessionId"`
	Rules     game.Rules `json:"rules"`
	State     game.State `json:"state"`
	Guess     []string   `json:"guess"`
	Moves     int        `json:"moves"`
	Remaining int        `json:"remaining"`
	History   []turnRes  `json:"history"`
}

// handleSolverSnapshot returns the current state of a session.
func (s *Server) handleSolverSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.authorize(r, id); err != nil {
		writeEngineError(w, err)
		return
	}
	var res snapshotRes
	err := s.store.UpdateSolver(r.Context(), id, func(sv *game.Solver) error {
		res = snapshotRes{
			SessionID: id,
			Rules:     sv.Rules(),
			State:     sv.State(),
			Guess:     s.pal.Names(sv.CurrentGuess()),
			Moves:     sv.Moves(),
			Remaining: sv.Remaining(),
			History:   []turnRes{},
		}
		for _, t := range sv.History() {
			res.History = append(res.History, turnRes{Guess: s.pal.Names(t.Guess), Feedback: t.Feedback})
		}
		return nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
