// internal/httpserver/routes_watch.go
//
// GET /solver/watch?secret=red,blue,green,yellow[&rows=10][&paletteSize=8][&seed=42]
//
// Upgrades to a websocket and lets the solver play against a known secret,
// one JSON frame per guess, paced by the palette's guessDelayMs. The last
// frame carries the final status and reveals the secret. The engine itself
// never sleeps; pacing lives here only.

package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mastermind/internal/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Clients only ever send close frames.
	maxMessageSize = 512
)

// watchFrame is one streamed guess.
type watchFrame struct {
	Move      int         `json:"move"`
	Guess     []string    `json:"guess"`
	Exact     int         `json:"exact"`
	Partial   int         `json:"partial"`
	Remaining int         `json:"remaining"`
	Status    game.Status `json:"status"`
	Secret    []string    `json:"secret,omitempty"` // final frame only
}

// upgrader accepts same-origin requests and the configured client origin.
func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.cfg.ClientOrigin || strings.HasSuffix(origin, "://"+r.Host)
		},
	}
}

// watchParams parses and validates the query before upgrading.
func (s *Server) watchParams(r *http.Request) (*game.Solver, game.Code, error) {
	q := r.URL.Query()
	var names []string
	if v := q.Get("secret"); v != "" {
		names = strings.Split(v, ",")
	}
	req := rulesReq{CodeLength: len(names)}
	var err error
	if v := q.Get("rows"); v != "" {
		if req.RowLimit, err = strconv.Atoi(v); err != nil {
			return nil, nil, err
		}
	}
	if v := q.Get("paletteSize"); v != "" {
		if req.PaletteSize, err = strconv.Atoi(v); err != nil {
			return nil, nil, err
		}
	}
	rules, err := s.rules(req)
	if err != nil {
		return nil, nil, err
	}
	secret, err := s.pal.Code(names, rules.PaletteSize)
	if err != nil {
		return nil, nil, err
	}
	if err := rules.CheckCode(secret); err != nil {
		return nil, nil, err
	}

	var opts []game.SolverOption
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, game.WithRand(game.NewRand(seed)))
	}
	sv, err := game.NewSolver(rules, opts...)
	if err != nil {
		return nil, nil, err
	}
	return sv, secret, nil
}

// handleWatch streams a solver game over a websocket.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	sv, secret, err := s.watchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		hlog.FromRequest(r).Debug().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	logger := hlog.FromRequest(r).With().Str("secret", secret.String()).Logger()
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Read pump: the only inbound traffic is a close; stop playing when it comes.
	conn.SetReadLimit(maxMessageSize)
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	delay := s.pal.GuessDelay()
	guess := sv.FirstGuess()
	for {
		move := sv.Moves()
		fb, err := game.Evaluate(secret, guess)
		if err != nil {
			logger.Error().Err(err).Msg("watch evaluate")
			return
		}
		out, err := sv.SubmitFeedback(fb)
		if err != nil {
			// Honest feedback cannot be inconsistent.
			logger.Error().Err(err).Msg("watch feedback")
			return
		}
		frame := watchFrame{
			Move:      move,
			Guess:     s.pal.Names(guess),
			Exact:     fb.Exact,
			Partial:   fb.Partial,
			Remaining: out.Remaining,
			Status:    out.Status,
		}
		if out.Status != game.StatusContinue {
			frame.Secret = s.pal.Names(secret)
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(frame); err != nil {
			logger.Debug().Err(err).Msg("watch write")
			return
		}
		if out.Status != game.StatusContinue {
			logger.Info().Str("status", string(out.Status)).Int("moves", out.Moves).Msg("watch finished")
			break
		}
		guess = out.Guess

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"),
		time.Now().Add(writeWait))
}
