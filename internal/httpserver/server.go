// internal/httpserver/server.go
//
// HTTP server wiring for the Mastermind backend.
// Responsibilities:
//   - Router + middleware (request IDs, access logs, panic recovery, JSON, CORS, timeouts).
//   - Public endpoints: "/", "/health", "/palette".
//   - Solver endpoints (optional auth): the computer guesses the player's secret.
//   - Game endpoints (optional auth): the player guesses the computer's secret.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//   - Websocket stream of the solver playing a known secret: /solver/watch.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The watch stream is mounted outside the timeout group; it lives as long
//     as the game it plays.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/account"
	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/palette"
	"github.com/robalobadob/mastermind/internal/store"
)

// Server bundles router, in-memory session store, DB handle and palette.
type Server struct {
	r      *chi.Mux
	cfg    config.Config
	store  store.Store
	db     *sql.DB
	pal    *palette.Palette
	users  *account.Store
	tokens account.Tokens
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *sql.DB, pal *palette.Palette) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		cfg:    cfg,
		store:  st,
		db:     db,
		pal:    pal,
		users:  account.NewStore(db),
		tokens: account.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTExpiry},
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger)) // request-scoped logger
	s.r.Use(accessLog)                   // one line per request
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(s.cors)                      // credentials-friendly CORS

	// Streaming: no timeout, no JSON default.
	s.r.Get("/solver/watch", s.handleWatch)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"mastermind-go","endpoints":["/health","/palette","POST /solver/new","POST /solver/feedback","POST /game/new","POST /game/guess","/daily/*","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/palette", s.handlePalette)

		// Solver + game endpoints: OPTIONAL AUTH (guests can play)
		r.Group(func(r chi.Router) {
			r.Use(s.withOptionalAuth())
			s.mountSolver(r)
			s.mountGame(r)
			s.mountDaily(r)
		})

		// Auth + profile/stats
		s.mountAuthRoutes(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// accessLog writes one structured line per request via the request logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("reqId", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- helpers -----------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends {"error": code} with the given status.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decodeOptional decodes a JSON body; an empty body leaves v untouched.
func decodeOptional(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// writeEngineError maps engine and store errors to HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, errNotOwner):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, game.ErrSessionOver), errors.Is(err, game.ErrGameFinished):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrInconsistentFeedback):
		writeError(w, http.StatusBadRequest, "inconsistent_feedback")
	case errors.Is(err, game.ErrInvalidFeedback),
		errors.Is(err, game.ErrInvalidInput),
		errors.Is(err, game.ErrInvalidRules),
		errors.Is(err, palette.ErrUnknownColor):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("unexpected engine error")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

// rulesReq is embedded by requests that may override the default rules.
type rulesReq struct {
	PaletteSize int `json:"paletteSize"`
	CodeLength  int `json:"codeLength"`
	RowLimit    int `json:"rowLimit"`
}

// rules fills unset fields from the palette defaults and validates the result.
// The palette size may not exceed the number of named colors.
func (s *Server) rules(req rulesReq) (game.Rules, error) {
	r := s.pal.DefaultRules()
	if req.PaletteSize != 0 {
		r.PaletteSize = req.PaletteSize
	}
	if req.CodeLength != 0 {
		r.CodeLength = req.CodeLength
	}
	if req.RowLimit != 0 {
		r.RowLimit = req.RowLimit
	}
	if r.PaletteSize > s.pal.Size() {
		return game.Rules{}, fmt.Errorf("%w: palette size %d exceeds %d named colors", game.ErrInvalidRules, r.PaletteSize, s.pal.Size())
	}
	return r, r.Validate()
}

// handlePalette returns the colors and default rules.
func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"colors":       s.pal.Colors,
		"rules":        s.pal.DefaultRules(),
		"guessDelayMs": s.pal.Rules.GuessDelayMs,
	})
}
