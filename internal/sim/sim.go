// internal/sim/sim.go
//
// Batch self-play: the solver plays many games against secrets it cannot see
// and the results are summarised. Used to check convergence (how many moves
// the solver needs, how often it runs out of rows) for a set of rules.
//
// Games run in parallel with bounded concurrency. Every game gets its own
// seeded random source, derived from Config.Seed and the game's index, so a
// run is reproducible regardless of scheduling.

package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/mastermind/internal/game"
)

// Config selects the rules and secrets of a run.
type Config struct {
	Rules      game.Rules
	Games      int    // number of random secrets; ignored when Exhaustive
	Seed       uint64 // seeds secrets and solvers
	Workers    int    // parallel games; 0 means runtime.NumCPU()
	Exhaustive bool   // play every code of the universe once
}

// Result is the outcome of one game.
type Result struct {
	Secret game.Code
	Moves  int
	Won    bool
}

// Report summarises a run.
type Report struct {
	Rules     game.Rules    `json:"rules"`
	Games     int           `json:"games"`
	Wins      int           `json:"wins"`
	Losses    int           `json:"losses"`
	MaxMoves  int           `json:"maxMoves"`  // over won games
	MeanMoves float64       `json:"meanMoves"` // over won games
	Histogram map[int]int   `json:"histogram"` // moves → won games
	Elapsed   time.Duration `json:"elapsed"`
}

// Play runs one solver session against secret, answering with honest feedback.
func Play(rules game.Rules, secret game.Code, rng game.Rand) (Result, error) {
	if err := rules.CheckCode(secret); err != nil {
		return Result{}, err
	}
	sv, err := game.NewSolver(rules, game.WithRand(rng))
	if err != nil {
		return Result{}, err
	}
	guess := sv.FirstGuess()
	for {
		fb, err := game.Evaluate(secret, guess)
		if err != nil {
			return Result{}, err
		}
		out, err := sv.SubmitFeedback(fb)
		if err != nil {
			return Result{}, fmt.Errorf("secret %s: %w", secret, err)
		}
		switch out.Status {
		case game.StatusWon:
			return Result{Secret: secret, Moves: out.Moves, Won: true}, nil
		case game.StatusLost:
			return Result{Secret: secret, Moves: out.Moves}, nil
		}
		guess = out.Guess
	}
}

// Run plays every configured game and aggregates the results.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if err := cfg.Rules.Validate(); err != nil {
		return Report{}, err
	}
	if !cfg.Exhaustive && cfg.Games <= 0 {
		return Report{}, errors.New("sim: games must be positive")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var secrets []game.Code
	if cfg.Exhaustive {
		secrets = game.GenerateAll(cfg.Rules.PaletteSize, cfg.Rules.CodeLength)
	} else {
		rng := game.NewRand(cfg.Seed)
		secrets = make([]game.Code, cfg.Games)
		for i := range secrets {
			secrets[i] = game.RandomCode(rng, cfg.Rules.PaletteSize, cfg.Rules.CodeLength)
		}
	}

	start := time.Now()
	results := make([]Result, len(secrets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, secret := range secrets {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Play(cfg.Rules, secret, game.NewRand(cfg.Seed+uint64(i)+1))
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	rep := summarise(cfg.Rules, results)
	rep.Elapsed = time.Since(start)
	return rep, nil
}

// summarise folds per-game results into a Report.
func summarise(rules game.Rules, results []Result) Report {
	rep := Report{Rules: rules, Games: len(results), Histogram: map[int]int{}}
	total := 0
	for _, r := range results {
		if !r.Won {
			rep.Losses++
			continue
		}
		rep.Wins++
		rep.Histogram[r.Moves]++
		total += r.Moves
		rep.MaxMoves = max(rep.MaxMoves, r.Moves)
	}
	if rep.Wins > 0 {
		rep.MeanMoves = float64(total) / float64(rep.Wins)
	}
	return rep
}
