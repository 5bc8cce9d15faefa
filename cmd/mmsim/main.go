// cmd/mmsim runs the Mastermind solver against many secrets and reports how
// quickly it converges.
//
// Usage:
//
//	mmsim --colors 6 --length 4 --rows 10 --exhaustive
//	mmsim --games 1000 --seed 7 --workers 8 --json
package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/sim"
)

var (
	colors     int
	length     int
	rows       int
	games      int
	seed       uint64
	workers    int
	exhaustive bool
	asJSON     bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "mmsim",
	Short: "Simulate the Mastermind solver",
	Long: `Plays the computer codebreaker against random (or all) secrets with
honest feedback and prints wins, losses and the distribution of moves.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
	RunE: runSim,
}

func init() {
	f := rootCmd.Flags()
	f.IntVar(&colors, "colors", game.DefaultPaletteSize, "palette size")
	f.IntVar(&length, "length", game.DefaultCodeLength, "pegs per code")
	f.IntVar(&rows, "rows", game.DefaultRowLimit, "row limit")
	f.IntVar(&games, "games", 100, "random secrets to play (ignored with --exhaustive)")
	f.Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	f.IntVar(&workers, "workers", 0, "parallel games (0 = one per CPU)")
	f.BoolVar(&exhaustive, "exhaustive", false, "play every possible secret once")
	f.BoolVar(&asJSON, "json", false, "print the report as JSON on stdout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func runSim(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg := sim.Config{
		Rules:      game.Rules{PaletteSize: colors, CodeLength: length, RowLimit: rows},
		Games:      games,
		Seed:       seed,
		Workers:    workers,
		Exhaustive: exhaustive,
	}
	log.Debug().Interface("config", cfg).Msg("starting simulation")

	rep, err := sim.Run(ctx, cfg)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	log.Info().
		Int("games", rep.Games).
		Int("wins", rep.Wins).
		Int("losses", rep.Losses).
		Int("maxMoves", rep.MaxMoves).
		Float64("meanMoves", rep.MeanMoves).
		Str("histogram", histogram(rep.Histogram)).
		Dur("elapsed", rep.Elapsed).
		Msg("simulation finished")
	return nil
}

// histogram renders moves→count pairs in move order, e.g. "3:12 4:40 5:8".
func histogram(h map[int]int) string {
	moves := make([]int, 0, len(h))
	for m := range h {
		moves = append(moves, m)
	}
	sort.Ints(moves)
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = strconv.Itoa(m) + ":" + strconv.Itoa(h[m])
	}
	return strings.Join(parts, " ")
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("mmsim failed")
		os.Exit(1)
	}
}
