// internal/game/engine.go
//
// Game is a single human-codebreaker session: the computer (or a second
// player) holds the secret and the player submits guesses.
// Responsibilities:
//   - Create new games with a random or caller-supplied secret.
//   - Validate and score guesses with Evaluate.
//   - Track state transitions: playing → won/lost, plus give-up.
//
// Notes:
//   - The secret is never exposed while the game is in play; Secret() returns
//     nil until the game is finished.
//   - ID is a UUID for correlating server state.

package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Game holds the state of a single codebreaking game.
type Game struct {
	ID        string    // Unique game identifier.
	Rules     Rules     // Palette size, code length, row limit.
	Guesses   []Turn    // Guesses made so far with their feedback.
	State     State     // playing | won | lost
	StartedAt time.Time // Set by NewGame.
	secret    Code
}

// RandomCode draws length colors uniformly from the palette.
func RandomCode(rng Rand, paletteSize, length int) Code {
	out := make(Code, length)
	for i := range out {
		out[i] = Color(rng.IntN(paletteSize))
	}
	return out
}

// NewGame constructs a new game. If secret is nil a random secret is drawn
// from rng (or a securely seeded source when rng is nil).
func NewGame(rules Rules, secret Code, rng Rand) (*Game, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if secret == nil {
		if rng == nil {
			rng = NewSecureRand()
		}
		secret = RandomCode(rng, rules.PaletteSize, rules.CodeLength)
	} else if err := rules.CheckCode(secret); err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}
	return &Game{
		ID:        uuid.NewString(),
		Rules:     rules,
		Guesses:   []Turn{},
		State:     StatePlaying,
		StartedAt: time.Now().UTC(),
		secret:    secret.Clone(),
	}, nil
}

// ApplyGuess validates and scores a guess, mutating the game state.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must have Rules.CodeLength pegs, all inside the palette.
//
// State transitions:
//   - Exact == CodeLength → won.
//   - Else if the number of guesses reaches Rules.RowLimit → lost.
func (g *Game) ApplyGuess(guess Code) (Feedback, State, error) {
	if g.State.Finished() {
		return Feedback{}, g.State, ErrGameFinished
	}
	if err := g.Rules.CheckCode(guess); err != nil {
		return Feedback{}, g.State, err
	}

	fb := evaluate(g.secret, guess)
	g.Guesses = append(g.Guesses, Turn{Guess: guess.Clone(), Feedback: fb})

	if fb.Exact == g.Rules.CodeLength {
		g.State = StateWon
	} else if len(g.Guesses) >= g.Rules.RowLimit {
		g.State = StateLost
	}
	return fb, g.State, nil
}

// GiveUp ends an unfinished game as lost and reveals the secret.
func (g *Game) GiveUp() Code {
	if !g.State.Finished() {
		g.State = StateLost
	}
	return g.secret.Clone()
}

// Secret returns the secret once the game is over, nil while in play.
func (g *Game) Secret() Code {
	if !g.State.Finished() {
		return nil
	}
	return g.secret.Clone()
}
