// internal/game/evaluate.go
//
// Scoring of a guess against a secret code.
//
// Pass 1:
//   - Count exact matches (same color, same position).
//   - Count remaining (non-exact) secret colors by palette index.
//
// Pass 2:
//   - For each non-exact guess peg: if the secret still has an unmatched peg of
//     that color, count a partial match and consume it.
//
// Consuming secret pegs caps partial matches by the shared color multiplicity.

package game

import "fmt"

// Evaluate scores guess against secret. Both codes must be non-empty and of
// equal length; colors must be below MaxPaletteSize.
func Evaluate(secret, guess Code) (Feedback, error) {
	if len(secret) == 0 || len(secret) != len(guess) {
		return Feedback{}, fmt.Errorf("%w: secret has %d pegs, guess has %d", ErrInvalidInput, len(secret), len(guess))
	}
	for i := range secret {
		if secret[i] >= MaxPaletteSize || guess[i] >= MaxPaletteSize {
			return Feedback{}, fmt.Errorf("%w: color out of range at position %d", ErrInvalidInput, i)
		}
	}
	return evaluate(secret, guess), nil
}

// evaluate is the unchecked hot-path variant used once rules are validated.
func evaluate(secret, guess Code) Feedback {
	var fb Feedback
	var counts [MaxPaletteSize]int

	// First pass: exact matches, and tally of the secret's leftover colors.
	for i := range guess {
		if guess[i] == secret[i] {
			fb.Exact++
		} else {
			counts[secret[i]]++
		}
	}

	// Second pass: color-only matches against the leftover tally.
	for i := range guess {
		if guess[i] == secret[i] {
			continue
		}
		if c := guess[i]; counts[c] > 0 {
			fb.Partial++
			counts[c]--
		}
	}
	return fb
}
