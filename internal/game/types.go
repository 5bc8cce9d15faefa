// internal/game/types.go
//
// Core type definitions for the Mastermind engine.
// Defines:
//   - Color, Code: a code is an ordered sequence of palette indices.
//   - Feedback: exact / color-only match counts for one guess.
//   - Rules: palette size, code length and row limit of a session.
//   - State: lifecycle of games and solver sessions.
//   - Sentinel errors shared by the package.

package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Limits on Rules. The candidate universe is PaletteSize^CodeLength codes and
// is materialised in memory, so it is capped.
const (
	MinPaletteSize = 2
	MaxPaletteSize = 16
	MaxCodeLength  = 8
	MaxUniverse    = 1 << 20
)

// Default rules match the classic board: 8 colors, 4 pegs, 10 rows.
const (
	DefaultPaletteSize = 8
	DefaultCodeLength  = 4
	DefaultRowLimit    = 10
)

var (
	// ErrInvalidInput is returned when a code does not fit the rules
	// (length mismatch or color outside the palette).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidFeedback is returned for feedback with negative counts or
	// counts summing past the code length.
	ErrInvalidFeedback = errors.New("invalid feedback")

	// ErrInconsistentFeedback means no code is consistent with every feedback
	// received so far. It wraps ErrInvalidFeedback.
	ErrInconsistentFeedback = fmt.Errorf("%w: contradicts earlier feedback", ErrInvalidFeedback)

	// ErrSessionOver is returned when feedback is submitted to a solver that
	// already won or ran out of rows.
	ErrSessionOver = errors.New("session over")

	// ErrGameFinished is returned when a guess is applied to a finished game.
	ErrGameFinished = errors.New("game finished")

	// ErrInvalidRules is returned by constructors for out-of-range rules.
	ErrInvalidRules = errors.New("invalid rules")
)

// Color is an index into the palette.
type Color uint8

// Code is an ordered sequence of colors. Repeated colors are allowed.
type Code []Color

// String renders the code as dash-separated color indices, e.g. "0-0-1-1".
func (c Code) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, "-")
}

// Equal reports whether both codes hold the same colors in the same order.
func (c Code) Equal(o Code) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that does not share storage with c.
func (c Code) Clone() Code {
	out := make(Code, len(c))
	copy(out, c)
	return out
}

// Index encodes the code as a base-paletteSize number, first peg most significant.
// It is the inverse of CodeFromIndex and matches the order of GenerateAll.
func (c Code) Index(paletteSize int) int {
	idx := 0
	for _, v := range c {
		idx = idx*paletteSize + int(v)
	}
	return idx
}

// CodeFromIndex decodes a base-paletteSize index into a code of the given length.
func CodeFromIndex(idx, paletteSize, length int) Code {
	out := make(Code, length)
	for pos := length - 1; pos >= 0; pos-- {
		out[pos] = Color(idx % paletteSize)
		idx /= paletteSize
	}
	return out
}

// Feedback is the result of scoring a guess against a secret.
//   - Exact:   pegs with the right color in the right position.
//   - Partial: further pegs whose color occurs in the secret elsewhere,
//     counted at most once per secret occurrence.
type Feedback struct {
	Exact   int `json:"exact"`
	Partial int `json:"partial"`
}

func (f Feedback) String() string { return fmt.Sprintf("%d/%d", f.Exact, f.Partial) }

// Validate checks f is a possible outcome for codes of the given length.
func (f Feedback) Validate(length int) error {
	if f.Exact < 0 || f.Partial < 0 {
		return fmt.Errorf("%w: negative count %s", ErrInvalidFeedback, f)
	}
	if f.Exact+f.Partial > length {
		return fmt.Errorf("%w: %s exceeds code length %d", ErrInvalidFeedback, f, length)
	}
	return nil
}

// Rules configure a game or solver session.
type Rules struct {
	PaletteSize int `json:"paletteSize"` // number of colors in play
	CodeLength  int `json:"codeLength"`  // pegs per code
	RowLimit    int `json:"rowLimit"`    // maximum number of guesses
}

// DefaultRules returns the classic 8-color, 4-peg, 10-row configuration.
func DefaultRules() Rules {
	return Rules{PaletteSize: DefaultPaletteSize, CodeLength: DefaultCodeLength, RowLimit: DefaultRowLimit}
}

// Universe returns PaletteSize^CodeLength, or -1 once it passes MaxUniverse.
func (r Rules) Universe() int {
	n := 1
	for i := 0; i < r.CodeLength; i++ {
		n *= r.PaletteSize
		if n > MaxUniverse {
			return -1
		}
	}
	return n
}

// Validate enforces the limits declared at the top of this file.
func (r Rules) Validate() error {
	switch {
	case r.PaletteSize < MinPaletteSize || r.PaletteSize > MaxPaletteSize:
		return fmt.Errorf("%w: palette size %d not in [%d,%d]", ErrInvalidRules, r.PaletteSize, MinPaletteSize, MaxPaletteSize)
	case r.CodeLength < 1 || r.CodeLength > MaxCodeLength:
		return fmt.Errorf("%w: code length %d not in [1,%d]", ErrInvalidRules, r.CodeLength, MaxCodeLength)
	case r.RowLimit < 1:
		return fmt.Errorf("%w: row limit %d", ErrInvalidRules, r.RowLimit)
	case r.Universe() < 0:
		return fmt.Errorf("%w: %d^%d codes exceed %d", ErrInvalidRules, r.PaletteSize, r.CodeLength, MaxUniverse)
	}
	return nil
}

// CheckCode verifies that c has the rule's length and only uses palette colors.
func (r Rules) CheckCode(c Code) error {
	if len(c) != r.CodeLength {
		return fmt.Errorf("%w: code has %d pegs, want %d", ErrInvalidInput, len(c), r.CodeLength)
	}
	for i, v := range c {
		if int(v) >= r.PaletteSize {
			return fmt.Errorf("%w: color %d at position %d outside palette of %d", ErrInvalidInput, v, i, r.PaletteSize)
		}
	}
	return nil
}

// State is the coarse lifecycle of a game or solver session.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Finished reports whether no further moves are accepted.
func (s State) Finished() bool { return s == StateWon || s == StateLost }
