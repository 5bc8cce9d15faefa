package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Palette order of the default color set.
const (
	red Color = iota
	yellow
	orange
	pink
	blue
	green
	gray
	black
)

func TestEvaluate_Table(t *testing.T) {
	cases := []struct {
		name          string
		secret, guess Code
		want          Feedback
	}{
		{"all exact", Code{red, green, blue, yellow}, Code{red, green, blue, yellow}, Feedback{4, 0}},
		{"nothing shared", Code{red, red, red, red}, Code{blue, blue, blue, blue}, Feedback{0, 0}},
		{"one exact two partial", Code{red, green, blue, yellow}, Code{green, red, blue, black}, Feedback{1, 2}},
		{"all partial", Code{0, 0, 1, 1}, Code{1, 1, 0, 0}, Feedback{0, 4}},
		{"repeats capped by secret", Code{0, 1, 2, 3}, Code{0, 0, 0, 0}, Feedback{1, 0}},
		{"repeats capped by guess", Code{0, 0, 0, 0}, Code{1, 0, 2, 3}, Feedback{1, 0}},
		{"mixed repeats", Code{0, 0, 1, 1}, Code{0, 1, 0, 1}, Feedback{2, 2}},
		{"partial only once per secret peg", Code{1, 2, 2, 3}, Code{2, 4, 4, 2}, Feedback{0, 2}},
		{"five pegs", Code{0, 0, 1, 1, 2}, Code{2, 0, 1, 3, 0}, Feedback{2, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(tc.secret, tc.guess)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluate_LengthMismatch(t *testing.T) {
	_, err := Evaluate(Code{0, 1, 2, 3}, Code{0, 1, 2})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Evaluate(Code{}, Code{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEvaluate_ColorOutOfRange(t *testing.T) {
	_, err := Evaluate(Code{0, 1, 2, 3}, Code{0, 1, 2, MaxPaletteSize})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEvaluate_SelfCompare(t *testing.T) {
	for _, c := range GenerateAll(5, 4) {
		fb, err := Evaluate(c, c)
		require.NoError(t, err)
		if fb != (Feedback{Exact: 4}) {
			t.Fatalf("Evaluate(%s, %s) = %s, want 4/0", c, c, fb)
		}
	}
}

func TestEvaluate_Bounds(t *testing.T) {
	all := GenerateAll(4, 4)
	for _, s := range all {
		for _, g := range all {
			fb := evaluate(s, g)
			if fb.Exact < 0 || fb.Partial < 0 || fb.Exact+fb.Partial > 4 {
				t.Fatalf("Evaluate(%s, %s) = %s out of bounds", s, g, fb)
			}
			// Scoring is symmetric in its arguments.
			if rev := evaluate(g, s); rev != fb {
				t.Fatalf("Evaluate(%s, %s) = %s but reversed gives %s", s, g, fb, rev)
			}
		}
	}
}

func TestFeedback_Validate(t *testing.T) {
	assert.NoError(t, Feedback{4, 0}.Validate(4))
	assert.NoError(t, Feedback{0, 0}.Validate(4))
	assert.ErrorIs(t, Feedback{3, 3}.Validate(4), ErrInvalidFeedback)
	assert.ErrorIs(t, Feedback{-1, 0}.Validate(4), ErrInvalidFeedback)
	assert.ErrorIs(t, Feedback{0, -2}.Validate(4), ErrInvalidFeedback)
}
