package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAll(t *testing.T) {
	all := GenerateAll(8, 4)
	require.Len(t, all, 4096)

	assert.Equal(t, Code{0, 0, 0, 0}, all[0])
	assert.Equal(t, Code{0, 0, 0, 1}, all[1])
	assert.Equal(t, Code{7, 7, 7, 7}, all[len(all)-1])

	seen := make(map[string]bool, len(all))
	for i, c := range all {
		assert.Equal(t, i, c.Index(8))
		seen[c.String()] = true
	}
	assert.Len(t, seen, 4096, "codes must be distinct")
}

func TestGenerateAll_FivePegs(t *testing.T) {
	all := GenerateAll(6, 5)
	assert.Len(t, all, 7776)
	assert.Equal(t, Code{5, 5, 5, 5, 5}, all[7775])
}

func TestCodeFromIndex(t *testing.T) {
	for _, idx := range []int{0, 1, 7, 8, 511, 4095} {
		c := CodeFromIndex(idx, 8, 4)
		assert.Equal(t, idx, c.Index(8))
	}
	assert.Equal(t, Code{0, 0, 1, 0}, CodeFromIndex(8, 8, 4))
}

func TestFilter_Monotonic(t *testing.T) {
	secret := Code{red, green, blue, yellow}
	candidates := GenerateAll(8, 4)
	guesses := []Code{
		{0, 0, 1, 1},
		{2, 3, 4, 5},
		{5, 0, 4, 6},
		{0, 5, 4, 1},
	}

	prev := len(candidates)
	for _, g := range guesses {
		fb := evaluate(secret, g)
		candidates = Filter(candidates, g, fb)
		assert.LessOrEqual(t, len(candidates), prev)
		assert.True(t, Contains(candidates, secret), "secret dropped after guess %s", g)
		for _, c := range candidates {
			assert.Equal(t, fb, evaluate(c, g))
		}
		prev = len(candidates)
	}
	assert.Equal(t, []Code{secret}, candidates)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	all := GenerateAll(3, 2)
	before := make([]Code, len(all))
	copy(before, all)

	_ = Filter(all, Code{0, 1}, Feedback{Exact: 2})
	assert.Equal(t, before, all)
}

func TestFilter_Inconsistent(t *testing.T) {
	// Three exact and one partial cannot happen with four pegs.
	assert.Empty(t, Filter(GenerateAll(6, 4), Code{0, 0, 1, 1}, Feedback{Exact: 3, Partial: 1}))
}

func TestOpener(t *testing.T) {
	assert.Equal(t, Code{0, 0, 1, 1}, Opener(8, 4))
	assert.Equal(t, Code{0, 0, 1, 1, 2}, Opener(8, 5))
	assert.Equal(t, Code{0, 0, 1, 1, 0}, Opener(2, 5))
	assert.Equal(t, Code{0}, Opener(6, 1))
}
