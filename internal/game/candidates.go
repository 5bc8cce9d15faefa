// internal/game/candidates.go
//
// The candidate space: every code still consistent with the feedback seen so
// far. It starts as the full PaletteSize^CodeLength universe and only shrinks.

package game

// GenerateAll returns every code of the given length over paletteSize colors,
// in lexicographic order of color indices (so codes[i].Index(paletteSize) == i).
func GenerateAll(paletteSize, length int) []Code {
	total := 1
	for i := 0; i < length; i++ {
		total *= paletteSize
	}
	// One backing array for all codes keeps the universe to two allocations.
	backing := make([]Color, total*length)
	out := make([]Code, total)
	for i := 0; i < total; i++ {
		c := Code(backing[i*length : (i+1)*length : (i+1)*length])
		rem := i
		for pos := length - 1; pos >= 0; pos-- {
			c[pos] = Color(rem % paletteSize)
			rem /= paletteSize
		}
		out[i] = c
	}
	return out
}

// Filter returns the candidates c for which Evaluate(c, guess) == fb.
// The input slice is not modified; the result may be empty.
func Filter(candidates []Code, guess Code, fb Feedback) []Code {
	out := make([]Code, 0, len(candidates)/4+1)
	for _, c := range candidates {
		if len(c) == len(guess) && evaluate(c, guess) == fb {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether code is one of candidates.
func Contains(candidates []Code, code Code) bool {
	for _, c := range candidates {
		if c.Equal(code) {
			return true
		}
	}
	return false
}

// Opener returns the fixed first guess: two distinct colors doubled,
// e.g. 0,0,1,1 for four pegs and 0,0,1,1,2 for five.
func Opener(paletteSize, length int) Code {
	out := make(Code, length)
	for i := range out {
		out[i] = Color((i / 2) % paletteSize)
	}
	return out
}
