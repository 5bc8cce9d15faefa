// internal/game/selector.go
//
// Next-guess selection by sampled minimax.
//
// For each guess g in a sample of the candidates, score g against a sample of
// the candidates, bucket the outcomes by feedback and keep the size of the
// largest bucket: the worst case of how many codes could remain after g.
// The guess with the smallest worst case wins. Guesses are only ever drawn
// from the candidates, so every one of them could still win outright; among
// equal worst cases the first sampled is kept.
//
// Sampling bounds a turn to GuessPool*EvalPool evaluations regardless of how
// large the candidate space is. This approximates Knuth's algorithm; it does
// not reproduce it.

package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// Default pool sizes.
const (
	DefaultGuessPool = 50
	DefaultEvalPool  = 80
)

// Rand is the randomness the selector needs. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a PCG source seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSecureRand returns a PCG source seeded from crypto/rand.
func NewSecureRand() *rand.Rand {
	var b [16]byte
	_, _ = crand.Read(b[:])
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}

// Selector chooses the next guess from a candidate set.
type Selector struct {
	GuessPool int // candidate guesses examined per turn
	EvalPool  int // codes each guess is scored against
	rng       Rand
}

// NewSelector returns a Selector with the default pool sizes.
// A nil rng gets a securely seeded source.
func NewSelector(rng Rand) *Selector {
	if rng == nil {
		rng = NewSecureRand()
	}
	return &Selector{GuessPool: DefaultGuessPool, EvalPool: DefaultEvalPool, rng: rng}
}

// Next picks the guess to play against candidates. A single candidate is
// returned as is. Next returns nil only for an empty candidate set.
func (s *Selector) Next(candidates []Code) Code {
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	}

	guesses := s.sample(candidates, s.GuessPool)
	evals := s.sample(candidates, s.EvalPool)

	var best Code
	bestWorst := math.MaxInt
	buckets := make(map[Feedback]int)
	for _, g := range guesses {
		clear(buckets)
		worst := 0
		for _, c := range evals {
			fb := evaluate(c, g)
			buckets[fb]++
			if buckets[fb] > worst {
				worst = buckets[fb]
			}
		}
		if worst < bestWorst {
			best, bestWorst = g, worst
		}
	}

	if best == nil {
		return candidates[0]
	}
	return best
}

// sample draws k codes uniformly without replacement, or returns all codes
// when there are no more than k.
func (s *Selector) sample(codes []Code, k int) []Code {
	if k <= 0 || len(codes) <= k {
		return codes
	}
	// Partial Fisher-Yates over an index permutation.
	idx := make([]int, len(codes))
	for i := range idx {
		idx[i] = i
	}
	out := make([]Code, k)
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = codes[idx[i]]
	}
	return out
}
