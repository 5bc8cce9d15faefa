package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/game"
)

func TestMemory_Games(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	g, err := game.NewGame(game.DefaultRules(), game.Code{0, 1, 2, 3}, nil)
	require.NoError(t, err)
	require.NoError(t, st.SaveGame(ctx, g))

	err = st.UpdateGame(ctx, g.ID, func(g *game.Game) error {
		_, _, err := g.ApplyGuess(game.Code{0, 1, 2, 3})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, game.StateWon, g.State)

	assert.ErrorIs(t, st.UpdateGame(ctx, "missing", func(*game.Game) error { return nil }), ErrNotFound)
}

func TestMemory_UpdatePropagatesError(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s, err := game.NewSolver(game.DefaultRules(), game.WithRand(game.NewRand(1)))
	require.NoError(t, err)
	require.NoError(t, st.SaveSolver(ctx, "s1", s))

	boom := errors.New("boom")
	assert.ErrorIs(t, st.UpdateSolver(ctx, "s1", func(*game.Solver) error { return boom }), boom)
}

func TestMemory_SolverSerialised(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s, err := game.NewSolver(game.DefaultRules(), game.WithRand(game.NewRand(1)))
	require.NoError(t, err)
	require.NoError(t, st.SaveSolver(ctx, "s1", s))

	// Concurrent submissions of the same winning feedback: exactly one
	// succeeds, the others see a finished session.
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, over := 0, 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := st.UpdateSolver(ctx, "s1", func(s *game.Solver) error {
				_, err := s.SubmitFeedback(game.Feedback{Exact: 4})
				return err
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if errors.Is(err, game.ErrSessionOver) {
				over++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
	assert.Equal(t, 7, over)
}

func TestMemory_Sweep(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g, err := game.NewGame(game.DefaultRules(), nil, game.NewRand(1))
	require.NoError(t, err)
	require.NoError(t, st.SaveGame(ctx, g))

	assert.Zero(t, st.Sweep(ctx, time.Hour))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, st.Sweep(ctx, time.Millisecond))
	assert.ErrorIs(t, st.UpdateGame(ctx, g.ID, func(*game.Game) error { return nil }), ErrNotFound)
}
