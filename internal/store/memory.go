// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds live sessions: human-codebreaker games and computer solver sessions.
//
// Characteristics:
//   - Maps guarded by an RWMutex (concurrent lookups, exclusive inserts).
//   - Each session has its own mutex; Update* runs the callback while holding
//     it, so one session is never mutated by two requests at once.
//   - Sessions idle longer than a cutoff are removed by Sweep.
//   - State is lost when the process restarts; finished games are persisted
//     to SQLite by the HTTP layer.

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for live sessions.
type Store interface {
	// SaveGame adds or replaces a game, keyed by its ID.
	SaveGame(ctx context.Context, g *game.Game) error

	// UpdateGame runs fn with exclusive access to the game.
	UpdateGame(ctx context.Context, id string, fn func(*game.Game) error) error

	// SaveSolver adds or replaces a solver session under id.
	SaveSolver(ctx context.Context, id string, s *game.Solver) error

	// UpdateSolver runs fn with exclusive access to the solver session.
	UpdateSolver(ctx context.Context, id string, fn func(*game.Solver) error) error

	// Sweep drops sessions untouched for longer than idle and reports how many.
	Sweep(ctx context.Context, idle time.Duration) int
}

// entry is one session plus its lock and last-use time (unix nanos).
type entry[T any] struct {
	mu      sync.Mutex
	v       T
	touched atomic.Int64
}

// table is a lock-guarded map of entries.
type table[T any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[T]
}

func newTable[T any]() *table[T] {
	return &table[T]{entries: make(map[string]*entry[T])}
}

func (t *table[T]) save(id string, v T) {
	e := &entry[T]{v: v}
	e.touched.Store(time.Now().UnixNano())
	t.mu.Lock()
	t.entries[id] = e
	t.mu.Unlock()
}

func (t *table[T]) update(id string, fn func(T) error) error {
	t.mu.RLock()
	e, ok := t.entries[id]
	t.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched.Store(time.Now().UnixNano())
	return fn(e.v)
}

func (t *table[T]) sweep(cutoff int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id, e := range t.entries {
		if e.touched.Load() < cutoff {
			delete(t.entries, id)
			n++
		}
	}
	return n
}

// memory is the map-based Store implementation.
type memory struct {
	games   *table[*game.Game]
	solvers *table[*game.Solver]
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: newTable[*game.Game](), solvers: newTable[*game.Solver]()}
}

func (m *memory) SaveGame(ctx context.Context, g *game.Game) error {
	m.games.save(g.ID, g)
	return nil
}

func (m *memory) UpdateGame(ctx context.Context, id string, fn func(*game.Game) error) error {
	return m.games.update(id, fn)
}

func (m *memory) SaveSolver(ctx context.Context, id string, s *game.Solver) error {
	m.solvers.save(id, s)
	return nil
}

func (m *memory) UpdateSolver(ctx context.Context, id string, fn func(*game.Solver) error) error {
	return m.solvers.update(id, fn)
}

func (m *memory) Sweep(ctx context.Context, idle time.Duration) int {
	cutoff := time.Now().Add(-idle).UnixNano()
	return m.games.sweep(cutoff) + m.solvers.sweep(cutoff)
}
