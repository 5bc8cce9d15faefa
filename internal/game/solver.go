// internal/game/solver.go
//
// Solver is the computer codebreaker: one session of guessing a secret it never
// sees, driven only by the feedback the codemaker reports.
//
// Lifecycle:
//   - NewSolver: full candidate set, fixed opener as the current guess, move 1.
//   - SubmitFeedback: scores the current guess.
//       exact == length      → won
//       move == row limit    → lost (exhausted)
//       otherwise            → filter candidates, select next guess, move+1
//
// A Solver is owned by one caller at a time; it does no locking of its own.

package game

import "fmt"

// Status tells the caller what to do after SubmitFeedback.
type Status string

const (
	StatusContinue Status = "continue" // play Outcome.Guess next
	StatusWon      Status = "won"
	StatusLost     Status = "lost"
)

// Outcome is the result of one SubmitFeedback call.
type Outcome struct {
	Status    Status `json:"status"`
	Guess     Code   `json:"guess,omitempty"` // next guess, only with StatusContinue
	Moves     int    `json:"moves"`           // guesses played so far, including Guess
	Remaining int    `json:"remaining"`       // candidates still consistent
}

// Turn records one played guess and the feedback it received.
type Turn struct {
	Guess    Code     `json:"guess"`
	Feedback Feedback `json:"feedback"`
}

// Solver holds the state of one computer-guessing session.
type Solver struct {
	rules      Rules
	state      State
	guess      Code
	moves      int
	candidates []Code
	history    []Turn
	selector   *Selector
}

// SolverOption customises a Solver at construction.
type SolverOption func(*Solver)

// WithRand makes the selector's sampling reproducible.
func WithRand(rng Rand) SolverOption {
	return func(s *Solver) { s.selector.rng = rng }
}

// WithPools overrides the guess and evaluation pool sizes.
func WithPools(guessPool, evalPool int) SolverOption {
	return func(s *Solver) {
		s.selector.GuessPool = guessPool
		s.selector.EvalPool = evalPool
	}
}

// NewSolver starts a session: every code is a candidate and the opener is
// the first guess.
func NewSolver(rules Rules, opts ...SolverOption) (*Solver, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		rules:      rules,
		state:      StatePlaying,
		guess:      Opener(rules.PaletteSize, rules.CodeLength),
		moves:      1,
		candidates: GenerateAll(rules.PaletteSize, rules.CodeLength),
		selector:   &Selector{GuessPool: DefaultGuessPool, EvalPool: DefaultEvalPool},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.selector.rng == nil {
		s.selector.rng = NewSecureRand()
	}
	return s, nil
}

// FirstGuess returns the fixed opening guess.
func (s *Solver) FirstGuess() Code { return Opener(s.rules.PaletteSize, s.rules.CodeLength) }

// CurrentGuess returns the guess awaiting feedback (or the last one played
// once the session is over).
func (s *Solver) CurrentGuess() Code { return s.guess.Clone() }

// Rules returns the session's rules.
func (s *Solver) Rules() Rules { return s.rules }

// State reports playing, won or lost.
func (s *Solver) State() State { return s.state }

// Moves returns the number of guesses played, counting the current one.
func (s *Solver) Moves() int { return s.moves }

// Remaining returns the number of codes still consistent with all feedback.
func (s *Solver) Remaining() int { return len(s.candidates) }

// History returns the turns scored so far.
func (s *Solver) History() []Turn {
	out := make([]Turn, len(s.history))
	for i, t := range s.history {
		out[i] = Turn{Guess: t.Guess.Clone(), Feedback: t.Feedback}
	}
	return out
}

// SubmitFeedback scores the current guess and advances the session.
//
// Errors:
//   - ErrSessionOver if the session already finished.
//   - ErrInvalidFeedback for negative counts or counts summing past the length.
//   - ErrInconsistentFeedback if no candidate survives while rows remain; the
//     session is left as it was. On the last row the session is lost instead.
func (s *Solver) SubmitFeedback(fb Feedback) (Outcome, error) {
	if s.state.Finished() {
		return Outcome{}, fmt.Errorf("%w: %s after %d moves", ErrSessionOver, s.state, s.moves)
	}
	if err := fb.Validate(s.rules.CodeLength); err != nil {
		return Outcome{}, err
	}

	if fb.Exact == s.rules.CodeLength {
		s.history = append(s.history, Turn{Guess: s.guess, Feedback: fb})
		s.state = StateWon
		s.candidates = []Code{s.guess}
		return Outcome{Status: StatusWon, Moves: s.moves, Remaining: 1}, nil
	}

	remaining := Filter(s.candidates, s.guess, fb)
	if s.moves >= s.rules.RowLimit {
		// Out of rows: the session ends here whatever the feedback implies.
		s.history = append(s.history, Turn{Guess: s.guess, Feedback: fb})
		if len(remaining) > 0 {
			s.candidates = remaining
		}
		s.state = StateLost
		return Outcome{Status: StatusLost, Moves: s.moves, Remaining: len(s.candidates)}, nil
	}
	if len(remaining) == 0 {
		return Outcome{}, fmt.Errorf("%w: %s for guess %s", ErrInconsistentFeedback, fb, s.guess)
	}
	s.history = append(s.history, Turn{Guess: s.guess, Feedback: fb})
	s.candidates = remaining

	s.guess = s.selector.Next(s.candidates)
	s.moves++
	return Outcome{Status: StatusContinue, Guess: s.guess.Clone(), Moves: s.moves, Remaining: len(s.candidates)}, nil
}
