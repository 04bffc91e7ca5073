package payroll

import (
	"context"
	"sync"
)

// Tracker tags load cycles with a monotonically increasing generation. Begin
// cancels the previous cycle; Apply stores a result only when its generation
// is still the latest one issued.
type Tracker struct {
	mu      sync.Mutex
	latest  uint64
	cancel  context.CancelFunc
	applied uint64
	board   *Board
}

// Begin starts a new cycle and returns its generation and a context that is
// cancelled as soon as a newer cycle begins.
func (t *Tracker) Begin(ctx context.Context) (uint64, context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.latest++
	cycleCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	return t.latest, cycleCtx
}

func (t *Tracker) IsCurrent(generation uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return generation == t.latest
}

// Apply stores board as the current result. Stale generations are rejected
// with ErrStaleCycle.
func (t *Tracker) Apply(generation uint64, board Board) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if generation != t.latest {
		return ErrStaleCycle
	}
	t.applied = generation
	b := board
	t.board = &b
	return nil
}

// Finish releases the cycle context if generation is still current.
func (t *Tracker) Finish(generation uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if generation == t.latest && t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Current returns the last applied board.
func (t *Tracker) Current() (Board, uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.board == nil {
		return Board{}, 0, false
	}
	return *t.board, t.applied, true
}
