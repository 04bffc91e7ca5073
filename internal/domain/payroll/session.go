package payroll

import (
	"context"
	"errors"
	"sync"
	"time"
)

type WeekLoader interface {
	Week(ctx context.Context, token string, q Query) (Board, error)
}

type sessionEntry struct {
	tracker  *Tracker
	lastSeen time.Time
}

// Sessions holds the latest board per dashboard session. Loads for the same
// session race safely: only the newest request's result is kept.
type Sessions struct {
	mu      sync.Mutex
	loader  WeekLoader
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*sessionEntry
}

func NewSessions(loader WeekLoader, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sessions{loader: loader, ttl: ttl, now: time.Now, entries: map[string]*sessionEntry{}}
}

func (s *Sessions) tracker(key string) *Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, entry := range s.entries {
		if k != key && now.Sub(entry.lastSeen) > s.ttl {
			delete(s.entries, k)
		}
	}
	entry, ok := s.entries[key]
	if !ok {
		entry = &sessionEntry{tracker: &Tracker{}}
		s.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.tracker
}

// Load runs a cycle for the session. A cycle superseded while in flight
// returns ErrStaleCycle and leaves the stored board untouched.
func (s *Sessions) Load(ctx context.Context, key, token string, q Query) (Board, error) {
	t := s.tracker(key)
	generation, cycleCtx := t.Begin(ctx)
	defer t.Finish(generation)

	board, err := s.loader.Week(cycleCtx, token, q)
	if !t.IsCurrent(generation) {
		return Board{}, ErrStaleCycle
	}
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			return Board{}, ErrStaleCycle
		}
		return Board{}, err
	}
	if err := t.Apply(generation, board); err != nil {
		return Board{}, err
	}
	return board, nil
}

// Current returns the last board applied for the session.
func (s *Sessions) Current(key string) (Board, bool) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	s.mu.Unlock()
	if !ok {
		return Board{}, false
	}
	board, _, ok := entry.tracker.Current()
	return board, ok
}
