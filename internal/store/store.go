package store

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrStaleGeneration is returned when an action targets a session that has
// since been reset, e.g. a data load that completes after logout.
var ErrStaleGeneration = errors.New("stale store generation")

var (
	storeMeter            = otel.Meter("spendpal/store")
	storeDispatchTotal, _ = storeMeter.Int64Counter("store.dispatch.total",
		metric.WithDescription("Actions dispatched to the session store by outcome"),
	)
)

// Store serializes reducer steps for one client and publishes immutable
// snapshots. The generation counter increases on every Reset.
type Store struct {
	mu         sync.RWMutex
	state      State
	generation uint64
	reducer    Reducer
	listeners  []func(State)
}

// Option configures a Store
type Option func(*Store)

// WithReducer replaces the default id and clock sources.
func WithReducer(r Reducer) Option {
	return func(s *Store) { s.reducer = r }
}

// New creates an empty store at generation 1.
func New(opts ...Option) *Store {
	s := &Store{generation: 1, reducer: DefaultReducer()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state. Callers must treat it as read-only.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Generation returns the current session generation.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Dispatch applies a to the current generation.
func (s *Store) Dispatch(ctx context.Context, a Action) error {
	return s.apply(ctx, 0, a)
}

// DispatchAt applies a only if gen is still the current generation.
func (s *Store) DispatchAt(ctx context.Context, gen uint64, a Action) error {
	if gen == 0 {
		return ErrStaleGeneration
	}
	return s.apply(ctx, gen, a)
}

// apply runs one reducer step; gen 0 means the current generation.
func (s *Store) apply(ctx context.Context, gen uint64, a Action) error {
	s.mu.Lock()
	if gen != 0 && gen != s.generation {
		s.mu.Unlock()
		s.record(ctx, a, "stale")
		return ErrStaleGeneration
	}

	next, err := s.reducer.Reduce(s.state, a)
	if err != nil {
		s.mu.Unlock()
		s.record(ctx, a, "rejected")
		return err
	}
	s.state = next
	listeners := s.listeners
	s.mu.Unlock()

	s.record(ctx, a, "applied")
	for _, fn := range listeners {
		fn(next)
	}
	return nil
}

// Reset clears every collection and starts a new generation, which
// invalidates in-flight loads of the previous one.
func (s *Store) Reset() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	s.generation++
	return s.generation
}

// Subscribe registers fn to receive every state applied after this call.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) record(ctx context.Context, a Action, outcome string) {
	storeDispatchTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", a.Name()),
		attribute.String("outcome", outcome),
	))
}
