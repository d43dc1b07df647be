// Package fetch manages asynchronous loads of server collections and the
// per-user views derived from them.
package fetch

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/existflow/jera/internal/logger"
)

var (
	// ErrSuperseded is returned by a fetch whose result was discarded because
	// a newer fetch was started.
	ErrSuperseded = errors.New("fetch superseded by a newer request")
	ErrClosed     = errors.New("resource closed")
)

// Settled drops ErrSuperseded. A superseded fetch is not a failure; the newer
// fetch owns the state.
func Settled(err error) error {
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	return err
}

// State is a snapshot of a resource. Data keeps the last successful result
// when a later fetch fails.
type State[T any] struct {
	Data    T
	Loading bool
	Err     error
	Loaded  bool
}

// Message returns the error text, or "" when there is no error.
func (s State[T]) Message() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Producer loads a value. It should stop when ctx is cancelled.
type Producer[T any] func(ctx context.Context) (T, error)

// Resource runs a producer on demand and tracks its state. Only the most
// recently started fetch may update the state; starting a fetch cancels the
// one in flight.
type Resource[T any] struct {
	producer Producer[T]

	mu     sync.Mutex
	state  State[T]
	deps   []any
	gen    uint64
	cancel context.CancelFunc
	closed bool
	subs   map[int]func(State[T])
	nextID int
}

// New creates an idle resource. deps identify the inputs the producer
// closes over; see SetDeps.
func New[T any](producer Producer[T], deps ...any) *Resource[T] {
	return &Resource[T]{
		producer: producer,
		deps:     deps,
		subs:     make(map[int]func(State[T])),
	}
}

// Load performs the initial fetch.
func (r *Resource[T]) Load(ctx context.Context) error {
	return r.Refetch(ctx)
}

// Refetch runs the producer and blocks until it returns.
func (r *Resource[T]) Refetch(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	gen := r.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.state.Loading = true
	r.state.Err = nil
	r.notifyLocked()

	data, err := r.producer(fetchCtx)

	r.mu.Lock()
	defer cancel()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if gen != r.gen {
		r.mu.Unlock()
		logger.Debug("Discarding superseded fetch", logger.F("generation", gen))
		return ErrSuperseded
	}
	r.cancel = nil
	r.state.Loading = false
	if err != nil {
		r.state.Err = err
	} else {
		r.state.Data = data
		r.state.Loaded = true
	}
	r.notifyLocked()
	return err
}

// SetDeps refetches only when deps differ from the current ones.
func (r *Resource[T]) SetDeps(ctx context.Context, deps ...any) error {
	r.mu.Lock()
	same := reflect.DeepEqual(r.deps, deps)
	if !same {
		r.deps = deps
	}
	r.mu.Unlock()
	if same {
		return nil
	}
	return r.Refetch(ctx)
}

// State returns the current snapshot.
func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe registers fn for every state change and returns its removal.
func (r *Resource[T]) Subscribe(fn func(State[T])) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Close cancels any fetch in flight and drops subscribers. Later fetches
// return ErrClosed.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.subs = make(map[int]func(State[T]))
}

// notifyLocked releases r.mu before calling subscribers.
func (r *Resource[T]) notifyLocked() {
	st := r.state
	subs := make([]func(State[T]), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()
	for _, fn := range subs {
		fn(st)
	}
}

// Keyed is a resource whose producer takes a key, such as a project id.
type Keyed[K comparable, T any] struct {
	*Resource[T]

	mu  sync.Mutex
	key K
}

// NewKeyed creates a resource that loads fn(key).
func NewKeyed[K comparable, T any](fn func(context.Context, K) (T, error), key K) *Keyed[K, T] {
	k := &Keyed[K, T]{key: key}
	k.Resource = New[T](func(ctx context.Context) (T, error) {
		return fn(ctx, k.Key())
	}, key)
	return k
}

func (k *Keyed[K, T]) Key() K {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.key
}

// SetKey switches the key and refetches if it changed.
func (k *Keyed[K, T]) SetKey(ctx context.Context, key K) error {
	k.mu.Lock()
	k.key = key
	k.mu.Unlock()
	return k.SetDeps(ctx, key)
}
