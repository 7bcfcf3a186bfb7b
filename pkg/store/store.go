// Package store implements a unidirectional state container. Events are
// queued from any goroutine and folded through an ordered list of reducers on
// a single goroutine, which also notifies subscribers and runs feedback effects.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Reducer folds an event into a new state. Reducers must be pure and must not
// fail; failures belong in the resulting state.
type Reducer[S, E any] func(S, E) S

// Effect observes every reduced event together with the state it produced.
// Events passed to dispatch are appended to the tail of the queue.
type Effect[S, E any] func(state S, event E, dispatch func(E))

type itemKind int

const (
	itemEvent itemKind = iota
	itemSubscribe
	itemBarrier
)

type item[S, E any] struct {
	kind  itemKind
	event E
	sub   *subscription[S]
	done  chan struct{}
}

type subscription[S any] struct {
	fn     func(S)
	active atomic.Bool
}

// Store owns a state value of type S and mutates it only in Run.
type Store[S, E any] struct {
	reducers []Reducer[S, E]
	effects  []Effect[S, E]
	logger   *slog.Logger
	metrics  *metrics

	mu    sync.Mutex
	queue []item[S, E]
	wake  chan struct{}
	state S
	subs  []*subscription[S]
}

// Option configures a Store.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	registry  prometheus.Registerer
	namespace string
	effects   []any
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics registers store metrics with the given registerer.
func WithMetrics(registry prometheus.Registerer, namespace string) Option {
	return func(o *options) {
		o.registry = registry
		o.namespace = namespace
	}
}

// WithEffect registers a feedback effect. Effects run in registration order
// after subscribers have been notified.
func WithEffect[S, E any](effect Effect[S, E]) Option {
	return func(o *options) {
		o.effects = append(o.effects, effect)
	}
}

// New creates a store holding initial. Reducers are applied in order for every event.
func New[S, E any](initial S, reducers []Reducer[S, E], opts ...Option) *Store[S, E] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	s := &Store[S, E]{
		reducers: reducers,
		logger:   o.logger.With("component", "store"),
		wake:     make(chan struct{}, 1),
		state:    initial,
	}
	for _, e := range o.effects {
		if eff, ok := e.(Effect[S, E]); ok {
			s.effects = append(s.effects, eff)
		} else {
			panic(fmt.Sprintf("store: effect of type %T does not match store type", e))
		}
	}
	if o.registry != nil {
		s.metrics = newMetrics(o.registry, o.namespace)
	}

	return s
}

// Dispatch enqueues an event. It never blocks and never drops the event.
func (s *Store[S, E]) Dispatch(e E) {
	s.enqueue(item[S, E]{kind: itemEvent, event: e})
}

// Subscribe registers fn. Once the registration reaches the front of the
// queue, fn receives the current state and then every subsequent state in
// order. The returned function removes the subscription.
func (s *Store[S, E]) Subscribe(fn func(S)) func() {
	sub := &subscription[S]{fn: fn}
	sub.active.Store(true)
	s.enqueue(item[S, E]{kind: itemSubscribe, sub: sub})

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, other := range s.subs {
				if other == sub {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					break
				}
			}
			if s.metrics != nil {
				s.metrics.subscribers.Set(float64(len(s.subs)))
			}
		})
	}
}

// State returns the most recently published state.
func (s *Store[S, E]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Sync blocks until every item enqueued before the call has been processed.
func (s *Store[S, E]) Sync(ctx context.Context) error {
	done := make(chan struct{})
	s.enqueue(item[S, E]{kind: itemBarrier, done: done})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes the queue until ctx is done. It must be called exactly once.
// Subscribers and effects are invoked on the calling goroutine.
func (s *Store[S, E]) Run(ctx context.Context) error {
	for {
		it, ok := s.pop()
		if !ok {
			select {
			case <-s.wake:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		switch it.kind {
		case itemEvent:
			s.reduce(it.event)
		case itemSubscribe:
			s.addSubscriber(it.sub)
		case itemBarrier:
			close(it.done)
		}
	}
}

func (s *Store[S, E]) enqueue(it item[S, E]) {
	s.mu.Lock()
	s.queue = append(s.queue, it)
	s.setDepthLocked()
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store[S, E]) pop() (item[S, E], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return item[S, E]{}, false
	}
	it := s.queue[0]
	var zero item[S, E]
	s.queue[0] = zero
	s.queue = s.queue[1:]
	if len(s.queue) == 0 {
		s.queue = nil
	}

	s.setDepthLocked()
	return it, true
}

// setDepthLocked publishes the queue length. Callers hold s.mu so the gauge
// follows the order of queue mutations.
func (s *Store[S, E]) setDepthLocked() {
	if s.metrics != nil {
		s.metrics.queueDepth.Set(float64(len(s.queue)))
	}
}

func (s *Store[S, E]) reduce(e E) {
	name := eventName(e)
	s.logger.Debug("reducing event", "event", name)

	start := time.Now()
	s.mu.Lock()
	next := s.state
	s.mu.Unlock()

	for _, r := range s.reducers {
		next = r(next, e)
	}

	s.mu.Lock()
	s.state = next
	subs := make([]*subscription[S], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.eventsTotal.WithLabelValues(name).Inc()
		s.metrics.reduceDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(next)
		}
	}

	for _, eff := range s.effects {
		eff(next, e, s.Dispatch)
	}
}

func (s *Store[S, E]) addSubscriber(sub *subscription[S]) {
	if !sub.active.Load() {
		return
	}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	current := s.state
	count := len(s.subs)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.subscribers.Set(float64(count))
	}

	sub.fn(current)
}

func eventName(e any) string {
	if n, ok := e.(interface{ EventName() string }); ok {
		return n.EventName()
	}
	return fmt.Sprintf("%T", e)
}
