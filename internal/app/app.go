// Package app wires the selection engine into a store: it defines the
// application state and events, the ordered reducers that derive the catalog,
// selection and label, and the feedback effects that load repositories and
// record commits.
package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"pahkat/pkg/outline"
	"pahkat/pkg/repo"
	"pahkat/pkg/store"
)

// Deps are the collaborators and initial settings of an App.
type Deps struct {
	Records  []repo.Record
	Filters  map[string]outline.Filter
	Settings Settings

	// Loader defaults to a repo.Loader without status information.
	Loader Loader
	// Recorder and Cache are optional.
	Recorder Recorder
	Cache    SnapshotCache

	Logger *slog.Logger
	// Registerer enables store metrics when set.
	Registerer prometheus.Registerer
}

// App is the application store with its feedback effects.
type App struct {
	store    *store.Store[State, Event]
	loader   Loader
	recorder Recorder
	cache    SnapshotCache
	logger   *slog.Logger

	mu  sync.Mutex
	ctx context.Context
}

// New creates an App. Nothing happens until Run is called.
func New(deps Deps) *App {
	a := &App{
		loader:   deps.Loader,
		recorder: deps.Recorder,
		cache:    deps.Cache,
		logger:   deps.Logger,
		ctx:      context.Background(),
	}
	if a.loader == nil {
		a.loader = &repo.Loader{}
	}
	if a.logger == nil {
		a.logger = discardLogger()
	}

	initial := State{
		Settings: deps.Settings,
		Records:  deps.Records,
		Filters:  deps.Filters,
	}
	rs := reducers()
	for _, r := range rs {
		initial = r(initial, nil)
	}

	opts := append(a.effects(), store.WithLogger(a.logger))
	if deps.Registerer != nil {
		opts = append(opts, store.WithMetrics(deps.Registerer, "pahkat"))
	}
	a.store = store.New(initial, rs, opts...)

	return a
}

// Run processes events until ctx is done. Background loads started by
// effects use ctx as well.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	return a.store.Run(ctx)
}

func (a *App) context() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

// Dispatch enqueues an event.
func (a *App) Dispatch(e Event) {
	a.store.Dispatch(e)
}

// Subscribe registers fn for the current state and every later one.
func (a *App) Subscribe(fn func(State)) func() {
	return a.store.Subscribe(fn)
}

// State returns the latest state.
func (a *App) State() State {
	return a.store.State()
}

// Sync waits until every event dispatched so far has been reduced.
func (a *App) Sync(ctx context.Context) error {
	return a.store.Sync(ctx)
}

// WaitFor blocks until a published state satisfies done and returns it.
// The current state is checked first.
func (a *App) WaitFor(ctx context.Context, done func(State) bool) (State, error) {
	found := make(chan State, 1)
	unsubscribe := a.Subscribe(func(s State) {
		if done(s) {
			select {
			case found <- s:
			default:
			}
		}
	})
	defer unsubscribe()

	select {
	case s := <-found:
		return s, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Refresh requests a reload and waits for its result.
func (a *App) Refresh(ctx context.Context, explicit bool) (State, error) {
	a.Dispatch(RefreshRequested{Explicit: explicit})
	if err := a.Sync(ctx); err != nil {
		return State{}, err
	}
	return a.WaitFor(ctx, func(s State) bool { return !s.Loading })
}
