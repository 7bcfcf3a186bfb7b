package app

import (
	"context"
	"log/slog"

	"go.trai.ch/zerr"

	"pahkat/internal/history"
	"pahkat/pkg/repo"
	"pahkat/pkg/selection"
	"pahkat/pkg/store"
)

// Loader loads repository snapshots for the configured records.
type Loader interface {
	Load(ctx context.Context, records []repo.Record) ([]*repo.LoadedRepository, []repo.Failure)
}

// Recorder persists committed selections.
type Recorder interface {
	Commit(pkgs []selection.SelectedPackage) (*history.Entry, error)
}

// SnapshotCache keeps the last loaded snapshots for offline starts.
type SnapshotCache interface {
	SaveSnapshots(repos []*repo.LoadedRepository) error
}

// refreshEffect loads repositories off the store goroutine and dispatches the result.
func (a *App) refreshEffect(s State, e Event, dispatch func(Event)) {
	ev, ok := e.(RefreshRequested)
	if !ok {
		return
	}

	gen := s.refreshGen
	records := s.Records
	ctx := a.context()

	go func() {
		repos, failing := a.loader.Load(ctx, records)
		for _, f := range failing {
			a.logger.Warn("repository failed to load", "url", f.URL, "error", f.Err)
		}
		a.logger.Debug("repositories loaded", "count", len(repos), "failing", len(failing), "generation", gen)
		dispatch(RepositoriesLoaded{
			Repos:      repos,
			Failing:    failing,
			Explicit:   ev.Explicit,
			Generation: gen,
		})
	}()
}

// commitEffect records a commit in history. Without a recorder the commit
// is acknowledged with an entry that is not persisted.
func (a *App) commitEffect(s State, e Event, dispatch func(Event)) {
	if _, ok := e.(Commit); !ok || len(s.Committed) == 0 {
		return
	}

	pkgs := s.Committed
	if a.recorder == nil {
		dispatch(CommitRecorded{Entry: history.NewEntry(pkgs)})
		return
	}

	go func() {
		entry, err := a.recorder.Commit(pkgs)
		if err != nil {
			err = zerr.Wrap(err, "failed to record transaction")
		}
		dispatch(CommitRecorded{Entry: entry, Err: err})
	}()
}

// cacheEffect stores snapshots of every accepted load.
func (a *App) cacheEffect(s State, e Event, _ func(Event)) {
	ev, ok := e.(RepositoriesLoaded)
	if !ok || ev.Generation == 0 || s.stale(ev) || len(ev.Repos) == 0 {
		return
	}

	repos := ev.Repos
	ctx := a.context()
	go func() {
		if err := a.cache.SaveSnapshots(repos); err != nil {
			zerr.Log(ctx, a.logger, zerr.Wrap(err, "failed to cache snapshots"))
		}
	}()
}

func (a *App) effects() []store.Option {
	opts := []store.Option{
		store.WithEffect[State, Event](a.refreshEffect),
		store.WithEffect[State, Event](a.commitEffect),
	}
	if a.cache != nil {
		opts = append(opts, store.WithEffect[State, Event](a.cacheEffect))
	}
	return opts
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
