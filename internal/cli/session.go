package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/zerr"

	"pahkat/internal/app"
	"pahkat/internal/config"
	"pahkat/internal/history"
	"pahkat/internal/ui"
	"pahkat/pkg/database"
	"pahkat/pkg/repo"
)

// session is a running application store with its persistent stores.
type session struct {
	app      *app.App
	cache    *database.Store
	history  *history.Store
	registry *prometheus.Registry

	cancel context.CancelFunc
	done   chan error
}

type sessionOpts struct {
	// withHistory opens the transaction history as the commit recorder.
	withHistory bool
}

// openSession opens the cache, restores cached snapshots and starts the store.
func openSession(ctx context.Context, opts sessionOpts) (*session, error) {
	if len(cfg.Repositories) == 0 {
		return nil, ErrNoRepositories
	}

	cache, err := database.Open(config.CachePath())
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open package cache")
	}

	s := &session{cache: cache, done: make(chan error, 1)}

	deps := app.Deps{
		Records: cfg.Repositories,
		Filters: cfg.RepositoryFilters(),
		Settings: app.Settings{
			Language: cfg.DisplayLanguage(),
			Platform: sysInfo.Platform,
			Arch:     sysInfo.Arch,
		},
		Loader: &repo.Loader{Statuses: cache},
		Cache:  cache,
		Logger: logger,
	}

	if opts.withHistory {
		s.history, err = history.Open(config.HistoryPath())
		if err != nil {
			_ = cache.Close() //nolint:errcheck
			return nil, zerr.Wrap(err, "failed to open history")
		}
		deps.Recorder = s.history
	}

	if cfg.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		deps.Registerer = s.registry
	}

	s.app = app.New(deps)

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go func() {
		s.done <- s.app.Run(runCtx)
	}()

	s.restoreSnapshots()
	return s, nil
}

// restoreSnapshots publishes the cached catalog before the first refresh completes.
func (s *session) restoreSnapshots() {
	repos, err := s.cache.LoadSnapshots()
	if err != nil {
		logger.Warn("failed to read cached snapshots", "error", err)
		return
	}
	if len(repos) > 0 {
		logger.Debug("restored cached snapshots", "count", len(repos))
		s.app.Dispatch(app.RepositoriesLoaded{Repos: repos})
	}
}

// refresh reloads every repository behind a spinner. The refresh is explicit
// when the configured update check is due, which also prunes selections of
// packages that no longer exist.
func (s *session) refresh(ctx context.Context) (app.State, error) {
	now := time.Now()
	explicit := cfg.Updates.Due(now)

	var state app.State
	err := ui.Loading("Loading repositories", func() (int, int, error) {
		var err error
		state, err = s.app.Refresh(ctx, explicit)
		return len(state.Repositories), len(state.Failing), err
	})
	if err != nil {
		return state, err
	}

	if explicit {
		cfg.Updates.Advance(now)
		if err := saveConfig(); err != nil {
			logger.Warn("failed to save next update check", "error", err)
		}
	}

	ui.PrintFailures(os.Stderr, state.Failing)
	if len(state.Repositories) == 0 {
		return state, ErrNoRepositories
	}
	return state, nil
}

// close stops the store and closes the databases.
func (s *session) close() error {
	s.cancel()
	runErr := <-s.done
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	errs := []error{runErr, s.cache.Close()}
	if s.history != nil {
		errs = append(errs, s.history.Close())
	}
	return errors.Join(errs...)
}

func saveConfig() error {
	if cfgFile != "" {
		return cfg.SaveTo(cfgFile)
	}
	return cfg.Save()
}

// withSession runs fn with an open session and closes it afterwards.
func withSession(ctx context.Context, opts sessionOpts, fn func(*session) error) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	return errors.Join(fn(s), s.close())
}
