package repo

import (
	"context"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// StatusProvider reports the installation status of packages.
// Implementations return false for packages they have no record of.
type StatusProvider interface {
	Status(key PackageKey, d Descriptor) (PackageStatus, bool)
}

// Failure records a repository that could not be loaded.
type Failure struct {
	URL string
	Err error
}

// Loader reads repository indexes for configured records.
type Loader struct {
	// Statuses resolves installation status; nil means every package is not installed.
	Statuses StatusProvider
	// Concurrency bounds parallel index reads; zero means unbounded.
	Concurrency int
}

// Load reads every record concurrently. A failing repository does not prevent
// the others from loading; successful snapshots are returned in record order.
func (l *Loader) Load(ctx context.Context, records []Record) ([]*LoadedRepository, []Failure) {
	results := make([]*LoadedRepository, len(records))
	errs := make([]error, len(records))

	g, ctx := errgroup.WithContext(ctx)
	if l.Concurrency > 0 {
		g.SetLimit(l.Concurrency)
	}

	for i, rec := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			results[i], errs[i] = l.loadOne(rec)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck

	var repos []*LoadedRepository
	var failures []Failure
	for i, rec := range records {
		if errs[i] != nil {
			failures = append(failures, Failure{URL: rec.URL, Err: errs[i]})
			continue
		}
		repos = append(repos, results[i])
	}

	return repos, failures
}

func (l *Loader) loadOne(rec Record) (*LoadedRepository, error) {
	if rec.Index == "" {
		return nil, zerr.With(zerr.Wrap(ErrNoIndex, "cannot load repository"), "url", rec.URL)
	}

	idx, err := ReadIndex(rec.Index)
	if err != nil {
		return nil, zerr.With(err, "url", rec.URL)
	}

	snap := idx.Snapshot(rec)
	if l.Statuses == nil {
		return snap, nil
	}

	statuses := make(map[PackageKey]PackageStatus)
	for _, d := range snap.Descriptors() {
		key := snap.PackageKey(d)
		if st, ok := l.Statuses.Status(key, d); ok {
			statuses[key] = st
		}
	}

	return snap.WithStatuses(statuses), nil
}
