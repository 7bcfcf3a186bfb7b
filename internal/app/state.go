package app

import (
	"maps"

	"pahkat/internal/history"
	"pahkat/pkg/outline"
	"pahkat/pkg/repo"
	"pahkat/pkg/selection"
)

// Settings holds the display settings that affect the projected catalog.
type Settings struct {
	Language string
	Platform string
	Arch     string
}

// State is the complete application state owned by the store.
// Values are snapshots; reducers replace fields rather than mutating them.
type State struct {
	Settings Settings

	// Records are the configured repositories the refresh effect loads.
	Records []repo.Record

	Repositories []*repo.LoadedRepository
	Failing      []repo.Failure
	Filters      map[string]outline.Filter

	// Catalog is the grouped projection of Repositories.
	Catalog *outline.Catalog

	Selection selection.Selection
	// Orphaned are selected keys that no longer match a package in Catalog.
	Orphaned []repo.PackageKey
	Primary  selection.Label

	Loading bool
	Err     error

	// Committed is the last selection handed to the installation pipeline, in key order.
	Committed  []selection.SelectedPackage
	LastCommit *history.Entry

	refreshGen uint64
	builtFrom  catalogInputs
	reconciled *outline.Catalog
}

// FailingURLs returns the URLs of repositories that could not be loaded.
func (s State) FailingURLs() []string {
	urls := make([]string, len(s.Failing))
	for i, f := range s.Failing {
		urls[i] = f.URL
	}
	return urls
}

// Filter returns the grouping mode of a repository.
func (s State) Filter(url string) outline.Filter {
	if f, ok := s.Filters[url]; ok {
		return f
	}
	return outline.FilterCategory
}

type catalogInputs struct {
	repos   []*repo.LoadedRepository
	filters map[string]outline.Filter
	opts    outline.Options
}

func (c catalogInputs) equal(other catalogInputs) bool {
	return c.opts == other.opts &&
		maps.Equal(c.filters, other.filters) &&
		repo.SameSnapshots(c.repos, other.repos)
}

func (s State) catalogInputs() catalogInputs {
	return catalogInputs{
		repos:   s.Repositories,
		filters: s.Filters,
		opts: outline.Options{
			Platform: s.Settings.Platform,
			Language: s.Settings.Language,
		},
	}
}
