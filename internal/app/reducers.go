package app

import (
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"

	"pahkat/pkg/outline"
	"pahkat/pkg/repo"
	"pahkat/pkg/selection"
	"pahkat/pkg/store"
)

var (
	// ErrUnknownPackage is raised when an event names a key missing from the catalog.
	ErrUnknownPackage = zerr.New("package not in catalog")
	// ErrUnknownGroup is raised when an event names a group missing from the catalog.
	ErrUnknownGroup = zerr.New("group not in catalog")
	// ErrNothingSelected is raised when committing an empty selection.
	ErrNothingSelected = zerr.New("no packages selected")
)

// reducers returns the application reducers in the order they are applied.
// Each stage sees the state produced by the previous one.
func reducers() []store.Reducer[State, Event] {
	return []store.Reducer[State, Event]{
		reduceCatalog,
		reduceOutline,
		reduceSelection,
		reduceLabel,
	}
}

func (s State) stale(ev RepositoriesLoaded) bool {
	return ev.Generation != 0 && ev.Generation != s.refreshGen
}

func reduceCatalog(s State, e Event) State {
	switch ev := e.(type) {
	case SetRecords:
		s.Records = ev.Records

	case RefreshRequested:
		s.refreshGen++
		s.Loading = true
		s.Err = nil

	case RepositoriesLoaded:
		if s.stale(ev) {
			return s
		}
		if ev.Generation != 0 {
			s.Loading = false
		}
		if !repo.SameSnapshots(s.Repositories, ev.Repos) {
			s.Repositories = ev.Repos
		}
		s.Failing = ev.Failing

	case SetFilter:
		filters := maps.Clone(s.Filters)
		if filters == nil {
			filters = make(map[string]outline.Filter)
		}
		filters[ev.Repo] = ev.Filter
		s.Filters = filters

	case SetLanguage:
		s.Settings.Language = ev.Lang

	case ErrorRaised:
		s.Err = ev.Err
	}

	return s
}

// reduceOutline rebuilds the catalog only when its inputs changed.
func reduceOutline(s State, _ Event) State {
	in := s.catalogInputs()
	if s.Catalog != nil && s.builtFrom.equal(in) {
		return s
	}

	s.Catalog = outline.BuildAll(in.repos, in.filters, in.opts)
	s.builtFrom = in
	return s
}

func reduceSelection(s State, e Event) State {
	switch ev := e.(type) {
	case TogglePackage:
		p, ok := s.Catalog.Package(ev.Key)
		switch {
		case ok:
			s.Selection = selection.Toggle(s.Selection, p)
		case s.Selection.Has(ev.Key):
			// orphans can only be deselected
			s.Selection = s.Selection.Without(ev.Key)
		default:
			s.Err = zerr.With(zerr.Wrap(ErrUnknownPackage, "cannot toggle"), "key", ev.Key.String())
		}

	case ToggleGroup:
		_, pkgs, ok := s.Catalog.Group(ev.Repo, ev.Group)
		if !ok {
			s.Err = zerr.With(zerr.With(zerr.Wrap(ErrUnknownGroup, "cannot toggle"), "repo", ev.Repo), "group", ev.Group)
			break
		}
		s.Selection = selection.ToggleGroup(s.Selection, pkgs)

	case SetSelection:
		p, ok := s.Catalog.Package(ev.Key)
		switch {
		case ok:
			s.Selection = selection.Set(s.Selection, p, ev.Selection)
		case ev.Selection == nil:
			s.Selection = s.Selection.Without(ev.Key)
		default:
			s.Err = zerr.With(zerr.Wrap(ErrUnknownPackage, "cannot select"), "key", ev.Key.String())
		}

	case ReplaceSelection:
		s.Selection = ev.Selection
		s.reconciled = nil

	case ClearSelection:
		s.Selection = selection.Selection{}

	case Commit:
		if s.Selection.Len() == 0 {
			s.Committed = nil
			s.Err = ErrNothingSelected
			break
		}
		s.Committed = s.Selection.Values()

	case CommitRecorded:
		if ev.Err != nil {
			s.Err = ev.Err
			break
		}
		s.LastCommit = ev.Entry
		if ev.Entry == nil {
			break
		}
		// Only the packages of this transaction leave the selection; a
		// later Commit may still be in flight.
		keys := make([]repo.PackageKey, len(ev.Entry.Packages))
		for i, sp := range ev.Entry.Packages {
			keys[i] = sp.Key
		}
		s.Selection = s.Selection.Without(keys...)
	}

	if s.Catalog != s.reconciled {
		s.Selection, s.Orphaned = selection.Reconcile(s.Selection, s.Catalog)
		s.reconciled = s.Catalog
	} else {
		// Orphaned stays a subset of the selection keys, in Reconcile order.
		s.Orphaned = slices.DeleteFunc(slices.Clone(s.Orphaned), func(k repo.PackageKey) bool {
			return !s.Selection.Has(k)
		})
	}

	if ev, ok := e.(RepositoriesLoaded); ok && ev.Explicit && !s.stale(ev) {
		s.Selection, s.Orphaned = pruneOrphans(s.Selection, s.Orphaned, ev.Failing)
	}

	return s
}

// pruneOrphans drops orphaned selections after an explicit refresh. Orphans
// of repositories that failed to load are kept: their packages were not
// removed, only unreachable.
func pruneOrphans(sel selection.Selection, orphans []repo.PackageKey, failing []repo.Failure) (selection.Selection, []repo.PackageKey) {
	unreachable := make(map[string]bool, len(failing))
	for _, f := range failing {
		unreachable[strings.TrimRight(f.URL, "/")] = true
	}

	var gone, kept []repo.PackageKey
	for _, k := range orphans {
		if unreachable[k.RepositoryURL] {
			kept = append(kept, k)
		} else {
			gone = append(gone, k)
		}
	}
	return selection.Prune(sel, gone), kept
}

func reduceLabel(s State, _ Event) State {
	s.Primary = selection.PrimaryAction(s.Selection)
	return s
}
