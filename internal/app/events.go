package app

import (
	"pahkat/internal/history"
	"pahkat/pkg/outline"
	"pahkat/pkg/repo"
	"pahkat/pkg/selection"
)

// Event is a value dispatched to the application store.
type Event interface {
	EventName() string
}

// RepositoriesLoaded delivers freshly loaded repository snapshots.
// Generation ties the result to the RefreshRequested that started it; results
// of superseded refreshes are ignored. Zero is always accepted and is used
// for snapshots restored from the cache.
type RepositoriesLoaded struct {
	Repos      []*repo.LoadedRepository
	Failing    []repo.Failure
	Explicit   bool
	Generation uint64
}

// RefreshRequested starts loading every configured repository.
// An explicit refresh also drops orphaned selections once it completes.
type RefreshRequested struct {
	Explicit bool
}

// SetRecords replaces the configured repositories.
type SetRecords struct {
	Records []repo.Record
}

// TogglePackage flips the selection of one package.
type TogglePackage struct {
	Key repo.PackageKey
}

// ToggleGroup flips the selection of every package in a group.
type ToggleGroup struct {
	Repo  string
	Group string
}

// SetFilter changes how a repository is grouped.
type SetFilter struct {
	Repo   string
	Filter outline.Filter
}

// SetSelection forces the selection of one package; nil clears it.
type SetSelection struct {
	Key       repo.PackageKey
	Selection *selection.SelectedPackage
}

// ReplaceSelection swaps the whole selection, for example to revert a transaction.
type ReplaceSelection struct {
	Selection selection.Selection
}

// SetLanguage changes the display language.
type SetLanguage struct {
	Lang string
}

// ClearSelection deselects everything.
type ClearSelection struct{}

// Commit hands the current selection to the installation pipeline.
type Commit struct{}

// CommitRecorded reports the outcome of recording a commit.
type CommitRecorded struct {
	Entry *history.Entry
	Err   error
}

// ErrorRaised records a recoverable failure in the state.
type ErrorRaised struct {
	Err error
}

func (RepositoriesLoaded) EventName() string { return "repositories_loaded" }
func (RefreshRequested) EventName() string   { return "refresh_requested" }
func (SetRecords) EventName() string         { return "set_records" }
func (TogglePackage) EventName() string      { return "toggle_package" }
func (ToggleGroup) EventName() string        { return "toggle_group" }
func (SetFilter) EventName() string          { return "set_filter" }
func (SetSelection) EventName() string       { return "set_selection" }
func (ReplaceSelection) EventName() string   { return "replace_selection" }
func (SetLanguage) EventName() string        { return "set_language" }
func (ClearSelection) EventName() string     { return "clear_selection" }
func (Commit) EventName() string             { return "commit" }
func (CommitRecorded) EventName() string     { return "commit_recorded" }
func (ErrorRaised) EventName() string        { return "error_raised" }
