// Package history records committed package transactions with BoltDB.
package history

import (
	"strconv"
	"time"

	"pahkat/pkg/selection"
)

// Status is the state of a recorded transaction.
type Status string

const (
	// StatusCommitted means the transaction was handed to the package client.
	StatusCommitted Status = "committed"
	// StatusFailed means the hand-off failed.
	StatusFailed Status = "failed"
)

// Entry is a single committed transaction.
type Entry struct {
	ID        string                      `json:"id"`
	Timestamp time.Time                   `json:"timestamp"`
	Packages  []selection.SelectedPackage `json:"packages"`
	Status    Status                      `json:"status"`
	Error     string                      `json:"error,omitempty"`
}

// NewEntry creates a committed entry for the given packages.
func NewEntry(pkgs []selection.SelectedPackage) *Entry {
	cp := make([]selection.SelectedPackage, len(pkgs))
	copy(cp, pkgs)

	return &Entry{
		ID:        generateID(),
		Timestamp: time.Now(),
		Packages:  cp,
		Status:    StatusCommitted,
	}
}

// MarkFailed marks the entry as failed with an error message.
func (e *Entry) MarkFailed(err error) {
	e.Status = StatusFailed
	if err != nil {
		e.Error = err.Error()
	}
}

// generateID generates a unique ID for the entry.
func generateID() string {
	return time.Now().Format("20060102150405.000000")
}

// Counts returns the number of installs and uninstalls in the entry.
func (e *Entry) Counts() (installs, uninstalls int) {
	for _, p := range e.Packages {
		switch p.Action {
		case selection.ActionInstall:
			installs++
		case selection.ActionUninstall:
			uninstalls++
		}
	}
	return installs, uninstalls
}

// CanRevert returns true if the entry was committed and touched at least one package.
func (e *Entry) CanRevert() bool {
	return e.Status == StatusCommitted && len(e.Packages) > 0
}

// Reverse returns the selection that undoes the entry: installs become
// uninstalls and the other way round, on the same targets.
func (e *Entry) Reverse() selection.Selection {
	out := make([]selection.SelectedPackage, 0, len(e.Packages))
	for _, p := range e.Packages {
		switch p.Action {
		case selection.ActionInstall:
			p.Action = selection.ActionUninstall
		case selection.ActionUninstall:
			p.Action = selection.ActionInstall
		}
		out = append(out, p)
	}
	return selection.New(out...)
}

// FormatTime returns a human-readable timestamp.
func (e *Entry) FormatTime() string {
	return e.Timestamp.Format("2006-01-02 15:04:05")
}

// Summary returns a brief summary of the transaction.
func (e *Entry) Summary() string {
	installs, uninstalls := e.Counts()
	s := e.FormatTime() + " +" + strconv.Itoa(installs) + " -" + strconv.Itoa(uninstalls)
	if len(e.Packages) > 0 {
		s += " " + e.Packages[0].Descriptor.ID
		if len(e.Packages) > 1 {
			s += " (+" + strconv.Itoa(len(e.Packages)-1) + " more)"
		}
	}
	return s + " [" + string(e.Status) + "]"
}
