package ui

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

var spinnerOut io.Writer = os.Stderr

func newSpinner(message string) *spinner.Spinner {
	chars := spinner.CharSets[14]
	if !UseUnicode {
		chars = spinner.CharSets[9]
	}

	s := spinner.New(chars, 100*time.Millisecond, spinner.WithWriter(spinnerOut), spinner.WithHiddenCursor(true))
	s.Suffix = " " + message
	if UseColors {
		_ = s.Color("magenta") //nolint:errcheck
	}
	return s
}

// Loading runs fn behind a spinner and reports how many repositories were
// loaded and how many failed. Errors are returned, not printed.
func Loading(message string, fn func() (loaded, failed int, err error)) error {
	s := newSpinner(message)
	s.Start()
	start := time.Now()

	loaded, failed, err := fn()
	s.Stop()

	switch {
	case err != nil:
	case failed > 0:
		WarningMsg("Loaded %d of %d repositories", loaded, loaded+failed)
	default:
		MutedMsg("Loaded %d repositories in %s", loaded, time.Since(start).Round(time.Millisecond))
	}
	return err
}
