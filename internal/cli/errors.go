package cli

import "go.trai.ch/zerr"

var (
	// ErrNoRepositories is returned when no repository is configured or none could be loaded.
	ErrNoRepositories = zerr.New("no repositories available; add [[repositories]] to config.toml")

	// ErrPackageNotFound is returned when a package cannot be found.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrNotRevertible is returned for history entries that cannot be undone.
	ErrNotRevertible = zerr.New("transaction cannot be reverted")

	// ErrInvalidTarget is returned for an install target other than user or system.
	ErrInvalidTarget = zerr.New("invalid install target")

	// ErrAborted is returned when the user aborts an operation.
	ErrAborted = zerr.New("operation aborted by user")
)
