package repo

import "go.trai.ch/zerr"

var (
	// ErrInvalidKey is returned when a string is not a canonical package key.
	ErrInvalidKey = zerr.New("invalid package key")

	// ErrIndexRead is returned when a repository index cannot be read.
	ErrIndexRead = zerr.New("failed to read repository index")

	// ErrIndexDecode is returned when a repository index cannot be decoded.
	ErrIndexDecode = zerr.New("failed to decode repository index")

	// ErrUnsupportedFormat is returned for index files with an unknown extension.
	ErrUnsupportedFormat = zerr.New("unsupported index format")

	// ErrNoIndex is returned when a repository record has no index path configured.
	ErrNoIndex = zerr.New("repository has no index")
)
