// Package logging builds the slog loggers used by pahkat.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.trai.ch/zerr"
)

// ErrInvalidLevel is returned for an unknown log level name.
var ErrInvalidLevel = zerr.New("invalid log level")

// Options configures New.
type Options struct {
	Level  string
	JSON   bool
	Output io.Writer
}

// New returns a logger writing pretty or JSON lines. It falls back to the
// warn level when opts.Level is empty.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	w := opts.Output
	if w == nil {
		w = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(NewPrettyHandler(w, handlerOpts)), nil
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
}

// messager is implemented by zerr errors and reports the message without the cause chain.
type messager interface {
	Message() string
}

// ErrorChain returns the messages of err and its causes, outermost first.
func ErrorChain(err error) []string {
	var messages []string
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			messages = append(messages, current.Error())
			break
		}
		if msg := m.Message(); msg != "" {
			messages = append(messages, msg)
		}
		current = errors.Unwrap(current)
	}
	return messages
}

// FormatError renders err with its causes on separate indented lines.
func FormatError(err error) string {
	messages := ErrorChain(err)
	if len(messages) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(messages[0])
	for i, msg := range messages[1:] {
		if i == 0 {
			b.WriteString("\n  caused by:")
		}
		b.WriteString("\n    -> " + msg)
	}
	return b.String()
}
