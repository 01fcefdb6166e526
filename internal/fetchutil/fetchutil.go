// Package fetchutil models per-source fetch outcomes so callers can degrade
// transient remote failures to empty values without losing sight of them.
package fetchutil

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// FetchError is a transient failure reaching a remote data source. Not-found
// and server errors are deliberately not told apart.
type FetchError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func IsTransient(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

type Result[T any] struct {
	Source string
	Value  T
	Err    error
}

func Fetch[T any](source string, f func() (T, error)) Result[T] {
	value, err := f()
	return Result[T]{Source: source, Value: value, Err: err}
}

// OrEmpty degrades a transient failure to empty, logging it at warn level.
// Any other failure is returned unchanged.
func (r Result[T]) OrEmpty(logger zerolog.Logger, empty T) (T, error) {
	if r.Err == nil {
		return r.Value, nil
	}

	if IsTransient(r.Err) {
		logger.Warn().Err(r.Err).Str("source", r.Source).Msg("degrading to empty value")
		return empty, nil
	}

	return empty, fmt.Errorf("failed to load %s: %w", r.Source, r.Err)
}
