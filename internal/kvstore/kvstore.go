// Package kvstore holds the device key-value stores backing the local
// persistence adapter.
package kvstore

import (
	"context"
	"strings"
)

type Store interface {
	// Get reports ok=false when the key has never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Update applies fn to the current value and writes the result as one
	// atomic step.
	Update(ctx context.Context, key string, fn func(value string, ok bool) (string, error)) error
	// Keys lists stored keys with the given prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

func escapeLike(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
