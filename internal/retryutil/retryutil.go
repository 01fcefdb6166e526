package retryutil

import "github.com/avast/retry-go/v4"

func defaultOptions(opts []retry.Option) []retry.Option {
	return append([]retry.Option{retry.Attempts(3), retry.LastErrorOnly(true)}, opts...)
}

func RetryWithData[T any](f func() (T, error), opts ...retry.Option) (T, error) {
	return retry.DoWithData(f, defaultOptions(opts)...)
}

func RetryWithoutData(f func() error, opts ...retry.Option) error {
	return retry.Do(f, defaultOptions(opts)...)
}
