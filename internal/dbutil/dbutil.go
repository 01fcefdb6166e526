package dbutil

import (
	"context"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RetryableTxWithData[T any](
	ctx context.Context,
	conn *pgxpool.Pool,
	f func(tx pgx.Tx) (T, error),
	opts ...retry.Option,
) (T, error) {
	retryableFunc := func() (zero T, err error) {
		var tx pgx.Tx
		tx, err = conn.Begin(ctx)
		if err != nil {
			return zero, err
		}

		defer func() {
			if err == nil {
				err = tx.Commit(ctx)
			}

			if err != nil {
				tx.Rollback(ctx)
			}
		}()

		return f(tx)
	}

	opts = append([]retry.Option{retry.Attempts(3), retry.LastErrorOnly(true), retry.Context(ctx)}, opts...)
	return retry.DoWithData(retryableFunc, opts...)
}

func RetryableTxWithoutData(
	ctx context.Context,
	conn *pgxpool.Pool,
	f func(tx pgx.Tx) error,
	opts ...retry.Option,
) error {
	_, err := RetryableTxWithData(ctx, conn, func(tx pgx.Tx) (struct{}, error) {
		return struct{}{}, f(tx)
	}, opts...)
	return err
}
