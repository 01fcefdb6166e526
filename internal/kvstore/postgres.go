package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mdayat/nur-ramadan/internal/dbutil"
	"github.com/mdayat/nur-ramadan/internal/retryutil"
)

const createPostgresTable = `CREATE TABLE IF NOT EXISTS kv_store (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertPostgres = `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// PostgresStore keeps the device store in a shared Postgres table, for
// installations that run the companion server next to a database.
type PostgresStore struct {
	conn *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, conn *pgxpool.Pool) (*PostgresStore, error) {
	err := retryutil.RetryWithoutData(func() error {
		_, err := conn.Exec(ctx, createPostgresTable)
		return err
	}, retry.RetryIf(isRetryable), retry.Context(ctx))

	if err != nil {
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}

	return &PostgresStore{conn: conn}, nil
}

// isRetryable keeps retries to failures that a second attempt can fix.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgErr.Code == pgerrcode.SerializationFailure ||
			pgErr.Code == pgerrcode.DeadlockDetected
	}

	return pgconn.SafeToRetry(err)
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := retryutil.RetryWithData(func() (string, error) {
		var value string
		err := s.conn.QueryRow(ctx, "SELECT value FROM kv_store WHERE key = $1", key).Scan(&value)
		return value, err
	}, retry.RetryIf(isRetryable), retry.Context(ctx))

	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to select %s: %w", key, err)
	}

	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	err := retryutil.RetryWithoutData(func() error {
		_, err := s.conn.Exec(ctx, upsertPostgres, key, value)
		return err
	}, retry.RetryIf(isRetryable), retry.Context(ctx))

	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, key string, fn func(string, bool) (string, error)) error {
	return dbutil.RetryableTxWithoutData(ctx, s.conn, func(tx pgx.Tx) error {
		var current string
		ok := true
		err := tx.QueryRow(ctx, "SELECT value FROM kv_store WHERE key = $1 FOR UPDATE", key).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			ok = false
		} else if err != nil {
			return fmt.Errorf("failed to select %s: %w", key, err)
		}

		value, err := fn(current, ok)
		if err != nil {
			return retry.Unrecoverable(err)
		}

		if _, err := tx.Exec(ctx, upsertPostgres, key, value); err != nil {
			return fmt.Errorf("failed to upsert %s: %w", key, err)
		}

		return nil
	}, retry.RetryIf(isRetryable))
}

func (s *PostgresStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := retryutil.RetryWithData(func() ([]string, error) {
		rows, err := s.conn.Query(ctx, `SELECT key FROM kv_store WHERE key LIKE $1 ESCAPE '\' ORDER BY key`, escapeLike(prefix))
		if err != nil {
			return nil, err
		}
		return pgx.CollectRows(rows, pgx.RowTo[string])
	}, retry.RetryIf(isRetryable), retry.Context(ctx))

	if err != nil {
		return nil, fmt.Errorf("failed to select keys: %w", err)
	}
	return keys, nil
}

// Close is a no-op; the pool belongs to the caller.
func (s *PostgresStore) Close() error {
	return nil
}
