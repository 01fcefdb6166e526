package configs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Db struct {
	Conn *pgxpool.Pool
}

func NewDb(ctx context.Context, databaseURL string) (Db, error) {
	conn, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return Db{}, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return Db{}, fmt.Errorf("failed to ping database: %w", err)
	}

	return Db{Conn: conn}, nil
}
