package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GetPool returns the underlying connection pool.
func (pgr *PostgresRepo) GetPool() *pgxpool.Pool {
	return pgr.pool
}

func ClearWords(ctx context.Context, pgr *PostgresRepo) error {
	_, err := pgr.pool.Exec(ctx, "DELETE FROM words")
	return err
}

func InsertWords(ctx context.Context, pgr *PostgresRepo, words ...string) error {
	for _, w := range words {
		if _, err := pgr.pool.Exec(ctx, "INSERT INTO words(word) VALUES($1) ON CONFLICT (word) DO NOTHING", w); err != nil {
			return err
		}
	}
	return nil
}
