package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scribble/domain"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (pgr *PostgresRepo) Close() {
	pgr.pool.Close()
}

func (pgr *PostgresRepo) Ping(ctx context.Context) error {
	if err := pgr.pool.Ping(ctx); err != nil {
		return wrapErr(err)
	}
	return nil
}

// Words returns the whole word list in insertion order. An empty table yields
// domain.ErrNoWords.
func (pgr *PostgresRepo) Words(ctx context.Context) ([]string, error) {
	rows, err := pgr.pool.Query(ctx, "SELECT word FROM words ORDER BY id")
	if err != nil {
		return nil, wrapErr(err)
	}

	words, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrapErr(err)
	}
	if len(words) == 0 {
		return nil, domain.ErrNoWords
	}
	return words, nil
}

func wrapErr(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
}
