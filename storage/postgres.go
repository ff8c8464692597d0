package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresWordSource draws random words from the words table. It satisfies
// the game package's RandomWordGenerator.
type PostgresWordSource struct {
	pool *pgxpool.Pool
}

func NewPostgresWordSource(ctx context.Context, connString string) (*PostgresWordSource, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("could not create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not reach database: %w", err)
	}
	return &PostgresWordSource{pool: pool}, nil
}

// Generate returns a uniformly random word. On database trouble it returns
// the empty string, which the game treats as an unguessable word, and logs
// the error instead of failing a round.
func (s *PostgresWordSource) Generate() string {
	var word string
	err := s.pool.QueryRow(context.Background(),
		"SELECT word FROM words ORDER BY RANDOM() LIMIT 1").Scan(&word)
	if err != nil {
		slog.Error("could not fetch random word", "err", err)
		return ""
	}
	return word
}

func (s *PostgresWordSource) Close() {
	s.pool.Close()
}
