package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB defines the interface for database operations.
// It is implemented by *pgxpool.Pool and can be mocked for testing.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresBackend stores each document as one jsonb row. Useful when the
// service runs somewhere with a database instead of a writable disk.
type PostgresBackend struct {
	db DB
}

func NewPostgresBackend(db DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func AutoMigrate(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS store_documents(
          name TEXT PRIMARY KEY,
          data JSONB NOT NULL,
          updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
      )
  `)
	return err
}

func (b *PostgresBackend) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := b.db.QueryRow(ctx, `
        SELECT data FROM store_documents WHERE name=$1
    `, name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *PostgresBackend) Save(ctx context.Context, name string, data []byte) error {
	_, err := b.db.Exec(ctx, `
        INSERT INTO store_documents(name, data, updated_at)
        VALUES($1,$2,now())
        ON CONFLICT(name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
    `, name, data)
	return err
}
