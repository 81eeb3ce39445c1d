package slotstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var postgresDialect = dialect{
	name: "postgresql",
	schema: `
		CREATE TABLE IF NOT EXISTS slots (
			slot_key TEXT PRIMARY KEY,
			value BYTEA NOT NULL,
			version INT NOT NULL DEFAULT 1,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`,
	get: `SELECT value FROM slots WHERE slot_key = $1`,
	put: `
		INSERT INTO slots (slot_key, value, version, updated_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (slot_key) DO UPDATE
		SET value = EXCLUDED.value,
		    version = slots.version + 1,
		    updated_at = EXCLUDED.updated_at
	`,
	version: `SELECT version FROM slots WHERE slot_key = $1`,
}

// NewPostgres creates the slots table on db if needed.
func NewPostgres(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	return newSQLStore(ctx, db, postgresDialect)
}

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store, err := NewPostgres(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// describeDriverError adds the SQLSTATE code to postgres errors.
func describeDriverError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%w (sqlstate %s)", err, pqErr.Code)
	}
	return err
}
