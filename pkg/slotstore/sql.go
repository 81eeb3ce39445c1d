package slotstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// dialect carries the driver-specific statements for a SQL-backed store.
type dialect struct {
	name    string
	schema  string
	get     string
	put     string
	version string
}

// SQLStore keeps slots in a relational table with a per-slot version counter.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	tracer  trace.Tracer
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect) (*SQLStore, error) {
	s := &SQLStore{
		db:      db,
		dialect: d,
		tracer:  otel.Tracer("storefront/slotstore"),
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		return nil, fmt.Errorf("create %s slot schema: %w", d.name, err)
	}
	return s, nil
}

// Get returns the slot value, or ErrSlotNotFound.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "slotstore.get",
		trace.WithAttributes(
			attribute.String("db.system", s.dialect.name),
			attribute.String("slot.key", key),
		),
	)
	defer span.End()

	if key == "" {
		return nil, ErrEmptyKey
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetAttributes(attribute.Bool("slot.found", false))
		return nil, ErrSlotNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query slot: %w", err)
	}

	span.SetAttributes(
		attribute.Bool("slot.found", true),
		attribute.Int("slot.bytes", len(value)),
	)
	return value, nil
}

// Put upserts the slot value and bumps its version.
func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	ctx, span := s.tracer.Start(ctx, "slotstore.put",
		trace.WithAttributes(
			attribute.String("db.system", s.dialect.name),
			attribute.String("slot.key", key),
			attribute.Int("slot.bytes", len(value)),
		),
	)
	defer span.End()

	if key == "" {
		return ErrEmptyKey
	}

	if _, err := s.db.ExecContext(ctx, s.dialect.put, key, value, time.Now().UTC()); err != nil {
		span.RecordError(err)
		return fmt.Errorf("upsert slot: %w", describeDriverError(err))
	}
	return nil
}

// Version returns how many times the slot has been written, or 0 if it does not exist.
func (s *SQLStore) Version(ctx context.Context, key string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "slotstore.version",
		trace.WithAttributes(attribute.String("slot.key", key)),
	)
	defer span.End()

	var version int
	err := s.db.QueryRowContext(ctx, s.dialect.version, key).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query version: %w", err)
	}

	span.SetAttributes(attribute.Int("slot.version", version))
	return version, nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
