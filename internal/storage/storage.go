// Package storage mirrors the pipeline's result tables into a relational
// database. Mirroring is optional and runs after the CSV outputs are written;
// it exists so downstream consumers can query the flattened tables directly
// instead of re-importing the flat files.
package storage

import (
	"context"
	"fmt"
	"log"
	"sync"

	"marketpipe/internal/table"
)

// Config selects and configures the mirror backend.
type Config struct {
	// Kind selects the backend: "sqlite" or "postgres". Empty disables
	// mirroring.
	Kind string `json:"kind" yaml:"kind"`

	// DSN is the backend connection string: a file path (or :memory:) for
	// sqlite, a pgxpool URL for postgres.
	DSN string `json:"dsn" yaml:"dsn"`

	// TablePrefix is prepended to each mirrored table name.
	TablePrefix string `json:"table_prefix" yaml:"table_prefix"`
}

// Column is one column of a mirrored table definition. Type is a logical
// type ("text", "integer", "real", "timestamp") that each backend maps to
// its own SQL type.
type Column struct {
	Name string
	Type string
}

// Repository is the minimal sink interface implemented by each backend.
type Repository interface {
	// EnsureTable drops and recreates the named table with the given
	// definition, matching the writer's overwrite semantics.
	EnsureTable(ctx context.Context, name string, cols []Column) error

	// InsertRows appends rows to the named table. Row values are ordered
	// like columns; len(row) must equal len(columns).
	InsertRows(ctx context.Context, name string, columns []string, rows [][]any) error

	Close() error
}

// Factory constructs a Repository for a Config. Backends register their
// factory at init time; callers import marketpipe/internal/storage/all (or a
// subset) to make kinds available.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	facMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a storage kind. It is
// called from backend packages' init() functions.
func Register(kind string, fn Factory) {
	facMu.Lock()
	defer facMu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg.Kind using the registered factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	facMu.RLock()
	fn, ok := factories[cfg.Kind]
	facMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no storage backend registered for kind %q", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// insertBatchSize bounds how many rows are buffered per insert call.
const insertBatchSize = 500

// Mirror writes each table into the configured backend. Each table is
// dropped and recreated, then loaded in batches. Any failure is fatal;
// tables mirrored before the failure are left in place.
func Mirror(ctx context.Context, cfg Config, tables ...*table.Table) error {
	repo, err := New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("mirror: %w", err)
	}
	defer repo.Close()

	for _, t := range tables {
		name := cfg.TablePrefix + t.Name
		if err := mirrorTable(ctx, repo, name, t); err != nil {
			return fmt.Errorf("mirror %s: %w", name, err)
		}
		log.Printf("mirrored %s: %d rows into %s", t.Name, t.NumRows(), name)
	}
	return nil
}

func mirrorTable(ctx context.Context, repo Repository, name string, t *table.Table) error {
	cols := InferColumns(t)
	if err := repo.EnsureTable(ctx, name, cols); err != nil {
		return err
	}

	batch := make([][]any, 0, insertBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := repo.InsertRows(ctx, name, t.Columns, batch)
		batch = batch[:0]
		return err
	}

	for _, r := range t.Rows {
		row := make([]any, len(t.Columns))
		for i, c := range t.Columns {
			row[i] = r[c]
		}
		batch = append(batch, row)
		if len(batch) >= insertBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
