// Package postgres implements a Postgres-backed storage.Repository using
// pgx v5. Rows are loaded with COPY, which is the fastest bulk path for the
// append-only tables this pipeline mirrors.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketpipe/internal/storage"
)

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return New(ctx, cfg.DSN)
	})
}

// New opens a pgx pool for the given DSN (e.g. "postgresql://user@host/db").
func New(ctx context.Context, dsn string) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// EnsureTable drops and recreates the named table.
func (r *Repository) EnsureTable(ctx context.Context, name string, cols []storage.Column) error {
	if len(cols) == 0 {
		return fmt.Errorf("postgres: EnsureTable %s: no columns", name)
	}
	if _, err := r.pool.Exec(ctx, "DROP TABLE IF EXISTS "+pgFQN(name)); err != nil {
		return fmt.Errorf("postgres: drop %s: %w", name, err)
	}
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = pgIdent(c.Name) + " " + mapType(c.Type)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", pgFQN(name), strings.Join(defs, ", "))
	if _, err := r.pool.Exec(ctx, create); err != nil {
		return fmt.Errorf("postgres: create %s: %w", name, err)
	}
	return nil
}

// InsertRows bulk-loads rows via COPY.
func (r *Repository) InsertRows(ctx context.Context, name string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := r.pool.CopyFrom(ctx, splitFQN(name), columns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("postgres: copy into %s: %w", name, err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// mapType maps a logical column type onto a Postgres type.
func mapType(logical string) string {
	switch logical {
	case storage.TypeInteger:
		return "BIGINT"
	case storage.TypeReal:
		return "DOUBLE PRECISION"
	case storage.TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN quotes a possibly schema-qualified name like "public.orders_wide" to
// "public"."orders_wide". If no dot is present, returns a single quoted ident.
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
// If no dot is present, returns {"table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, p)
		}
	}
	return id
}
