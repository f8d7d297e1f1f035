package sqlite

import (
	"context"
	"testing"
	"time"

	"marketpipe/internal/storage"
)

func openMem(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestEnsureTableAndInsert(t *testing.T) {
	ctx := context.Background()
	repo := openMem(t)

	cols := []storage.Column{
		{Name: "order_id", Type: storage.TypeText},
		{Name: "total_orders", Type: storage.TypeInteger},
		{Name: "total_spent", Type: storage.TypeReal},
		{Name: "purchased", Type: storage.TypeTimestamp},
	}
	if err := repo.EnsureTable(ctx, "customer_summary", cols); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	names := []string{"order_id", "total_orders", "total_spent", "purchased"}
	rows := [][]any{
		{"o1", int64(3), 25.0, time.Date(2017, 10, 2, 0, 0, 0, 0, time.UTC)},
		{"o2", int64(1), 5.0, nil},
	}
	if err := repo.InsertRows(ctx, "customer_summary", names, rows); err != nil {
		t.Fatalf("InsertRows: %v", err)
	}

	var n int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "customer_summary"`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}

func TestEnsureTableReplaces(t *testing.T) {
	ctx := context.Background()
	repo := openMem(t)

	cols := []storage.Column{{Name: "a", Type: storage.TypeText}}
	if err := repo.EnsureTable(ctx, "t", cols); err != nil {
		t.Fatalf("first EnsureTable: %v", err)
	}
	if err := repo.InsertRows(ctx, "t", []string{"a"}, [][]any{{"x"}}); err != nil {
		t.Fatalf("InsertRows: %v", err)
	}
	// recreating drops prior contents, matching the writer's overwrite semantics
	if err := repo.EnsureTable(ctx, "t", cols); err != nil {
		t.Fatalf("second EnsureTable: %v", err)
	}
	var n int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "t"`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("count = %d, want 0 after recreate", n)
	}
}

func TestInsertRowsLengthMismatch(t *testing.T) {
	ctx := context.Background()
	repo := openMem(t)
	if err := repo.EnsureTable(ctx, "t", []storage.Column{{Name: "a", Type: storage.TypeText}}); err != nil {
		t.Fatal(err)
	}
	err := repo.InsertRows(ctx, "t", []string{"a"}, [][]any{{"x", "extra"}})
	if err == nil {
		t.Fatal("expected length mismatch error")
	}
}
