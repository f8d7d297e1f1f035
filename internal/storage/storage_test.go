package storage

import (
	"context"
	"fmt"
	"testing"

	"marketpipe/internal/table"
)

// fakeRepo records the calls Mirror makes against a backend.
type fakeRepo struct {
	ensured  []string
	inserted map[string][][]any
	failOn   string
	closed   bool
}

func (f *fakeRepo) EnsureTable(ctx context.Context, name string, cols []Column) error {
	if name == f.failOn {
		return fmt.Errorf("boom")
	}
	f.ensured = append(f.ensured, name)
	return nil
}

func (f *fakeRepo) InsertRows(ctx context.Context, name string, columns []string, rows [][]any) error {
	if f.inserted == nil {
		f.inserted = map[string][][]any{}
	}
	f.inserted[name] = append(f.inserted[name], rows...)
	return nil
}

func (f *fakeRepo) Close() error {
	f.closed = true
	return nil
}

func registerFake(t *testing.T) *fakeRepo {
	t.Helper()
	repo := &fakeRepo{}
	Register("fake", func(ctx context.Context, cfg Config) (Repository, error) {
		return repo, nil
	})
	return repo
}

func TestMirror(t *testing.T) {
	repo := registerFake(t)

	tab := table.New("customer_summary", []string{"customer_id", "total_orders"})
	tab.Append(table.Record{"customer_id": "c1", "total_orders": int64(3)})
	tab.Append(table.Record{"customer_id": "c2", "total_orders": int64(1)})

	cfg := Config{Kind: "fake", TablePrefix: "mp_"}
	if err := Mirror(context.Background(), cfg, tab); err != nil {
		t.Fatalf("Mirror: %v", err)
	}

	if len(repo.ensured) != 1 || repo.ensured[0] != "mp_customer_summary" {
		t.Fatalf("ensured = %v", repo.ensured)
	}
	rows := repo.inserted["mp_customer_summary"]
	if len(rows) != 2 {
		t.Fatalf("inserted %d rows, want 2", len(rows))
	}
	// row values follow the table's column order
	if rows[0][0] != "c1" || rows[0][1] != int64(3) {
		t.Fatalf("row 0 = %v", rows[0])
	}
	if !repo.closed {
		t.Fatal("repository not closed")
	}
}

func TestMirrorPropagatesFailure(t *testing.T) {
	repo := registerFake(t)
	repo.failOn = "orders_wide"

	tab := table.New("orders_wide", []string{"order_id"})
	tab.Append(table.Record{"order_id": "o1"})

	if err := Mirror(context.Background(), Config{Kind: "fake"}, tab); err == nil {
		t.Fatal("expected mirror failure")
	}
	if !repo.closed {
		t.Fatal("repository not closed on failure")
	}
}

func TestNewUnknownKind(t *testing.T) {
	if _, err := New(context.Background(), Config{Kind: "nope"}); err == nil {
		t.Fatal("expected error for unregistered kind")
	}
}
