package table

import "testing"

func sample() *Table {
	t := New("orders", []string{"order_id", "customer_id", "status"})
	t.Append(Record{"order_id": "o1", "customer_id": "c1", "status": "delivered"})
	t.Append(Record{"order_id": "o2", "customer_id": nil, "status": "shipped"})
	return t
}

func TestSelect(t *testing.T) {
	tab := sample()
	got, err := tab.Select("order_id", "status")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got.NumCols() != 2 || got.NumRows() != 2 {
		t.Fatalf("got %dx%d, want 2x2", got.NumRows(), got.NumCols())
	}
	if _, ok := got.Rows[0]["customer_id"]; ok {
		t.Fatalf("projection kept customer_id")
	}
	if got.Rows[1]["status"] != "shipped" {
		t.Fatalf("status = %v, want shipped", got.Rows[1]["status"])
	}
}

func TestSelectMissingColumn(t *testing.T) {
	if _, err := sample().Select("order_id", "nope"); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestMissingCells(t *testing.T) {
	if n := sample().MissingCells(); n != 1 {
		t.Fatalf("MissingCells = %d, want 1", n)
	}
}

func TestHasColumn(t *testing.T) {
	tab := sample()
	if !tab.HasColumn("status") || tab.HasColumn("absent") {
		t.Fatal("HasColumn mismatch")
	}
}
