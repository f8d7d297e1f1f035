package join

import (
	"math"
	"testing"

	"marketpipe/internal/table"
)

// scenarioWide reproduces the documented multiplicity case: customer c1 has
// two orders, one with two items and one with one; each order carries a
// single payment row (10.0 and 5.0). After the items and payments joins the
// two-item order's payment value appears on both of its rows.
func scenarioWide() *table.Table {
	w := table.New("orders_wide", []string{
		"order_id", "customer_id", "seller_id", "payment_value", "delivery_time_days", "review_score",
	})
	w.Append(table.Record{"order_id": "o1", "customer_id": "c1", "seller_id": "s1",
		"payment_value": 10.0, "delivery_time_days": 2.0, "review_score": int64(5)})
	w.Append(table.Record{"order_id": "o1", "customer_id": "c1", "seller_id": "s1",
		"payment_value": 10.0, "delivery_time_days": 2.0, "review_score": int64(5)})
	w.Append(table.Record{"order_id": "o2", "customer_id": "c1", "seller_id": "s2",
		"payment_value": 5.0, "delivery_time_days": nil, "review_score": nil})
	return w
}

func TestSummarizeCustomersRowCountSemantics(t *testing.T) {
	got, err := SummarizeCustomers(scenarioWide())
	if err != nil {
		t.Fatalf("SummarizeCustomers: %v", err)
	}
	if got.NumRows() != 1 {
		t.Fatalf("rows = %d, want 1", got.NumRows())
	}
	r := got.Rows[0]
	if r["customer_id"] != "c1" {
		t.Fatalf("customer_id = %#v", r["customer_id"])
	}
	// row-count semantics: the two-item order counts twice
	if r["total_orders"] != int64(3) {
		t.Fatalf("total_orders = %#v, want 3", r["total_orders"])
	}
	// the duplicated payment row inflates the sum: 10 + 10 + 5
	if spent, ok := r["total_spent"].(float64); !ok || math.Abs(spent-25.0) > 1e-9 {
		t.Fatalf("total_spent = %#v, want 25.0", r["total_spent"])
	}
	// means skip nil cells
	if avg, ok := r["avg_delivery_time_days"].(float64); !ok || math.Abs(avg-2.0) > 1e-9 {
		t.Fatalf("avg_delivery_time_days = %#v, want 2.0", r["avg_delivery_time_days"])
	}
	if avg, ok := r["avg_review_score"].(float64); !ok || math.Abs(avg-5.0) > 1e-9 {
		t.Fatalf("avg_review_score = %#v, want 5.0", r["avg_review_score"])
	}
}

func TestSummarizeSellers(t *testing.T) {
	got, err := SummarizeSellers(scenarioWide())
	if err != nil {
		t.Fatalf("SummarizeSellers: %v", err)
	}
	if got.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", got.NumRows())
	}
	// output is sorted by key
	if got.Rows[0]["seller_id"] != "s1" || got.Rows[1]["seller_id"] != "s2" {
		t.Fatalf("seller order = %v, %v", got.Rows[0]["seller_id"], got.Rows[1]["seller_id"])
	}
	s1 := got.Rows[0]
	if s1["total_orders"] != int64(2) {
		t.Fatalf("s1 total_orders = %#v, want 2", s1["total_orders"])
	}
	if rev, ok := s1["total_revenue"].(float64); !ok || math.Abs(rev-20.0) > 1e-9 {
		t.Fatalf("s1 total_revenue = %#v, want 20.0", s1["total_revenue"])
	}
	s2 := got.Rows[1]
	// group with no non-nil review/delivery cells yields nil means
	if s2["avg_review_score"] != nil || s2["avg_delivery_time_days"] != nil {
		t.Fatalf("s2 means = %#v / %#v, want nils", s2["avg_review_score"], s2["avg_delivery_time_days"])
	}
}

func TestSummarizeSkipsNilKeys(t *testing.T) {
	w := scenarioWide()
	w.Append(table.Record{"order_id": "o3", "customer_id": nil, "seller_id": nil,
		"payment_value": 99.0, "delivery_time_days": nil, "review_score": nil})

	got, err := SummarizeCustomers(w)
	if err != nil {
		t.Fatalf("SummarizeCustomers: %v", err)
	}
	if got.NumRows() != 1 {
		t.Fatalf("rows = %d, want 1 (nil keys skipped)", got.NumRows())
	}
}

func TestSummarizeMissingColumn(t *testing.T) {
	w := table.New("orders_wide", []string{"customer_id"})
	if _, err := SummarizeCustomers(w); err == nil {
		t.Fatal("expected error for missing aggregate columns")
	}
}
