// Package join builds the denormalized order-centric table and the summary
// tables derived from it. All joins are left outer joins keyed on a single
// text column; multiplicity from one-to-many relationships (items, payments,
// reviews) is preserved, never deduplicated.
package join

import (
	"fmt"
	"time"

	"marketpipe/internal/loader"
	"marketpipe/internal/table"
)

// Left performs a left outer join of left and right on key. Every left row
// appears at least once; a left row with N key matches on the right fans out
// to N rows, and an unmatched (or nil-keyed) left row keeps nil cells for the
// right-side columns. The key column appears once, in its left position.
//
// Join keys must be text. A non-nil, non-string key cell on either side is a
// fatal type mismatch, as is a non-key column present on both sides.
func Left(left, right *table.Table, key string) (*table.Table, error) {
	if !left.HasColumn(key) {
		return nil, fmt.Errorf("join %s with %s: left has no column %q", left.Name, right.Name, key)
	}
	if !right.HasColumn(key) {
		return nil, fmt.Errorf("join %s with %s: right has no column %q", left.Name, right.Name, key)
	}

	rightCols := make([]string, 0, len(right.Columns)-1)
	for _, c := range right.Columns {
		if c == key {
			continue
		}
		if left.HasColumn(c) {
			return nil, fmt.Errorf("join %s with %s: column %q exists on both sides", left.Name, right.Name, c)
		}
		rightCols = append(rightCols, c)
	}

	// Index the right side by key value. Rows with a nil key never match.
	index := make(map[string][]table.Record, len(right.Rows))
	for i, r := range right.Rows {
		v := r[key]
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("join %s with %s: right row %d: key %q is %T, want string", left.Name, right.Name, i, key, v)
		}
		index[s] = append(index[s], r)
	}

	out := table.New(left.Name, append(append([]string(nil), left.Columns...), rightCols...))
	out.Rows = make([]table.Record, 0, len(left.Rows))
	for i, lr := range left.Rows {
		var matches []table.Record
		switch v := lr[key].(type) {
		case nil:
		case string:
			matches = index[v]
		default:
			return nil, fmt.Errorf("join %s with %s: left row %d: key %q is %T, want string", left.Name, right.Name, i, key, v)
		}

		if len(matches) == 0 {
			out.Append(mergeRows(lr, nil, rightCols))
			continue
		}
		for _, rr := range matches {
			out.Append(mergeRows(lr, rr, rightCols))
		}
	}
	return out, nil
}

// mergeRows copies the left record and attaches the listed right columns,
// nil when rr is nil (unmatched).
func mergeRows(lr, rr table.Record, rightCols []string) table.Record {
	merged := make(table.Record, len(lr)+len(rightCols))
	for k, v := range lr {
		merged[k] = v
	}
	for _, c := range rightCols {
		if rr == nil {
			merged[c] = nil
		} else {
			merged[c] = rr[c]
		}
	}
	return merged
}

// BuildWide assembles the wide order-centric table. The join order is fixed:
// each step depends on key columns introduced by an earlier one (seller_id
// and product_id only exist after the items join).
func BuildWide(tables map[string]*table.Table) (*table.Table, error) {
	get := func(name string) (*table.Table, error) {
		t, ok := tables[name]
		if !ok {
			return nil, fmt.Errorf("build wide: no %s table", name)
		}
		return t, nil
	}

	orders, err := get(loader.Orders)
	if err != nil {
		return nil, err
	}

	steps := []struct {
		dataset string
		key     string
	}{
		{loader.Customers, "customer_id"},
		{loader.OrderItems, "order_id"},
		{loader.Sellers, "seller_id"},
		{loader.Products, "product_id"},
		{loader.Payments, "order_id"},
		{loader.Reviews, "order_id"},
		{loader.CategoryTranslation, "product_category_name"},
	}

	wide := orders
	for _, step := range steps {
		right, err := get(step.dataset)
		if err != nil {
			return nil, err
		}
		if step.dataset == loader.Reviews {
			// Only the score is carried into the wide table; multiple
			// reviews per order still fan out.
			right, err = right.Select("order_id", "review_score")
			if err != nil {
				return nil, fmt.Errorf("build wide: %w", err)
			}
		}
		wide, err = Left(wide, right, step.key)
		if err != nil {
			return nil, fmt.Errorf("build wide: %w", err)
		}
	}

	wide.Name = "orders_wide"
	addDeliveryTime(wide)
	return wide, nil
}

// deliveryTimeColumn is the derived duration field appended by BuildWide.
const deliveryTimeColumn = "delivery_time_days"

// addDeliveryTime appends delivery_time_days: the span between purchase and
// delivery to the customer in fractional days, nil when either timestamp is
// missing.
func addDeliveryTime(t *table.Table) {
	t.Columns = append(t.Columns, deliveryTimeColumn)
	for _, r := range t.Rows {
		purchase, ok1 := r["order_purchase_timestamp"].(time.Time)
		delivered, ok2 := r["order_delivered_customer_date"].(time.Time)
		if !ok1 || !ok2 {
			r[deliveryTimeColumn] = nil
			continue
		}
		r[deliveryTimeColumn] = delivered.Sub(purchase).Hours() / 24
	}
}
