package join

import (
	"fmt"
	"sort"

	"marketpipe/internal/table"
)

// Summary columns use row-count semantics: total_orders counts wide-table
// rows per group, so an order that fanned out over items or payments is
// counted once per row. Payment sums inherit the same multiplicity. This is
// deliberate; changing it would silently change every downstream report.

// SummarizeCustomers groups the wide table by customer_id.
func SummarizeCustomers(wide *table.Table) (*table.Table, error) {
	return summarize(wide, "customer_id", "customer_summary", "total_spent")
}

// SummarizeSellers groups the wide table by seller_id.
func SummarizeSellers(wide *table.Table) (*table.Table, error) {
	return summarize(wide, "seller_id", "seller_summary", "total_revenue")
}

// groupStats accumulates per-group aggregates over the wide table.
type groupStats struct {
	rows     int64
	paySum   float64
	delivSum float64
	delivN   int64
	scoreSum float64
	scoreN   int64
}

// summarize groups wide by key and computes row count, payment sum, and the
// means of delivery time and review score over non-nil cells. Rows with a
// nil group key are skipped. Output rows are sorted by key.
func summarize(wide *table.Table, key, name, sumName string) (*table.Table, error) {
	for _, col := range []string{key, "payment_value", deliveryTimeColumn, "review_score"} {
		if !wide.HasColumn(col) {
			return nil, fmt.Errorf("summarize by %s: no column %q", key, col)
		}
	}

	groups := make(map[string]*groupStats)
	for i, r := range wide.Rows {
		v := r[key]
		if v == nil {
			continue
		}
		k, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("summarize by %s: row %d: key is %T, want string", key, i, v)
		}
		g := groups[k]
		if g == nil {
			g = &groupStats{}
			groups[k] = g
		}
		g.rows++
		if f, ok := toFloat(r["payment_value"]); ok {
			g.paySum += f
		}
		if f, ok := toFloat(r[deliveryTimeColumn]); ok {
			g.delivSum += f
			g.delivN++
		}
		if f, ok := toFloat(r["review_score"]); ok {
			g.scoreSum += f
			g.scoreN++
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := table.New(name, []string{key, "total_orders", sumName, "avg_delivery_time_days", "avg_review_score"})
	out.Rows = make([]table.Record, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		out.Append(table.Record{
			key:                      k,
			"total_orders":           g.rows,
			sumName:                  g.paySum,
			"avg_delivery_time_days": mean(g.delivSum, g.delivN),
			"avg_review_score":       mean(g.scoreSum, g.scoreN),
		})
	}
	return out, nil
}

// mean returns sum/n, or nil when the group had no non-nil values.
func mean(sum float64, n int64) any {
	if n == 0 {
		return nil
	}
	return sum / float64(n)
}

// toFloat widens numeric cell values to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
