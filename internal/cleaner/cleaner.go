// Package cleaner normalizes the loaded table set in place: date-bearing
// text columns become time.Time, known-nullable product attributes receive
// fixed defaults, and location city names are folded to a canonical ASCII
// form.
//
// Date parsing is tolerant: a value that fails to parse becomes nil rather
// than failing the run. This matches the coercing variant of the upstream
// transformation and is applied uniformly to every dataset.
package cleaner

import (
	"fmt"
	"time"

	"marketpipe/internal/loader"
	"marketpipe/internal/table"
)

const (
	// timestampLayout is the extract's datetime format.
	timestampLayout = "2006-01-02 15:04:05"
	// dateLayout is the fallback for date-only cells.
	dateLayout = "2006-01-02"
)

// dateColumns lists, per dataset, the text columns converted to time.Time.
var dateColumns = map[string][]string{
	loader.Orders: {
		"order_purchase_timestamp",
		"order_approved_at",
		"order_delivered_carrier_date",
		"order_delivered_customer_date",
		"order_estimated_delivery_date",
	},
	loader.Reviews: {
		"review_creation_date",
		"review_answer_timestamp",
	},
	loader.OrderItems: {
		"shipping_limit_date",
	},
}

// productDefaults is the fill map for nullable product attributes. Only nil
// cells are touched.
var productDefaults = map[string]any{
	"product_category_name":      "unknown",
	"product_name_lenght":        int64(0),
	"product_description_lenght": int64(0),
	"product_photos_qty":         int64(0),
	"product_weight_g":           int64(0),
	"product_length_cm":          int64(0),
	"product_height_cm":          int64(0),
	"product_width_cm":           int64(0),
}

// cityColumns lists the location columns folded by FoldCity.
var cityColumns = map[string]string{
	loader.Customers:   "customer_city",
	loader.Sellers:     "seller_city",
	loader.Geolocation: "geolocation_city",
}

// Clean applies all cleaning steps to the loaded tables. Tables are mutated
// in place. A dataset missing one of its declared date columns is a fatal
// schema error.
func Clean(tables map[string]*table.Table) error {
	for dataset, cols := range dateColumns {
		t, ok := tables[dataset]
		if !ok {
			return fmt.Errorf("clean: no %s table", dataset)
		}
		if err := coerceTimestamps(t, cols); err != nil {
			return fmt.Errorf("clean %s: %w", dataset, err)
		}
	}

	products, ok := tables[loader.Products]
	if !ok {
		return fmt.Errorf("clean: no %s table", loader.Products)
	}
	if err := fillDefaults(products, productDefaults); err != nil {
		return fmt.Errorf("clean %s: %w", loader.Products, err)
	}

	for dataset, col := range cityColumns {
		t, ok := tables[dataset]
		if !ok {
			return fmt.Errorf("clean: no %s table", dataset)
		}
		foldColumn(t, col)
	}
	return nil
}

// coerceTimestamps converts the named columns from string to time.Time.
// Unparseable or non-string values become nil.
func coerceTimestamps(t *table.Table, cols []string) error {
	for _, col := range cols {
		if !t.HasColumn(col) {
			return fmt.Errorf("no column %q", col)
		}
	}
	for _, r := range t.Rows {
		for _, col := range cols {
			v := r[col]
			if v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				r[col] = nil
				continue
			}
			r[col] = parseTimestamp(s)
		}
	}
	return nil
}

// parseTimestamp parses s with the datetime layout, then the date-only
// fallback. It returns nil (not a zero time) when both fail.
func parseTimestamp(s string) any {
	if ts, err := time.Parse(timestampLayout, s); err == nil {
		return ts
	}
	if ts, err := time.Parse(dateLayout, s); err == nil {
		return ts
	}
	return nil
}

// fillDefaults writes the default value into nil cells of each mapped
// column; non-nil cells are untouched.
func fillDefaults(t *table.Table, defaults map[string]any) error {
	for col := range defaults {
		if !t.HasColumn(col) {
			return fmt.Errorf("no column %q", col)
		}
	}
	for _, r := range t.Rows {
		for col, def := range defaults {
			if r[col] == nil {
				r[col] = def
			}
		}
	}
	return nil
}

// foldColumn lowers and accent-folds string cells in the named column. A
// dataset without the column is left alone; the geolocation extract has
// shipped with differing headers across snapshots.
func foldColumn(t *table.Table, col string) {
	if !t.HasColumn(col) {
		return
	}
	for _, r := range t.Rows {
		if s, ok := r[col].(string); ok {
			r[col] = FoldCity(s)
		}
	}
}
