// Package loader reads the fixed set of marketplace extracts from an input
// directory into named tables. Presence of every required file is verified
// before any file is opened, so a partially readable directory never yields a
// partially loaded table set.
package loader

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	csvparser "marketpipe/internal/parser/csv"
	"marketpipe/internal/table"
)

// Dataset keys. Every stage addresses tables by these names.
const (
	Orders              = "orders"
	OrderItems          = "order_items"
	Customers           = "customers"
	Sellers             = "sellers"
	Products            = "products"
	Payments            = "payments"
	Reviews             = "reviews"
	Geolocation         = "geolocation"
	CategoryTranslation = "category_translation"
)

// requiredFiles maps each dataset key to its expected file name inside the
// input directory. The names follow the upstream marketplace extract.
var requiredFiles = map[string]string{
	Orders:              "olist_orders_dataset.csv",
	OrderItems:          "olist_order_items_dataset.csv",
	Customers:           "olist_customers_dataset.csv",
	Sellers:             "olist_sellers_dataset.csv",
	Products:            "olist_products_dataset.csv",
	Payments:            "olist_order_payments_dataset.csv",
	Reviews:             "olist_order_reviews_dataset.csv",
	Geolocation:         "olist_geolocation_dataset.csv",
	CategoryTranslation: "product_category_name_translation.csv",
}

// DatasetNames returns the dataset keys in a stable, sorted order.
func DatasetNames() []string {
	names := make([]string, 0, len(requiredFiles))
	for k := range requiredFiles {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// FileFor returns the expected file name for a dataset key, or "" when the
// key is unknown.
func FileFor(dataset string) string { return requiredFiles[dataset] }

// MissingInputError reports required input files that are absent from the
// input directory. It is returned before any file has been read.
type MissingInputError struct {
	Dir   string
	Files []string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing input files in %s: %s", e.Dir, strings.Join(e.Files, ", "))
}

// Load verifies that every required extract exists under dir and then parses
// each one into a table keyed by dataset name. Either all datasets load or
// Load fails: a missing file yields *MissingInputError, and any read or parse
// failure aborts with the underlying error.
func Load(dir string) (map[string]*table.Table, error) {
	var missing []string
	for _, name := range DatasetNames() {
		path := filepath.Join(dir, requiredFiles[name])
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, requiredFiles[name])
		}
	}
	if len(missing) > 0 {
		return nil, &MissingInputError{Dir: dir, Files: missing}
	}

	p := csvparser.NewParser(csvparser.Options{TrimSpace: true, InferTypes: true})
	tables := make(map[string]*table.Table, len(requiredFiles))
	for _, name := range DatasetNames() {
		path := filepath.Join(dir, requiredFiles[name])
		t, err := loadOne(p, name, path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		log.Printf("loaded %s: %d rows, %d columns", name, t.NumRows(), t.NumCols())
		tables[name] = t
	}
	return tables, nil
}

func loadOne(p *csvparser.Parser, name, path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return p.Parse(name, f)
}
