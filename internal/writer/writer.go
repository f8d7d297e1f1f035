// Package writer serializes result tables to CSV files under the output
// directory. Files are overwritten in place; there is no atomic-rename step,
// and outputs written before a failure are left behind.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/zeebo/xxh3"

	"marketpipe/internal/table"
)

// timestampLayout matches the input extract's datetime format so a cleaned
// column round-trips unchanged.
const timestampLayout = "2006-01-02 15:04:05"

// Write creates dir if needed and writes each table to <table.Name>.csv.
// Each written file is logged with its row count and content checksum; equal
// checksums across runs mean byte-identical output.
func Write(dir string, tables ...*table.Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	for _, t := range tables {
		path := filepath.Join(dir, t.Name+".csv")
		sum, err := writeTable(path, t)
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("wrote %s: %d rows, xxh3=%016x", path, t.NumRows(), sum)
	}
	return nil
}

// writeTable writes one table as headered CSV and returns the xxh3 checksum
// of the written bytes.
func writeTable(path string, t *table.Table) (uint64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	h := xxh3.New()
	w := csv.NewWriter(io.MultiWriter(f, h))

	writeAll := func() error {
		if err := w.Write(t.Columns); err != nil {
			return err
		}
		row := make([]string, len(t.Columns))
		for _, r := range t.Rows {
			for i, col := range t.Columns {
				row[i] = formatCell(r[col])
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	}

	if err := writeAll(); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// formatCell renders a cell for CSV output. nil becomes the empty cell.
func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int64:
		return strconv.FormatInt(c, 10)
	case int:
		return strconv.Itoa(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case time.Time:
		return c.Format(timestampLayout)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprint(c)
	}
}
