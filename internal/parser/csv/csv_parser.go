// Package csv parses a comma-separated extract into a table.Table. Headers
// are normalized (BOM strip, trim, lowercase, spaces to underscores), empty
// cells become nil, and column types are inferred from content so that
// numeric extracts arrive typed instead of as raw strings.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"marketpipe/internal/table"
)

// Options configures the parser. All fields are optional; zero values give a
// comma-delimited, type-inferring parse.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing ASCII spaces from each field value.
	TrimSpace bool

	// InferTypes enables per-column type inference after parsing: a column
	// whose non-empty values all parse as integers becomes int64, one whose
	// values all parse as numbers becomes float64, anything else stays string.
	InferTypes bool
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Parse consumes the full CSV stream from r and returns a table named name.
// The first row is always treated as the header. Any malformed row (parse
// error or field-count mismatch) fails the whole parse; the callers treat a
// single bad input file as fatal for the run.
func (p *Parser) Parse(name string, r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}

	h, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read csv header: %w", name, err)
	}
	headers := normalizeHeaders(h)

	t := table.New(name, headers)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", name, line, err)
		}
		rec := make(table.Record, len(headers))
		for i, col := range headers {
			val := row[i]
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[col] = emptyToNil(val)
		}
		t.Append(rec)
	}

	if p.opt.InferTypes {
		inferColumnTypes(t)
	}
	return t, nil
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders produces canonical header keys: trim, strip a UTF-8 BOM
// from the first cell, lowercase, and replace spaces with underscores.
func normalizeHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}

// inferColumnTypes rewrites string cells in place according to the widest
// numeric type consistent with every non-nil value in the column: int64 if
// all values are integers, float64 if all are numbers, otherwise the column
// is left as strings. Leading zeros block numeric inference so identifier
// columns like zip prefixes written as "01409" survive verbatim.
func inferColumnTypes(t *table.Table) {
	for _, col := range t.Columns {
		isInt, isFloat := true, true
		seen := false
		for _, r := range t.Rows {
			s, ok := r[col].(string)
			if !ok {
				if r[col] != nil {
					isInt, isFloat = false, false
					break
				}
				continue
			}
			seen = true
			if leadingZero(s) {
				isInt, isFloat = false, false
				break
			}
			if isInt && !intLike(s) {
				isInt = false
			}
			if !isInt {
				if _, err := strconv.ParseFloat(s, 64); err != nil {
					isFloat = false
					break
				}
			}
		}
		if !seen || !isFloat {
			continue
		}
		for _, r := range t.Rows {
			s, ok := r[col].(string)
			if !ok {
				continue
			}
			if isInt {
				if v, err := strconv.ParseInt(s, 10, 64); err == nil {
					r[col] = v
				}
				continue
			}
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				r[col] = v
			}
		}
	}
}

// intLike reports whether s parses as a base-10 integer.
func intLike(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// leadingZero reports whether s is a multi-digit integer written with a
// leading zero (a lone "0" is fine). Such values are identifiers, not
// numbers, and pin the whole column to string.
func leadingZero(s string) bool {
	if len(s) > 1 && s[0] == '-' {
		s = s[1:]
	}
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
