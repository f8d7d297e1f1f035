// Package inspect produces a quick per-file report over the input directory:
// row and column counts, missing-cell totals, and file sizes. It is a
// diagnostic for eyeballing a fresh extract before running the pipeline, not
// part of the pipeline itself, so it is free to read the files concurrently.
package inspect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"marketpipe/internal/loader"
	csvparser "marketpipe/internal/parser/csv"
)

// Report describes one expected input file.
type Report struct {
	Dataset      string
	File         string
	Absent       bool
	SizeBytes    int64
	Rows         int
	Cols         int
	MissingCells int
}

// String renders a one-line summary suitable for terminal output.
func (r Report) String() string {
	if r.Absent {
		return fmt.Sprintf("%-22s %-40s ABSENT", r.Dataset, r.File)
	}
	return fmt.Sprintf("%-22s %-40s %8s  %7d rows  %2d cols  %6d missing",
		r.Dataset, r.File, humanize.Bytes(uint64(r.SizeBytes)), r.Rows, r.Cols, r.MissingCells)
}

// Scan inspects every expected extract under dir, in parallel. Absent files
// are reported, not treated as errors; a file that exists but cannot be
// parsed fails the scan.
func Scan(ctx context.Context, dir string) ([]Report, error) {
	names := loader.DatasetNames()
	reports := make([]Report, len(names))

	g, _ := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			r, err := scanOne(name, filepath.Join(dir, loader.FileFor(name)))
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func scanOne(dataset, path string) (Report, error) {
	r := Report{Dataset: dataset, File: filepath.Base(path)}

	info, err := os.Stat(path)
	if err != nil {
		r.Absent = true
		return r, nil
	}
	r.SizeBytes = info.Size()

	f, err := os.Open(path)
	if err != nil {
		return r, fmt.Errorf("inspect %s: %w", path, err)
	}
	defer f.Close()

	p := csvparser.NewParser(csvparser.Options{TrimSpace: true})
	t, err := p.Parse(dataset, f)
	if err != nil {
		return r, fmt.Errorf("inspect %s: %w", path, err)
	}
	r.Rows = t.NumRows()
	r.Cols = t.NumCols()
	r.MissingCells = t.MissingCells()
	return r, nil
}
