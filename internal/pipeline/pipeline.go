// Package pipeline wires the four stages end to end: load the extracts,
// clean them in place, build the wide table and its summaries, and write the
// outputs. The run is a single sequential pass; every error is fatal and
// surfaces with its stage name attached.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"marketpipe/internal/cleaner"
	"marketpipe/internal/config"
	"marketpipe/internal/join"
	"marketpipe/internal/loader"
	"marketpipe/internal/metrics"
	"marketpipe/internal/storage"
	"marketpipe/internal/table"
	"marketpipe/internal/writer"
)

// Result summarizes a completed run.
type Result struct {
	RunID        string
	WideRows     int
	CustomerRows int
	SellerRows   int
}

// Run executes the full pipeline for cfg. Tables are held entirely in memory
// between stages; nothing persists between runs except the output files (and
// the optional database mirror).
func Run(ctx context.Context, cfg config.Config) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	start := time.Now()
	log.Printf("run %s: job=%s input=%s output=%s", res.RunID, cfg.Job, cfg.InputDir, cfg.OutputDir)

	stage := func(name string, fn func() error) error {
		t0 := time.Now()
		err := fn()
		metrics.RecordStage(cfg.Job, name, err, time.Since(t0))
		if err != nil {
			log.Printf("run %s: stage %s failed: %v", res.RunID, name, err)
			return fmt.Errorf("%s: %w", name, err)
		}
		log.Printf("run %s: stage %s done in %s", res.RunID, name, time.Since(t0).Truncate(time.Millisecond))
		return nil
	}

	var tables map[string]*table.Table
	if err := stage("load", func() error {
		var err error
		tables, err = loader.Load(cfg.InputDir)
		if err != nil {
			return err
		}
		for _, name := range loader.DatasetNames() {
			metrics.RecordRows(cfg.Job, "loaded", int64(tables[name].NumRows()))
		}
		return nil
	}); err != nil {
		return res, err
	}

	if err := stage("clean", func() error {
		return cleaner.Clean(tables)
	}); err != nil {
		return res, err
	}

	var wide, customers, sellers *table.Table
	if err := stage("join", func() error {
		var err error
		wide, err = join.BuildWide(tables)
		if err != nil {
			return err
		}
		metrics.RecordRows(cfg.Job, "wide", int64(wide.NumRows()))
		if customers, err = join.SummarizeCustomers(wide); err != nil {
			return err
		}
		sellers, err = join.SummarizeSellers(wide)
		return err
	}); err != nil {
		return res, err
	}
	res.WideRows = wide.NumRows()
	res.CustomerRows = customers.NumRows()
	res.SellerRows = sellers.NumRows()

	if err := stage("write", func() error {
		if err := writer.Write(cfg.OutputDir, wide, customers, sellers); err != nil {
			return err
		}
		metrics.RecordRows(cfg.Job, "written", int64(wide.NumRows()+customers.NumRows()+sellers.NumRows()))
		return nil
	}); err != nil {
		return res, err
	}

	if cfg.Mirror.Kind != "" {
		if err := stage("mirror", func() error {
			return storage.Mirror(ctx, cfg.Mirror, wide, customers, sellers)
		}); err != nil {
			return res, err
		}
	}

	log.Printf("run %s: completed in %s (wide=%d customers=%d sellers=%d)",
		res.RunID, time.Since(start).Truncate(time.Millisecond),
		res.WideRows, res.CustomerRows, res.SellerRows)
	return res, nil
}
