// Package pipeline orchestrates the extraction run: fetch each resource,
// normalize its date fields and write it to CSV. Resources are processed
// strictly in sequence and independently; one failure never stops the run.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jonathan/stackoverflow-pipeline/internal/csvout"
	"github.com/jonathan/stackoverflow-pipeline/internal/db"
	"github.com/jonathan/stackoverflow-pipeline/internal/records"
	"github.com/jonathan/stackoverflow-pipeline/internal/stackexchange"
	"github.com/jonathan/stackoverflow-pipeline/internal/transform"
)

// Fetcher retrieves the item collection for one resource.
type Fetcher interface {
	FetchItems(ctx context.Context, res stackexchange.Resource) ([]records.Record, error)
}

// Options holds the collaborators and settings for one pipeline run.
type Options struct {
	OutputDir string
	BaseURL   string
	Fetcher   Fetcher
	Writer    *csvout.Writer
	Store     *db.Store // optional run-metadata persistence
	Logger    *slog.Logger
}

// Summary reports the per-resource outcome of a run.
type Summary struct {
	Succeeded []string
	Failed    []string
}

// Run processes every resource once. Fetch failures are logged as
// warnings and write failures as errors; neither aborts the run.
func Run(ctx context.Context, opts Options) Summary {
	log := opts.Logger
	log.Info("starting the data pipeline", "base_url", opts.BaseURL, "output_dir", opts.OutputDir)

	var runID uuid.UUID
	if opts.Store != nil {
		var err error
		runID, err = opts.Store.CreateRun(ctx, opts.BaseURL)
		if err != nil {
			log.Warn("failed to create run record, continuing without persistence", "error", err)
			opts.Store = nil
		}
	}

	var summary Summary
	for _, res := range stackexchange.Resources() {
		if processResource(ctx, opts, runID, res) {
			summary.Succeeded = append(summary.Succeeded, res.Kind)
		} else {
			summary.Failed = append(summary.Failed, res.Kind)
		}
	}

	if opts.Store != nil {
		status := "completed"
		if len(summary.Failed) > 0 {
			status = "completed_with_failures"
		}
		if err := opts.Store.CompleteRun(ctx, runID, status); err != nil {
			log.Warn("failed to complete run record", "error", err)
		}
	}

	log.Info("data pipeline completed",
		"succeeded", len(summary.Succeeded), "failed", len(summary.Failed))
	return summary
}

// processResource fetches, transforms and writes one resource, reporting
// whether it produced an output file.
func processResource(ctx context.Context, opts Options, runID uuid.UUID, res stackexchange.Resource) bool {
	log := opts.Logger

	items, err := opts.Fetcher.FetchItems(ctx, res)
	if err != nil {
		// The client already logged the ERROR with the endpoint detail.
		log.Warn("failed to fetch resource", "resource", res.Kind)
		recordOutcome(ctx, opts, runID, res.Kind, db.StatusFetchFailed, 0, err)
		return false
	}
	log.Info("fetched resource successfully", "resource", res.Kind, "items", len(items))

	path := filepath.Join(opts.OutputDir, res.OutputFile())
	if err := opts.Writer.Write(transform.Dates(items), path); err != nil {
		log.Error("failed to write CSV file", "resource", res.Kind, "path", path, "error", err)
		recordOutcome(ctx, opts, runID, res.Kind, db.StatusWriteFailed, len(items), err)
		return false
	}

	log.Info("saved resource", "resource", res.Kind, "path", path)
	recordOutcome(ctx, opts, runID, res.Kind, db.StatusWritten, len(items), nil)
	return true
}

// recordOutcome persists a resource outcome when a store is configured.
func recordOutcome(ctx context.Context, opts Options, runID uuid.UUID, resource, status string, rows int, cause error) {
	if opts.Store == nil {
		return
	}
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	if err := opts.Store.RecordResource(ctx, runID, resource, status, rows, message); err != nil {
		opts.Logger.Warn("failed to record resource outcome", "resource", resource, "error", err)
	}
}
