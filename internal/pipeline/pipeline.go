// Package pipeline runs a full scan of a document tree: locate documents,
// extract sections from each one in parallel, and reduce the results in
// walk order into the assembled graph and risk list.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/doctrace/internal/diag"
	"github.com/leapstack-labs/doctrace/internal/extract"
	"github.com/leapstack-labs/doctrace/internal/graph"
	"github.com/leapstack-labs/doctrace/internal/locator"
)

// Options configures a run.
type Options struct {
	// Root is the input directory.
	Root string
	// Extensions recognized as documents; empty means locator.DefaultExtension.
	Extensions []string
	// Ignore holds gitignore-style exclude patterns.
	Ignore []string
	// Workers bounds parallel extraction; zero or less means GOMAXPROCS.
	Workers int
	// Logger receives progress and warnings; nil discards.
	Logger *slog.Logger
}

// Run is the outcome of one full scan.
type Run struct {
	ID        string
	Root      string
	Documents []locator.Document
	Results   []extract.Result
	Graph     *graph.Graph
	// Risks are all risk rows in document-visit order.
	Risks []extract.RiskRow
	// Warnings covers locator and read warnings plus every per-document warning.
	Warnings []diag.Warning
	Duration time.Duration
}

// Skipped returns how many located documents could not be read.
func (r *Run) Skipped() int {
	return diag.Count(r.Warnings, diag.KindFileRead)
}

// Execute performs a full rebuild from the on-disk state of opts.Root.
// Per-document failures become warnings; only cancellation or an unexpected
// walk failure is returned as an error.
func Execute(ctx context.Context, opts Options) (*Run, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	run := &Run{ID: uuid.NewString(), Root: opts.Root}
	logger = logger.With("run_id", run.ID)

	located, err := locator.Locate(opts.Root, locator.Options{
		Extensions: opts.Extensions,
		Ignore:     opts.Ignore,
	})
	switch {
	case errors.Is(err, locator.ErrInputNotFound):
		run.Warnings = append(run.Warnings, diag.Warning{
			Kind:    diag.KindInputNotFound,
			Path:    opts.Root,
			Message: "input directory not found, reports will be empty",
		})
	case err != nil:
		return nil, err
	}
	run.Warnings = append(run.Warnings, located.Warnings...)
	run.Documents = located.Documents
	logger.Debug("located documents", "root", opts.Root, "count", len(run.Documents))

	results, readWarnings, err := extractAll(ctx, run.Documents, opts.Workers)
	if err != nil {
		return nil, err
	}
	run.Warnings = append(run.Warnings, readWarnings...)

	// Keep only readable documents, still in walk order.
	for _, res := range results {
		if res != nil {
			run.Results = append(run.Results, *res)
		}
	}
	assembled := graph.Assemble(run.Results)
	run.Graph = assembled.Graph
	run.Risks = assembled.Risks
	run.Warnings = append(run.Warnings, assembled.Warnings...)
	run.Duration = time.Since(start)

	diag.Log(logger, run.Warnings)
	logger.Info("scan complete",
		"documents", len(run.Documents),
		"nodes", run.Graph.NodeCount(),
		"edges", run.Graph.EdgeCount(),
		"risks", len(run.Risks),
		"warnings", len(run.Warnings),
		"duration", run.Duration,
	)
	return run, nil
}

// extractAll reads and extracts documents in parallel. Slot i of the returned
// slice belongs to docs[i] and is nil when that document was skipped, so the
// caller can reduce in walk order regardless of completion order.
func extractAll(ctx context.Context, docs []locator.Document, workers int) ([]*extract.Result, []diag.Warning, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*extract.Result, len(docs))
	warnings := make([]*diag.Warning, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := readDocument(doc.Path)
			if err != nil {
				warnings[i] = &diag.Warning{Kind: diag.KindFileRead, Path: doc.Path, Message: err.Error()}
				return nil
			}
			res := extract.Extract(doc.Key, doc.Path, content)
			results[i] = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var out []diag.Warning
	for _, w := range warnings {
		if w != nil {
			out = append(out, *w)
		}
	}
	return results, out, nil
}

// readDocument reads the whole file; the handle does not outlive the call.
func readDocument(path string) ([]byte, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the locator walk
	if err != nil {
		return nil, fmt.Errorf("skipped unreadable document: %w", err)
	}
	if !utf8.Valid(content) {
		return nil, errors.New("skipped document that is not valid UTF-8")
	}
	return content, nil
}
