package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/doctrace/internal/cli/config"
	"github.com/leapstack-labs/doctrace/internal/cli/output"
	"github.com/leapstack-labs/doctrace/internal/diag"
	"github.com/leapstack-labs/doctrace/internal/pipeline"
	"github.com/leapstack-labs/doctrace/internal/report"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the config and logger
// stored on the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Scan runs the pipeline over the configured input directory.
func (c *CommandContext) Scan(ctx context.Context) (*pipeline.Run, error) {
	run, err := pipeline.Execute(ctx, pipeline.Options{
		Root:       c.Cfg.InputDir,
		Extensions: c.Cfg.Extensions,
		Ignore:     c.Cfg.Ignore,
		Workers:    c.Cfg.Workers,
		Logger:     c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return run, nil
}

// reportTarget is one report to render from a run.
type reportTarget struct {
	kind   string
	path   string
	render func(w io.Writer) error
}

func traceabilityTarget(run *pipeline.Run, path string) reportTarget {
	return reportTarget{
		kind: "traceability",
		path: path,
		render: func(w io.Writer) error {
			return report.Traceability(w, run.Graph)
		},
	}
}

func riskRegisterTarget(run *pipeline.Run, path string) reportTarget {
	return reportTarget{
		kind: "risk_register",
		path: path,
		render: func(w io.Writer) error {
			return report.RiskRegister(w, run.Risks)
		},
	}
}

// writeReports writes every target. The first failure is fatal.
func (c *CommandContext) writeReports(targets []reportTarget) ([]output.ReportOutput, error) {
	written := make([]output.ReportOutput, 0, len(targets))
	for _, t := range targets {
		if err := report.WriteFile(t.path, t.render); err != nil {
			return written, err
		}
		c.Logger.Debug("report written", "kind", t.kind, "path", t.path)
		written = append(written, output.ReportOutput{Kind: t.kind, Path: t.path})
	}
	return written, nil
}

// summarize prints the outcome of a report-writing command.
func (c *CommandContext) summarize(run *pipeline.Run, written []output.ReportOutput) error {
	r := c.Renderer

	if r.EffectiveMode() == output.ModeJSON {
		warnings := run.Warnings
		if warnings == nil {
			warnings = []diag.Warning{}
		}
		return r.JSON(output.ScanOutput{
			RunID:      run.ID,
			InputDir:   run.Root,
			Documents:  len(run.Documents),
			Skipped:    run.Skipped(),
			Keys:       run.Graph.NodeCount(),
			Edges:      run.Graph.EdgeCount(),
			RiskRows:   len(run.Risks),
			Outputs:    written,
			Warnings:   warnings,
			DurationMS: run.Duration.Milliseconds(),
		})
	}

	for _, w := range written {
		r.StatusLine(displayPath(c.Cfg.ProjectRoot, w.Path), "success", "")
	}
	r.Println("")
	r.Println(output.FormatKeyValue("Documents", fmt.Sprintf("%d", len(run.Documents))))
	if skipped := run.Skipped(); skipped > 0 {
		r.Println(output.FormatKeyValue("Skipped", fmt.Sprintf("%d", skipped)))
	}
	r.Println(output.FormatKeyValue("Traced keys", fmt.Sprintf("%d", run.Graph.NodeCount())))
	r.Println(output.FormatKeyValue("Risk rows", fmt.Sprintf("%d", len(run.Risks))))
	if n := len(run.Warnings); n > 0 {
		r.Warning(fmt.Sprintf("%d warning(s) raised during scan", n))
	}
	return nil
}

// resolveOutput returns flagValue made absolute when set, otherwise fallback.
func resolveOutput(flagValue, fallback string) (string, error) {
	if flagValue == "" {
		return fallback, nil
	}
	abs, err := filepath.Abs(flagValue)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", flagValue, err)
	}
	return abs, nil
}

// displayPath shortens path relative to root when it lies below it.
func displayPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
