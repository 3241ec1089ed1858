package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/doctrace/internal/cli/output"
	"github.com/leapstack-labs/doctrace/internal/export"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a SQLite snapshot of the scan",
		Long: `Scan the input directory and write the documents, references, risk rows
and warnings into a SQLite database.

The database is recreated on every export. Tables: runs, documents,
dependencies, risks, warnings.`,
		Example: `  # Export to reports/doctrace.db
  doctrace export

  # Export elsewhere and query it
  doctrace export --db /tmp/docs.db
  sqlite3 /tmp/docs.db "SELECT target, COUNT(*) FROM dependencies GROUP BY target"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (default from config: export.database)")

	return cmd
}

func runExport(cmd *cobra.Command, dbPath string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	path, err := resolveOutput(dbPath, cmdCtx.Cfg.Export.Database)
	if err != nil {
		return err
	}

	run, err := cmdCtx.Scan(cmd.Context())
	if err != nil {
		return err
	}

	counts, err := export.Export(cmd.Context(), path, run)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	cmdCtx.Logger.Debug("snapshot exported", "path", path, "run_id", run.ID)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.ExportOutput{
			RunID:        run.ID,
			Database:     path,
			Documents:    counts.Documents,
			Dependencies: counts.Dependencies,
			Risks:        counts.Risks,
			Warnings:     counts.Warnings,
		})
	}

	r.StatusLine(displayPath(cmdCtx.Cfg.ProjectRoot, path), "success", "")
	r.Println("")
	r.Println(output.FormatKeyValue("Documents", fmt.Sprintf("%d", counts.Documents)))
	r.Println(output.FormatKeyValue("Dependencies", fmt.Sprintf("%d", counts.Dependencies)))
	r.Println(output.FormatKeyValue("Risk rows", fmt.Sprintf("%d", counts.Risks)))
	r.Println(output.FormatKeyValue("Warnings", fmt.Sprintf("%d", counts.Warnings)))
	return nil
}
