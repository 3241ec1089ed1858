package commands

import (
	"github.com/spf13/cobra"
)

// NewTraceabilityCommand creates the traceability command.
func NewTraceabilityCommand() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:     "traceability",
		Aliases: []string{"rtm"},
		Short:   "Write the repository traceability matrix",
		Long: `Scan the input directory and write the repository traceability matrix.

Every document with a "## Dependencies" section lists the documents it
references; the matrix pairs each of them with the documents that reference
it in turn. Keys are file names, so references to missing documents still
appear as rows.

The report is rebuilt from scratch on every run.`,
		Example: `  # Scan ./docs and write reports/rtm/repository_traceability_matrix.md
  doctrace traceability

  # Scan another tree and write to a custom path
  doctrace rtm -i design --output-file out/rtm.md`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTraceability(cmd, outputFile)
		},
	}

	cmd.Flags().StringVar(&outputFile, "output-file", "", "Report path (default from config: reports.traceability)")

	return cmd
}

func runTraceability(cmd *cobra.Command, outputFile string) error {
	cmdCtx := NewCommandContext(cmd)

	path, err := resolveOutput(outputFile, cmdCtx.Cfg.Reports.Traceability)
	if err != nil {
		return err
	}

	run, err := cmdCtx.Scan(cmd.Context())
	if err != nil {
		return err
	}

	written, err := cmdCtx.writeReports([]reportTarget{traceabilityTarget(run, path)})
	if err != nil {
		return err
	}
	return cmdCtx.summarize(run, written)
}
