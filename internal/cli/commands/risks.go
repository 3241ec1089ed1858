package commands

import (
	"github.com/spf13/cobra"
)

// NewRisksCommand creates the risks command.
func NewRisksCommand() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:     "risks",
		Aliases: []string{"risk-register"},
		Short:   "Write the consolidated risk register",
		Long: `Scan the input directory and write the consolidated risk register.

Table rows found under a heading mentioning "risk" are copied verbatim,
prefixed with the name of the document they came from. Header and
separator rows are dropped.`,
		Example: `  # Write reports/risk_register.md
  doctrace risks

  # Write to a custom path and print a JSON summary
  doctrace risk-register --output-file /tmp/risks.md -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRisks(cmd, outputFile)
		},
	}

	cmd.Flags().StringVar(&outputFile, "output-file", "", "Report path (default from config: reports.risk_register)")

	return cmd
}

func runRisks(cmd *cobra.Command, outputFile string) error {
	cmdCtx := NewCommandContext(cmd)

	path, err := resolveOutput(outputFile, cmdCtx.Cfg.Reports.RiskRegister)
	if err != nil {
		return err
	}

	run, err := cmdCtx.Scan(cmd.Context())
	if err != nil {
		return err
	}

	written, err := cmdCtx.writeReports([]reportTarget{riskRegisterTarget(run, path)})
	if err != nil {
		return err
	}
	return cmdCtx.summarize(run, written)
}
