package commands

import (
	"github.com/spf13/cobra"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var traceabilityFile, riskFile string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write both reports from a single scan",
		Long: `Scan the input directory once and write both the traceability matrix
and the risk register.`,
		Example: `  # Write both reports to their configured paths
  doctrace generate

  # Override both paths
  doctrace generate --traceability-file out/rtm.md --risk-file out/risks.md`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, traceabilityFile, riskFile)
		},
	}

	cmd.Flags().StringVar(&traceabilityFile, "traceability-file", "", "Traceability matrix path (default from config)")
	cmd.Flags().StringVar(&riskFile, "risk-file", "", "Risk register path (default from config)")

	return cmd
}

func runGenerate(cmd *cobra.Command, traceabilityFile, riskFile string) error {
	cmdCtx := NewCommandContext(cmd)

	rtmPath, err := resolveOutput(traceabilityFile, cmdCtx.Cfg.Reports.Traceability)
	if err != nil {
		return err
	}
	riskPath, err := resolveOutput(riskFile, cmdCtx.Cfg.Reports.RiskRegister)
	if err != nil {
		return err
	}

	run, err := cmdCtx.Scan(cmd.Context())
	if err != nil {
		return err
	}

	written, err := cmdCtx.writeReports([]reportTarget{
		traceabilityTarget(run, rtmPath),
		riskRegisterTarget(run, riskPath),
	})
	if err != nil {
		return err
	}
	return cmdCtx.summarize(run, written)
}
