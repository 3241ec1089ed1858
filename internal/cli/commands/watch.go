package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/doctrace/internal/watch"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate both reports whenever documents change",
		Long: `Write both reports, then watch the input directory and write them again
after every change. Each regeneration is a full rescan.

Stop with Ctrl+C.`,
		Example: `  # Watch ./docs
  doctrace watch

  # Wait one second for edits to settle
  doctrace watch --debounce 1s`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Quiet period before regenerating (default from config: watch.debounce)")

	return cmd
}

func runWatch(cmd *cobra.Command, debounce time.Duration) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if debounce <= 0 {
		debounce = cfg.Watch.Debounce
	}

	outputs := map[string]bool{
		filepath.Clean(cfg.Reports.Traceability): true,
		filepath.Clean(cfg.Reports.RiskRegister): true,
	}

	w := watch.New(watch.Options{
		Root:       cfg.InputDir,
		Extensions: cfg.Extensions,
		Debounce:   debounce,
		Ignore: func(path string) bool {
			return outputs[filepath.Clean(path)]
		},
		Logger: cmdCtx.Logger,
	}, func(ctx context.Context) error {
		run, err := cmdCtx.Scan(ctx)
		if err != nil {
			return err
		}
		written, err := cmdCtx.writeReports([]reportTarget{
			traceabilityTarget(run, cfg.Reports.Traceability),
			riskRegisterTarget(run, cfg.Reports.RiskRegister),
		})
		if err != nil {
			return err
		}
		r.Printf("[%s] regenerated %d report(s) from %d document(s), %d warning(s)\n",
			time.Now().Format("15:04:05"), len(written), len(run.Documents), len(run.Warnings))
		return nil
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.Println(fmt.Sprintf("Watching %s (Ctrl+C to stop)", displayPath(cfg.ProjectRoot, cfg.InputDir)))
	return w.Run(ctx)
}
