package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/doctrace/internal/cli/config"
	"github.com/leapstack-labs/doctrace/internal/cli/output"
)

const configHeader = `# doctrace configuration.
# Relative paths resolve against the directory of this file.
# Every key can be overridden with a DOCTRACE_ environment variable,
# e.g. DOCTRACE_INPUT_DIR or DOCTRACE_REPORTS__RISK_REGISTER.

`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter doctrace.yaml",
		Long: `Initialize a project with a doctrace.yaml holding the default settings
and an empty input directory.

This creates:
  - doctrace.yaml configuration file
  - docs/ directory for the documents to scan`,
		Example: `  # Initialize in current directory
  doctrace init

  # Initialize in a new directory
  doctrace init my-project

  # Force overwrite existing config
  doctrace init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			mode, _ := cmd.Flags().GetString("output")
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(mode))
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.DefaultConfigFile)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.DefaultConfigFile)
	}

	content, err := starterConfig()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, content, 0o644); err != nil { //nolint:gosec // G306: config is meant to be shared
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	r.StatusLine(config.DefaultConfigFile, "success", "")

	inputDir := filepath.Join(dir, config.DefaultInputDir)
	if _, err := os.Stat(inputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(inputDir, 0o750); err != nil {
			return fmt.Errorf("failed to create %s: %w", inputDir, err)
		}
		r.StatusLine(config.DefaultInputDir+"/", "success", "")
	}

	r.Println("")
	r.Success("doctrace project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Add Markdown documents to docs/")
	r.Println("  2. List references under a '## Dependencies' heading")
	r.Println("  3. Run 'doctrace generate' to write both reports")

	return nil
}

// starterConfig renders the default configuration as commented YAML.
func starterConfig() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(starterValues(config.Default())); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// starterValues mirrors Config with durations spelled as strings so the
// file reads "200ms" rather than nanoseconds.
func starterValues(cfg *config.Config) any {
	type watchValues struct {
		Debounce string `yaml:"debounce"`
	}
	type values struct {
		InputDir     string               `yaml:"input_dir"`
		Extensions   []string             `yaml:"extensions"`
		Ignore       []string             `yaml:"ignore"`
		Workers      int                  `yaml:"workers"`
		LogLevel     string               `yaml:"log_level"`
		OutputFormat string               `yaml:"output"`
		Reports      config.ReportsConfig `yaml:"reports"`
		Export       config.ExportConfig  `yaml:"export"`
		Watch        watchValues          `yaml:"watch"`
	}
	ignore := cfg.Ignore
	if ignore == nil {
		ignore = []string{}
	}
	return values{
		InputDir:     cfg.InputDir,
		Extensions:   cfg.Extensions,
		Ignore:       ignore,
		Workers:      cfg.Workers,
		LogLevel:     cfg.LogLevel,
		OutputFormat: cfg.OutputFormat,
		Reports:      cfg.Reports,
		Export:       cfg.Export,
		Watch:        watchValues{Debounce: cfg.Watch.Debounce.String()},
	}
}
