// Package config provides configuration management for the doctrace CLI.
//
// Values are layered from defaults, a doctrace.yaml file, DOCTRACE_
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"time"

	"github.com/leapstack-labs/doctrace/internal/export"
	"github.com/leapstack-labs/doctrace/internal/locator"
	"github.com/leapstack-labs/doctrace/internal/report"
	"github.com/leapstack-labs/doctrace/internal/watch"
)

// Config holds all CLI configuration options.
type Config struct {
	InputDir     string        `koanf:"input_dir" yaml:"input_dir"`
	Extensions   []string      `koanf:"extensions" yaml:"extensions"`
	Ignore       []string      `koanf:"ignore" yaml:"ignore,omitempty"`
	Workers      int           `koanf:"workers" yaml:"workers"`
	Verbose      bool          `koanf:"verbose" yaml:"verbose,omitempty"`
	LogLevel     string        `koanf:"log_level" yaml:"log_level"`
	OutputFormat string        `koanf:"output" yaml:"output"`
	Reports      ReportsConfig `koanf:"reports" yaml:"reports"`
	Export       ExportConfig  `koanf:"export" yaml:"export"`
	Watch        WatchConfig   `koanf:"watch" yaml:"watch"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-" yaml:"-"`
	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-" yaml:"-"`
}

// ReportsConfig holds the report output paths.
type ReportsConfig struct {
	Traceability string `koanf:"traceability" yaml:"traceability"`
	RiskRegister string `koanf:"risk_register" yaml:"risk_register"`
}

// ExportConfig holds settings for the SQLite snapshot.
type ExportConfig struct {
	Database string `koanf:"database" yaml:"database"`
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce" yaml:"debounce"`
}

// Default configuration values.
const (
	DefaultInputDir     = "docs"
	DefaultExtension    = locator.DefaultExtension
	DefaultTraceability = report.DefaultTraceabilityFile
	DefaultRiskRegister = report.DefaultRiskRegisterFile
	DefaultDatabase     = export.DefaultPath
	DefaultDebounce     = watch.DefaultDebounce
	DefaultLogLevel     = "warn"
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultConfigFile   = "doctrace.yaml"
)

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		InputDir:     DefaultInputDir,
		Extensions:   []string{DefaultExtension},
		LogLevel:     DefaultLogLevel,
		OutputFormat: DefaultOutput,
		Reports: ReportsConfig{
			Traceability: DefaultTraceability,
			RiskRegister: DefaultRiskRegister,
		},
		Export: ExportConfig{Database: DefaultDatabase},
		Watch:  WatchConfig{Debounce: DefaultDebounce},
	}
}
