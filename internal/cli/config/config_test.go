package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "doctrace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func globalFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("input-dir", "i", "", "input directory")
	flags.StringSlice("extensions", nil, "extensions")
	flags.Int("workers", 0, "workers")
	flags.BoolP("verbose", "v", false, "verbose")
	flags.String("log-level", "", "log level")
	flags.StringP("output", "o", "", "output format")
	flags.String("output-file", "", "command-local flag")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, cfg.ProjectRoot)
	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, filepath.Join(cwd, DefaultInputDir), cfg.InputDir)
	assert.Equal(t, []string{".md"}, cfg.Extensions)
	assert.Equal(t, filepath.Join(cwd, DefaultTraceability), cfg.Reports.Traceability)
	assert.Equal(t, filepath.Join(cwd, DefaultRiskRegister), cfg.Reports.RiskRegister)
	assert.Equal(t, filepath.Join(cwd, DefaultDatabase), cfg.Export.Database)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Zero(t, cfg.Workers)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `input_dir: documentation
extensions: [".md", ".markdown"]
ignore:
  - "drafts/"
workers: 3
log_level: INFO
reports:
  traceability: out/rtm.md
  risk_register: /abs/risks.md
watch:
  debounce: 1s
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	root := filepath.Dir(path)
	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "documentation"), cfg.InputDir)
	assert.Equal(t, []string{".md", ".markdown"}, cfg.Extensions)
	assert.Equal(t, []string{"drafts/"}, cfg.Ignore)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(root, "out/rtm.md"), cfg.Reports.Traceability)
	assert.Equal(t, "/abs/risks.md", cfg.Reports.RiskRegister)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestLoadConfig_FindsFileUpward(t *testing.T) {
	path := writeConfig(t, "input_dir: notes\n")
	nested := filepath.Join(filepath.Dir(path), "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(path), filepath.Base(cfg.ConfigFile))
	assert.Equal(t, "notes", filepath.Base(cfg.InputDir))
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "input_dir: [unclosed\n")
	_, err := LoadConfig(path, nil)
	assert.Error(t, err)
}

func TestLoadConfig_Env(t *testing.T) {
	path := writeConfig(t, "input_dir: from_file\n")
	t.Setenv("DOCTRACE_INPUT_DIR", "from_env")
	t.Setenv("DOCTRACE_EXTENSIONS", ".md, .markdown")
	t.Setenv("DOCTRACE_WORKERS", "2")
	t.Setenv("DOCTRACE_REPORTS__RISK_REGISTER", "env/risks.md")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	root := filepath.Dir(path)
	assert.Equal(t, filepath.Join(root, "from_env"), cfg.InputDir, "env var should override config file")
	assert.Equal(t, []string{".md", ".markdown"}, cfg.Extensions)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, filepath.Join(root, "env/risks.md"), cfg.Reports.RiskRegister)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	path := writeConfig(t, "input_dir: from_file\nworkers: 3\n")
	t.Setenv("DOCTRACE_INPUT_DIR", "from_env")
	t.Setenv("DOCTRACE_WORKERS", "2")

	flags := globalFlags()
	require.NoError(t, flags.Set("input-dir", "from_flag"))
	require.NoError(t, flags.Set("extensions", ".txt,.md"))
	require.NoError(t, flags.Set("output-file", "ignored.md"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	abs, err := filepath.Abs("from_flag")
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.InputDir, "flag paths resolve against the working directory")
	assert.Equal(t, []string{".txt", ".md"}, cfg.Extensions)
	assert.Equal(t, 2, cfg.Workers, "unset flag falls back to env")
}

func TestLoadConfig_VerboseFlag(t *testing.T) {
	path := writeConfig(t, "log_level: error\n")
	flags := globalFlags()
	require.NoError(t, flags.Set("verbose", "true"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty input dir", func(c *Config) { c.InputDir = "" }, "input_dir is required"},
		{"no extensions", func(c *Config) { c.Extensions = nil }, "extensions"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers must not be negative"},
		{"bad output", func(c *Config) { c.OutputFormat = "html" }, "unknown output format"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "unknown log level"},
		{"empty report path", func(c *Config) { c.Reports.RiskRegister = "" }, "report paths"},
		{"zero debounce", func(c *Config) { c.Watch.Debounce = 0 }, "debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	path := writeConfig(t, "output: html\n")
	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestConfig_Level(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for level, want := range tests {
		cfg := Default()
		cfg.LogLevel = level
		assert.Equal(t, want, cfg.Level(), level)
	}
}

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, GetLogger(ctx), "discard logger fallback")
	assert.Equal(t, Default(), GetConfig(ctx))

	cfg := Default()
	cfg.Workers = 7
	ctx = WithConfig(ctx, cfg)
	assert.Same(t, cfg, GetConfig(ctx))

	logger := slog.New(slog.DiscardHandler)
	ctx = context.WithValue(ctx, LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
