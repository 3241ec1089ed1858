// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/doctrace/internal/cli/config"
	"github.com/leapstack-labs/doctrace/internal/cli/output"
	roottestutil "github.com/leapstack-labs/doctrace/internal/testutil"
)

// ProjectDocs is the document tree created by SetupTestProject under docs/.
var ProjectDocs = map[string]string{
	"architecture.md": "# Architecture\n\n## Dependencies\n\n- `docs/requirements.md`\n- `docs/design/api.md`\n",
	"requirements.md": "# Requirements\n\n## Dependencies\n\n- `docs/architecture.md`\n",
	"design/api.md": `# API

## Risks

| ID | Description | Probability | Impact | Mitigation |
|----|-------------|-------------|--------|------------|
| R-1 | Breaking change | Medium | High | Version the API |
`,
	"notes.txt": "not a document\n",
}

// SetupTestProject creates a temporary project with a docs/ tree and
// returns its root.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	roottestutil.WriteTree(t, filepath.Join(tmpDir, "docs"), ProjectDocs)
	return tmpDir
}

// ProjectConfig returns a configuration rooted at dir with every path
// resolved the way LoadConfig resolves them.
func ProjectConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.ProjectRoot = dir
	cfg.InputDir = filepath.Join(dir, cfg.InputDir)
	cfg.Reports.Traceability = filepath.Join(dir, cfg.Reports.Traceability)
	cfg.Reports.RiskRegister = filepath.Join(dir, cfg.Reports.RiskRegister)
	cfg.Export.Database = filepath.Join(dir, cfg.Export.Database)
	return cfg
}

// ExecuteCommand runs cmd with args under a context carrying cfg and a test
// logger, returning captured stdout and stderr.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	ctx := config.WithConfig(context.Background(), cfg)
	ctx = context.WithValue(ctx, config.LoggerKey(), roottestutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, mode, isTTY),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	// Check for balanced code fences
	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	// Check that headers have content
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
