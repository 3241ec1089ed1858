package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/doctrace/internal/cli/output"
	"github.com/leapstack-labs/doctrace/internal/cli/testutil"
)

const projectMatrixRows = "| `api.md` | _None_ | `architecture.md` |\n" +
	"| `architecture.md` | `api.md`, `requirements.md` | `requirements.md` |\n" +
	"| `requirements.md` | `architecture.md` | `architecture.md` |\n"

const projectRiskRow = "| `api.md` | R-1 | Breaking change | Medium | High | Version the API |\n"

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestTraceabilityCommand(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.ProjectConfig(dir)

	stdout, _, err := testutil.ExecuteCommand(t, NewTraceabilityCommand(), cfg)
	require.NoError(t, err)

	content := readFile(t, cfg.Reports.Traceability)
	assert.True(t, strings.HasPrefix(content, "# Repository Traceability Matrix\n\n"))
	assert.True(t, strings.HasSuffix(content, projectMatrixRows), "got:\n%s", content)
	assert.NoFileExists(t, cfg.Reports.RiskRegister)

	assert.Contains(t, stdout, "- [success] reports/rtm/repository_traceability_matrix.md")
	assert.Contains(t, stdout, "- **Documents**: 3")
	assert.Contains(t, stdout, "- **Traced keys**: 3")
	testutil.AssertNoANSI(t, stdout)
	testutil.AssertValidMarkdown(t, stdout)
}

func TestTraceabilityCommand_OutputFileFlag(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.ProjectConfig(dir)
	target := filepath.Join(dir, "custom", "rtm.md")

	_, _, err := testutil.ExecuteCommand(t, NewTraceabilityCommand(), cfg, "--output-file", target)
	require.NoError(t, err)

	assert.FileExists(t, target)
	assert.NoFileExists(t, cfg.Reports.Traceability)
}

func TestRisksCommand(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.ProjectConfig(dir)

	_, _, err := testutil.ExecuteCommand(t, NewRisksCommand(), cfg)
	require.NoError(t, err)

	content := readFile(t, cfg.Reports.RiskRegister)
	assert.True(t, strings.HasPrefix(content, "# Consolidated Risk Register\n\n"))
	assert.True(t, strings.HasSuffix(content, projectRiskRow), "got:\n%s", content)
	assert.NotContains(t, content, "| ID |", "source header row must be dropped")
}

func TestGenerateCommand_JSON(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.ProjectConfig(dir)
	cfg.OutputFormat = "json"

	stdout, _, err := testutil.ExecuteCommand(t, NewGenerateCommand(), cfg)
	require.NoError(t, err)

	assert.FileExists(t, cfg.Reports.Traceability)
	assert.FileExists(t, cfg.Reports.RiskRegister)

	var got output.ScanOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, 3, got.Documents)
	assert.Equal(t, 3, got.Keys)
	assert.Equal(t, 3, got.Edges)
	assert.Equal(t, 1, got.RiskRows)
	assert.Empty(t, got.Warnings)
	require.Len(t, got.Outputs, 2)
	assert.Equal(t, "traceability", got.Outputs[0].Kind)
	assert.Equal(t, "risk_register", got.Outputs[1].Kind)
}

func TestGenerateCommand_MissingInputIsWarning(t *testing.T) {
	dir := t.TempDir()
	cfg := testutil.ProjectConfig(dir)

	_, stderr, err := testutil.ExecuteCommand(t, NewGenerateCommand(), cfg)
	require.NoError(t, err)

	assert.Contains(t, readFile(t, cfg.Reports.Traceability), "No documents with dependency sections found.")
	assert.Contains(t, readFile(t, cfg.Reports.RiskRegister), "No risk tables found.")
	assert.Contains(t, stderr, "1 warning(s)")
}

func TestGenerateCommand_WriteFailureIsFatal(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.ProjectConfig(dir)

	// A regular file where the report directory should be.
	blocker := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, _, err := testutil.ExecuteCommand(t, NewGenerateCommand(), cfg,
		"--traceability-file", filepath.Join(blocker, "rtm.md"))
	require.Error(t, err)
	assert.NoFileExists(t, cfg.Reports.RiskRegister)
}

func TestGenerateCommand_Idempotent(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.ProjectConfig(dir)

	_, _, err := testutil.ExecuteCommand(t, NewGenerateCommand(), cfg)
	require.NoError(t, err)
	first := readFile(t, cfg.Reports.Traceability) + readFile(t, cfg.Reports.RiskRegister)

	cfg.Workers = 1
	_, _, err = testutil.ExecuteCommand(t, NewGenerateCommand(), cfg)
	require.NoError(t, err)
	second := readFile(t, cfg.Reports.Traceability) + readFile(t, cfg.Reports.RiskRegister)

	assert.Equal(t, first, second)
}
