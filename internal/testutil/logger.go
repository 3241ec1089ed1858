// Package testutil provides shared helpers for tests: loggers and document
// tree fixtures.
package testutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// NewBufferLogger returns a debug-level text logger and the buffer it writes to,
// for asserting on logged warnings.
func NewBufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// WriteTree creates files under root from a map of slash-separated relative
// paths to contents.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
}

// SampleTree is a small document tree covering both section kinds,
// a dangling reference and a document without sections.
var SampleTree = map[string]string{
	"a.md": "# A\n\n## Dependencies\n\n- `docs/b.md`\n",
	"design/c.md": `# C

## Risk Analysis

| ID | Description | Probability | Impact | Mitigation |
| :--- | :--- | :--- | :--- | :--- |
| R1 | Outage | High | High | Add redundancy |
`,
	"notes/prose.md": "# Prose\n\nNo sections here.\n",
}
