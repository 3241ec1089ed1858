// Package report renders the traceability matrix and the risk register.
//
// Both renderers are deterministic: the same assembled input always yields
// byte-identical output. Empty inputs still produce a header and an explicit
// "nothing found" line.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/doctrace/internal/extract"
	"github.com/leapstack-labs/doctrace/internal/graph"
)

// Default output locations, relative to the project root.
const (
	DefaultTraceabilityFile = "reports/rtm/repository_traceability_matrix.md"
	DefaultRiskRegisterFile = "reports/risk_register.md"
)

// Placeholder fills a dependency or dependent cell with no entries.
const Placeholder = "_None_"

const (
	traceabilityTitle = "# Repository Traceability Matrix"
	traceabilityIntro = "This report provides a 360-degree view of the documentation graph, mapping each document to its dependencies (files it links to) and dependents (files that link to it)."
	traceabilityEmpty = "No documents with dependency sections found."

	riskTitle = "# Consolidated Risk Register"
	riskIntro = "This report consolidates all risk analysis tables from documents across the repository into a single view."
	riskEmpty = "No risk tables found."
)

var (
	traceabilityHeader = []string{"Document", "Dependencies (Links To)", "Dependents (Linked From)"}
	riskHeader         = []string{"Source Document", "Risk ID", "Risk Description", "Probability", "Impact", "Mitigation Strategy"}
)

// Traceability writes the traceability matrix for g: one row per key, sorted.
func Traceability(w io.Writer, g *graph.Graph) error {
	var b strings.Builder
	writePreamble(&b, traceabilityTitle, traceabilityIntro, traceabilityHeader)

	keys := g.Keys()
	if len(keys) == 0 {
		b.WriteString("\n" + traceabilityEmpty + "\n")
	}
	for _, key := range keys {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", quote(key), quoteList(g.Dependencies(key)), quoteList(g.Dependents(key)))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RiskRegister writes the consolidated risk register, one line per row in
// the order given, each prefixed with its source document.
func RiskRegister(w io.Writer, risks []extract.RiskRow) error {
	var b strings.Builder
	writePreamble(&b, riskTitle, riskIntro, riskHeader)

	if len(risks) == 0 {
		b.WriteString("\n" + riskEmpty + "\n")
	}
	for _, row := range risks {
		fmt.Fprintf(&b, "| %s %s\n", quote(row.Source), row.Raw)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFile renders into memory and then writes path in full, creating
// parent directories as needed. An existing file is overwritten.
func WriteFile(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // G306: reports are meant to be readable
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writePreamble(b *strings.Builder, title, intro string, header []string) {
	b.WriteString(title + "\n\n")
	b.WriteString(intro + "\n\n")
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = ":---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
}

func quote(s string) string {
	return "`" + s + "`"
}

// quoteList quotes and comma-joins an already sorted list, or returns the
// placeholder when it is empty.
func quoteList(items []string) string {
	if len(items) == 0 {
		return Placeholder
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = quote(item)
	}
	return strings.Join(quoted, ", ")
}
