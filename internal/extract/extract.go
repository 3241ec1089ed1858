// Package extract scans a single document for its Dependencies and Risk
// sections and parses the rows inside them.
//
// Extraction is a pure function of the document's key, path and content, so
// documents can be processed in any order and merged afterwards.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/doctrace/internal/diag"
)

// RiskColumns is the number of cells a risk row is expected to carry:
// ID, description, probability, impact and mitigation.
const RiskColumns = 5

// RiskRow is one table row found inside a Risk section.
type RiskRow struct {
	// Source is the key of the originating document.
	Source string `json:"source"`
	// Line is the 1-based line number in the source document.
	Line int `json:"line"`
	// Raw is the trimmed row text, rendered verbatim.
	Raw string `json:"raw"`
	// Cells holds the split cells; not validated against any schema.
	Cells []string `json:"cells"`
}

// Result is everything extracted from one document.
type Result struct {
	Key  string
	Path string

	// HasDependencies is true when a Dependencies section was recognized,
	// even if it lists nothing.
	HasDependencies bool
	// Dependencies are target keys in document order, duplicates kept.
	Dependencies []string

	HasRisk bool
	Risks   []RiskRow

	Sections []Section
	Warnings []diag.Warning
}

// riskWord matches "risk" or "risks" as a whole word.
var riskWord = regexp.MustCompile(`(?i)\brisks?\b`)

// Extract scans content for sections and parses their rows.
func Extract(key, path string, content []byte) Result {
	res := Result{Key: key, Path: path}

	lines := SplitLines(string(content))
	sections, fenced, repeats := NewScanner().Scan(lines)
	res.Sections = sections

	for _, ev := range repeats {
		res.Warnings = append(res.Warnings, diag.Warning{
			Kind:    diag.KindParseAmbiguity,
			Path:    path,
			Line:    ev.Line + 1,
			Message: fmt.Sprintf("ignored repeated %s heading %q", ev.Kind, strings.TrimSpace(lines[ev.Line])),
		})
	}

	for _, sec := range sections {
		switch sec.Kind {
		case KindDependencies:
			res.HasDependencies = true
			res.Dependencies = dependencies(lines, fenced, sec)
		case KindRisk:
			res.HasRisk = true
			if _, text, _ := HeadingLevel(lines[sec.Start]); !riskWord.MatchString(text) {
				res.Warnings = append(res.Warnings, diag.Warning{
					Kind:    diag.KindParseAmbiguity,
					Path:    path,
					Line:    sec.Start + 1,
					Message: fmt.Sprintf("heading %q treated as a risk section", text),
				})
			}
			res.Risks = risks(key, lines, fenced, sec)
		}
	}

	for _, row := range res.Risks {
		if len(row.Cells) != RiskColumns {
			res.Warnings = append(res.Warnings, diag.Warning{
				Kind:    diag.KindParseAmbiguity,
				Path:    path,
				Line:    row.Line,
				Message: fmt.Sprintf("risk row has %d cells, expected %d", len(row.Cells), RiskColumns),
			})
		}
	}

	return res
}

// dependencies collects the dependency targets inside sec.
func dependencies(lines []string, fenced []bool, sec Section) []string {
	var deps []string
	from, to := sec.ContentLines()
	for i := from; i < to; i++ {
		if fenced[i] {
			continue
		}
		if dep, ok := ParseDependency(lines[i]); ok {
			deps = append(deps, dep)
		}
	}
	return deps
}

// risks collects the data rows of every table inside sec. A row directly
// above a separator row is that table's header and is dropped.
func risks(key string, lines []string, fenced []bool, sec Section) []RiskRow {
	var rows []RiskRow
	from, to := sec.ContentLines()
	for i := from; i < to; i++ {
		if fenced[i] {
			continue
		}
		if IsSeparatorRow(lines[i]) {
			if n := len(rows); n > 0 && rows[n-1].Line == i {
				rows = rows[:n-1]
			}
			continue
		}
		raw, cells, ok := ParseRiskRow(lines[i])
		if !ok {
			continue
		}
		rows = append(rows, RiskRow{Source: key, Line: i + 1, Raw: raw, Cells: cells})
	}
	return rows
}

// SplitLines splits content into lines, accepting both \n and \r\n endings.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
