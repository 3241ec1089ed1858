// Package diag defines the soft warnings raised while scanning a document tree.
//
// Nothing in this package is fatal: warnings are collected per document, merged
// in visit order and logged once the run is assembled.
package diag

import (
	"fmt"
	"log/slog"
)

// Kind classifies a warning.
type Kind string

// Warning kinds.
const (
	// KindInputNotFound means the input root does not exist. The run still
	// renders empty reports.
	KindInputNotFound Kind = "input_not_found"
	// KindParseAmbiguity marks heuristic matches that were accepted but may
	// not be what the author meant.
	KindParseAmbiguity Kind = "parse_ambiguity"
	// KindFileRead means a single document could not be read and was skipped.
	KindFileRead Kind = "file_read"
)

// Warning is a single soft failure with file/line provenance.
// Line is 1-based; zero means the warning applies to the whole file.
type Warning struct {
	Kind    Kind   `json:"kind"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// String formats the warning as path:line: message.
func (w Warning) String() string {
	switch {
	case w.Path == "":
		return w.Message
	case w.Line > 0:
		return fmt.Sprintf("%s:%d: %s", w.Path, w.Line, w.Message)
	default:
		return fmt.Sprintf("%s: %s", w.Path, w.Message)
	}
}

// Log writes every warning to logger at WARN level.
func Log(logger *slog.Logger, warnings []Warning) {
	for _, w := range warnings {
		attrs := []any{"kind", string(w.Kind)}
		if w.Path != "" {
			attrs = append(attrs, "path", w.Path)
		}
		if w.Line > 0 {
			attrs = append(attrs, "line", w.Line)
		}
		logger.Warn(w.Message, attrs...)
	}
}

// Count returns the number of warnings of the given kind.
func Count(warnings []Warning, kind Kind) int {
	n := 0
	for _, w := range warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}
