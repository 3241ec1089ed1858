package extract

import (
	"path"
	"regexp"
	"strings"
)

// dependencyMarker matches a backtick-quoted path after a dash: - `docs/b.md`
var dependencyMarker = regexp.MustCompile("- `([^`]+)`")

// ParseDependency returns the base filename referenced by a dependency bullet.
// Lines without the marker are ignored.
func ParseDependency(line string) (string, bool) {
	m := dependencyMarker.FindStringSubmatch(line)
	if len(m) < 2 {
		return "", false
	}
	token := strings.ReplaceAll(strings.TrimSpace(m[1]), `\`, "/")
	token = strings.TrimRight(token, "/")
	if token == "" {
		return "", false
	}
	base := path.Base(token)
	if base == "." || base == ".." {
		return "", false
	}
	return base, true
}

// IsTableRow reports whether a line is a pipe-delimited table row.
func IsTableRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

// IsSeparatorRow reports whether a table row only holds delimiter, dash and
// colon characters, i.e. the formatting line under a table header. Whitespace
// is allowed between them, but a row of blank cells such as "| | |" without any
// dash or colon is data.
func IsSeparatorRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "|") {
		return false
	}
	mark, space := false, false
	for _, r := range trimmed {
		switch r {
		case '-', ':':
			mark = true
		case ' ', '\t':
			space = true
		case '|':
		default:
			return false
		}
	}
	return mark || !space
}

// SplitCells splits a table row on unescaped pipes and trims every cell.
// The outer pipes do not produce empty cells.
func SplitCells(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	if strings.HasSuffix(trimmed, "|") && !strings.HasSuffix(trimmed, `\|`) {
		trimmed = strings.TrimSuffix(trimmed, "|")
	}

	var (
		cells []string
		cell  strings.Builder
	)
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if c == '\\' && i+1 < len(trimmed) && trimmed[i+1] == '|' {
			cell.WriteString(`\|`)
			i++
			continue
		}
		if c == '|' {
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
			continue
		}
		cell.WriteByte(c)
	}
	return append(cells, strings.TrimSpace(cell.String()))
}

// ParseRiskRow accepts a table row that is not a separator. The returned raw
// text is the trimmed line, kept verbatim for rendering.
func ParseRiskRow(line string) (raw string, cells []string, ok bool) {
	if !IsTableRow(line) || IsSeparatorRow(line) {
		return "", nil, false
	}
	raw = strings.TrimSpace(line)
	return raw, SplitCells(raw), true
}
