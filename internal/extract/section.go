package extract

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Kind identifies a recognized section.
type Kind int

// Section kinds.
const (
	KindDependencies Kind = iota
	KindRisk
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindDependencies:
		return "dependencies"
	case KindRisk:
		return "risk"
	default:
		return "unknown"
	}
}

// State is the scanner state for one section kind.
type State int

// Scanner states.
const (
	StateOutside State = iota
	StateInside
)

// Section is a half-open line range [Start, End) over a document's lines.
// Start is the heading line; content begins at Start+1. End is the closing
// line, or the line count when the section runs to the end of the document.
type Section struct {
	Kind  Kind
	Start int
	End   int
}

// ContentLines returns the indices of the lines belonging to the section body.
func (s Section) ContentLines() (from, to int) {
	return s.Start + 1, s.End
}

// DependenciesHeading is the exact, case-folded heading that opens a
// Dependencies section.
const DependenciesHeading = "## dependencies"

// fold case-folds s. A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// HeadingLevel reports the ATX heading level of a line and its text.
// A heading is one to six '#' characters followed by whitespace.
func HeadingLevel(line string) (level int, text string, ok bool) {
	trimmed := strings.TrimSpace(line)
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(trimmed) {
		return 0, "", false
	}
	if c := trimmed[level]; c != ' ' && c != '\t' {
		return 0, "", false
	}
	return level, strings.TrimSpace(trimmed[level:]), true
}

// FenceMarker returns the leading run of backticks or tildes when a line is
// a code fence, e.g. "```" for "```go". A fence needs at least three marker
// characters.
func FenceMarker(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || (trimmed[0] != '`' && trimmed[0] != '~') {
		return "", false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == trimmed[0] {
		n++
	}
	if n < 3 {
		return "", false
	}
	return trimmed[:n], true
}

// ClosesFence reports whether line closes a block opened with marker: the
// same character, at least as long, with nothing after it.
func ClosesFence(line, marker string) bool {
	got, ok := FenceMarker(line)
	if !ok || got[0] != marker[0] || len(got) < len(marker) {
		return false
	}
	return strings.TrimSpace(line) == got
}

// IsHorizontalRule reports whether a line starts with a thematic break.
func IsHorizontalRule(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "---")
}

// OpensDependencies is the entry predicate for a Dependencies section.
func OpensDependencies(line string) bool {
	return fold(strings.TrimSpace(line)) == DependenciesHeading
}

// ClosesDependencies is the exit predicate for a Dependencies section: the
// next level-2 heading or a horizontal rule.
func ClosesDependencies(line string) bool {
	if level, _, ok := HeadingLevel(line); ok && level == 2 {
		return true
	}
	return IsHorizontalRule(line)
}

// OpensRisk is the entry predicate for a Risk section: a heading of any level
// whose text contains "risk". The match is a substring match on purpose, so
// "Risk-Free Assumptions" opens a Risk section too.
func OpensRisk(line string) bool {
	_, text, ok := HeadingLevel(line)
	return ok && strings.Contains(fold(text), "risk")
}

// ClosesRisk is the exit predicate for a Risk section: any heading of level 1 or 2.
func ClosesRisk(line string) bool {
	level, _, ok := HeadingLevel(line)
	return ok && level <= 2
}

// tracker is the two-state machine for one section kind.
type tracker struct {
	kind   Kind
	state  State
	done   bool
	start  int
	opens  func(string) bool
	closes func(string) bool
}

// Event describes a heading that matched a kind which was already consumed.
type Event struct {
	Kind Kind
	Line int
}

// step advances the machine by one line. It returns a finished section when
// the line closes one, and reports a repeated heading when the kind was
// already consumed.
func (t *tracker) step(i int, line string) (sec *Section, repeated bool) {
	switch t.state {
	case StateInside:
		if t.closes(line) {
			t.state = StateOutside
			t.done = true
			return &Section{Kind: t.kind, Start: t.start, End: i}, t.opens(line)
		}
	case StateOutside:
		if !t.opens(line) {
			return nil, false
		}
		if t.done {
			return nil, true
		}
		t.state = StateInside
		t.start = i
	}
	return nil, false
}

// Scanner finds the first Dependencies and the first Risk section in a line
// sequence. Fenced code blocks are opaque: headings inside them never change
// state.
type Scanner struct {
	trackers []*tracker
}

// NewScanner returns a scanner for both section kinds.
func NewScanner() *Scanner {
	return &Scanner{trackers: []*tracker{
		{kind: KindDependencies, opens: OpensDependencies, closes: ClosesDependencies},
		{kind: KindRisk, opens: OpensRisk, closes: ClosesRisk},
	}}
}

// Scan runs the state machines over lines. It returns the recognized
// sections ordered by start line, a mask of fenced lines, and the headings
// that matched an already-consumed kind.
func (s *Scanner) Scan(lines []string) (sections []Section, fenced []bool, repeats []Event) {
	fenced = make([]bool, len(lines))
	open := ""

	for i, line := range lines {
		if open != "" {
			fenced[i] = true
			if ClosesFence(line, open) {
				open = ""
			}
			continue
		}
		if marker, ok := FenceMarker(line); ok {
			open = marker
			fenced[i] = true
			continue
		}
		for _, t := range s.trackers {
			sec, repeated := t.step(i, line)
			if sec != nil {
				sections = append(sections, *sec)
			}
			if repeated {
				repeats = append(repeats, Event{Kind: t.kind, Line: i})
			}
		}
	}

	for _, t := range s.trackers {
		if t.state == StateInside {
			sections = append(sections, Section{Kind: t.kind, Start: t.start, End: len(lines)})
		}
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Start < sections[j].Start
	})
	return sections, fenced, repeats
}
