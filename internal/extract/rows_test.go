package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDependency(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{"relative path", "- `docs/b.md`", "b.md", true},
		{"bare name", "- `b.md`", "b.md", true},
		{"indented with trailing prose", "  - `../arch/c.md` (owner: platform)", "c.md", true},
		{"windows separators", "- `docs\\design\\d.md`", "d.md", true},
		{"trailing slash", "- `docs/folder/`", "folder", true},
		{"no dash", "`b.md`", "", false},
		{"plain bullet", "- b.md", "", false},
		{"prose", "See the design notes.", "", false},
		{"dot only", "- `./`", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDependency(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSeparatorRow(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"|---|---|", true},
		{"| :--- | :---: | ---: |", true},
		{"  |-|", true},
		{"|:|:|", true},
		{"| : | : |", true},
		{"||", true},
		{"|", true},
		{"| | |", false},
		{"| R1 | --- |", false},
		{"---", false},
		{"| a | b |", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSeparatorRow(tt.line))
		})
	}
}

func TestSplitCells(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"| R1 | Outage | High | High | Add redundancy |", []string{"R1", "Outage", "High", "High", "Add redundancy"}},
		{"|a|b", []string{"a", "b"}},
		{`| a \| b | c |`, []string{`a \| b`, "c"}},
		{"| a | |", []string{"a", ""}},
		{"|", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCells(tt.line))
		})
	}
}

func TestParseRiskRow(t *testing.T) {
	raw, cells, ok := ParseRiskRow("   | R1 | Outage |  ")
	assert.True(t, ok)
	assert.Equal(t, "| R1 | Outage |", raw)
	assert.Equal(t, []string{"R1", "Outage"}, cells)

	_, _, ok = ParseRiskRow("| --- | --- |")
	assert.False(t, ok)

	_, _, ok = ParseRiskRow("R1 | Outage")
	assert.False(t, ok)
}
