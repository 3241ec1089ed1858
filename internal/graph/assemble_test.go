package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/doctrace/internal/diag"
	"github.com/leapstack-labs/doctrace/internal/extract"
)

func TestAssemble(t *testing.T) {
	results := []extract.Result{
		{
			Key:             "a.md",
			HasDependencies: true,
			Dependencies:    []string{"b.md"},
		},
		{
			Key:     "c.md",
			HasRisk: true,
			Risks: []extract.RiskRow{
				{Source: "c.md", Line: 7, Raw: "| R1 | Outage | High | High | Add redundancy |"},
			},
			Warnings: []diag.Warning{{Kind: diag.KindParseAmbiguity, Path: "c.md", Line: 7}},
		},
		{Key: "prose.md"},
		{
			Key:     "a2.md",
			HasRisk: true,
			Risks:   []extract.RiskRow{{Source: "a2.md", Line: 3, Raw: "| R2 |"}},
		},
	}

	a := Assemble(results)

	assert.Equal(t, []string{"a.md", "a2.md", "b.md", "c.md"}, a.Graph.Keys(), "documents without any section stay out unless referenced")
	assert.Empty(t, a.Graph.Dependencies("c.md"))
	assert.Empty(t, a.Graph.Dependents("c.md"))
	assert.Equal(t, []string{"b.md"}, a.Graph.Dependencies("a.md"))
	assert.Equal(t, []string{"a.md"}, a.Graph.Dependents("b.md"))
	assert.Equal(t, []string{"b.md"}, a.Graph.Dangling())

	require.Len(t, a.Risks, 2)
	assert.Equal(t, "c.md", a.Risks[0].Source, "visit order, not sorted")
	assert.Equal(t, "a2.md", a.Risks[1].Source)
	assert.Len(t, a.Warnings, 1)
}

func TestAssemble_RiskOnlyDocumentIsKey(t *testing.T) {
	results := []extract.Result{
		{
			Key:     "r.md",
			HasRisk: true,
			Risks:   []extract.RiskRow{{Source: "r.md", Line: 2, Raw: "| R1 | a | b | c | d |"}},
		},
	}

	a := Assemble(results)

	assert.Equal(t, []string{"r.md"}, a.Graph.Keys())
	assert.Equal(t, 0, a.Graph.EdgeCount())
	assert.Empty(t, a.Graph.Dangling())
	require.Len(t, a.Risks, 1)
}

func TestAssemble_Empty(t *testing.T) {
	a := Assemble(nil)

	assert.Empty(t, a.Graph.Keys())
	assert.Empty(t, a.Risks)
}

func TestAssemble_NameCollisionsMerge(t *testing.T) {
	results := []extract.Result{
		{Key: "readme.md", Path: "x/readme.md", HasDependencies: true, Dependencies: []string{"a.md"}},
		{Key: "readme.md", Path: "y/readme.md", HasDependencies: true, Dependencies: []string{"b.md"}},
	}

	a := Assemble(results)

	assert.Equal(t, []string{"a.md", "b.md"}, a.Graph.Dependencies("readme.md"))
}
