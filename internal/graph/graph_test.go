package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_DeclareAndQuery(t *testing.T) {
	g := NewGraph()
	g.AddDocument("a.md")
	g.AddDocument("b.md")

	g.DeclareDependencies("a.md", []string{"c.md", "b.md", "b.md"})

	assert.Equal(t, []string{"b.md", "b.md", "c.md"}, g.Dependencies("a.md"), "sorted, duplicates kept")
	assert.Equal(t, []string{"a.md", "a.md"}, g.Dependents("b.md"))
	assert.Equal(t, []string{"a.md"}, g.Dependents("c.md"))
	assert.Equal(t, []string{"a.md", "b.md", "c.md"}, g.Keys())
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())
}

func TestGraph_Symmetry(t *testing.T) {
	g := NewGraph()
	g.DeclareDependencies("a.md", []string{"b.md", "c.md"})
	g.DeclareDependencies("b.md", []string{"c.md"})
	g.DeclareDependencies("c.md", []string{"a.md"})

	for _, e := range g.Edges() {
		assert.Contains(t, g.Dependencies(e[0]), e[1])
		assert.Contains(t, g.Dependents(e[1]), e[0])
	}
	assert.Len(t, g.Edges(), 4)
}

func TestGraph_EmptyDeclarationIsVisible(t *testing.T) {
	g := NewGraph()
	g.DeclareDependencies("lonely.md", nil)

	assert.Equal(t, []string{"lonely.md"}, g.Keys())
	assert.Empty(t, g.Dependencies("lonely.md"))
	assert.Empty(t, g.Dependents("lonely.md"))
}

func TestGraph_DocumentAloneIsNotAKey(t *testing.T) {
	g := NewGraph()
	g.AddDocument("prose.md")

	assert.Empty(t, g.Keys())
	assert.True(t, g.HasDocument("prose.md"))
	assert.False(t, g.HasKey("prose.md"))
}

func TestGraph_HasKey(t *testing.T) {
	g := NewGraph()
	g.DeclareDependencies("a.md", []string{"b.md"})
	g.DeclareDependencies("empty.md", nil)

	assert.True(t, g.HasKey("a.md"))
	assert.True(t, g.HasKey("b.md"), "referenced targets are keys")
	assert.True(t, g.HasKey("empty.md"))
	assert.False(t, g.HasKey("missing.md"))
}

func TestGraph_AccessorsReturnCopies(t *testing.T) {
	g := NewGraph()
	g.DeclareDependencies("a.md", []string{"b.md"})

	deps := g.Dependencies("a.md")
	deps[0] = "mutated"

	assert.Equal(t, []string{"b.md"}, g.Dependencies("a.md"))
}

func TestGraph_Dangling(t *testing.T) {
	g := NewGraph()
	g.AddDocument("a.md")
	g.AddDocument("b.md")
	g.DeclareDependencies("a.md", []string{"b.md", "ghost.md", "zombie.md"})

	assert.Equal(t, []string{"ghost.md", "zombie.md"}, g.Dangling())
}

func TestGraph_RootsAndLeaves(t *testing.T) {
	g := NewGraph()
	// a -> b -> c
	g.DeclareDependencies("a.md", []string{"b.md"})
	g.DeclareDependencies("b.md", []string{"c.md"})

	assert.Equal(t, []string{"a.md"}, g.Roots())
	assert.Equal(t, []string{"c.md"}, g.Leaves())
}

func TestGraph_HasCycle_NoCycle(t *testing.T) {
	g := NewGraph()
	g.DeclareDependencies("a.md", []string{"b.md"})
	g.DeclareDependencies("b.md", []string{"c.md"})

	hasCycle, path := g.HasCycle()
	assert.False(t, hasCycle, "unexpected cycle: %v", path)
}

func TestGraph_HasCycle_WithCycle(t *testing.T) {
	g := NewGraph()
	g.DeclareDependencies("a.md", []string{"b.md"})
	g.DeclareDependencies("b.md", []string{"c.md"})
	g.DeclareDependencies("c.md", []string{"a.md"})

	hasCycle, path := g.HasCycle()
	require.True(t, hasCycle)
	assert.Equal(t, []string{"a.md", "b.md", "c.md", "a.md"}, path)
}

func TestGraph_HasCycle_SelfReference(t *testing.T) {
	g := NewGraph()
	g.DeclareDependencies("a.md", []string{"a.md"})

	hasCycle, _ := g.HasCycle()
	assert.True(t, hasCycle)
}

func TestGraph_UpstreamDownstream(t *testing.T) {
	g := NewGraph()
	// a -> b -> c, d -> c
	g.DeclareDependencies("a.md", []string{"b.md"})
	g.DeclareDependencies("b.md", []string{"c.md"})
	g.DeclareDependencies("d.md", []string{"c.md"})

	assert.Equal(t, []string{"b.md", "c.md"}, g.Upstream("a.md"))
	assert.Equal(t, []string{"a.md", "b.md", "d.md"}, g.Downstream("c.md"))
	assert.Empty(t, g.Upstream("c.md"))
}
