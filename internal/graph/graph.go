// Package graph provides the two-sided document reference graph.
// It keeps declared references (dependencies) and derived references
// (dependents) side by side, supports cycle detection and exposes sorted
// accessors for deterministic rendering.
package graph

import (
	"sort"
)

// Graph holds the declared and derived references between document keys.
// Edges are kept with multiplicity: a document listing the same target twice
// yields two edges.
type Graph struct {
	documents    map[string]bool     // keys discovered on disk
	dependencies map[string][]string // source -> targets (declared)
	dependents   map[string][]string // target -> sources (derived)
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		documents:    make(map[string]bool),
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
	}
}

// AddDocument records that a document with key exists on disk. It does not
// make the key visible in Keys; only a recognized section or an incoming edge
// does that.
func (g *Graph) AddDocument(key string) {
	g.documents[key] = true
}

// DeclareDependencies registers key as a document with a recognized section
// and appends its targets, if any.
func (g *Graph) DeclareDependencies(key string, targets []string) {
	if _, exists := g.dependencies[key]; !exists {
		g.dependencies[key] = []string{}
	}
	for _, target := range targets {
		g.AddEdge(key, target)
	}
}

// AddEdge adds a reference from -> to. Neither end needs to be a discovered
// document; dangling targets are ordinary entries.
func (g *Graph) AddEdge(from, to string) {
	g.dependencies[from] = append(g.dependencies[from], to)
	g.dependents[to] = append(g.dependents[to], from)
}

// HasDocument reports whether key was discovered on disk.
func (g *Graph) HasDocument(key string) bool {
	return g.documents[key]
}

// Dependencies returns the sorted targets declared by key, duplicates kept.
func (g *Graph) Dependencies(key string) []string {
	return sortedCopy(g.dependencies[key])
}

// Dependents returns the sorted sources that declared key as a target.
func (g *Graph) Dependents(key string) []string {
	return sortedCopy(g.dependents[key])
}

// Keys returns the sorted union of both key sets.
func (g *Graph) Keys() []string {
	seen := make(map[string]bool, len(g.dependencies)+len(g.dependents))
	keys := make([]string, 0, len(g.dependencies)+len(g.dependents))
	for _, m := range []map[string][]string{g.dependencies, g.dependents} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// HasKey reports whether key appears on either side of the graph.
func (g *Graph) HasKey(key string) bool {
	if _, ok := g.dependencies[key]; ok {
		return true
	}
	_, ok := g.dependents[key]
	return ok
}

// NodeCount returns the number of keys in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Keys())
}

// EdgeCount returns the number of edges, duplicates included.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.dependencies {
		count += len(targets)
	}
	return count
}

// Edges returns every edge sorted by source then target.
func (g *Graph) Edges() [][2]string {
	edges := make([][2]string, 0, g.EdgeCount())
	for _, from := range g.Keys() {
		for _, to := range g.Dependencies(from) {
			edges = append(edges, [2]string{from, to})
		}
	}
	return edges
}

// Dangling returns the sorted targets that were never discovered as documents.
func (g *Graph) Dangling() []string {
	var dangling []string
	for key := range g.dependents {
		if !g.documents[key] {
			dangling = append(dangling, key)
		}
	}
	sort.Strings(dangling)
	return dangling
}

// Roots returns documents nothing links to.
func (g *Graph) Roots() []string {
	var roots []string
	for _, key := range g.Keys() {
		if len(g.dependents[key]) == 0 {
			roots = append(roots, key)
		}
	}
	return roots
}

// Leaves returns documents that link to nothing.
func (g *Graph) Leaves() []string {
	var leaves []string
	for _, key := range g.Keys() {
		if len(g.dependencies[key]) == 0 {
			leaves = append(leaves, key)
		}
	}
	return leaves
}

// HasCycle returns true if the references contain a cycle, along with the
// cycle path. Nodes are visited in sorted order so the reported path is stable.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string) // Track the path for error reporting

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, childID := range g.Dependencies(id) {
			if !visited[childID] {
				path[childID] = id
				if dfs(childID) {
					return true
				}
			} else if recStack[childID] {
				// Found cycle, reconstruct path
				cyclePath = []string{childID}
				for curr := id; curr != childID; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{childID}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	for _, id := range g.Keys() {
		if !visited[id] {
			if dfs(id) {
				return true, cyclePath
			}
		}
	}

	return false, nil
}

// Upstream returns every key reachable from id by following declared
// references, excluding id itself unless it lies on a cycle.
func (g *Graph) Upstream(id string) []string {
	return g.reach(id, g.dependencies)
}

// Downstream returns every key that transitively references id.
func (g *Graph) Downstream(id string) []string {
	return g.reach(id, g.dependents)
}

func (g *Graph) reach(id string, next map[string][]string) []string {
	seen := make(map[string]bool)

	var mark func(nodeID string)
	mark = func(nodeID string) {
		for _, n := range next[nodeID] {
			if !seen[n] {
				seen[n] = true
				mark(n)
			}
		}
	}
	mark(id)

	result := make([]string, 0, len(seen))
	for n := range seen {
		result = append(result, n)
	}
	sort.Strings(result)
	return result
}

func sortedCopy(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	sort.Strings(out)
	return out
}
