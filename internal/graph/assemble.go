package graph

import (
	"github.com/leapstack-labs/doctrace/internal/diag"
	"github.com/leapstack-labs/doctrace/internal/extract"
)

// Assembled is the merged view of every extracted document.
type Assembled struct {
	Graph *Graph
	// Risks are all risk rows in document-visit order.
	Risks []extract.RiskRow
	// Warnings are the per-document warnings in document-visit order.
	Warnings []diag.Warning
}

// Assemble merges per-document results, in the order given, into the
// reference graph and the flat risk list. A document with a Dependencies or
// Risk section is a key; a document with neither only shows up in the graph
// if another document references it.
func Assemble(results []extract.Result) *Assembled {
	a := &Assembled{Graph: NewGraph()}
	for _, res := range results {
		a.Graph.AddDocument(res.Key)
		if res.HasDependencies || res.HasRisk {
			a.Graph.DeclareDependencies(res.Key, res.Dependencies)
		}
		a.Risks = append(a.Risks, res.Risks...)
		a.Warnings = append(a.Warnings, res.Warnings...)
	}
	return a
}
