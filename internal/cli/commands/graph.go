package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/doctrace/internal/cli/output"
	"github.com/leapstack-labs/doctrace/internal/graph"
)

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	var cyclesOnly bool
	var focus string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the document reference graph",
		Long: `Display the reference graph built from Dependencies sections.

Lists every key with what it references and what references it, then
reports roots (referenced by nothing), leaves (reference nothing),
dangling references to documents that were not found, and the first
reference cycle if there is one.

Output adapts to environment:
  - Terminal: Styled output with a table
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Show the graph
  doctrace graph

  # Only check for cycles
  doctrace graph --cycles-only

  # Show everything a document transitively references and is referenced by
  doctrace graph --focus architecture.md

  # Output as JSON
  doctrace graph --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd, cyclesOnly, focus)
		},
	}

	cmd.Flags().BoolVar(&cyclesOnly, "cycles-only", false, "Only report reference cycles")
	cmd.Flags().StringVar(&focus, "focus", "", "Show transitive references of one document key")

	return cmd
}

func runGraph(cmd *cobra.Command, cyclesOnly bool, focus string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	run, err := cmdCtx.Scan(cmd.Context())
	if err != nil {
		return err
	}
	g := run.Graph
	hasCycle, cycle := g.HasCycle()

	var f *output.GraphFocus
	if focus != "" && !g.HasKey(focus) {
		r.Warning(fmt.Sprintf("document not in graph: %s", focus))
	} else if focus != "" {
		f = &output.GraphFocus{
			Key:        focus,
			Upstream:   g.Upstream(focus),
			Downstream: g.Downstream(focus),
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return graphJSON(r, g, hasCycle, cycle, cyclesOnly, f)
	case output.ModeMarkdown:
		graphMarkdown(r, g, hasCycle, cycle, cyclesOnly)
	default:
		graphText(r, g, hasCycle, cycle, cyclesOnly)
	}
	if f != nil {
		r.Println("")
		r.Println(output.FormatHeader(2, "Focus: "+f.Key))
		r.Println(output.FormatKeyValue("References (transitive)", joinOrDash(f.Upstream)))
		r.Println(output.FormatKeyValue("Referenced by (transitive)", joinOrDash(f.Downstream)))
	}
	return nil
}

// graphText outputs the graph in styled text format.
func graphText(r *output.Renderer, g *graph.Graph, hasCycle bool, cycle []string, cyclesOnly bool) {
	styles := r.Styles()

	if !cyclesOnly {
		r.Header(1, "Reference Graph")
		rows := make([][]string, 0, g.NodeCount())
		for _, key := range g.Keys() {
			rows = append(rows, []string{key, joinOrDash(g.Dependencies(key)), joinOrDash(g.Dependents(key))})
		}
		r.Table([]string{"Document", "References", "Referenced by"}, rows)
		r.Println("")
		r.Printf("%s %s\n", styles.Muted.Render("roots:"), joinOrDash(g.Roots()))
		r.Printf("%s %s\n", styles.Muted.Render("leaves:"), joinOrDash(g.Leaves()))
		if dangling := g.Dangling(); len(dangling) > 0 {
			r.Printf("%s %s\n", styles.Warning.Render("dangling:"), strings.Join(dangling, ", "))
		}
		r.Println("")
	}

	if hasCycle {
		r.Println(styles.Error.Render("cycle: " + strings.Join(cycle, " -> ")))
	} else {
		r.Println(styles.Success.Render("no cycles"))
	}

	if !cyclesOnly {
		r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d documents, %d references", g.NodeCount(), g.EdgeCount())))
	}
}

// graphMarkdown outputs the graph in markdown format.
func graphMarkdown(r *output.Renderer, g *graph.Graph, hasCycle bool, cycle []string, cyclesOnly bool) {
	if !cyclesOnly {
		r.Println(output.FormatHeader(1, "Reference Graph"))
		r.Println("")
		for _, key := range g.Keys() {
			r.Printf("- %s\n", key)
			if deps := g.Dependencies(key); len(deps) > 0 {
				r.Printf("  - references: %s\n", strings.Join(deps, ", "))
			}
			if dependents := g.Dependents(key); len(dependents) > 0 {
				r.Printf("  - referenced by: %s\n", strings.Join(dependents, ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	if !cyclesOnly {
		r.Println(output.FormatKeyValue("Documents", fmt.Sprintf("%d", g.NodeCount())))
		r.Println(output.FormatKeyValue("References", fmt.Sprintf("%d", g.EdgeCount())))
		r.Println(output.FormatKeyValue("Roots", joinOrDash(g.Roots())))
		r.Println(output.FormatKeyValue("Leaves", joinOrDash(g.Leaves())))
		r.Println(output.FormatKeyValue("Dangling", joinOrDash(g.Dangling())))
	}
	if hasCycle {
		r.Println(output.FormatKeyValue("Cycle", strings.Join(cycle, " -> ")))
	} else {
		r.Println(output.FormatKeyValue("Cycle", "none"))
	}
}

// graphJSON outputs the graph in JSON format.
func graphJSON(r *output.Renderer, g *graph.Graph, hasCycle bool, cycle []string, cyclesOnly bool, focus *output.GraphFocus) error {
	out := output.GraphOutput{
		Nodes:    []output.GraphNode{},
		Edges:    g.EdgeCount(),
		Roots:    nonNil(g.Roots()),
		Leaves:   nonNil(g.Leaves()),
		Dangling: nonNil(g.Dangling()),
		HasCycle: hasCycle,
		Cycle:    cycle,
		Focus:    focus,
	}
	if !cyclesOnly {
		for _, key := range g.Keys() {
			out.Nodes = append(out.Nodes, output.GraphNode{
				Key:          key,
				OnDisk:       g.HasDocument(key),
				Dependencies: nonNil(g.Dependencies(key)),
				Dependents:   nonNil(g.Dependents(key)),
			})
		}
	}
	return r.JSON(out)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
