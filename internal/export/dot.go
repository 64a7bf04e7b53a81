package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/1119302165/callgraph-analyzer/internal/graph"
)

// DOTOptions controls Graphviz rendering.
type DOTOptions struct {
	// SkipIsolated leaves out components with no edges in either
	// direction, which keeps large graphs readable.
	SkipIsolated bool
}

// GenerateDOT renders the graph in Graphviz DOT format. Nodes are keyed
// by component id, so two components sharing a qualified name stay
// distinct; labels carry the qualified name and file. Edges follow the
// stored order, so output is deterministic.
func GenerateDOT(g *graph.Graph, opts DOTOptions) (string, error) {
	if err := g.Validate(); err != nil {
		return "", fmt.Errorf("export dot: %w", err)
	}

	connected := make(map[string]bool)
	for _, e := range g.Edges {
		connected[e.CallerID] = true
		connected[e.CalleeID] = true
	}

	var sb strings.Builder
	sb.WriteString("digraph CallGraph {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box];\n")

	for i := range g.Components {
		c := &g.Components[i]
		if opts.SkipIsolated && !connected[c.ID] {
			continue
		}
		label := fmt.Sprintf("%s\\n%s", c.QualifiedName, c.File)
		if c.Kind == graph.KindEndpoint && c.Metadata != nil {
			label = fmt.Sprintf("%s %s\\n%s", c.Metadata.HTTPMethod, c.Metadata.Route, label)
		}
		sb.WriteString(fmt.Sprintf("  %s [label=%s];\n",
			dotQuote(c.ID), dotQuote(label)))
	}

	for _, e := range g.Edges {
		sb.WriteString(fmt.Sprintf("  %s -> %s;\n",
			dotQuote(e.CallerID), dotQuote(e.CalleeID)))
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

// WriteDOT writes the DOT export to path, creating parent directories.
func WriteDOT(path string, g *graph.Graph, opts DOTOptions) error {
	out, err := GenerateDOT(g, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export dot: create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("export dot: write %s: %w", path, err)
	}
	return nil
}

// dotQuote wraps a DOT identifier in double quotes, escaping embedded
// quotes. Backslashes already present encode label line breaks.
func dotQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
