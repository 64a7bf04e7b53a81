package graph

// BuildGraph assembles a validated Graph from resolved components and
// edges. Leaf nodes (components with no outgoing edges) and the summary
// are derived here and nowhere else.
func BuildGraph(components []Component, edges []Edge, stats ResolveStats, nameConflicts int) *Graph {
	g := &Graph{
		Components: components,
		Edges:      edges,
		Summary: Summary{
			TotalComponents: len(components),
			ByKind:          make(map[ComponentKind]int),
			ByLanguage:      make(map[Language]int),
			TotalEdges:      len(edges),
			UnresolvedCalls: stats.Unresolved,
			NameConflicts:   nameConflicts,
		},
	}

	hasOutgoing := make(map[string]bool, len(components))
	for _, e := range edges {
		hasOutgoing[e.CallerID] = true
	}

	g.LeafNodes = make([]string, 0, len(components))
	for _, c := range components {
		g.Summary.ByKind[c.Kind]++
		g.Summary.ByLanguage[c.Language]++
		if c.Kind == KindEndpoint {
			g.Summary.EndpointHandlers++
		}
		if !hasOutgoing[c.ID] {
			g.LeafNodes = append(g.LeafNodes, c.ID)
		}
	}

	return g
}
