package graph

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultMaxDepth bounds trace and search traversals when the caller
// does not specify a depth.
const DefaultMaxDepth = 5

// TraceNode is one component in a trace tree. Cycle marks a component
// already visited on this trace; its subtree is not repeated.
type TraceNode struct {
	ID            string        `json:"id"`
	QualifiedName string        `json:"qualified_name"`
	Kind          ComponentKind `json:"kind"`
	File          string        `json:"file"`
	Line          int           `json:"line"`
	Cycle         bool          `json:"cycle,omitempty"`
	Calls         []*TraceNode  `json:"calls,omitempty"`
}

// RouteTrace is the call tree rooted at one endpoint handler.
type RouteTrace struct {
	Route      string     `json:"route"`
	HTTPMethod string     `json:"http_method,omitempty"`
	Handler    *TraceNode `json:"handler"`
}

// TraceRoutes returns the call tree under every endpoint handler whose
// route matches exactly or by prefix. An empty route matches all
// handlers. maxDepth <= 0 uses DefaultMaxDepth; maxDepth 1 lists only
// direct calls.
func TraceRoutes(g *Graph, route string, maxDepth int) ([]RouteTrace, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("trace routes: %w", err)
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	adj := adjacency(g)

	var traces []RouteTrace
	for i := range g.Components {
		c := &g.Components[i]
		if c.Kind != KindEndpoint || c.Metadata == nil {
			continue
		}
		if route != "" && c.Metadata.Route != route && !strings.HasPrefix(c.Metadata.Route, route) {
			continue
		}
		visited := map[string]bool{c.ID: true}
		traces = append(traces, RouteTrace{
			Route:      c.Metadata.Route,
			HTTPMethod: c.Metadata.HTTPMethod,
			Handler:    traceFrom(g, adj, c, maxDepth, visited),
		})
	}
	return traces, nil
}

// traceFrom builds the trace tree below one root with an explicit
// breadth-first queue. The visited set is shared across the whole root,
// so a component appears at most once per trace and cycles terminate
// with a marked node instead of a repeated subtree.
func traceFrom(g *Graph, adj map[string][]string, root *Component, maxDepth int, visited map[string]bool) *TraceNode {
	type item struct {
		node  *TraceNode
		depth int
	}

	top := traceNode(root)
	queue := []item{{top, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		for _, calleeID := range adj[cur.node.ID] {
			callee := g.ComponentByID(calleeID)
			if callee == nil {
				continue
			}
			child := traceNode(callee)
			if visited[calleeID] {
				child.Cycle = true
				cur.node.Calls = append(cur.node.Calls, child)
				continue
			}
			visited[calleeID] = true
			cur.node.Calls = append(cur.node.Calls, child)
			queue = append(queue, item{child, cur.depth + 1})
		}
	}
	return top
}

func traceNode(c *Component) *TraceNode {
	return &TraceNode{
		ID:            c.ID,
		QualifiedName: c.QualifiedName,
		Kind:          c.Kind,
		File:          c.File,
		Line:          c.LineStart,
	}
}

// ChainNode is one step of a call chain.
type ChainNode struct {
	ID            string        `json:"id"`
	QualifiedName string        `json:"qualified_name"`
	Kind          ComponentKind `json:"kind"`
}

// CallChain is one simple path from an entry point to a matched target.
type CallChain struct {
	Nodes []ChainNode `json:"nodes"`
}

// entryPoint reports whether a component can start a call chain:
// endpoint handlers always qualify, and so do components whose own name
// suggests an inbound surface. Only the short name is checked; matching
// the full qualified name would pull in everything under an api/ path.
func entryPoint(c *Component) bool {
	if c.Kind == KindEndpoint {
		return true
	}
	name := strings.ToLower(c.ShortName)
	for _, marker := range []string{"controller", "handler", "endpoint", "resource", "api"} {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// SearchCallChains finds every simple path of length <= maxDepth from an
// entry point to a component whose short or qualified name contains
// funcName (case-insensitive). Results are sorted by path length, then
// by entry-point order in the graph. An entry whose own name matches
// the keyword still anchors paths to other matches; only the
// zero-length entry-to-itself pair yields nothing.
func SearchCallChains(g *Graph, funcName string, maxDepth int) ([]CallChain, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("search call chains: %w", err)
	}
	if funcName == "" {
		return nil, fmt.Errorf("search call chains: empty function name")
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	needle := strings.ToLower(funcName)
	targets := make(map[string]bool)
	for i := range g.Components {
		c := &g.Components[i]
		if strings.Contains(strings.ToLower(c.ShortName), needle) ||
			strings.Contains(strings.ToLower(c.QualifiedName), needle) {
			targets[c.ID] = true
		}
	}
	if len(targets) == 0 {
		return nil, nil
	}

	adj := adjacency(g)

	var chains []CallChain
	for i := range g.Components {
		entry := &g.Components[i]
		if !entryPoint(entry) {
			continue
		}
		chains = append(chains, chainsFrom(g, adj, entry, targets, maxDepth)...)
	}

	sort.SliceStable(chains, func(a, b int) bool {
		return len(chains[a].Nodes) < len(chains[b].Nodes)
	})
	return chains, nil
}

// chainsFrom enumerates every simple path from entry to a target with an
// explicit depth-first stack. Each frame remembers how many of its
// callees have been tried, so the path and on-path set unwind exactly
// once per frame. A chain needs at least one edge, so the entry itself
// is never reported even when it matches the keyword.
func chainsFrom(g *Graph, adj map[string][]string, entry *Component, targets map[string]bool, maxDepth int) []CallChain {
	type frame struct {
		id   string
		next int
	}

	var chains []CallChain
	onPath := map[string]bool{entry.ID: true}
	path := []ChainNode{chainNode(entry)}
	stack := []*frame{{id: entry.ID}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		callees := adj[cur.id]
		if len(path) > maxDepth || cur.next >= len(callees) {
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
			delete(onPath, cur.id)
			continue
		}
		calleeID := callees[cur.next]
		cur.next++
		if onPath[calleeID] {
			continue
		}
		callee := g.ComponentByID(calleeID)
		if callee == nil {
			continue
		}
		path = append(path, chainNode(callee))
		if targets[calleeID] {
			chains = append(chains, CallChain{Nodes: append([]ChainNode(nil), path...)})
		}
		onPath[calleeID] = true
		stack = append(stack, &frame{id: calleeID})
	}
	return chains
}

func chainNode(c *Component) ChainNode {
	return ChainNode{ID: c.ID, QualifiedName: c.QualifiedName, Kind: c.Kind}
}

// adjacency builds a caller -> callees map preserving edge order.
func adjacency(g *Graph) map[string][]string {
	adj := make(map[string][]string, len(g.Components))
	for _, e := range g.Edges {
		adj[e.CallerID] = append(adj[e.CallerID], e.CalleeID)
	}
	return adj
}
