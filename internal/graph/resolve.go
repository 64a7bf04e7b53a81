package graph

import (
	"strings"
)

// ResolveStats summarizes what happened during call resolution.
type ResolveStats struct {
	// Unresolved counts call sites whose callee matched no declared
	// component, or matched several equally close candidates.
	Unresolved int
	// DroppedCallers counts call sites skipped because the caller was
	// module scope or not a declared component.
	DroppedCallers int
}

// CallResolver turns raw call sites into edges between components.
// Resolution tries, in order: exact qualified name, caller-module
// qualification, same-scope short name, unique global short name, and
// finally closest-file disambiguation among short-name candidates.
// Anything still ambiguous stays unresolved rather than guessing.
type CallResolver struct {
	index *SymbolIndex
}

// NewCallResolver creates a resolver over the given symbol index.
func NewCallResolver(index *SymbolIndex) *CallResolver {
	return &CallResolver{index: index}
}

// Resolve maps call sites to a deduplicated edge set. Edge order is
// deterministic: first occurrence wins.
func (r *CallResolver) Resolve(calls []CallSite) ([]Edge, ResolveStats) {
	var stats ResolveStats
	seen := make(map[Edge]bool)
	edges := make([]Edge, 0, len(calls))

	for _, call := range calls {
		if call.Caller == "" {
			// Module-scope call, no owning component.
			stats.DroppedCallers++
			continue
		}
		caller := r.index.Lookup(call.Caller)
		if caller == nil {
			stats.DroppedCallers++
			continue
		}

		callee := r.resolveCallee(call, caller)
		if callee == nil {
			stats.Unresolved++
			continue
		}

		edge := Edge{CallerID: caller.ID, CalleeID: callee.ID}
		if seen[edge] {
			continue
		}
		seen[edge] = true
		edges = append(edges, edge)
	}

	return edges, stats
}

func (r *CallResolver) resolveCallee(call CallSite, caller *Component) *Component {
	ref := call.Callee
	short := ref
	if idx := strings.LastIndex(ref, "."); idx != -1 {
		short = ref[idx+1:]
	}

	// 1. Exact qualified reference.
	if c := r.index.Lookup(ref); c != nil {
		return c
	}

	// 2. Reference qualified by the caller's module. Catches same-file
	// references written without the module prefix, e.g. svc.helper
	// where svc is a sibling class.
	if mod := modulePath(caller.File); mod != "" {
		if c := r.index.Lookup(joinQualified(mod, ref)); c != nil {
			return c
		}
	}

	// 3. Short name inside the caller's scope (same class or module).
	if call.CallerScope != "" {
		if c := r.index.Lookup(joinQualified(call.CallerScope, short)); c != nil {
			return c
		}
	}

	// 4. Globally unique short name.
	candidates := r.index.LookupShort(short)
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	}

	// 5. Several candidates share the short name; prefer the one whose
	// file is closest to the call site. A tie means ambiguity, and
	// ambiguity stays unresolved.
	return closestByFile(candidates, call.File)
}

// closestByFile picks the unique candidate with the smallest path
// distance to the given file, or nil when two candidates tie.
func closestByFile(candidates []*Component, file string) *Component {
	best := -1
	var pick *Component
	tied := false
	for _, c := range candidates {
		d := pathDistance(c.File, file)
		switch {
		case best == -1 || d < best:
			best, pick, tied = d, c, false
		case d == best:
			tied = true
		}
	}
	if tied {
		return nil
	}
	return pick
}

// pathDistance counts the directory segments not shared between two
// repo-relative paths. Same file is 0, same directory is small, distant
// subtrees are large.
func pathDistance(a, b string) int {
	if a == b {
		return 0
	}
	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	// Compare directories only.
	as = as[:len(as)-1]
	bs = bs[:len(bs)-1]

	common := 0
	for common < len(as) && common < len(bs) && as[common] == bs[common] {
		common++
	}
	return (len(as) - common) + (len(bs) - common) + 1
}
