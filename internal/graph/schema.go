package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// --- Enums ---

// ComponentKind classifies components in the call graph.
type ComponentKind string

const (
	KindFunction ComponentKind = "function"
	KindMethod   ComponentKind = "method"
	KindClass    ComponentKind = "class"
	KindEndpoint ComponentKind = "endpoint-handler"
)

// Language identifies a programming language for parsing.
type Language string

const (
	LangGo         Language = "go"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangRust       Language = "rust"
)

// SupportedLanguages are the languages with extractor variants registered.
var SupportedLanguages = []Language{
	LangGo, LangTypeScript, LangJavaScript, LangPython, LangJava, LangRust,
}

// --- Models ---

// Metadata carries optional structured info attached to a component.
// Route and HTTPMethod are set for endpoint-handler components.
type Metadata struct {
	Route      string `json:"route,omitempty"`
	HTTPMethod string `json:"httpMethod,omitempty"`
}

// Component is a function, method, class, or endpoint-handler declaration
// extracted from source.
type Component struct {
	ID            string        `json:"id"`
	QualifiedName string        `json:"qualified_name"`
	ShortName     string        `json:"short_name"`
	Kind          ComponentKind `json:"kind"`
	Language      Language      `json:"language"`
	File          string        `json:"file"`
	LineStart     int           `json:"line_start"`
	LineEnd       int           `json:"line_end"`
	Metadata      *Metadata     `json:"metadata,omitempty"`
}

// Edge is a resolved caller-to-callee relationship. Edges form a set:
// multiple calls between the same pair collapse to one edge.
type Edge struct {
	CallerID string `json:"caller_id"`
	CalleeID string `json:"callee_id"`
}

// Summary aggregates counts over one analyzed repository snapshot.
type Summary struct {
	TotalComponents  int                   `json:"total_components"`
	ByKind           map[ComponentKind]int `json:"by_kind"`
	ByLanguage       map[Language]int      `json:"by_language"`
	TotalEdges       int                   `json:"total_edges"`
	UnresolvedCalls  int                   `json:"unresolved_calls"`
	EndpointHandlers int                   `json:"endpoint_handlers"`
	NameConflicts    int                   `json:"name_conflicts"`
}

// Graph is the complete set of components and edges for one repository
// snapshot. Components and edges are immutable after assembly; LeafNodes
// and Summary are derived by the builder, never mutated independently.
type Graph struct {
	Components []Component `json:"components"`
	Edges      []Edge      `json:"depends_on"`
	LeafNodes  []string    `json:"leaf_nodes"`
	Summary    Summary     `json:"summary"`
}

// ComponentID derives the stable identifier for a declaration. It is a
// pure function of (qualified name, file, start line), so re-running
// analysis on an unchanged snapshot yields identical ids.
func ComponentID(qualifiedName, file string, lineStart int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", qualifiedName, file, lineStart)))
	return hex.EncodeToString(h[:8])
}

// ComponentByID returns the component with the given id, or nil.
func (g *Graph) ComponentByID(id string) *Component {
	for i := range g.Components {
		if g.Components[i].ID == id {
			return &g.Components[i]
		}
	}
	return nil
}

// Validate checks structural integrity: pairwise-unique component ids,
// no dangling edge endpoints, and leaf nodes referencing known ids.
// Queries reject a graph that fails validation rather than traversing a
// partially-invalid structure.
func (g *Graph) Validate() error {
	ids := make(map[string]bool, len(g.Components))
	for _, c := range g.Components {
		if c.ID == "" {
			return fmt.Errorf("graph: component %q has empty id", c.QualifiedName)
		}
		if c.QualifiedName == "" {
			return fmt.Errorf("graph: component %s has empty qualified name", c.ID)
		}
		if ids[c.ID] {
			return fmt.Errorf("graph: duplicate component id %s", c.ID)
		}
		ids[c.ID] = true
	}
	for _, e := range g.Edges {
		if !ids[e.CallerID] {
			return fmt.Errorf("graph: edge references unknown caller %s", e.CallerID)
		}
		if !ids[e.CalleeID] {
			return fmt.Errorf("graph: edge references unknown callee %s", e.CalleeID)
		}
	}
	for _, id := range g.LeafNodes {
		if !ids[id] {
			return fmt.Errorf("graph: leaf node references unknown component %s", id)
		}
	}
	return nil
}

// modulePath converts a repo-relative file path into the dotted module
// prefix used for qualified names: extension stripped, separators become dots.
// The rule is uniform across languages so ids stay comparable.
func modulePath(file string) string {
	p := strings.ReplaceAll(file, "\\", "/")
	if idx := strings.LastIndex(p, "."); idx > strings.LastIndex(p, "/") {
		p = p[:idx]
	}
	return strings.ReplaceAll(p, "/", ".")
}
