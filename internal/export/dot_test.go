package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1119302165/callgraph-analyzer/internal/graph"
)

func TestGenerateDOT(t *testing.T) {
	g := sampleGraph(t)
	handlerID := graph.ComponentID("api.get_user", "api.py", 5)
	helperID := graph.ComponentID("api.load", "api.py", 12)

	out, err := GenerateDOT(g, DOTOptions{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "digraph CallGraph {\n"))
	assert.Contains(t, out, "rankdir=TB;")
	assert.Contains(t, out, "node [shape=box];")
	assert.Contains(t, out, `"`+handlerID+`"`, "nodes are keyed by component id")
	assert.Contains(t, out, "api.get_user", "labels carry the qualified name")
	assert.Contains(t, out, `"`+handlerID+`" -> "`+helperID+`";`)
	assert.Contains(t, out, "GET /users/<id>", "endpoint labels carry method and route")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestGenerateDOT_ConflictingNamesStayDistinct(t *testing.T) {
	mk := func(file string, line int) graph.Component {
		return graph.Component{
			ID:            graph.ComponentID("pkg.util", file, line),
			QualifiedName: "pkg.util",
			ShortName:     "util",
			Kind:          graph.KindFunction,
			Language:      graph.LangPython,
			File:          file,
			LineStart:     line,
			LineEnd:       line + 2,
		}
	}
	a := mk("a/pkg.py", 3)
	b := mk("b/pkg.py", 7)

	g := graph.BuildGraph([]graph.Component{a, b}, nil, graph.ResolveStats{}, 1)
	out, err := GenerateDOT(g, DOTOptions{})
	require.NoError(t, err)

	// Same qualified name, two ids: both components get their own node.
	assert.Contains(t, out, `"`+a.ID+`"`)
	assert.Contains(t, out, `"`+b.ID+`"`)
}

func TestGenerateDOT_SkipIsolated(t *testing.T) {
	g := sampleGraph(t)

	isolated := graph.Component{
		ID:            graph.ComponentID("api.unused", "api.py", 40),
		QualifiedName: "api.unused",
		ShortName:     "unused",
		Kind:          graph.KindFunction,
		Language:      graph.LangPython,
		File:          "api.py",
		LineStart:     40,
		LineEnd:       41,
	}
	g2 := graph.BuildGraph(
		append(append([]graph.Component(nil), g.Components...), isolated),
		g.Edges,
		graph.ResolveStats{},
		0,
	)

	withAll, err := GenerateDOT(g2, DOTOptions{})
	require.NoError(t, err)
	assert.Contains(t, withAll, "api.unused")

	trimmed, err := GenerateDOT(g2, DOTOptions{SkipIsolated: true})
	require.NoError(t, err)
	assert.NotContains(t, trimmed, "api.unused")
	assert.Contains(t, trimmed, "api.get_user", "connected nodes stay")
}

func TestGenerateDOT_RejectsMalformed(t *testing.T) {
	bad := &graph.Graph{
		Components: []graph.Component{{ID: "a", QualifiedName: "m.a"}},
		Edges:      []graph.Edge{{CallerID: "a", CalleeID: "ghost"}},
	}
	_, err := GenerateDOT(bad, DOTOptions{})
	assert.Error(t, err)
}
