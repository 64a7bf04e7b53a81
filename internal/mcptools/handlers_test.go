//go:build cgo

package mcptools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1119302165/callgraph-analyzer/internal/graph"
)

// fixtureAbsPath returns the absolute path to the py_app test fixture
// directory. Tests run from internal/mcptools/, so the relative path is
// ../../testdata/fixtures/py_app.
func fixtureAbsPath(t *testing.T) string {
	t.Helper()
	abs, err := filepath.Abs("../../testdata/fixtures/py_app")
	require.NoError(t, err)
	return abs
}

// newTestService builds a service over a MemStore and the tree-sitter
// parser, with the fixture repo already analyzed.
func newTestService(t *testing.T) *CallGraphService {
	t.Helper()

	store := graph.NewMemStore()
	parser := graph.NewTreeSitterParser()
	t.Cleanup(func() {
		parser.Close()
		store.Close()
	})

	svc := NewCallGraphService(store, parser, 2)
	_, out, err := svc.AnalyzeRepo(context.Background(), nil, AnalyzeRepoInput{
		RepoPath: fixtureAbsPath(t),
	})
	require.NoError(t, err)
	require.Greater(t, out.Summary.TotalComponents, 0)
	return svc
}

func TestAnalyzeRepo_RequiresPath(t *testing.T) {
	svc := NewCallGraphService(graph.NewMemStore(), graph.NewTreeSitterParser(), 1)
	_, _, err := svc.AnalyzeRepo(context.Background(), nil, AnalyzeRepoInput{})
	assert.Error(t, err)
}

func TestAnalyzeRepo_Summary(t *testing.T) {
	svc := newTestService(t)

	g, err := svc.store.LoadGraph(context.Background())
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, 2, g.Summary.EndpointHandlers, "app.py declares two routes")
	assert.Greater(t, g.Summary.TotalEdges, 0)
}

func TestTraceAPI(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.TraceAPI(context.Background(), nil, TraceAPIInput{Route: "/users"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total, "prefix /users matches both handlers")
	for _, tr := range out.Traces {
		assert.NotNil(t, tr.Handler)
	}
}

func TestSearchFunc(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.SearchFunc(context.Background(), nil, SearchFuncInput{FunctionName: "validate"})
	require.NoError(t, err)
	assert.Greater(t, out.Total, 0, "handlers call validate directly")

	_, _, err = svc.SearchFunc(context.Background(), nil, SearchFuncInput{})
	assert.Error(t, err, "functionName is required")
}

func TestQueryComponents(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, out, err := svc.QueryComponents(ctx, nil, QueryComponentsInput{Query: "user"})
	require.NoError(t, err)
	assert.Greater(t, out.Total, 0)

	_, endpoints, err := svc.QueryComponents(ctx, nil, QueryComponentsInput{
		Query: "user",
		Kind:  "endpoint-handler",
	})
	require.NoError(t, err)
	for _, c := range endpoints.Components {
		assert.Equal(t, graph.KindEndpoint, c.Kind)
	}
}

func TestQueriesWithoutAnalysis(t *testing.T) {
	svc := NewCallGraphService(graph.NewMemStore(), graph.NewTreeSitterParser(), 1)

	_, _, err := svc.TraceAPI(context.Background(), nil, TraceAPIInput{})
	assert.Error(t, err, "querying before analyze_repo should fail")
}
