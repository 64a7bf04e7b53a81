//go:build cgo

package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a fresh in-memory KuzuStore with an initialized
// schema and closes it when the test finishes.
func newTestStore(t *testing.T) *KuzuStore {
	t.Helper()
	s, err := NewKuzuStore()
	require.NoError(t, err, "NewKuzuStore should not fail")
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.InitSchema(context.Background()))
	return s
}

func TestKuzuStore_InitSchemaIdempotent(t *testing.T) {
	s, err := NewKuzuStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.InitSchema(ctx))
	require.NoError(t, s.InitSchema(ctx))
}

func TestKuzuStore_GraphRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	handler := Component{
		ID:            ComponentID("api.get_user", "api.py", 5),
		QualifiedName: "api.get_user",
		ShortName:     "get_user",
		Kind:          KindEndpoint,
		Language:      LangPython,
		File:          "api.py",
		LineStart:     5,
		LineEnd:       9,
		Metadata:      &Metadata{Route: "/users/<id>", HTTPMethod: "GET"},
	}
	helper := Component{
		ID:            ComponentID("api.load", "api.py", 12),
		QualifiedName: "api.load",
		ShortName:     "load",
		Kind:          KindFunction,
		Language:      LangPython,
		File:          "api.py",
		LineStart:     12,
		LineEnd:       18,
	}
	g := BuildGraph(
		[]Component{handler, helper},
		[]Edge{{CallerID: handler.ID, CalleeID: helper.ID}},
		ResolveStats{Unresolved: 3},
		1,
	)

	require.NoError(t, s.SaveGraph(ctx, g))

	loaded, err := s.LoadGraph(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, g.Components, loaded.Components)
	assert.Equal(t, g.Edges, loaded.Edges)
	assert.Equal(t, g.Summary, loaded.Summary)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ComponentCount)
	assert.Equal(t, 1, stats.EdgeCount)
}

func TestKuzuStore_SaveReplacesSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := Component{
		ID:            ComponentID("a.one", "a.py", 1),
		QualifiedName: "a.one",
		ShortName:     "one",
		Kind:          KindFunction,
		Language:      LangPython,
		File:          "a.py",
		LineStart:     1,
		LineEnd:       2,
	}
	require.NoError(t, s.SaveGraph(ctx, BuildGraph([]Component{first}, nil, ResolveStats{}, 0)))

	second := Component{
		ID:            ComponentID("b.two", "b.py", 1),
		QualifiedName: "b.two",
		ShortName:     "two",
		Kind:          KindFunction,
		Language:      LangPython,
		File:          "b.py",
		LineStart:     1,
		LineEnd:       2,
	}
	require.NoError(t, s.SaveGraph(ctx, BuildGraph([]Component{second}, nil, ResolveStats{}, 0)))

	loaded, err := s.LoadGraph(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Components, 1)
	assert.Equal(t, "b.two", loaded.Components[0].QualifiedName)
}

func TestKuzuStore_EmptyGraphDistinctFromUnsaved(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Nothing saved yet: no snapshot exists.
	g, err := s.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Nil(t, g)

	// A saved empty graph is a valid snapshot and must load back as an
	// empty graph, not as "never analyzed".
	empty := BuildGraph(nil, nil, ResolveStats{Unresolved: 2}, 0)
	require.NoError(t, s.SaveGraph(ctx, empty))

	loaded, err := s.LoadGraph(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Empty(t, loaded.Components)
	assert.Empty(t, loaded.Edges)
	assert.Equal(t, 2, loaded.Summary.UnresolvedCalls)
}

func TestKuzuStore_QueryComponents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	components := []Component{
		{
			ID:            ComponentID("api.get_user", "api.py", 5),
			QualifiedName: "api.get_user",
			ShortName:     "get_user",
			Kind:          KindFunction,
			Language:      LangPython,
			File:          "api.py",
			LineStart:     5,
			LineEnd:       9,
		},
		{
			ID:            ComponentID("api.ping", "api.py", 12),
			QualifiedName: "api.ping",
			ShortName:     "ping",
			Kind:          KindFunction,
			Language:      LangPython,
			File:          "api.py",
			LineStart:     12,
			LineEnd:       14,
		},
	}
	require.NoError(t, s.SaveGraph(ctx, BuildGraph(components, nil, ResolveStats{}, 0)))

	matches, err := s.QueryComponents(ctx, "USER", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "api.get_user", matches[0].QualifiedName)
}
