package graph

import (
	"context"
	"io"
)

// Store is the interface for the call-graph persistence backend.
// Implementations: KuzuStore (production, CGO), MemStore (testing and
// non-CGO builds). The stored unit is a whole repository snapshot:
// analysis always replaces the previous graph rather than merging.
type Store interface {
	io.Closer

	// Schema setup. Called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// SaveGraph replaces the stored snapshot with g.
	SaveGraph(ctx context.Context, g *Graph) error

	// LoadGraph returns the stored snapshot, or nil when nothing has
	// been saved yet.
	LoadGraph(ctx context.Context) (*Graph, error)

	// QueryComponents returns components whose short or qualified name
	// contains query (case-insensitive), up to limit results. A limit
	// <= 0 returns all matches.
	QueryComponents(ctx context.Context, query string, limit int) ([]Component, error)

	// Stats.
	Stats(ctx context.Context) (*StoreStats, error)
}

// StoreStats reports row counts of the stored snapshot.
type StoreStats struct {
	ComponentCount int `json:"component_count"`
	EdgeCount      int `json:"edge_count"`
}
