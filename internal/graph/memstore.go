package graph

import (
	"context"
	"strings"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store by holding the graph snapshot in memory.
// Thread-safe via sync.RWMutex.
type MemStore struct {
	mu    sync.RWMutex
	graph *Graph
}

// NewMemStore returns an empty MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// SaveGraph replaces the stored snapshot.
func (m *MemStore) SaveGraph(_ context.Context, g *Graph) error {
	if err := g.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.graph = g
	return nil
}

// LoadGraph returns the stored snapshot, or nil when nothing is saved.
func (m *MemStore) LoadGraph(_ context.Context) (*Graph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.graph, nil
}

// QueryComponents returns components whose short or qualified name
// contains query (case-insensitive), up to limit results.
func (m *MemStore) QueryComponents(_ context.Context, query string, limit int) ([]Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.graph == nil {
		return nil, nil
	}
	needle := strings.ToLower(query)
	var results []Component
	for _, c := range m.graph.Components {
		if strings.Contains(strings.ToLower(c.ShortName), needle) ||
			strings.Contains(strings.ToLower(c.QualifiedName), needle) {
			results = append(results, c)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// Stats returns component and edge counts of the stored snapshot.
func (m *MemStore) Stats(_ context.Context) (*StoreStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.graph == nil {
		return &StoreStats{}, nil
	}
	return &StoreStats{
		ComponentCount: len(m.graph.Components),
		EdgeCount:      len(m.graph.Edges),
	}, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
