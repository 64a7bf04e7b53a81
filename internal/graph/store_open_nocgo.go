//go:build !cgo

package graph

// OpenStore opens the persistence backend. Without CGO the KuzuDB
// driver is unavailable, so the graph lives in memory for the duration
// of the process; the path is ignored.
func OpenStore(_ string) (Store, error) {
	return NewMemStore(), nil
}
