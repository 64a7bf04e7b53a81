//go:build cgo

package graph

// OpenStore opens the persistence backend. With CGO available this is
// KuzuDB: file-backed at path, in-memory when path is empty.
func OpenStore(path string) (Store, error) {
	if path == "" {
		return NewKuzuStore()
	}
	return NewKuzuFileStore(path)
}
