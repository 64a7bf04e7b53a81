package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/1119302165/callgraph-analyzer/internal/graph"
)

// MarshalGraph renders a validated graph as indented JSON. The output
// round-trips through UnmarshalGraph without loss.
func MarshalGraph(g *graph.Graph) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("export json: %w", err)
	}
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export json: marshal: %w", err)
	}
	return data, nil
}

// UnmarshalGraph parses a JSON export back into a graph. Malformed
// structure is rejected here rather than surfacing later in queries.
func UnmarshalGraph(data []byte) (*graph.Graph, error) {
	var g graph.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("load json: unmarshal: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("load json: %w", err)
	}
	return &g, nil
}

// WriteJSON writes the JSON export to path, creating parent directories.
func WriteJSON(path string, g *graph.Graph) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export json: create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export json: write %s: %w", path, err)
	}
	return nil
}

// LoadJSON reads a JSON export from path.
func LoadJSON(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load json: read %s: %w", path, err)
	}
	return UnmarshalGraph(data)
}
