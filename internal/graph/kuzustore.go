//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph
// backend. It requires CGO because the go-kuzu driver wraps KuzuDB's C
// library. File-backed databases give a persistent index that survives
// across sessions, so repeated queries skip re-analysis.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at
// the given directory path. KuzuDB creates the leaf directory itself for
// new databases.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Node tables must precede relationship tables. Snapshot holds the
// per-analysis counters that cannot be rebuilt from rows alone.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Component(
		id STRING,
		qualified_name STRING,
		short_name STRING,
		kind STRING,
		language STRING,
		file STRING,
		line_start INT64,
		line_end INT64,
		route STRING,
		http_method STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Snapshot(
		id INT64,
		unresolved_calls INT64,
		name_conflicts INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS CALLS(FROM Component TO Component)`,
}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// SaveGraph replaces the stored snapshot with g. Existing rows are
// deleted first so the store never mixes two analyses.
func (s *KuzuStore) SaveGraph(ctx context.Context, g *Graph) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("kuzu: save graph: %w", err)
	}
	if err := s.clear(); err != nil {
		return err
	}

	for _, c := range g.Components {
		if err := s.addComponent(c); err != nil {
			return err
		}
	}
	for _, e := range g.Edges {
		if err := s.addEdge(e); err != nil {
			return err
		}
	}
	return s.exec(
		"CREATE (m:Snapshot {id: $id, unresolved_calls: $uc, name_conflicts: $nc})",
		map[string]any{
			"id": int64(0),
			"uc": int64(g.Summary.UnresolvedCalls),
			"nc": int64(g.Summary.NameConflicts),
		},
	)
}

func (s *KuzuStore) clear() error {
	for _, cypher := range []string{
		"MATCH (a:Component)-[r:CALLS]->(b:Component) DELETE r",
		"MATCH (c:Component) DELETE c",
		"MATCH (m:Snapshot) DELETE m",
	} {
		if err := s.exec(cypher, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *KuzuStore) addComponent(c Component) error {
	route, httpMethod := "", ""
	if c.Metadata != nil {
		route, httpMethod = c.Metadata.Route, c.Metadata.HTTPMethod
	}
	return s.exec(
		`CREATE (c:Component {
			id: $id,
			qualified_name: $qn,
			short_name: $sn,
			kind: $kind,
			language: $lang,
			file: $file,
			line_start: $ls,
			line_end: $le,
			route: $route,
			http_method: $hm
		})`,
		map[string]any{
			"id":    c.ID,
			"qn":    c.QualifiedName,
			"sn":    c.ShortName,
			"kind":  string(c.Kind),
			"lang":  string(c.Language),
			"file":  c.File,
			"ls":    int64(c.LineStart),
			"le":    int64(c.LineEnd),
			"route": route,
			"hm":    httpMethod,
		},
	)
}

func (s *KuzuStore) addEdge(e Edge) error {
	return s.exec(
		`MATCH (a:Component {id: $src}), (b:Component {id: $dst})
		 CREATE (a)-[:CALLS]->(b)`,
		map[string]any{"src": e.CallerID, "dst": e.CalleeID},
	)
}

// ---------- Read operations ----------

// LoadGraph reads the stored snapshot and rebuilds the derived graph
// state (leaf nodes and summary). Returns nil only when no snapshot was
// ever saved; a saved empty graph loads back as an empty graph.
func (s *KuzuStore) LoadGraph(_ context.Context) (*Graph, error) {
	metaRows, err := s.query(
		"MATCH (m:Snapshot) RETURN m.unresolved_calls, m.name_conflicts",
		nil,
	)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(
		`MATCH (c:Component)
		 RETURN c.id, c.qualified_name, c.short_name, c.kind, c.language,
		        c.file, c.line_start, c.line_end, c.route, c.http_method
		 ORDER BY c.file, c.line_start`,
		nil,
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && len(metaRows) == 0 {
		return nil, nil
	}

	components := make([]Component, 0, len(rows))
	for _, r := range rows {
		components = append(components, rowToComponent(r))
	}

	edgeRows, err := s.query(
		"MATCH (a:Component)-[:CALLS]->(b:Component) RETURN a.id, b.id",
		nil,
	)
	if err != nil {
		return nil, err
	}
	edges := make([]Edge, 0, len(edgeRows))
	for _, r := range edgeRows {
		edges = append(edges, Edge{CallerID: toString(r[0]), CalleeID: toString(r[1])})
	}

	unresolved, conflicts := 0, 0
	if len(metaRows) > 0 {
		unresolved = toInt(metaRows[0][0])
		conflicts = toInt(metaRows[0][1])
	}

	return BuildGraph(components, edges, ResolveStats{Unresolved: unresolved}, conflicts), nil
}

// QueryComponents returns components whose short or qualified name
// contains the query string.
func (s *KuzuStore) QueryComponents(_ context.Context, queryStr string, limit int) ([]Component, error) {
	if limit <= 0 {
		limit = 1 << 30
	}
	rows, err := s.query(
		`MATCH (c:Component)
		 WHERE lower(c.short_name) CONTAINS lower($q)
		    OR lower(c.qualified_name) CONTAINS lower($q)
		 RETURN c.id, c.qualified_name, c.short_name, c.kind, c.language,
		        c.file, c.line_start, c.line_end, c.route, c.http_method
		 ORDER BY c.qualified_name
		 LIMIT $lim`,
		map[string]any{"q": queryStr, "lim": int64(limit)},
	)
	if err != nil {
		return nil, err
	}
	out := make([]Component, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToComponent(r))
	}
	return out, nil
}

// ---------- Stats ----------

// Stats returns component and edge counts.
func (s *KuzuStore) Stats(_ context.Context) (*StoreStats, error) {
	components, err := s.count("MATCH (c:Component) RETURN count(c)")
	if err != nil {
		return nil, err
	}
	edges, err := s.count("MATCH ()-[r:CALLS]->() RETURN count(r)")
	if err != nil {
		return nil, err
	}
	return &StoreStats{ComponentCount: components, EdgeCount: edges}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	if len(params) == 0 {
		res, err := s.conn.Query(cypher)
		if err != nil {
			return fmt.Errorf("kuzu: query: %w", err)
		}
		res.Close()
		return nil
	}
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result
// rows. Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

func (s *KuzuStore) count(cypher string) (int, error) {
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// rowToComponent converts a 10-column result row into a Component.
// Column order matches the RETURN clauses above.
func rowToComponent(r []any) Component {
	c := Component{
		ID:            toString(r[0]),
		QualifiedName: toString(r[1]),
		ShortName:     toString(r[2]),
		Kind:          ComponentKind(toString(r[3])),
		Language:      Language(toString(r[4])),
		File:          toString(r[5]),
		LineStart:     toInt(r[6]),
		LineEnd:       toInt(r[7]),
	}
	route, httpMethod := toString(r[8]), toString(r[9])
	if route != "" || httpMethod != "" {
		c.Metadata = &Metadata{Route: route, HTTPMethod: httpMethod}
	}
	return c
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).
// These helpers safely coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
