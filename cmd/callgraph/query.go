package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/1119302165/callgraph-analyzer/internal/export"
	"github.com/1119302165/callgraph-analyzer/internal/graph"
)

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	input := fs.String("input", "callgraph.json", "path to a JSON export produced by analyze")
	index := fs.String("index", "", "query a persistent index instead of a JSON export")
	query := fs.String("query", "", "name substring to search for")
	kind := fs.String("kind", "", "filter by kind: function, method, class, endpoint-handler")
	limit := fs.Int("limit", 20, "maximum number of results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openQueryStore(ctx, *index, *input)
	if err != nil {
		return err
	}
	defer store.Close()

	components, err := store.QueryComponents(ctx, *query, *limit)
	if err != nil {
		return err
	}

	for _, c := range components {
		if *kind != "" && c.Kind != graph.ComponentKind(*kind) {
			continue
		}
		fmt.Printf("%-16s %s  [%s:%d]\n", c.Kind, c.QualifiedName, c.File, c.LineStart)
	}
	return nil
}

// openQueryStore opens the persistent index when given, otherwise loads
// the JSON export into an in-memory store.
func openQueryStore(ctx context.Context, index, input string) (graph.Store, error) {
	if index != "" {
		return graph.OpenStore(index)
	}
	g, err := export.LoadJSON(input)
	if err != nil {
		return nil, err
	}
	store := graph.NewMemStore()
	if err := store.SaveGraph(ctx, g); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
