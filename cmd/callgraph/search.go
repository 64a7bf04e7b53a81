package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/1119302165/callgraph-analyzer/internal/export"
	"github.com/1119302165/callgraph-analyzer/internal/graph"
)

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	input := fs.String("input", "callgraph.json", "path to a JSON export produced by analyze")
	fn := fs.String("func", "", "function name to search for (required)")
	depth := fs.Int("depth", 0, "maximum chain length (default: 5)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fn == "" {
		return fmt.Errorf("usage: callgraph search -func <name> [-input <file>]")
	}

	g, err := export.LoadJSON(*input)
	if err != nil {
		return err
	}

	chains, err := graph.SearchCallChains(g, *fn, *depth)
	if err != nil {
		return err
	}
	if len(chains) == 0 {
		fmt.Printf("no call chains reach %q\n", *fn)
		return nil
	}

	for _, chain := range chains {
		names := make([]string, 0, len(chain.Nodes))
		for _, n := range chain.Nodes {
			names = append(names, n.QualifiedName)
		}
		fmt.Println(strings.Join(names, " -> "))
	}
	return nil
}
