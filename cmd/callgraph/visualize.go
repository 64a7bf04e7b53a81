package main

import (
	"flag"
	"fmt"

	"github.com/1119302165/callgraph-analyzer/internal/export"
)

func runVisualize(args []string) error {
	fs := flag.NewFlagSet("visualize", flag.ContinueOnError)
	input := fs.String("input", "callgraph.json", "path to a JSON export produced by analyze")
	out := fs.String("out", "callgraph.dot", "output path for the DOT file")
	skipIsolated := fs.Bool("skip-isolated", false, "leave out components with no edges")
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, err := export.LoadJSON(*input)
	if err != nil {
		return err
	}

	opts := export.DOTOptions{SkipIsolated: *skipIsolated}
	if err := export.WriteDOT(*out, g, opts); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}
