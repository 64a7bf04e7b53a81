package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/1119302165/callgraph-analyzer/internal/export"
	"github.com/1119302165/callgraph-analyzer/internal/graph"
)

func runTrace(args []string) error {
	fs := flag.NewFlagSet("trace", flag.ContinueOnError)
	input := fs.String("input", "callgraph.json", "path to a JSON export produced by analyze")
	route := fs.String("route", "", "route to trace (exact or prefix match, empty for all)")
	depth := fs.Int("depth", 0, "maximum call depth (default: 5)")
	asJSON := fs.Bool("json", false, "emit the trace as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, err := export.LoadJSON(*input)
	if err != nil {
		return err
	}

	traces, err := graph.TraceRoutes(g, *route, *depth)
	if err != nil {
		return err
	}
	if len(traces) == 0 {
		fmt.Println("no matching endpoint handlers")
		return nil
	}

	if *asJSON {
		out, err := json.MarshalIndent(traces, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal traces: %w", err)
		}
		_, err = os.Stdout.Write(append(out, '\n'))
		return err
	}

	for _, t := range traces {
		if t.HTTPMethod != "" {
			fmt.Printf("%s %s\n", t.HTTPMethod, t.Route)
		} else {
			fmt.Println(t.Route)
		}
		printTraceNode(t.Handler, 1)
	}
	return nil
}

// printTraceNode renders one trace subtree with two-space indentation.
func printTraceNode(n *graph.TraceNode, depth int) {
	indent := strings.Repeat("  ", depth)
	suffix := ""
	if n.Cycle {
		suffix = " (cycle)"
	}
	fmt.Printf("%s%s  [%s:%d]%s\n", indent, n.QualifiedName, n.File, n.Line, suffix)
	for _, child := range n.Calls {
		printTraceNode(child, depth+1)
	}
}
