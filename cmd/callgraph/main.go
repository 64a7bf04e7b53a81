package main

import (
	"fmt"
	"os"
	"strings"
)

// version is set by goreleaser at build time.
var version = "dev"

const usageText = `usage: callgraph <command> [flags]

commands:
  analyze    analyze a repository and export its call graph
  visualize  render an exported call graph as Graphviz DOT
  trace      trace the call tree under API endpoint handlers
  search     find call chains from entry points to a function
  query      search components by name
  serve      run the MCP server exposing call-graph tools
  version    print version and exit

Run 'callgraph <command> -h' for command flags.`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Println(usageText)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "analyze":
		return runAnalyze(rest)
	case "visualize":
		return runVisualize(rest)
	case "trace":
		return runTrace(rest)
	case "search":
		return runSearch(rest)
	case "query":
		return runQuery(rest)
	case "serve":
		return runServe(rest)
	case "version", "--version", "-version":
		fmt.Println(version)
		return nil
	case "help", "--help", "-h":
		fmt.Println(usageText)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usageText)
	}
}

// splitList parses a comma-separated flag value into its parts.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
