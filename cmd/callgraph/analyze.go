package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/1119302165/callgraph-analyzer/internal/config"
	"github.com/1119302165/callgraph-analyzer/internal/export"
	"github.com/1119302165/callgraph-analyzer/internal/graph"
	"github.com/1119302165/callgraph-analyzer/internal/scan"
)

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	repo := fs.String("repo", ".", "path to the repository to analyze")
	out := fs.String("out", "callgraph.json", "output path for the JSON export")
	languages := fs.String("languages", "", "comma-separated languages to analyze (default: all)")
	exclude := fs.String("exclude", "", "comma-separated directory names to skip")
	workers := fs.Int("workers", 0, "parallel parse workers (default: CPU count)")
	index := fs.String("index", "", "also persist the graph to an index at this path")
	verbose := fs.Bool("verbose", false, "print per-file diagnostics")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*repo)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	langNames := splitList(*languages)
	if len(langNames) == 0 {
		langNames = cfg.Languages
	}
	excludeDirs := splitList(*exclude)
	if len(excludeDirs) == 0 {
		excludeDirs = cfg.ExcludeDirs
	}
	if *workers == 0 {
		*workers = cfg.Workers
	}
	if *index == "" {
		*index = cfg.IndexPath
	}

	langs := make([]graph.Language, 0, len(langNames))
	for _, l := range langNames {
		langs = append(langs, graph.Language(l))
	}

	files, err := scan.Walk(*repo, scan.Options{
		ExcludeDirs: excludeDirs,
		Languages:   langs,
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("no analyzable source files found")
	}

	sources := make([]graph.SourceFile, 0, len(files))
	for _, f := range files {
		sources = append(sources, graph.SourceFile{
			Path:     f.Path,
			AbsPath:  f.AbsPath,
			Language: f.Language,
		})
	}

	parser := graph.NewTreeSitterParser()
	defer parser.Close()

	ctx := context.Background()
	analyzer := graph.NewAnalyzer(parser, *workers)
	g, diags, err := analyzer.Analyze(ctx, sources)
	if err != nil {
		return err
	}

	for _, pf := range diags.ParseFailures {
		fmt.Fprintf(os.Stderr, "warning: skipped %s: %s\n", pf.File, pf.Err)
	}
	if *verbose && diags.DroppedCallers > 0 {
		fmt.Fprintf(os.Stderr, "note: %d module-scope calls ignored\n", diags.DroppedCallers)
	}

	if err := export.WriteJSON(*out, g); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", *out)

	if *index != "" {
		if err := saveIndex(ctx, *index, g); err != nil {
			return err
		}
		fmt.Printf("indexed at %s\n", *index)
	}

	printSummary(g.Summary)
	return nil
}

func saveIndex(ctx context.Context, path string, g *graph.Graph) error {
	store, err := graph.OpenStore(path)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("init index schema: %w", err)
	}
	if err := store.SaveGraph(ctx, g); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

func printSummary(s graph.Summary) {
	fmt.Printf("components: %d (", s.TotalComponents)
	first := true
	for _, kind := range []graph.ComponentKind{
		graph.KindFunction, graph.KindMethod, graph.KindClass, graph.KindEndpoint,
	} {
		if n := s.ByKind[kind]; n > 0 {
			if !first {
				fmt.Print(", ")
			}
			fmt.Printf("%s: %d", kind, n)
			first = false
		}
	}
	fmt.Println(")")
	fmt.Printf("edges: %d, unresolved calls: %d\n", s.TotalEdges, s.UnresolvedCalls)
	if s.NameConflicts > 0 {
		fmt.Printf("name conflicts: %d\n", s.NameConflicts)
	}
}
