package graph

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SourceFile is one file scheduled for analysis. Path is repo-relative
// and becomes part of component identity; AbsPath is where to read the
// bytes from. Source may be pre-filled (tests do this) to skip the read.
type SourceFile struct {
	Path     string
	AbsPath  string
	Language Language
	Source   []byte
}

// ParseFailure records a file that could not be read or parsed.
type ParseFailure struct {
	File string `json:"file"`
	Err  string `json:"error"`
}

// Diagnostics reports non-fatal problems encountered during analysis.
// Parse failures skip the affected file; the rest of the repository is
// still analyzed.
type Diagnostics struct {
	ParseFailures  []ParseFailure `json:"parse_failures,omitempty"`
	DroppedCallers int            `json:"dropped_callers,omitempty"`
}

// Analyzer runs extraction across a set of source files in parallel,
// then indexes, resolves, and assembles the graph.
type Analyzer struct {
	parser  Parser
	workers int
}

// NewAnalyzer creates an Analyzer. workers <= 0 means one worker per CPU.
func NewAnalyzer(parser Parser, workers int) *Analyzer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Analyzer{parser: parser, workers: workers}
}

// Analyze extracts all files, resolves calls, and builds the graph.
// Extraction fans out across workers; indexing and resolution run after
// every file has finished, so results do not depend on completion order.
func (a *Analyzer) Analyze(ctx context.Context, files []SourceFile) (*Graph, *Diagnostics, error) {
	results := make([]*ExtractResult, len(files))
	failures := make([]error, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f := files[i]
			source := f.Source
			if source == nil {
				readPath := f.AbsPath
				if readPath == "" {
					readPath = f.Path
				}
				var err error
				source, err = os.ReadFile(readPath)
				if err != nil {
					failures[i] = fmt.Errorf("read %s: %w", f.Path, err)
					return nil
				}
			}
			res, err := a.parser.Parse(ctx, f.Path, source, f.Language)
			if err != nil {
				failures[i] = fmt.Errorf("parse %s: %w", f.Path, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	diags := &Diagnostics{}
	for i, err := range failures {
		if err != nil {
			diags.ParseFailures = append(diags.ParseFailures, ParseFailure{
				File: files[i].Path,
				Err:  err.Error(),
			})
		}
	}

	components, calls := a.collect(results)

	index := NewSymbolIndex(components)
	resolver := NewCallResolver(index)
	edges, stats := resolver.Resolve(calls)
	diags.DroppedCallers = stats.DroppedCallers

	graph := BuildGraph(components, edges, stats, index.Conflicts())
	if err := graph.Validate(); err != nil {
		return nil, nil, fmt.Errorf("assemble graph: %w", err)
	}
	return graph, diags, nil
}

// collect flattens per-file results into components and call sites,
// dropping exact duplicate declarations (same name, file, and line).
func (a *Analyzer) collect(results []*ExtractResult) ([]Component, []CallSite) {
	var components []Component
	var calls []CallSite
	seen := make(map[string]bool)

	for _, res := range results {
		if res == nil {
			continue
		}
		for _, d := range res.Declarations {
			id := ComponentID(d.QualifiedName, d.File, d.LineStart)
			if seen[id] {
				continue
			}
			seen[id] = true
			components = append(components, Component{
				ID:            id,
				QualifiedName: d.QualifiedName,
				ShortName:     d.ShortName,
				Kind:          d.Kind,
				Language:      res.Language,
				File:          d.File,
				LineStart:     d.LineStart,
				LineEnd:       d.LineEnd,
				Metadata:      d.Metadata,
			})
		}
		calls = append(calls, res.Calls...)
	}
	return components, calls
}
