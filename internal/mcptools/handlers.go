package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1119302165/callgraph-analyzer/internal/graph"
	"github.com/1119302165/callgraph-analyzer/internal/scan"
)

// CallGraphService holds the store and parser used by MCP tool handlers.
// A tool run analyzes into the store; later tool calls query the stored
// snapshot without re-parsing.
type CallGraphService struct {
	store   graph.Store
	parser  graph.Parser
	workers int
}

// NewCallGraphService creates a CallGraphService with the given store
// and parser. workers <= 0 means one worker per CPU.
func NewCallGraphService(store graph.Store, parser graph.Parser, workers int) *CallGraphService {
	return &CallGraphService{store: store, parser: parser, workers: workers}
}

// AnalyzeRepo walks a repository, extracts declarations and calls,
// resolves the call graph, and saves the snapshot to the store.
func (s *CallGraphService) AnalyzeRepo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeRepoInput,
) (*mcp.CallToolResult, AnalyzeRepoOutput, error) {
	if input.RepoPath == "" {
		return nil, AnalyzeRepoOutput{}, fmt.Errorf("repoPath is required")
	}

	langs := make([]graph.Language, 0, len(input.Languages))
	for _, l := range input.Languages {
		langs = append(langs, graph.Language(strings.ToLower(l)))
	}

	files, err := scan.Walk(input.RepoPath, scan.Options{
		ExcludeDirs: input.ExcludeDirs,
		Languages:   langs,
	})
	if err != nil {
		return nil, AnalyzeRepoOutput{}, err
	}

	sources := make([]graph.SourceFile, 0, len(files))
	for _, f := range files {
		sources = append(sources, graph.SourceFile{
			Path:     f.Path,
			AbsPath:  f.AbsPath,
			Language: f.Language,
		})
	}

	analyzer := graph.NewAnalyzer(s.parser, s.workers)
	g, diags, err := analyzer.Analyze(ctx, sources)
	if err != nil {
		return nil, AnalyzeRepoOutput{}, fmt.Errorf("analyze: %w", err)
	}

	if err := s.store.InitSchema(ctx); err != nil {
		return nil, AnalyzeRepoOutput{}, fmt.Errorf("init schema: %w", err)
	}
	if err := s.store.SaveGraph(ctx, g); err != nil {
		return nil, AnalyzeRepoOutput{}, fmt.Errorf("save graph: %w", err)
	}

	return nil, AnalyzeRepoOutput{Summary: g.Summary, Diagnostics: diags}, nil
}

// TraceAPI returns the call tree under endpoint handlers matching a
// route.
func (s *CallGraphService) TraceAPI(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TraceAPIInput,
) (*mcp.CallToolResult, TraceAPIOutput, error) {
	g, err := s.loadGraph(ctx)
	if err != nil {
		return nil, TraceAPIOutput{}, err
	}

	traces, err := graph.TraceRoutes(g, input.Route, input.MaxDepth)
	if err != nil {
		return nil, TraceAPIOutput{}, fmt.Errorf("trace routes: %w", err)
	}
	return nil, TraceAPIOutput{Traces: traces, Total: len(traces)}, nil
}

// SearchFunc finds call chains from entry points to a named function.
func (s *CallGraphService) SearchFunc(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchFuncInput,
) (*mcp.CallToolResult, SearchFuncOutput, error) {
	if input.FunctionName == "" {
		return nil, SearchFuncOutput{}, fmt.Errorf("functionName is required")
	}

	g, err := s.loadGraph(ctx)
	if err != nil {
		return nil, SearchFuncOutput{}, err
	}

	chains, err := graph.SearchCallChains(g, input.FunctionName, input.MaxDepth)
	if err != nil {
		return nil, SearchFuncOutput{}, fmt.Errorf("search call chains: %w", err)
	}
	return nil, SearchFuncOutput{Chains: chains, Total: len(chains)}, nil
}

// QueryComponents searches components by name substring match.
func (s *CallGraphService) QueryComponents(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryComponentsInput,
) (*mcp.CallToolResult, QueryComponentsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	components, err := s.store.QueryComponents(ctx, input.Query, limit)
	if err != nil {
		return nil, QueryComponentsOutput{}, fmt.Errorf("query components: %w", err)
	}

	// Filter by kind if specified.
	if input.Kind != "" {
		kind := graph.ComponentKind(strings.ToLower(input.Kind))
		filtered := components[:0]
		for _, c := range components {
			if c.Kind == kind {
				filtered = append(filtered, c)
			}
		}
		components = filtered
	}

	return nil, QueryComponentsOutput{
		Components: components,
		Total:      len(components),
	}, nil
}

// loadGraph fetches the stored snapshot, erroring when no analysis has
// run yet.
func (s *CallGraphService) loadGraph(ctx context.Context) (*graph.Graph, error) {
	g, err := s.store.LoadGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	if g == nil {
		return nil, fmt.Errorf("no graph available: run analyze_repo first")
	}
	return g, nil
}
