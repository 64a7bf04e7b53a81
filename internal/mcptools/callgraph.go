package mcptools

import "github.com/1119302165/callgraph-analyzer/internal/graph"

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// AnalyzeRepoInput is the input for the analyze_repo MCP tool.
type AnalyzeRepoInput struct {
	RepoPath    string   `json:"repoPath" jsonschema:"the absolute path to the repository to analyze"`
	Languages   []string `json:"languages,omitempty" jsonschema:"languages to analyze (default: all). Values: go, typescript, javascript, python, java, rust"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"directories to exclude from analysis (e.g. vendor, node_modules)"`
}

// AnalyzeRepoOutput is the result of the analyze_repo MCP tool.
type AnalyzeRepoOutput struct {
	Summary     graph.Summary      `json:"summary"`
	Diagnostics *graph.Diagnostics `json:"diagnostics,omitempty"`
}

// TraceAPIInput is the input for the trace_api MCP tool.
type TraceAPIInput struct {
	Route    string `json:"route,omitempty" jsonschema:"route path to trace (exact or prefix match). Empty traces all endpoint handlers"`
	MaxDepth int    `json:"maxDepth,omitempty" jsonschema:"maximum call depth to follow (default: 5)"`
}

// TraceAPIOutput is the result of the trace_api MCP tool.
type TraceAPIOutput struct {
	Traces []graph.RouteTrace `json:"traces"`
	Total  int                `json:"total"`
}

// SearchFuncInput is the input for the search_func MCP tool.
type SearchFuncInput struct {
	FunctionName string `json:"functionName" jsonschema:"function name to search for (case-insensitive substring match)"`
	MaxDepth     int    `json:"maxDepth,omitempty" jsonschema:"maximum call-chain length (default: 5)"`
}

// SearchFuncOutput is the result of the search_func MCP tool.
type SearchFuncOutput struct {
	Chains []graph.CallChain `json:"chains"`
	Total  int               `json:"total"`
}

// QueryComponentsInput is the input for the query_components MCP tool.
type QueryComponentsInput struct {
	Query string `json:"query" jsonschema:"search query for component names (substring match)"`
	Kind  string `json:"kind,omitempty" jsonschema:"filter by component kind: function, method, class, endpoint-handler"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default: 20)"`
}

// QueryComponentsOutput is the result of the query_components MCP tool.
type QueryComponentsOutput struct {
	Components []graph.Component `json:"components"`
	Total      int               `json:"total"`
}
