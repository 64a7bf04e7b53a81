package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewCallGraphMCPServer creates an MCP server with all 4 call-graph
// tools registered.
func NewCallGraphMCPServer(svc *CallGraphService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "callgraph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_repo",
		Description: "Analyze a repository and build its call graph. Walks the file tree, parses source files using tree-sitter, extracts functions, methods, classes, and endpoint handlers, and resolves call edges between them.",
	}, svc.AnalyzeRepo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "trace_api",
		Description: "Trace the call tree under API endpoint handlers. Matches routes exactly or by prefix and follows resolved call edges down to the configured depth, marking cycles.",
	}, svc.TraceAPI)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_func",
		Description: "Find call chains from entry points (endpoint handlers, controllers) to a named function. Returns every simple path up to the configured depth, shortest first.",
	}, svc.SearchFunc)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_components",
		Description: "Search extracted components (functions, methods, classes, endpoint handlers) by name substring match. Optionally filter by kind and limit results.",
	}, svc.QueryComponents)

	return server
}

// RunMCPServerStdio runs the MCP server on stdio transport, blocking
// until stdin is closed or the context is cancelled.
func RunMCPServerStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunMCPServerHTTP starts an HTTP server exposing the call-graph MCP
// tools at addr.
func RunMCPServerHTTP(ctx context.Context, svc *CallGraphService, addr string) error {
	server := NewCallGraphMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
