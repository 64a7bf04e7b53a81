package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/1119302165/callgraph-analyzer/internal/graph"
	"github.com/1119302165/callgraph-analyzer/internal/mcptools"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	index := fs.String("index", "", "persistent index path (default: in-memory)")
	httpAddr := fs.String("http", "", "serve over HTTP at this address instead of stdio")
	workers := fs.Int("workers", 0, "parallel parse workers (default: CPU count)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := graph.OpenStore(*index)
	if err != nil {
		return err
	}
	defer store.Close()

	parser := graph.NewTreeSitterParser()
	defer parser.Close()

	svc := mcptools.NewCallGraphService(store, parser, *workers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *httpAddr != "" {
		return mcptools.RunMCPServerHTTP(ctx, svc, *httpAddr)
	}
	server := mcptools.NewCallGraphMCPServer(svc)
	return mcptools.RunMCPServerStdio(ctx, server)
}
