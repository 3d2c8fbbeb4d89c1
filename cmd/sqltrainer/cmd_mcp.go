package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lerda8/data-retrieving-training/internal/mcp"
)

// cmdMCP serves the trainer over MCP on stdio.
func cmdMCP() error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := mcp.NewServer(mcp.Config{
		Machine:  a.machine,
		Catalog:  a.catalog,
		Executor: a.executor,
	})

	a.logger.Info("serving MCP on stdio")
	return srv.ServeStdio(ctx)
}
