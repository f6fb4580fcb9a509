package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/germanamz/weatherctl/pkg/mcpserve"
	"github.com/germanamz/weatherctl/pkg/weatherserver"
)

// runServe serves the weather MCP tools on stdin/stdout until the client
// disconnects or the process receives SIGINT/SIGTERM.
func runServe(nwsBaseURL string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var opts []weatherserver.Option
	if nwsBaseURL != "" {
		opts = append(opts, weatherserver.WithBaseURL(nwsBaseURL))
	}

	srv := mcpserve.New("weather", version)
	srv.Register(weatherserver.New(opts...).Tools()...)

	return srv.Serve(ctx, os.Stdin, os.Stdout)
}
