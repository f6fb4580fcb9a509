package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/germanamz/weatherctl/pkg/weatherclient"
)

// runDemo connects the session façade to the configured weather MCP server,
// lists its tools, fetches alerts and forecasts for the configured regions,
// and closes the session. With no configured server command it re-executes
// this binary with "serve" so the walkthrough is self-contained.
func runDemo(ctx context.Context, cfg Config, verbose bool, out io.Writer) error {
	command, args, err := serverCommand(cfg.Server, cfg.NWS)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, bannerStyle.Render("Weather MCP client demo"))
	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("server: %s", command)))

	client, err := weatherclient.Connect(ctx, command, args...)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	var calls atomic.Int64
	client.Use(weatherclient.CountCalls(&calls))
	if verbose {
		client.Use(weatherclient.Logger(slog.Default()))
	}

	tools, err := client.Tools()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s\n", headingStyle.Render(fmt.Sprintf("Server provides %d tools:", len(tools))))
	for _, tool := range tools {
		fmt.Fprintf(out, "  %s  %s\n", toolNameStyle.Render(tool.Name), dimStyle.Render(tool.Description))
	}

	fmt.Fprintf(out, "\n%s\n", headingStyle.Render(fmt.Sprintf("Active alerts for %s", cfg.Demo.AlertState)))

	alerts, err := client.GetAlerts(ctx, cfg.Demo.AlertState)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, resultBlockStyle.Render(alerts))

	for _, loc := range cfg.Demo.Forecasts {
		fmt.Fprintf(out, "\n%s\n", headingStyle.Render(fmt.Sprintf("Forecast for %s", loc.Name)))

		forecast, err := client.GetForecast(ctx, loc.Latitude, loc.Longitude)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, resultBlockStyle.Render(forecast))
	}

	fmt.Fprintf(out, "\n%s\n", dimStyle.Render(fmt.Sprintf("%d tool calls made", calls.Load())))

	return nil
}

// serverCommand resolves the server launch command, defaulting to this
// binary's own serve subcommand. A configured NWS base URL is forwarded to
// the bundled server; external commands take their own arguments verbatim.
func serverCommand(server ServerConfig, nws NWSConfig) (string, []string, error) {
	if server.Command != "" {
		return server.Command, server.Args, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", nil, fmt.Errorf("resolve own executable: %w", err)
	}

	args := []string{"serve"}
	if nws.BaseURL != "" {
		args = append(args, "-nws-url", nws.BaseURL)
	}

	return exe, args, nil
}
