package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

const version = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: weatherctl [flags]\n       weatherctl <command> [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n  demo    Run the weather client walkthrough (default)\n  serve   Serve the weather MCP tools over stdio\n  hello   Run the goroutine sequencing walkthrough\n")
	}

	// Handle subcommands before flag parsing.
	switch cmd := commandWord(os.Args); cmd {
	case "serve":
		serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
		serveCmd.Usage = func() {
			fmt.Fprintf(os.Stderr, "Usage: weatherctl serve [flags]\n\nServe the weather MCP tools over stdio.\n\nFlags:\n")
			serveCmd.PrintDefaults()
		}
		baseURL := serveCmd.String("nws-url", "", "override the NWS API base URL")
		_ = serveCmd.Parse(os.Args[2:])

		if err := runServe(*baseURL); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		return
	case "hello":
		runHello(os.Stdout, time.Second)
		return
	case "demo":
		// The default command; strip the subcommand word and fall
		// through to normal flag parsing.
		os.Args = append(os.Args[:1], os.Args[2:]...)
	case "":
		// No subcommand word, just flags.
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}

	configPath := flag.String("config", "", "path to configuration file (default: weatherctl.yaml if present)")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	verbose := flag.Bool("verbose", false, "log each tool call")
	flag.Parse()

	if err := loadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(*configPath, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, verbose bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(resolveConfigPath(configPath))
	if err != nil {
		return err
	}

	if err := cfg.validate(); err != nil {
		return err
	}

	return runDemo(ctx, cfg, verbose, os.Stdout)
}

// commandWord returns the subcommand word from the argument list, or "" when
// the first argument is a flag or absent.
func commandWord(args []string) string {
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		return args[1]
	}

	return ""
}

// resolveConfigPath picks the config file: explicit flag, then
// weatherctl.yaml in the working directory, then none (defaults).
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if _, err := os.Stat("weatherctl.yaml"); err == nil {
		return "weatherctl.yaml"
	}

	return ""
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
