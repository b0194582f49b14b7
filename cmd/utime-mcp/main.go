package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"utime/internal/server"
	"utime/pkg/config"
)

const (
	// exitCodeSuccess indicates successful termination
	exitCodeSuccess = 0

	// exitCodeError indicates error termination
	exitCodeError = 1
)

// main runs the timestamp MCP server on stdio
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args, builds the server and serves until ctx is done or
// stdin closes.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	progname := "utime-mcp"
	if len(args) > 0 {
		progname = args[0]
		args = args[1:]
	}

	flags := flag.NewFlagSet(progname, flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to configuration file (optional)")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] <allowed-directory> [additional-directories...]\n", progname)
		fmt.Fprintf(stderr, "   or: %s -config <config-file>\n", progname)
		fmt.Fprintf(stderr, "\nOptions:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nExample:\n")
		fmt.Fprintf(stderr, "  %s /home/user/photos /home/user/projects\n", progname)
	}
	if err := flags.Parse(args); err != nil {
		return exitCodeError
	}
	dirs := flags.Args()

	var cfg *config.Config
	var err error

	switch {
	case *configPath != "":
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
			return exitCodeError
		}
	case len(dirs) > 0:
		cfg = config.Default()
		cfg.AllowedDirectories = dirs
		if err := validateCommandLineDirectories(cfg); err != nil {
			fmt.Fprintf(stderr, "Invalid directory arguments: %v\n", err)
			return exitCodeError
		}
	default:
		flags.Usage()
		return exitCodeError
	}

	logger, _ := cfg.NewLogger(stderr)
	logger.Info("Starting utime MCP server",
		"version", cfg.Server.Version,
		"config_source", getConfigSource(*configPath, dirs),
		"allowed_directories", cfg.AllowedDirectories)

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		fmt.Fprintf(stderr, "Failed to create server: %v\n", err)
		return exitCodeError
	}

	fmt.Fprintf(stderr, "utime MCP server running on stdio\n")
	fmt.Fprintf(stderr, "Allowed directories: %v\n", srv.GetAllowedDirectories())

	if err := srv.Serve(ctx, stdin, stdout); err != nil {
		logger.Error("Server error", "error", err)
		return exitCodeError
	}

	logger.Info("Server shutdown complete")
	return exitCodeSuccess
}

// validateCommandLineDirectories validates directories provided via command line
func validateCommandLineDirectories(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is required")
	}
	if len(cfg.AllowedDirectories) == 0 {
		return fmt.Errorf("at least one directory must be specified")
	}
	return config.NormalizeDirectories(cfg)
}

// getConfigSource returns a string indicating how configuration was loaded
func getConfigSource(configPath string, dirs []string) string {
	if configPath != "" {
		return "config_file"
	}
	if len(dirs) > 0 {
		return "command_line"
	}
	return "default"
}
