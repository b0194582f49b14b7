package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"utime/internal/applier"
	"utime/internal/cli"
	"utime/pkg/config"
	"utime/pkg/filesystem"
	"utime/pkg/timestamp"
)

// main changes file timestamps as described by the command line
func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit status
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	progname := "utime"
	if len(args) > 0 {
		progname = filepath.Base(args[0])
		args = args[1:]
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "%s: failed to load configuration: %v\n", progname, err)
		return cli.ExitFatal
	}

	logger, level := cfg.NewLogger(stderr)

	fsOps := filesystem.NewOperations(logger)
	resolver := timestamp.NewResolver(fsOps, stdin, stdout)
	app := applier.New(fsOps, resolver, stdout, logger)

	defaults := timestamp.DefaultOptions()
	defaults.TimeFormat = cfg.TimeFormat

	runner := cli.NewRunner(app, defaults, stdout, logger, level)
	err = runner.Run(args)

	var usageErr *cli.UsageError
	switch {
	case err == nil:
	case errors.As(err, &usageErr):
		fmt.Fprintf(stderr, "%s: %s\n", progname, usageErr.Reason)
		cli.Usage(stderr, progname)
	default:
		fmt.Fprintf(stderr, "%s: %v\n", progname, err)
	}
	return cli.ExitCode(err)
}
