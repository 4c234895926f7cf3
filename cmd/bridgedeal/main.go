// Command bridgedeal generates and validates bridge hand-dealing profiles
// from the command line (spec §6). Logging and CLI-flag conventions follow
// the teacher's cmd/holdem: alecthomas/kong for flag parsing and
// charmbracelet/log for structured logging.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// CLI is the top-level flag/subcommand set.
type CLI struct {
	LogLevel string `help:"Set the log level" enum:"debug,info,warn,error" default:"info"`
	LogFile  string `help:"File to write logs to; '-' writes to stderr" default:"-"`

	Generate GenerateCmd `cmd:"" help:"Generate one or more boards from a hand profile"`
	Validate ValidateCmd `cmd:"" help:"Validate one or more hand profile files"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bridgedeal"),
		kong.Description("Generate constrained bridge deals from a hand profile."),
		kong.UsageOnError(),
	)

	logger, closer, err := createLogger(cli.LogFile, cli.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bridgedeal: error creating logger:", err)
		ctx.Exit(1)
	}
	defer closer()

	if err := ctx.Run(&RunContext{Logger: logger}); err != nil {
		logger.Error("command failed", "error", err)
		ctx.Exit(1)
	}
	ctx.Exit(0)
}

// RunContext is passed to every subcommand's Run method (kong's standard
// dependency-injection pattern).
type RunContext struct {
	Logger *log.Logger
}

func createLogger(logFile string, level string) (*log.Logger, func() error, error) {
	nilCloser := func() error { return nil }

	parsedLevel, err := log.ParseLevel(level)
	if err != nil {
		return nil, nilCloser, fmt.Errorf("error parsing level %s: %w", level, err)
	}

	if logFile == "-" || logFile == "" {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "bridgedeal",
			TimeFormat:      "15:04:05",
			Level:           parsedLevel,
		})
		return logger, nilCloser, nil
	}

	debugFile, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return nil, nilCloser, fmt.Errorf("failed to create debug log: %w", err)
	}

	logger := log.NewWithOptions(debugFile, log.Options{
		ReportTimestamp: true,
		Prefix:          "bridgedeal",
		TimeFormat:      "15:04:05",
		Level:           parsedLevel,
	})

	return logger, debugFile.Close, nil
}
