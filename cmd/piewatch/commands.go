package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/subcommands"

	"github.com/bobmcallan/piewatch/internal/app"
	"github.com/bobmcallan/piewatch/internal/common"
)

// resolveConfigPath checks the flag, PIEWATCH_CONFIG, the binary dir, then config/piewatch.toml.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("PIEWATCH_CONFIG"); env != "" {
		return env
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "piewatch.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return "config/piewatch.toml" // fallback for development
}

// setup loads config, builds the logger and initializes the app.
func setup() (*app.App, error) {
	config, err := common.LoadConfig(resolveConfigPath(*configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)
	common.PrintBanner(config, logger)

	return app.NewApp(config, logger)
}

type runCmd struct {
	at string
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "fetch account data once and deliver the digest" }
func (*runCmd) Usage() string {
	return `piewatch [-config <file>] run [-at <RFC3339 time>]

  Runs one digest: reads cash, pies and recent transactions, updates the
  realised-profit ledger and daily snapshots, and delivers the report by
  email and/or to the static site directory.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.at, "at", "", "Evaluate as of this time instead of now (RFC3339)")
}

func (c *runCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	now := time.Now()
	if c.at != "" {
		t, err := time.Parse(time.RFC3339, c.at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -at: %v\n", err)
			return subcommands.ExitUsageError
		}
		now = t
	}

	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	r, err := a.Run(ctx, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println(r.Subject)
	return subcommands.ExitSuccess
}

type scheduleCmd struct{}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "run the digest on the configured cron schedule" }
func (*scheduleCmd) Usage() string {
	return `piewatch [-config <file>] schedule

  Stays in the foreground and runs the digest on schedule.cron (UTC)
  until interrupted.
`
}

func (*scheduleCmd) SetFlags(*flag.FlagSet) {}

func (*scheduleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.Schedule(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "print version information" }
func (*versionCmd) Usage() string          { return "piewatch version\n" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Println(common.GetFullVersion())
	return subcommands.ExitSuccess
}
