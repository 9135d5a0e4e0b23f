package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"github.com/bobmcallan/piewatch/internal/common"
)

var configPath = flag.String("config", "", "Path to the TOML config file (defaults to $PIEWATCH_CONFIG, then piewatch.toml next to the binary)")

func main() {
	common.LoadVersionFromFile()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&runCmd{}, "digest")
	subcommands.Register(&scheduleCmd{}, "digest")
	subcommands.Register(&versionCmd{}, "")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := subcommands.Execute(ctx)
	stop()
	os.Exit(int(status))
}
