package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/alkime/noteforge/internal/logger"
)

// CLI defines the noteforge command structure.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Launch the terminal UI"`

	Process ProcessCmd `cmd:"" help:"Transcribe and summarize one lecture recording"`
	Watch   WatchCmd   `cmd:"" help:"Process every recording dropped into a directory"`
	Devices DevicesCmd `cmd:"" help:"List available audio devices"`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration"`
}

func main() {
	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("noteforge"),
		kong.Description("Turn lecture recordings into transcriptions and summaries."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}

	// CLI output goes to stdout; logs stay on stderr.
	log := logger.SetupTextLogger(os.Stderr, level)

	err := ctx.Run(log, level)
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}
