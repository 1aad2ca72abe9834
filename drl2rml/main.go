// =============================================================================
// main.go - drl2rml Entry Point
// =============================================================================
//
// drl2rml turns Excellon drill files exported by PCB tools into command
// files for an RML-1 milling machine, one file per drill tool. It also
// translates RML-1 command files into readable descriptions, either in
// one shot or from an interactive REPL.
//
// Usage:
//
//	drl2rml generate board.drl          Write rnl1-T<n>.out per tool
//	drl2rml describe job.out            Describe every command of a file
//	drl2rml repl                        Interactive translator
//	drl2rml watch board.drl             Regenerate whenever the file changes
//	drl2rml status board.drl            Bounding box and tool table
//	drl2rml preview board.drl -o b.stl  STL preview of the drilled board
//	drl2rml history                     Past generation runs
//	drl2rml serve                       Translator service on a Unix socket
//
// Routing parameters come from an optional TOML profile (--config) and can
// be overridden per invocation with flags.
//
// =============================================================================

package main

// GO CONCEPT: Subcommands with cobra
// ----------------------------------
// The standard library's flag package handles a flat list of options. Tools
// with verbs ("git commit", "go test") usually reach for spf13/cobra, which
// models each verb as a *cobra.Command with its own flags, help text and
// RunE function. Persistent flags declared on the root are inherited by
// every subcommand.
//
// Compare with Python: argparse's add_subparsers() or the click library's
// @click.group() / @group.command() decorators play the same role.
import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// =============================================================================
// Version Information
// =============================================================================

const (
	// version is the current version of drl2rml.
	version = "1.0.0"

	// appName is the application name.
	appName = "drl2rml"

	// copyright is the copyright notice.
	copyright = "Copyright (c) 2026"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// welcomeBanner returns the banner displayed when the REPL starts.
func welcomeBanner() string {
	return fmt.Sprintf(`%s - RML-1 command translator
%s

Type '.help' for available commands.
Type '.quit' to exit.
`, fullTitle(), copyright)
}

// =============================================================================
// Global Options
// =============================================================================

// options holds the state shared by every subcommand: the persistent flags
// and what was derived from them before the subcommand ran.
type options struct {
	// configPath is the TOML profile given with --config.
	configPath string

	// verbose lowers the log level to debug.
	verbose bool

	// profile is the loaded routing profile, defaults when none was found.
	profile profile

	// logger writes structured logs to stderr.
	logger *slog.Logger
}

// GO CONCEPT: Structured Logging with log/slog
// --------------------------------------------
// log/slog (Go 1.21+) logs a message plus key/value attributes:
//
//	logger.Info("wrote output", "tool", label, "file", path)
//
// A Handler decides the encoding (text or JSON) and the minimum level.
// Libraries accept a *slog.Logger and fall back to slog.Default(), so the
// program decides once, here, where logs go.
//
// Compare with Python: the logging module with logging.getLogger(__name__)
// and extra={...} for structured fields; structlog is the closer match.

// newLogger builds the stderr logger, at debug level when verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newRootCommand assembles the command tree. Tests build a fresh tree per
// case so flag state never leaks between them.
func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Convert drill files to RML-1 milling commands",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.verbose)
			slog.SetDefault(opts.logger)

			p, err := loadProfile(opts.configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			opts.profile = p
			return nil
		},
	}
	root.SetVersionTemplate(fullTitle() + "\n")

	root.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigName, "routing profile (TOML)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newGenerateCommand(opts),
		newDescribeCommand(opts),
		newREPLCommand(opts),
		newWatchCommand(opts),
		newStatusCommand(opts),
		newPreviewCommand(opts),
		newHistoryCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), fullTitle())
		},
	}
}

// printError prints an error message to stderr.
func printError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

// =============================================================================
// Main
// =============================================================================

// GO CONCEPT: Cancellation with signal.NotifyContext
// --------------------------------------------------
// signal.NotifyContext returns a context that is cancelled when one of the
// listed signals arrives. Long-running subcommands (watch, serve) select on
// ctx.Done() and shut down cleanly; short ones never notice.
//
// Compare with Python: catching KeyboardInterrupt around the main loop, or
// loop.add_signal_handler() in asyncio.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		printError(err.Error())
		stop()
		os.Exit(1)
	}
}
