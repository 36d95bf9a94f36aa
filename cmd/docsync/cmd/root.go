package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bianoble/docsync/internal/logging"
	"github.com/bianoble/docsync/internal/pathexpr"
	"github.com/bianoble/docsync/internal/syncerr"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	noInherit  bool
	verbose    bool
	quiet      bool
	noColor    bool
	logLevel   string
	logFormat  string
	logFile    string
)

var (
	logger   = logging.Discard()
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "docsync",
	Short: "Keep files and document sections in sync",
	Long: `docsync copies a source file into a target file, or propagates named
sections of a structured document (YAML, Markdown) into a location in another
document while leaving the rest of the target untouched.

Single syncs run with 'docsync files'. Repeated syncs are described as jobs in
docsync.yaml and run with 'docsync run', verified with 'docsync check' and
kept current with 'docsync watch'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(stdout, "docsync %s\n", version)
		fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		fmt.Fprintf(stdout, "  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to job file (default: docsync.yaml or docsync.yml in the current directory)")
	rootCmd.PersistentFlags().BoolVar(&noInherit, "no-inherit", false, "ignore the user-level job file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a rotating file instead of stderr")

	rootCmd.AddCommand(versionCmd)
}

func setupLogging() error {
	l, c, err := logging.New(logging.Options{
		Level:  logLevel,
		Format: logFormat,
		File:   logFile,
		Output: stderr,
	})
	if err != nil {
		return err
	}
	logger, closeLog = l, c
	slog.SetDefault(l)
	return nil
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		errorf("%v", err)
		return err
	}
	return nil
}

// ExitCode maps an error from Execute to a process exit code: 2 for invalid
// section mappings, 1 otherwise.
func ExitCode(err error) int {
	var perr *pathexpr.Error
	if errors.As(err, &perr) || syncerr.Is(err, syncerr.KindMapping) {
		return 2
	}
	return 1
}
