package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bianoble/docsync/internal/config"
	"github.com/bianoble/docsync/internal/engine"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	addStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	delStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// paint renders s with style unless colors are disabled.
func paint(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

// resolveConfigPath returns --config, or the job file found in the working
// directory.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	p, err := config.FindProjectConfig(cwd)
	if err != nil {
		return "", fmt.Errorf("no job file found in %s (run 'docsync init' or pass --config)", cwd)
	}
	return p, nil
}

// loadConfig reads, merges and validates the job file layers. It returns the
// config and the directory relative job paths start from.
func loadConfig() (*config.Config, string, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolving config path: %w", err)
	}

	cfg, layers, err := config.LoadLayered(config.DiscoverOptions{
		ProjectPath: abs,
		NoInherit:   noInherit || config.EnvNoInherit(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("loading config %s: %w", path, err)
	}
	for _, l := range layers {
		if l.Loaded {
			detail("loaded %s config %s", l.Level, l.Path)
		}
	}
	return cfg, filepath.Dir(abs), nil
}

func newEngine() *engine.Engine {
	return engine.New(logger)
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(stdout, format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Fprintf(stdout, "  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(stderr, paint(errStyle, "error:")+" "+format+"\n", args...)
}

// reportResult prints the outcome of one sync.
func reportResult(source, target string, res *engine.Result) {
	switch res.Reason {
	case engine.ReasonDryRun:
		info("Dry run: %s -> %s.", source, target)
	case engine.ReasonAlreadyInSync:
		info("Already in sync.")
	case engine.ReasonNoSectionsDefined:
		info("%s", paint(warnStyle, "No sections defined."))
	default:
		info("%s %s -> %s.", paint(okStyle, "Synchronized"), source, target)
	}
	if res.BackupPath != "" {
		info("Backup created at %s.", res.BackupPath)
	}
	if res.Diff != "" {
		printDiff(res.Diff)
	}
}

// printDiff prints a unified diff, coloring added and removed lines.
func printDiff(diff string) {
	if quiet {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			line = paint(headerStyle, line)
		case strings.HasPrefix(line, "@@"):
			line = paint(hunkStyle, line)
		case strings.HasPrefix(line, "+"):
			line = paint(addStyle, line)
		case strings.HasPrefix(line, "-"):
			line = paint(delStyle, line)
		}
		fmt.Fprintln(stdout, line)
	}
}
