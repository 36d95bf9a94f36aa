package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bianoble/docsync/internal/config"
	"github.com/bianoble/docsync/internal/engine"
	"github.com/bianoble/docsync/internal/fsutil"
	"github.com/bianoble/docsync/internal/watch"
)

var (
	watchDebounce time.Duration
	watchInitial  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [job...]",
	Short: "Re-run jobs whenever their source changes",
	Long: `Watches the source file of every job (or of the named jobs) and runs the
affected jobs when a source is written. Stops on interrupt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, root, err := loadConfig()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg = subset(cfg, args)
			if len(cfg.Jobs) != len(args) {
				return fmt.Errorf("unknown job in %v", args)
			}
		}

		bySource, err := jobsBySource(cfg, root)
		if err != nil {
			return err
		}
		sources := make([]string, 0, len(bySource))
		for s := range bySource {
			sources = append(sources, s)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng := newEngine()
		if watchInitial {
			runAndReport(ctx, eng, cfg, root, nil)
		}

		w, err := watch.New(sources, logger)
		if err != nil {
			return err
		}
		w.Debounce = watchDebounce

		info("Watching %d source(s). Press Ctrl+C to stop.", len(sources))
		return w.Run(ctx, func(paths []string) {
			var names []string
			for _, p := range paths {
				names = append(names, bySource[p]...)
			}
			if len(names) == 0 {
				return
			}
			runAndReport(ctx, eng, cfg, root, names)
		})
	},
}

// jobsBySource maps each resolved source path to the names of the jobs that
// read it.
func jobsBySource(cfg *config.Config, root string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, j := range cfg.Jobs {
		src, err := fsutil.Resolve(root, j.Source)
		if err != nil {
			return nil, fmt.Errorf("job '%s': %w", j.Name, err)
		}
		out[src] = append(out[src], j.Name)
	}
	return out, nil
}

func subset(cfg *config.Config, names []string) *config.Config {
	out := *cfg
	out.Jobs = nil
	for _, n := range names {
		if j, ok := cfg.Job(n); ok {
			out.Jobs = append(out.Jobs, j)
		}
	}
	return &out
}

func runAndReport(ctx context.Context, eng *engine.Engine, cfg *config.Config, root string, names []string) {
	results, err := eng.RunJobs(ctx, cfg, root, engine.RunOptions{Jobs: names})
	if err != nil {
		errorf("%v", err)
		return
	}
	if err := reportJobs(results); err != nil {
		errorf("%v", err)
	}
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before running after a change")
	watchCmd.Flags().BoolVar(&watchInitial, "initial", true, "run all watched jobs once at startup")
	rootCmd.AddCommand(watchCmd)
}
