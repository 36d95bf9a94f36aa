package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/docsync/internal/engine"
)

var (
	runDryRun bool
	runDiff   bool
)

var runCmd = &cobra.Command{
	Use:   "run [job...]",
	Short: "Run the jobs of the job file",
	Long: `Runs the jobs defined in docsync.yaml one after another, or only the named
jobs. A failing job is reported and the remaining jobs still run; the command
exits non-zero if any job failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, root, err := loadConfig()
		if err != nil {
			return err
		}

		results, err := newEngine().RunJobs(cmd.Context(), cfg, root, engine.RunOptions{
			DryRun:   runDryRun,
			ShowDiff: runDiff,
			Jobs:     args,
		})
		if err != nil {
			return err
		}
		return reportJobs(results)
	},
}

// reportJobs prints one block per job and returns an error when any job
// failed. The error of the first failing job is kept for the exit code.
func reportJobs(results []engine.JobResult) error {
	var first error
	failed := 0
	for _, r := range results {
		info("[%s]", r.Job.Name)
		if r.Err != nil {
			errorf("job '%s': %v", r.Job.Name, r.Err)
			if first == nil {
				first = r.Err
			}
			failed++
			continue
		}
		reportResult(r.Job.Source, r.Job.Target, r.Result)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d job(s) failed: %w", failed, len(results), first)
	}
	return nil
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "preview actions without writing modifications")
	runCmd.Flags().BoolVar(&runDiff, "diff", false, "show unified diffs of the changes")
	rootCmd.AddCommand(runCmd)
}
