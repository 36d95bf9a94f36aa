package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/docsync/internal/engine"
)

var checkDiff bool

var checkCmd = &cobra.Command{
	Use:   "check [job...]",
	Short: "Verify that every target is in sync",
	Long: `Runs the jobs as dry runs and reports each target that would change.
Exit 0 if everything is in sync; exit non-zero on drift or errors. Suitable for
CI pipelines.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, root, err := loadConfig()
		if err != nil {
			return err
		}

		results, err := newEngine().RunJobs(cmd.Context(), cfg, root, engine.RunOptions{
			DryRun:   true,
			ShowDiff: checkDiff,
			Jobs:     args,
		})
		if err != nil {
			return err
		}

		drifted, failed := 0, 0
		for _, r := range results {
			switch {
			case r.Err != nil:
				errorf("job '%s': %v", r.Job.Name, r.Err)
				failed++
			case r.Result.Reason == engine.ReasonDryRun:
				info("  %s   %s (%s)", paint(warnStyle, "drifted"), r.Job.Target, r.Job.Name)
				if r.Result.Diff != "" {
					printDiff(r.Result.Diff)
				}
				drifted++
			default:
				detail("in sync   %s (%s)", r.Job.Target, r.Job.Name)
			}
		}

		if drifted == 0 && failed == 0 {
			info("All targets are in sync.")
			return nil
		}
		if failed > 0 {
			return fmt.Errorf("check failed: %d job(s) errored, %d target(s) out of sync", failed, drifted)
		}
		return fmt.Errorf("check failed: %d target(s) out of sync", drifted)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkDiff, "diff", false, "show unified diffs of the drift")
	rootCmd.AddCommand(checkCmd)
}
