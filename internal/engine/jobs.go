package engine

import (
	"context"
	"fmt"

	"github.com/bianoble/docsync/internal/config"
	"github.com/bianoble/docsync/internal/fsutil"
	"github.com/bianoble/docsync/internal/syncerr"
)

// RunOptions configures a run over the jobs of a job file.
type RunOptions struct {
	DryRun   bool
	ShowDiff bool

	// Jobs restricts the run to the named jobs. Empty means all jobs.
	Jobs []string
}

// JobResult is the outcome of one job. Exactly one of Result and Err is set.
type JobResult struct {
	Job    config.Job
	Source string
	Target string
	Result *Result
	Err    error
}

// RunJobs runs the selected jobs of cfg one after another, with relative
// paths taken from root. A failing job does not stop the run; its error is
// recorded in its JobResult.
func (e *Engine) RunJobs(ctx context.Context, cfg *config.Config, root string, opts RunOptions) ([]JobResult, error) {
	jobs, err := selectJobs(cfg, opts.Jobs)
	if err != nil {
		return nil, err
	}

	results := make([]JobResult, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, e.runJob(ctx, cfg, root, job, opts))
	}
	return results, nil
}

func (e *Engine) runJob(ctx context.Context, cfg *config.Config, root string, job config.Job, opts RunOptions) JobResult {
	jr := JobResult{Job: job}

	source, err := fsutil.Resolve(root, job.Source)
	if err != nil {
		jr.Err = syncerr.Wrap(syncerr.KindValidation, err, "")
		return jr
	}
	target, err := fsutil.Resolve(root, job.Target)
	if err != nil {
		jr.Err = syncerr.Wrap(syncerr.KindValidation, err, "")
		return jr
	}
	jr.Source, jr.Target = source, target

	mappings, err := job.Mappings()
	if err != nil {
		jr.Err = syncerr.Wrap(syncerr.KindMapping, err, "")
		return jr
	}

	s := cfg.Settings(job)
	jr.Result, jr.Err = e.Sync(ctx, source, target, Options{
		DryRun:      opts.DryRun,
		ShowDiff:    opts.ShowDiff,
		Backup:      s.Backup,
		AllowBinary: s.Binary,
		Encoding:    s.Encoding,
		Comments:    s.Comments,
		Sections:    mappings,
	})
	return jr
}

func selectJobs(cfg *config.Config, names []string) ([]config.Job, error) {
	if len(names) == 0 {
		return cfg.Jobs, nil
	}
	jobs := make([]config.Job, 0, len(names))
	for _, name := range names {
		job, ok := cfg.Job(name)
		if !ok {
			return nil, fmt.Errorf("unknown job '%s'", name)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
