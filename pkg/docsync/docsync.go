// Package docsync provides the public Go library API for docsync.
//
// docsync copies files, or named sections of structured files, from a
// source document into a target document while leaving the rest of the
// target intact.
//
// # Basic Usage
//
//	opts := docsync.DefaultSyncOptions()
//	m, err := docsync.ParseSection("yaml:settings->markdown(render_as=table):Settings?create=true")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts.Sections = []docsync.SectionMapping{m}
//	res, err := docsync.SyncFiles(ctx, "config.yaml", "README.md", opts)
//
// Job files are run through a Client:
//
//	client, err := docsync.New(docsync.Options{ConfigPath: "docsync.yaml"})
//	results, err := client.Run(ctx, docsync.RunOptions{})
package docsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bianoble/docsync/internal/config"
	"github.com/bianoble/docsync/internal/engine"
	"github.com/bianoble/docsync/internal/pathexpr"
)

// ParseSection parses a section mapping such as
// "yaml:a.b->markdown(render_as=table):Docs.Table?create=true".
func ParseSection(argument string) (SectionMapping, error) {
	return pathexpr.Parse(argument)
}

// SyncFiles synchronizes source into target once.
func SyncFiles(ctx context.Context, source, target string, opts SyncOptions) (*SyncResult, error) {
	return engine.New(nil).Sync(ctx, source, target, opts)
}

// Options configures a docsync client.
type Options struct {
	// ConfigPath is the path to the job file. Default: "docsync.yaml".
	ConfigPath string

	// ProjectRoot is where relative job paths start.
	// If empty, defaults to the directory containing ConfigPath.
	ProjectRoot string

	Logger *slog.Logger
}

// RunOptions configures a run over the job file.
type RunOptions = engine.RunOptions

// Client runs the jobs of a job file.
type Client struct {
	engine      *engine.Engine
	cfg         *config.Config
	projectRoot string
}

// New loads the job file and creates a client.
func New(opts Options) (*Client, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.FileNames[0]
	}

	root := opts.ProjectRoot
	if root == "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
		root = filepath.Dir(abs)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		engine:      engine.New(opts.Logger),
		cfg:         cfg,
		projectRoot: root,
	}, nil
}

// Jobs returns the names of the configured jobs in file order.
func (c *Client) Jobs() []string {
	names := make([]string, 0, len(c.cfg.Jobs))
	for _, j := range c.cfg.Jobs {
		names = append(names, j.Name)
	}
	return names
}

// Run runs the selected jobs.
func (c *Client) Run(ctx context.Context, opts RunOptions) ([]JobResult, error) {
	return c.engine.RunJobs(ctx, c.cfg, c.projectRoot, opts)
}

// Check runs every job as a dry run and returns the jobs whose target would
// change, plus any job errors.
func (c *Client) Check(ctx context.Context) (drifted []JobResult, err error) {
	results, err := c.engine.RunJobs(ctx, c.cfg, c.projectRoot, RunOptions{DryRun: true})
	if err != nil {
		return nil, err
	}
	var failed []error
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed = append(failed, fmt.Errorf("job '%s': %w", r.Job.Name, r.Err))
		case r.Result.Reason == ReasonDryRun:
			drifted = append(drifted, r)
		}
	}
	if len(failed) > 0 {
		return drifted, errors.Join(failed...)
	}
	return drifted, nil
}
