// Package engine implements file synchronization: whole-file copies of text
// or binary files, and structured merges of individual sections from one
// document into another.
package engine

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/bianoble/docsync/internal/fsutil"
	"github.com/bianoble/docsync/internal/markdown"
	"github.com/bianoble/docsync/internal/pathexpr"
	"github.com/bianoble/docsync/internal/structure"
	"github.com/bianoble/docsync/internal/syncerr"
)

const defaultPerm os.FileMode = 0644

// Engine synchronizes a source file into a target file.
type Engine struct {
	Registry *structure.Registry
	Logger   *slog.Logger

	// Now is used for backup timestamps.
	Now func() time.Time
}

// New returns an engine with the default adapter registry.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Registry: DefaultRegistry(),
		Logger:   logger,
		Now:      time.Now,
	}
}

// DefaultRegistry returns a registry with the YAML and Markdown adapters and
// JSON reserved.
func DefaultRegistry() *structure.Registry {
	reg := structure.NewRegistry()
	reg.Register(pathexpr.AdapterYAML, structure.NewYAMLAdapter, ".yaml", ".yml")
	reg.Register(pathexpr.AdapterMarkdown, markdown.NewAdapter, ".md", ".markdown")
	reg.Reserve(pathexpr.AdapterJSON, ".json")
	return reg
}

// target is the state of the destination file before the sync.
type target struct {
	path   string
	exists bool
	data   []byte
}

// Sync brings target in line with source according to opts.
func (e *Engine) Sync(ctx context.Context, source, targetPath string, opts Options) (*Result, error) {
	e.defaults()
	log := e.Logger.With("source", source, "target", targetPath)

	if err := validatePaths(source, targetPath); err != nil {
		return nil, err
	}
	c, err := newCodec(opts.Encoding)
	if err != nil {
		return nil, err
	}

	m, err := classify(source, targetPath, opts)
	if err != nil {
		return nil, err
	}
	log.Debug("classified", "mode", m.String())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	srcData, err := os.ReadFile(source)
	if err != nil {
		return nil, syncerr.Wrap(syncerr.KindFilesystem, err, "reading source")
	}
	tgt, err := readTarget(targetPath)
	if err != nil {
		return nil, err
	}

	switch {
	case m == modeBinary:
		return e.commit(ctx, log, tgt, srcData, opts)
	case m == modeSections && len(opts.Sections) == 0:
		log.Debug("nothing to merge", "reason", ReasonNoSectionsDefined)
		return &Result{Reason: ReasonNoSectionsDefined}, nil
	}

	srcText, err := c.decode(srcData)
	if err != nil {
		return nil, err
	}
	oldText, err := c.decode(tgt.data)
	if err != nil {
		return nil, err
	}

	var newText, label string
	switch m {
	case modeSections:
		newText, err = e.merge(ctx, source, tgt, srcText, oldText, opts)
		if err != nil {
			return nil, err
		}
		label = displayName(source) + " (section)"
	default:
		newText = e.wholeText(targetPath, srcText, opts.Comments)
		label = displayName(source)
	}

	var diff string
	if opts.ShowDiff {
		diff = unifiedDiff(oldText, newText, displayName(targetPath), label)
	}

	content, err := c.encode(newText)
	if err != nil {
		return nil, err
	}
	res, err := e.commit(ctx, log, tgt, content, opts)
	if err != nil {
		return nil, err
	}
	res.Diff = diff
	return res, nil
}

func (e *Engine) defaults() {
	if e.Registry == nil {
		e.Registry = DefaultRegistry()
	}
	if e.Logger == nil {
		e.Logger = slog.Default()
	}
	if e.Now == nil {
		e.Now = time.Now
	}
}

func validatePaths(source, targetPath string) error {
	same, err := fsutil.SameFile(source, targetPath)
	if err != nil {
		return syncerr.Wrap(syncerr.KindFilesystem, err, "comparing paths")
	}
	if same {
		return syncerr.New(syncerr.KindValidation, "source and target paths must be different")
	}

	info, err := os.Stat(source)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return syncerr.New(syncerr.KindValidation, "source file not found: %s", source)
	case err != nil:
		return syncerr.Wrap(syncerr.KindFilesystem, err, "inspecting source")
	case info.IsDir():
		return syncerr.New(syncerr.KindValidation, "source path is a directory: %s", source)
	}

	info, err = os.Stat(targetPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return syncerr.Wrap(syncerr.KindFilesystem, err, "inspecting target")
	case info.IsDir():
		return syncerr.New(syncerr.KindValidation, "target path is a directory: %s", targetPath)
	}
	return nil
}

// classify picks the sync mode. Binary content on either side wins over
// section mappings.
func classify(source, targetPath string, opts Options) (mode, error) {
	binary, err := isBinary(source)
	if err != nil {
		return 0, syncerr.Wrap(syncerr.KindFilesystem, err, "reading source")
	}
	if !binary {
		binary, err = isBinary(targetPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return 0, syncerr.Wrap(syncerr.KindFilesystem, err, "reading target")
		}
	}

	switch {
	case binary && !opts.AllowBinary:
		return 0, syncerr.New(syncerr.KindBinary, "binary file detected; pass --binary to allow")
	case binary:
		return modeBinary, nil
	case opts.Sections != nil:
		return modeSections, nil
	default:
		return modeText, nil
	}
}

func readTarget(path string) (target, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return target{path: path}, nil
	}
	if err != nil {
		return target{}, syncerr.Wrap(syncerr.KindFilesystem, err, "reading target")
	}
	return target{path: path, exists: true, data: data}, nil
}
