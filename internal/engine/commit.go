package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bianoble/docsync/internal/fsutil"
	"github.com/bianoble/docsync/internal/syncerr"
)

const (
	backupTimeFormat    = "20060102-150405"
	maxBackupsPerSecond = 1000
)

// commit compares content with the current target and writes it unless the
// two already match or the call is a dry run.
func (e *Engine) commit(ctx context.Context, log *slog.Logger, tgt target, content []byte, opts Options) (*Result, error) {
	if tgt.exists && bytes.Equal(tgt.data, content) {
		log.Debug("unchanged", "reason", ReasonAlreadyInSync)
		return &Result{Reason: ReasonAlreadyInSync}, nil
	}
	if opts.DryRun {
		log.Debug("skipping write", "reason", ReasonDryRun)
		return &Result{Reason: ReasonDryRun}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Changed: true, Reason: ReasonTargetCreated}
	if tgt.exists {
		res.Reason = ReasonTargetUpdated
	}

	if opts.Backup && tgt.exists {
		backup, err := e.backup(tgt.path)
		if err != nil {
			return nil, err
		}
		res.BackupPath = backup
		log.Debug("backup created", "path", backup)
	}

	perm := fsutil.FileMode(tgt.path, defaultPerm)
	if err := fsutil.WriteFile(tgt.path, content, perm); err != nil {
		if res.BackupPath != "" {
			_ = os.Remove(res.BackupPath)
		}
		return nil, syncerr.Wrap(syncerr.KindFilesystem, err, "writing target")
	}

	log.Info("synchronized", "reason", res.Reason)
	return res, nil
}

// backup copies path next to itself as <name>.<UTC timestamp>.bak. A backup
// from the same second gets a counter, <name>.<UTC timestamp>.<n>.bak.
func (e *Engine) backup(path string) (string, error) {
	stamp := e.Now().UTC().Format(backupTimeFormat)
	base := filepath.Join(filepath.Dir(path), fmt.Sprintf("%s.%s", filepath.Base(path), stamp))
	backup := base + ".bak"
	for n := 1; ; n++ {
		if _, err := os.Lstat(backup); errors.Is(err, fs.ErrNotExist) {
			break
		} else if err != nil {
			return "", syncerr.Wrap(syncerr.KindFilesystem, err, "creating backup of %s", path)
		}
		if n > maxBackupsPerSecond {
			return "", syncerr.New(syncerr.KindFilesystem, "creating backup of %s: too many backups at %s", path, stamp)
		}
		backup = fmt.Sprintf("%s.%d.bak", base, n)
	}
	if err := fsutil.CopyFile(path, backup); err != nil {
		return "", syncerr.Wrap(syncerr.KindFilesystem, err, "creating backup of %s", path)
	}
	return backup, nil
}
