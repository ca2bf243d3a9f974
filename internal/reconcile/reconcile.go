package reconcile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/afero"

	"github.com/conn-castle/upgrade-ai/internal/messages"
)

// CopyError records a file that could not be copied. It does not stop reconciliation.
type CopyError struct {
	Path string
	Err  error
}

func (e CopyError) Error() string {
	return fmt.Sprintf(messages.ReconcileCopyErrorFmt, e.Path, e.Err)
}

func (e CopyError) Unwrap() error {
	return e.Err
}

// SkippedFile is a snapshot file the policy left alone.
type SkippedFile struct {
	Path   string
	Action Action
}

// Report summarizes one reconciliation pass.
type Report struct {
	Copied   []string
	Skipped  []SkippedFile
	Failures []CopyError
}

// Reconciler copies a snapshot tree onto a destination tree.
type Reconciler struct {
	FS       afero.Fs
	Snapshot string
	Dest     string
	Policy   Policy
	Logger   *slog.Logger
}

// Sets builds the destination and snapshot template sets.
func (r Reconciler) Sets() (local mapset.Set[string], remote mapset.Set[string], err error) {
	local, err = DestinationSet(r.FS, r.Dest, r.Policy, r.logger(), r.Snapshot)
	if err != nil {
		return nil, nil, err
	}
	remote, err = TemplateSet(r.FS, r.Snapshot, r.Policy)
	if err != nil {
		return nil, nil, err
	}
	return local, remote, nil
}

// Run walks every snapshot file and copies the ones the policy allows.
// Per-file copy errors are collected in the report; the returned error is
// reserved for failures that prevent the walk itself. The snapshot is only read.
func (r Reconciler) Run() (Report, error) {
	var report Report
	if _, err := r.FS.Stat(r.Snapshot); err != nil {
		return report, fmt.Errorf(messages.ReconcileSnapshotMissingFmt, r.Snapshot, err)
	}
	local, remote, err := r.Sets()
	if err != nil {
		return report, err
	}
	logger := r.logger()

	err = r.walkSnapshot(func(rel string, absPath string, info os.FileInfo) error {
		action := r.Policy.Decide(rel, local, remote)
		if action.Skip() {
			logger.Debug("skip", "path", rel, "reason", string(action))
			report.Skipped = append(report.Skipped, SkippedFile{Path: rel, Action: action})
			return nil
		}
		dest := filepath.Join(r.Dest, filepath.FromSlash(rel))
		if err := copyFile(r.FS, absPath, dest, info); err != nil {
			logger.Warn("copy failed", "path", rel, "error", err)
			report.Failures = append(report.Failures, CopyError{Path: rel, Err: err})
			return nil
		}
		logger.Debug("copied", "path", rel)
		report.Copied = append(report.Copied, rel)
		return nil
	})
	return report, err
}

// walkSnapshot visits snapshot files in lexical order with their relative paths.
// Symlinks are followed; links to directories are not descended into.
func (r Reconciler) walkSnapshot(fn func(rel string, absPath string, info os.FileInfo) error) error {
	return walkFiles(r.FS, r.Snapshot, func(absPath string, info os.FileInfo) error {
		rel, err := relPath(r.Snapshot, absPath)
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := r.FS.Stat(absPath)
			if err == nil && target.IsDir() {
				return nil
			}
			if err == nil {
				info = target
			}
		}
		return fn(rel, absPath, info)
	}, nil, nil)
}

func (r Reconciler) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// copyFile writes src to dest through a temp file and rename so a failed copy
// never leaves a truncated destination. Mode and modification time are kept.
func copyFile(afs afero.Fs, src string, dest string, info os.FileInfo) (err error) {
	dir := filepath.Dir(dest)
	if err := afs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if existing, statErr := afs.Stat(dest); statErr == nil && existing.IsDir() {
		return fmt.Errorf(messages.ReconcileDestIsDirFmt, dest)
	}

	in, err := afs.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	tmp, err := afero.TempFile(afs, dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = afs.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := afs.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return err
	}
	if err := afs.Rename(tmpName, dest); err != nil {
		return err
	}
	committed = true
	if err := afs.Chtimes(dest, info.ModTime(), info.ModTime()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
