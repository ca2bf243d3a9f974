// Package upgrade sequences the version check, snapshot, reconciliation, and
// cleanup steps of a template upgrade.
package upgrade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"

	"github.com/conn-castle/upgrade-ai/internal/config"
	"github.com/conn-castle/upgrade-ai/internal/gate"
	"github.com/conn-castle/upgrade-ai/internal/messages"
	"github.com/conn-castle/upgrade-ai/internal/reconcile"
	"github.com/conn-castle/upgrade-ai/internal/update"
)

var (
	// ErrRemoteUnavailable reports that the remote version could not be obtained.
	ErrRemoteUnavailable = errors.New(messages.UpgradeRemoteUnavailable)
	// ErrSourceUnavailable reports that the remote tree could not be copied locally.
	ErrSourceUnavailable = errors.New(messages.UpgradeSourceUnavailable)
)

// VersionSource returns the version currently published by the remote.
type VersionSource interface {
	Latest(ctx context.Context) (string, error)
}

// SnapshotSource materializes the complete remote tree at dest.
type SnapshotSource interface {
	Acquire(ctx context.Context, dest string) error
}

// Options configures a Coordinator.
type Options struct {
	Paths  config.Paths
	Config config.Config
	// Force bypasses the time-gate.
	Force bool
	// Out receives console status lines. Defaults to io.Discard.
	Out    io.Writer
	Logger *slog.Logger
	// Clock defaults to the real clock.
	Clock     clockwork.Clock
	FS        afero.Fs
	Versions  VersionSource
	Snapshots SnapshotSource
	// ToolPaths are root-relative paths protected in addition to the configured ones.
	ToolPaths []string
	// LockDir holds the run lock file. Defaults to the OS temp dir.
	LockDir  string
	LockWait time.Duration
}

// Status is the outcome of a completed Run.
type Status string

const (
	StatusNotDue            Status = "not-due"
	StatusUpToDate          Status = "up-to-date"
	StatusUpdated           Status = "updated"
	StatusUpdatedWithErrors Status = "updated-with-errors"
)

// Result describes a Run that did not abort.
type Result struct {
	Status        Status
	LocalVersion  string
	RemoteVersion string
	Direction     update.Direction
	Report        reconcile.Report
}

// Coordinator owns every decision of an upgrade run.
type Coordinator struct {
	opts   Options
	fs     afero.Fs
	out    io.Writer
	logger *slog.Logger
	gate   *gate.Gate
	warn   *color.Color
}

// New validates opts and fills defaults.
func New(opts Options) (*Coordinator, error) {
	if opts.FS == nil {
		return nil, errors.New(messages.UpgradeOptionsFSRequired)
	}
	if opts.Versions == nil {
		return nil, errors.New(messages.UpgradeOptionsVersionsRequired)
	}
	if opts.Snapshots == nil {
		return nil, errors.New(messages.UpgradeOptionsSnapshotRequired)
	}
	if opts.Paths.Root == "" {
		return nil, errors.New(messages.UpgradeOptionsRootRequired)
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.LockDir == "" {
		opts.LockDir = os.TempDir()
	}
	if opts.LockWait <= 0 {
		opts.LockWait = DefaultLockWait
	}
	return &Coordinator{
		opts:   opts,
		fs:     opts.FS,
		out:    opts.Out,
		logger: opts.Logger,
		gate:   gate.New(opts.FS, opts.Clock, opts.Paths.CheckFile, opts.Config.CheckInterval()),
		warn:   color.New(color.FgYellow),
	}, nil
}

// ShouldCheckNow reports whether the time-gate allows a remote check. It only reads state.
func (c *Coordinator) ShouldCheckNow() bool {
	due, since := c.gate.Due(c.opts.Force)
	if due {
		return true
	}
	c.printf(messages.UpgradeNotDueFmt, max(since, 0).Hours())
	c.println(messages.UpgradeNotDueHint)
	return false
}

// FetchRemoteVersion asks the version source for the published version.
// Every failure wraps ErrRemoteUnavailable.
func (c *Coordinator) FetchRemoteVersion(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Config.FetchTimeout())
	defer cancel()
	version, err := c.opts.Versions.Latest(ctx)
	if err != nil {
		return "", fmt.Errorf(messages.UpgradeWrapFmt, ErrRemoteUnavailable, err)
	}
	if version == "" {
		return "", fmt.Errorf(messages.UpgradeWrapFmt, ErrRemoteUnavailable, errors.New(messages.UpdateVersionMissing))
	}
	return version, nil
}

// LocalVersion returns the local version or update.Unknown.
func (c *Coordinator) LocalVersion() string {
	return update.ReadLocalVersion(c.fs, c.opts.Paths.VersionFile)
}

// RecordCheckTime persists the current time as the last successful check.
func (c *Coordinator) RecordCheckTime() error {
	if err := c.gate.Record(); err != nil {
		return fmt.Errorf(messages.UpgradeRecordCheckFmt, err)
	}
	return nil
}

// AcquireSnapshot replaces the scratch dir with a fresh copy of the remote tree.
// Source failures wrap ErrSourceUnavailable and leave the destination untouched.
func (c *Coordinator) AcquireSnapshot(ctx context.Context) error {
	scratch := c.opts.Paths.ScratchDir
	if err := c.fs.RemoveAll(scratch); err != nil {
		return fmt.Errorf(messages.UpgradeClearScratchFmt, scratch, err)
	}
	parent := filepath.Dir(filepath.Clean(scratch))
	if err := c.fs.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf(messages.UpgradeScratchParentFmt, parent, err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.Config.CloneTimeout())
	defer cancel()
	if err := c.opts.Snapshots.Acquire(ctx, scratch); err != nil {
		return fmt.Errorf(messages.UpgradeWrapFmt, ErrSourceUnavailable, err)
	}
	return nil
}

// Reconcile copies the snapshot onto the root according to the skip policy.
func (c *Coordinator) Reconcile() (reconcile.Report, error) {
	return c.reconciler().Run()
}

// Cleanup removes the scratch snapshot. A missing snapshot is not an error.
func (c *Coordinator) Cleanup() error {
	return c.fs.RemoveAll(c.opts.Paths.ScratchDir)
}

// Run performs one upgrade. A non-nil error means the run aborted; per-file
// copy failures are reported through Result.Report instead.
func (c *Coordinator) Run(ctx context.Context) (Result, error) {
	c.println(messages.UpgradeBanner)
	c.println(messages.UpgradeTitle)
	c.println(messages.UpgradeBanner)

	if !c.ShouldCheckNow() {
		return Result{Status: StatusNotDue}, nil
	}

	lock, err := acquireRunLock(lockPath(c.opts.LockDir, c.opts.Paths.Root), c.opts.LockWait)
	if err != nil {
		return Result{}, fmt.Errorf(messages.UpgradeLockFmt, err)
	}
	defer func() {
		_ = lock.release()
	}()

	result := Result{LocalVersion: c.LocalVersion()}
	c.printf(messages.UpgradeLocalFmt, result.LocalVersion)

	c.print(messages.UpgradeCheckingRemote)
	remote, err := c.FetchRemoteVersion(ctx)
	if err != nil {
		c.println(messages.UpgradeFailed)
		return result, err
	}
	c.println(messages.UpgradeDone)
	result.RemoteVersion = remote
	c.printf(messages.UpgradeRemoteFmt, remote)

	if err := c.RecordCheckTime(); err != nil {
		c.warnf(messages.UpgradeWarnRecordCheckFmt, err)
	}

	result.Direction = update.Compare(result.LocalVersion, remote)
	if result.Direction == update.DirectionSame {
		c.printf(messages.UpgradeUpToDateFmt, result.LocalVersion)
		// A crashed earlier run may have left a snapshot behind.
		if err := c.Cleanup(); err != nil {
			c.logger.Warn("remove stale scratch dir", "path", c.opts.Paths.ScratchDir, "error", err)
		}
		result.Status = StatusUpToDate
		return result, nil
	}
	if result.Direction == update.DirectionDowngrade {
		c.printf(messages.UpgradeDowngradeFmt, result.LocalVersion, remote)
	} else {
		c.printf(messages.UpgradeAvailFmt, result.LocalVersion, remote)
	}

	c.printf(messages.UpgradeCloningFmt, c.opts.Paths.ScratchDir)
	if err := c.AcquireSnapshot(ctx); err != nil {
		c.println(messages.UpgradeFailed)
		c.cleanup()
		return result, err
	}
	c.println(messages.UpgradeDone)

	c.print(messages.UpgradeCopying)
	report, err := c.Reconcile()
	if err != nil {
		c.println(messages.UpgradeFailed)
		c.cleanup()
		return result, err
	}
	result.Report = report
	if len(report.Failures) > 0 {
		c.printf(messages.UpgradeCopiedErrFmt, len(report.Copied), len(report.Skipped), len(report.Failures))
		for _, failure := range report.Failures {
			c.warnf(messages.UpgradeWarnCopyFmt, failure.Path, failure.Err)
		}
	} else {
		c.printf(messages.UpgradeCopiedFmt, len(report.Copied), len(report.Skipped))
	}

	c.cleanup()

	c.println(messages.UpgradeBanner)
	if len(report.Failures) > 0 {
		result.Status = StatusUpdatedWithErrors
		c.warnf(messages.UpgradeCompletedErrFmt, len(report.Failures))
	} else {
		result.Status = StatusUpdated
		c.println(messages.UpgradeCompleted)
	}
	c.printf(messages.UpgradeUpdatedToFmt, remote)
	c.println(messages.UpgradeBanner)
	return result, nil
}

// Plan predicts what Run would change. It ignores the time-gate, never records
// the check time, and never writes destination files.
func (c *Coordinator) Plan(ctx context.Context, opts reconcile.PlanOptions) (reconcile.Plan, error) {
	lock, err := acquireRunLock(lockPath(c.opts.LockDir, c.opts.Paths.Root), c.opts.LockWait)
	if err != nil {
		return reconcile.Plan{}, fmt.Errorf(messages.UpgradeLockFmt, err)
	}
	defer func() {
		_ = lock.release()
	}()

	local := c.LocalVersion()
	remote, err := c.FetchRemoteVersion(ctx)
	if err != nil {
		return reconcile.Plan{}, err
	}
	defer func() {
		if err := c.Cleanup(); err != nil {
			c.logger.Warn("remove scratch dir", "path", c.opts.Paths.ScratchDir, "error", err)
		}
	}()
	if err := c.AcquireSnapshot(ctx); err != nil {
		return reconcile.Plan{}, err
	}
	plan, err := c.reconciler().Plan(opts)
	if err != nil {
		return reconcile.Plan{}, err
	}
	plan.LocalVersion = local
	plan.RemoteVersion = remote
	return plan, nil
}

// cleanup runs Cleanup and reports the outcome on the console.
func (c *Coordinator) cleanup() {
	c.print(messages.UpgradeCleaning)
	if err := c.Cleanup(); err != nil {
		c.println("")
		c.warnf(messages.UpgradeWarnCleanupFmt, err)
		return
	}
	c.println(messages.UpgradeDone)
}

func (c *Coordinator) reconciler() reconcile.Reconciler {
	return reconcile.Reconciler{
		FS:       c.fs,
		Snapshot: c.opts.Paths.ScratchDir,
		Dest:     c.opts.Paths.Root,
		Policy:   reconcile.NewPolicy(c.opts.Config.Policy, c.opts.ToolPaths...),
		Logger:   c.logger,
	}
}

func (c *Coordinator) print(text string) {
	_, _ = fmt.Fprint(c.out, text)
}

func (c *Coordinator) println(text string) {
	_, _ = fmt.Fprintln(c.out, text)
}

func (c *Coordinator) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Coordinator) warnf(format string, args ...any) {
	_, _ = c.warn.Fprintf(c.out, format, args...)
}
