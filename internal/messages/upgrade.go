package messages

// Upgrade run messages. Console lines mirror the order of the run.
const (
	UpgradeBanner          = "============================================================"
	UpgradeTitle           = "AI Template Upgrade"
	UpgradeNotDueFmt       = "Already checked for updates today (%.1f hours ago).\n"
	UpgradeNotDueHint      = "Run again tomorrow or use --ignore-delay to force a check."
	UpgradeLocalFmt        = "Local version: %s\n"
	UpgradeCheckingRemote  = "Checking remote version... "
	UpgradeRemoteFmt       = "Remote version: %s\n"
	UpgradeUpToDateFmt     = "Already up to date (version %s)\n"
	UpgradeAvailFmt        = "Update available: %s -> %s\n"
	UpgradeDowngradeFmt    = "Remote version is older than local: %s -> %s (syncing to remote)\n"
	UpgradeCloningFmt      = "Cloning repository to %s... "
	UpgradeDone            = "Done"
	UpgradeFailed          = "Failed"
	UpgradeCopying         = "Copying files... "
	UpgradeCopiedFmt       = "Done (%d copied, %d skipped)\n"
	UpgradeCopiedErrFmt    = "Done (%d copied, %d skipped, %d failed)\n"
	UpgradeCleaning        = "Cleaning up temporary files... "
	UpgradeCompleted       = "Upgrade completed successfully!"
	UpgradeCompletedErrFmt = "Upgrade completed with %d file error(s).\n"
	UpgradeUpdatedToFmt    = "Template updated to version %s\n"

	UpgradeWarnCopyFmt        = "WARNING: Failed to copy %s: %v\n"
	UpgradeWarnCleanupFmt     = "WARNING: Failed to clean up temp directory: %v\n"
	UpgradeWarnRecordCheckFmt = "WARNING: Failed to record check time: %v\n"

	UpgradeOptionsFSRequired       = "upgrade filesystem is required"
	UpgradeOptionsVersionsRequired = "upgrade version source is required"
	UpgradeOptionsSnapshotRequired = "upgrade snapshot source is required"
	UpgradeOptionsRootRequired     = "upgrade root path is required"

	UpgradeWrapFmt           = "%w: %w"
	UpgradeRemoteUnavailable = "remote version unavailable"
	UpgradeSourceUnavailable = "remote source unavailable"
	UpgradeClearScratchFmt   = "clear scratch dir %s: %w"
	UpgradeScratchParentFmt  = "create scratch parent %s: %w"
	UpgradeRecordCheckFmt    = "record check time: %w"
	UpgradeLockFmt           = "acquire run lock: %w"

	// UpdateCreateRequestErrFmt formats request creation errors.
	UpdateCreateRequestErrFmt   = "create version request: %w"
	UpdateFetchVersionErrFmt    = "fetch remote version: %w"
	UpdateFetchVersionStatusFmt = "fetch remote version: unexpected status %s"
	UpdateDecodeVersionErrFmt   = "decode remote version: %w"
	UpdateVersionMissing        = "remote version record missing version field"
	UpdateURLRequired           = "version url is required"

	SnapshotRepositoryRequired = "snapshot repository is required"
	SnapshotToolMissingFmt     = "%s is not available on this system: %w"
	SnapshotCloneFailedFmt     = "git clone failed: %q: %w"
	SnapshotTimeoutFmt         = "git clone timed out after %s"
	SnapshotTimedOut           = "snapshot acquisition timed out"

	GateWriteFmt     = "write check time %s: %w"
	GateCreateDirFmt = "create state dir %s: %w"

	ReconcileSnapshotMissingFmt = "snapshot %s not found: %w"
	ReconcileWalkFmt            = "walk %s: %w"
	ReconcileRelFmt             = "relative path for %s: %w"
	ReconcileDestIsDirFmt       = "%s is a directory"
	ReconcileCopyErrorFmt       = "copy %s: %v"
	ReconcileUnreadableSkipped  = "skipping unreadable path in destination"
)
