package messages

// Lock and filesystem messages.
const (
	LockOpenFmt       = "open lock %s: %w"
	LockAcquireFmt    = "lock %s: %w"
	LockTimeoutFmt    = "another upgrade-ai run holds the lock (waited %s)"
	LockCreateDirFmt  = "create lock dir: %w"
	RootFindFailedFmt = "find template root from %s: %w"
)

// Root discovery messages.
const (
	RootStartRequired    = "start path is required"
	RootMarkerNotFileFmt = "%s exists but is not a regular file"
	RootVCSInvalidFmt    = "%s is neither a directory nor a regular file"
)
