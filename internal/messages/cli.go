package messages

// CLI messages for user-facing commands and flags.
const (
	// RootUse is the CLI command name.
	RootUse = "upgrade-ai"
	// RootShort is the short description for the root command.
	RootShort = "Upgrade the local AI template from its remote repository"
	RootLong  = "Checks the remote template repository for a newer version (at most once every 24 hours) and, when one is found,\n" +
		"overwrites local files with the remote copies. Template files (*.template.md) that were never created locally are\n" +
		"not seeded, and the tool never overwrites itself.\n\n" +
		"Without --root the template root is the nearest parent directory holding LAST_VERSION.json, else the nearest\n" +
		"git work tree, else the current directory. Root discovery always looks for LAST_VERSION.json; a custom\n" +
		"local.version_file in the config only applies once the root is known, so pass --root in that case."
	RootVersionFlag = "Print version and exit"

	RootFlagIgnoreDelay = "Skip the 24-hour check delay and force a version check"
	RootFlagRoot        = "Template root directory (default: nearest parent holding LAST_VERSION.json, else the nearest git work tree, else the current directory)"
	RootFlagConfig      = "Config file (default: <root>/.upgrade-ai.toml)"
	RootFlagVerbose     = "Write diagnostic logs to stderr"

	RootResolveHomeFmt   = "resolve root %s: %w"
	RootResolveAbsFmt    = "resolve absolute root %s: %w"
	RootNotDirectoryFmt  = "root %s is not a directory"
	RootStatFmt          = "stat root %s: %w"
	RootResolveExeFailed = "resolve executable path: %v"
	RootConfigMissingFmt = "config file %s not found"

	// PlanUse is the plan command name.
	PlanUse           = "plan"
	PlanShort         = "Show what an upgrade would change without writing any files"
	PlanFlagDiff      = "Include unified diffs for files that would be updated"
	PlanFlagDiffLines = "Maximum diff lines shown per file (default 40)"
	PlanFlagJSON      = "Output the plan as JSON"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	ErrorPrefixFmt        = "ERROR: %v\n"
	UnexpectedErrorFmt    = "ERROR: Unexpected error: %v\n"
	UnexpectedPanicFmt    = "unexpected panic: %v"
	ExitCodeFmt           = "exit %d"
	AbortRemoteHint       = "Could not fetch remote version. Aborting upgrade."
	AbortSourceHint       = "Could not retrieve the remote template tree. Aborting upgrade."
	PlanHeader            = "Upgrade plan (dry-run): no files were written."
	PlanVersionsFmt       = "Local version: %s\nRemote version: %s\n"
	PlanSectionFmt        = "\n%s:\n"
	PlanNone              = "  - (none)"
	PlanEntryFmt          = "  - %s\n"
	PlanSkipEntryFmt      = "  - %s [%s]\n"
	PlanSectionAdditions  = "Files to add"
	PlanSectionUpdates    = "Files to update"
	PlanSectionUnchanged  = "Unchanged files"
	PlanSectionSkipped    = "Skipped files"
	PlanSectionDiffs      = "Diffs"
	PlanUnchangedCountFmt = "  - %d file(s)\n"
)
