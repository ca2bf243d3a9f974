package messages

// Config messages.
const (
	ConfigReadFileFmt          = "failed to read config %s: %w"
	ConfigInvalidConfigFmt     = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt  = "config %s has unrecognized keys: %w"
	ConfigInvalidDurationFmt   = "%s: invalid %s %q: %w"
	ConfigNonPositiveFmt       = "%s: %s must be greater than zero"
	ConfigFieldRequiredFmt     = "%s: %s is required"
	ConfigRelativePathFmt      = "%s: %s must be a relative path inside the root, got %q"
	ConfigInvalidPatternFmt    = "%s: invalid template pattern %q"
	ConfigScratchInsideGitFmt  = "%s: scratch_dir %q must not be inside %s"
	ConfigValidationFailed     = "config validation failed"
	ConfigValidationGuidance   = "(fix the config file or delete it to use defaults)"
	ConfigFileName             = ".upgrade-ai.toml"
	ConfigLoadedFmt            = "loaded config"
	ConfigDefaultsUsedFmt      = "config file not found; using defaults"
	ConfigInvalidExcludeFmt    = "%s: exclude pattern must not be empty"
	ConfigInvalidToolPathFmt   = "%s: tool_paths entry must not be empty"
	ConfigInvalidTemplatesNone = "%s: at least one template pattern is required"
)
