package config

import "time"

// Default locations and endpoints of the upstream template.
const (
	DefaultRepository    = "https://github.com/goemktg/Prompt_Template.git"
	DefaultVersionURL    = "https://raw.githubusercontent.com/goemktg/Prompt_Template/main/LAST_VERSION.json"
	DefaultVersionFile   = "LAST_VERSION.json"
	DefaultStateDir      = ".copilot-memory"
	DefaultCheckFile     = "upgrade_last_check.txt"
	DefaultScratchDir    = "temp/upgrade_tmp"
	DefaultFetchTimeout  = 10 * time.Second
	DefaultCloneTimeout  = 60 * time.Second
	DefaultCheckInterval = 24 * time.Hour

	// VCSDir is the source-control metadata directory that is never copied.
	VCSDir = ".git"
)

// Config is the parsed .upgrade-ai.toml file.
type Config struct {
	Remote RemoteConfig `toml:"remote"`
	Local  LocalConfig  `toml:"local"`
	Policy PolicyConfig `toml:"policy"`
}

// RemoteConfig describes where the upstream template lives.
type RemoteConfig struct {
	Repository   string `toml:"repository"`
	VersionURL   string `toml:"version_url"`
	FetchTimeout string `toml:"fetch_timeout"`
	CloneTimeout string `toml:"clone_timeout"`
}

// LocalConfig holds paths relative to the template root.
type LocalConfig struct {
	VersionFile   string `toml:"version_file"`
	StateDir      string `toml:"state_dir"`
	CheckFile     string `toml:"check_file"`
	ScratchDir    string `toml:"scratch_dir"`
	CheckInterval string `toml:"check_interval"`
}

// PolicyConfig controls which snapshot files are copied.
type PolicyConfig struct {
	// Templates are doublestar patterns for customizable template files.
	Templates []string `toml:"templates"`
	// ToolPaths are root-relative paths of the upgrade tool itself.
	ToolPaths []string `toml:"tool_paths"`
	// Exclude holds gitignore-style patterns that are never copied.
	Exclude []string `toml:"exclude"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Remote: RemoteConfig{
			Repository:   DefaultRepository,
			VersionURL:   DefaultVersionURL,
			FetchTimeout: DefaultFetchTimeout.String(),
			CloneTimeout: DefaultCloneTimeout.String(),
		},
		Local: LocalConfig{
			VersionFile:   DefaultVersionFile,
			StateDir:      DefaultStateDir,
			CheckFile:     DefaultCheckFile,
			ScratchDir:    DefaultScratchDir,
			CheckInterval: DefaultCheckInterval.String(),
		},
		Policy: PolicyConfig{
			Templates: []string{"**/*.template.md"},
			ToolPaths: []string{"scripts/upgrade_ai.py", "scripts/upgrade-ai"},
		},
	}
}

// FetchTimeout returns the parsed version fetch timeout.
// Call Validate first; an invalid value falls back to the default.
func (c Config) FetchTimeout() time.Duration {
	return durationOr(c.Remote.FetchTimeout, DefaultFetchTimeout)
}

// CloneTimeout returns the parsed snapshot acquisition timeout.
func (c Config) CloneTimeout() time.Duration {
	return durationOr(c.Remote.CloneTimeout, DefaultCloneTimeout)
}

// CheckInterval returns the minimum time between remote checks.
func (c Config) CheckInterval() time.Duration {
	return durationOr(c.Local.CheckInterval, DefaultCheckInterval)
}

func durationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
