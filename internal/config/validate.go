package config

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/conn-castle/upgrade-ai/internal/messages"
)

// Validate ensures the config is complete and consistent.
func (c Config) Validate(source string) error {
	if strings.TrimSpace(c.Remote.Repository) == "" {
		return fmt.Errorf(messages.ConfigFieldRequiredFmt, source, "remote.repository")
	}
	if strings.TrimSpace(c.Remote.VersionURL) == "" {
		return fmt.Errorf(messages.ConfigFieldRequiredFmt, source, "remote.version_url")
	}
	durations := []struct {
		name  string
		value string
	}{
		{"remote.fetch_timeout", c.Remote.FetchTimeout},
		{"remote.clone_timeout", c.Remote.CloneTimeout},
		{"local.check_interval", c.Local.CheckInterval},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf(messages.ConfigInvalidDurationFmt, source, d.name, d.value, err)
		}
		if parsed <= 0 {
			return fmt.Errorf(messages.ConfigNonPositiveFmt, source, d.name)
		}
	}

	relPaths := []struct {
		name  string
		value string
	}{
		{"local.version_file", c.Local.VersionFile},
		{"local.state_dir", c.Local.StateDir},
		{"local.check_file", c.Local.CheckFile},
		{"local.scratch_dir", c.Local.ScratchDir},
	}
	for _, p := range relPaths {
		if strings.TrimSpace(p.value) == "" {
			return fmt.Errorf(messages.ConfigFieldRequiredFmt, source, p.name)
		}
		if !isContainedRelPath(p.value) {
			return fmt.Errorf(messages.ConfigRelativePathFmt, source, p.name, p.value)
		}
	}
	if hasVCSComponent(c.Local.ScratchDir) {
		return fmt.Errorf(messages.ConfigScratchInsideGitFmt, source, c.Local.ScratchDir, VCSDir)
	}

	if len(c.Policy.Templates) == 0 {
		return fmt.Errorf(messages.ConfigInvalidTemplatesNone, source)
	}
	for _, pattern := range c.Policy.Templates {
		if strings.TrimSpace(pattern) == "" || !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf(messages.ConfigInvalidPatternFmt, source, pattern)
		}
	}
	for _, toolPath := range c.Policy.ToolPaths {
		if strings.TrimSpace(toolPath) == "" {
			return fmt.Errorf(messages.ConfigInvalidToolPathFmt, source)
		}
	}
	for _, pattern := range c.Policy.Exclude {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf(messages.ConfigInvalidExcludeFmt, source)
		}
	}
	return nil
}

// isContainedRelPath reports whether p is relative and stays inside the root.
func isContainedRelPath(p string) bool {
	if filepath.IsAbs(p) || path.IsAbs(filepath.ToSlash(p)) {
		return false
	}
	cleaned := path.Clean(filepath.ToSlash(p))
	return cleaned != "." && cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}

func hasVCSComponent(p string) bool {
	for _, part := range strings.Split(path.Clean(filepath.ToSlash(p)), "/") {
		if part == VCSDir {
			return true
		}
	}
	return false
}
