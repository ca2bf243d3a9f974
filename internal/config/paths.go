package config

import (
	"path/filepath"

	"github.com/conn-castle/upgrade-ai/internal/messages"
)

// Paths holds resolved absolute locations for one template root.
type Paths struct {
	Root        string
	ConfigPath  string
	VersionFile string
	StateDir    string
	CheckFile   string
	ScratchDir  string
}

// DefaultConfigPath returns the config file location for a root.
func DefaultConfigPath(root string) string {
	return filepath.Join(root, messages.ConfigFileName)
}

// ResolvePaths joins the config's relative locations onto root.
func ResolvePaths(root string, configPath string, cfg Config) Paths {
	if configPath == "" {
		configPath = DefaultConfigPath(root)
	}
	stateDir := filepath.Join(root, filepath.FromSlash(cfg.Local.StateDir))
	return Paths{
		Root:        root,
		ConfigPath:  configPath,
		VersionFile: filepath.Join(root, filepath.FromSlash(cfg.Local.VersionFile)),
		StateDir:    stateDir,
		CheckFile:   filepath.Join(stateDir, filepath.FromSlash(cfg.Local.CheckFile)),
		ScratchDir:  filepath.Join(root, filepath.FromSlash(cfg.Local.ScratchDir)),
	}
}
