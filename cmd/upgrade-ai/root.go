package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/conn-castle/upgrade-ai/internal/config"
	"github.com/conn-castle/upgrade-ai/internal/logging"
	"github.com/conn-castle/upgrade-ai/internal/messages"
	"github.com/conn-castle/upgrade-ai/internal/root"
	"github.com/conn-castle/upgrade-ai/internal/snapshot"
	"github.com/conn-castle/upgrade-ai/internal/update"
	"github.com/conn-castle/upgrade-ai/internal/upgrade"
)

var getwd = os.Getwd
var executable = os.Executable

// legacyIgnoreDelayFlag is the spelling used by the original upgrade script.
const legacyIgnoreDelayFlag = "ignoreDelay"

// globalOptions are the flags shared by every command.
type globalOptions struct {
	root       string
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var opts globalOptions
	var ignoreDelay bool

	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			coordinator, err := newCoordinator(cmd, opts, ignoreDelay)
			if err != nil {
				return err
			}
			_, err = coordinator.Run(cmd.Context())
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&opts.root, "root", "", messages.RootFlagRoot)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", messages.RootFlagConfig)
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, messages.RootFlagVerbose)
	cmd.Flags().BoolVar(&ignoreDelay, "ignore-delay", false, messages.RootFlagIgnoreDelay)
	cmd.Flags().SetNormalizeFunc(normalizeLegacyFlags)
	cmd.Flags().Bool("version", false, messages.RootVersionFlag)

	cmd.AddCommand(newPlanCmd(&opts))
	return cmd
}

// normalizeLegacyFlags maps --ignoreDelay onto --ignore-delay.
func normalizeLegacyFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == legacyIgnoreDelayFlag {
		name = "ignore-delay"
	}
	return pflag.NormalizedName(name)
}

// newCoordinator resolves the root, loads config, and wires production sources.
func newCoordinator(cmd *cobra.Command, opts globalOptions, force bool) (*upgrade.Coordinator, error) {
	logger := logging.New(cmd.ErrOrStderr(), opts.verbose)

	rootDir, err := resolveRoot(opts.root)
	if err != nil {
		return nil, err
	}
	cfg, configPath, err := loadConfig(rootDir, opts.configPath, logger)
	if err != nil {
		return nil, err
	}
	paths := config.ResolvePaths(rootDir, configPath, cfg)
	logger.Debug("resolved paths", "root", paths.Root, "config", paths.ConfigPath, "scratch", paths.ScratchDir)

	var toolPaths []string
	if rel, ok := executableToolPath(rootDir, logger); ok {
		toolPaths = append(toolPaths, rel)
	}

	return upgrade.New(upgrade.Options{
		Paths:     paths,
		Config:    cfg,
		Force:     force,
		Out:       cmd.OutOrStdout(),
		Logger:    logger,
		Clock:     clockwork.NewRealClock(),
		FS:        afero.NewOsFs(),
		Versions:  update.HTTPSource{URL: cfg.Remote.VersionURL, Timeout: cfg.FetchTimeout()},
		Snapshots: snapshot.GitSource{Repository: cfg.Remote.Repository, Timeout: cfg.CloneTimeout(), Logger: logger},
		ToolPaths: toolPaths,
	})
}

// resolveRoot returns the explicit --root (with ~ expanded) or discovers the
// template root from the working directory.
func resolveRoot(flagRoot string) (string, error) {
	if strings.TrimSpace(flagRoot) != "" {
		expanded, err := homedir.Expand(flagRoot)
		if err != nil {
			return "", fmt.Errorf(messages.RootResolveHomeFmt, flagRoot, err)
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return "", fmt.Errorf(messages.RootResolveAbsFmt, expanded, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf(messages.RootStatFmt, abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf(messages.RootNotDirectoryFmt, abs)
		}
		return abs, nil
	}
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	dir, err := root.FindTemplateRoot(cwd, config.DefaultVersionFile)
	if err != nil {
		return "", fmt.Errorf(messages.RootFindFailedFmt, cwd, err)
	}
	return dir, nil
}

// loadConfig reads the config file. An explicit --config must exist; the
// default location may be absent.
func loadConfig(rootDir string, flagPath string, logger *slog.Logger) (config.Config, string, error) {
	path := config.DefaultConfigPath(rootDir)
	explicit := strings.TrimSpace(flagPath) != ""
	if explicit {
		expanded, err := homedir.Expand(flagPath)
		if err != nil {
			return config.Config{}, "", fmt.Errorf(messages.RootResolveHomeFmt, flagPath, err)
		}
		path = expanded
	}
	cfg, found, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, "", err
	}
	if !found {
		if explicit {
			return config.Config{}, "", fmt.Errorf(messages.RootConfigMissingFmt, path)
		}
		logger.Debug(messages.ConfigDefaultsUsedFmt, "path", path)
	} else {
		logger.Debug(messages.ConfigLoadedFmt, "path", path)
	}
	return cfg, path, nil
}

// executableToolPath returns the running binary's root-relative path when it
// lives inside rootDir, so a sync never replaces the binary doing the sync.
func executableToolPath(rootDir string, logger *slog.Logger) (string, bool) {
	exe, err := executable()
	if err != nil {
		logger.Debug(fmt.Sprintf(messages.RootResolveExeFailed, err))
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	base := rootDir
	if resolved, err := filepath.EvalSymlinks(rootDir); err == nil {
		base = resolved
	}
	rel, err := filepath.Rel(base, exe)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
