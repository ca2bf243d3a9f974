package reconcile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/afero"

	"github.com/conn-castle/upgrade-ai/internal/config"
	"github.com/conn-castle/upgrade-ai/internal/messages"
)

// TemplateSet walks root and returns the relative paths of files that match
// the policy's template patterns. Source-control metadata and any directory
// listed in skipDirs (absolute paths, such as the scratch snapshot) are not
// descended into. A missing root yields an empty set. Any other walk error
// is returned.
func TemplateSet(afs afero.Fs, root string, policy Policy, skipDirs ...string) (mapset.Set[string], error) {
	return templateSet(afs, root, policy, nil, skipDirs...)
}

// DestinationSet is TemplateSet for the tree being upgraded. Entries below
// root that cannot be read for lack of permission are logged and left out of
// the set instead of failing the walk. The root itself must be readable.
func DestinationSet(afs afero.Fs, root string, policy Policy, logger *slog.Logger, skipDirs ...string) (mapset.Set[string], error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	skipDenied := func(absPath string, err error) error {
		if absPath == root || !errors.Is(err, fs.ErrPermission) {
			return err
		}
		logger.Warn(messages.ReconcileUnreadableSkipped, "path", absPath, "error", err)
		return nil
	}
	return templateSet(afs, root, policy, skipDenied, skipDirs...)
}

func templateSet(afs afero.Fs, root string, policy Policy, onErr func(absPath string, err error) error, skipDirs ...string) (mapset.Set[string], error) {
	out := mapset.NewThreadUnsafeSet[string]()
	skip := make(map[string]struct{}, len(skipDirs))
	for _, dir := range skipDirs {
		skip[filepath.Clean(dir)] = struct{}{}
	}

	err := walkFiles(afs, root, func(absPath string, info os.FileInfo) error {
		rel, err := relPath(root, absPath)
		if err != nil {
			return err
		}
		if policy.IsTemplate(rel) {
			out.Add(rel)
		}
		return nil
	}, func(absPath string) bool {
		_, ok := skip[filepath.Clean(absPath)]
		return ok || filepath.Base(absPath) == config.VCSDir
	}, onErr)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// walkFiles calls fn for every non-directory entry below root. Directories for
// which skipDir returns true are pruned. The root itself is never pruned.
// Walk errors go through onErr when it is set; a nil result from onErr
// skips the failing entry. Without onErr every walk error is fatal.
func walkFiles(afs afero.Fs, root string, fn func(absPath string, info os.FileInfo) error, skipDir func(absPath string) bool, onErr func(absPath string, err error) error) error {
	if _, err := afs.Stat(root); err != nil {
		return err
	}
	return afero.Walk(afs, root, func(absPath string, info os.FileInfo, err error) error {
		if err != nil {
			if onErr != nil {
				err = onErr(absPath, err)
			}
			if err == nil {
				return nil
			}
			return fmt.Errorf(messages.ReconcileWalkFmt, absPath, err)
		}
		if info.IsDir() {
			if absPath != root && skipDir != nil && skipDir(absPath) {
				return filepath.SkipDir
			}
			return nil
		}
		return fn(absPath, info)
	})
}

func relPath(root string, absPath string) (string, error) {
	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return "", fmt.Errorf(messages.ReconcileRelFmt, absPath, err)
	}
	return filepath.ToSlash(rel), nil
}
