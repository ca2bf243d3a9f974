package root

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/conn-castle/upgrade-ai/internal/messages"
)

// FindMarkerRoot searches upwards from start for a directory holding the
// regular file marker. It returns found=false when no ancestor holds it.
func FindMarkerRoot(start string, marker string) (string, bool, error) {
	if start == "" {
		return "", false, errors.New(messages.RootStartRequired)
	}
	dir := filepath.Clean(start)
	for {
		info, err := os.Stat(filepath.Join(dir, marker))
		if err == nil {
			if !info.Mode().IsRegular() {
				return "", false, fmt.Errorf(messages.RootMarkerNotFileFmt, filepath.Join(dir, marker))
			}
			return dir, true, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// FindTemplateRoot finds the best root for an upgrade: the nearest ancestor
// holding marker, then the nearest git work tree, then start itself.
func FindTemplateRoot(start string, marker string) (string, error) {
	if start == "" {
		return "", errors.New(messages.RootStartRequired)
	}
	if dir, found, err := FindMarkerRoot(start, marker); err != nil {
		return "", err
	} else if found {
		return dir, nil
	}

	dir := filepath.Clean(start)
	for {
		info, err := os.Lstat(filepath.Join(dir, ".git"))
		if err == nil {
			// A .git file marks a worktree or submodule checkout.
			if info.IsDir() || info.Mode().IsRegular() {
				return dir, nil
			}
			return "", fmt.Errorf(messages.RootVCSInvalidFmt, filepath.Join(dir, ".git"))
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Clean(start), nil
		}
		dir = parent
	}
}
