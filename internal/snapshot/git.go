// Package snapshot retrieves a shallow copy of the remote template tree.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/conn-castle/upgrade-ai/internal/messages"
)

// GitBinary is the executable used to clone the remote tree.
const GitBinary = "git"

// ErrTimeout reports that the clone did not finish within its bound.
var ErrTimeout = errors.New(messages.SnapshotTimedOut)

// GitSource clones Repository with history depth 1.
type GitSource struct {
	Repository string
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Acquire clones the repository into dest, which must not exist yet.
// A missing git binary, a timeout, or a non-zero exit is returned as an error.
func (s GitSource) Acquire(ctx context.Context, dest string) error {
	if strings.TrimSpace(s.Repository) == "" {
		return errors.New(messages.SnapshotRepositoryRequired)
	}
	gitPath, err := exec.LookPath(GitBinary)
	if err != nil {
		return fmt.Errorf(messages.SnapshotToolMissingFmt, GitBinary, err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	args := []string{"clone", "--depth", "1", "--quiet", s.Repository, dest}
	logger := s.logger()
	logger.Debug("cloning template repository", "git", gitPath, "repository", s.Repository, "dest", dest)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Stderr = &stderr
	// Never block on a credential prompt.
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: "+messages.SnapshotTimeoutFmt, ErrTimeout, s.Timeout)
		}
		return fmt.Errorf(messages.SnapshotCloneFailedFmt, strings.TrimSpace(stderr.String()), err)
	}
	logger.Debug("clone finished", "dest", dest)
	return nil
}

func (s GitSource) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
