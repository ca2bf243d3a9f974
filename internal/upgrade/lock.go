package upgrade

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/upgrade-ai/internal/messages"
)

// DefaultLockWait bounds how long a run waits for a concurrent run to finish.
const DefaultLockWait = 30 * time.Second

const lockPollEvery = 100 * time.Millisecond

type runLock struct {
	file *os.File
}

// lockPath returns the lock file for root under dir. Keying by the root keeps
// runs against different trees independent without writing into either tree.
func lockPath(dir string, root string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(dir, "upgrade-ai-"+hex.EncodeToString(sum[:8])+".lock")
}

// acquireRunLock opens or creates path and takes an exclusive advisory lock,
// polling until wait elapses.
func acquireRunLock(path string, wait time.Duration) (*runLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf(messages.LockCreateDirFmt, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	if err := lockFile(file, wait); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf(messages.LockAcquireFmt, path, err)
	}
	return &runLock{file: file}, nil
}

// release unlocks and closes the lock file. The file itself is left in place.
func (l *runLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}

func lockFile(file *os.File, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf(messages.LockTimeoutFmt, wait)
		}
		time.Sleep(lockPollEvery)
	}
}
