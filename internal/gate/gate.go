// Package gate rate-limits remote version checks with a persisted timestamp.
package gate

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"

	"github.com/conn-castle/upgrade-ai/internal/messages"
)

// Gate reads and writes the last-check timestamp file.
type Gate struct {
	fs       afero.Fs
	clock    clockwork.Clock
	path     string
	interval time.Duration
}

// New returns a gate for the timestamp file at path.
func New(fs afero.Fs, clock clockwork.Clock, path string, interval time.Duration) *Gate {
	return &Gate{fs: fs, clock: clock, path: path, interval: interval}
}

// LastCheck returns the recorded check time. ok is false when the file is
// missing, unreadable, or does not hold a finite epoch number.
func (g *Gate) LastCheck() (last time.Time, ok bool) {
	data, err := afero.ReadFile(g.fs, g.path)
	if err != nil {
		return time.Time{}, false
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return time.Time{}, false
	}
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*float64(time.Second))), true
}

// Due reports whether a remote check should run now. force always wins.
// When not due, since is the time elapsed since the recorded check.
func (g *Gate) Due(force bool) (due bool, since time.Duration) {
	if force {
		return true, 0
	}
	last, ok := g.LastCheck()
	if !ok {
		return true, 0
	}
	since = g.clock.Since(last)
	if since >= g.interval {
		return true, since
	}
	return false, since
}

// Record stores the current clock time as epoch seconds, creating the state dir.
func (g *Gate) Record() error {
	dir := filepath.Dir(g.path)
	if err := g.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(messages.GateCreateDirFmt, dir, err)
	}
	now := g.clock.Now()
	seconds := float64(now.UnixNano()) / float64(time.Second)
	value := strconv.FormatFloat(seconds, 'f', 6, 64)
	if err := afero.WriteFile(g.fs, g.path, []byte(value), os.FileMode(0o644)); err != nil {
		return fmt.Errorf(messages.GateWriteFmt, g.path, err)
	}
	return nil
}
