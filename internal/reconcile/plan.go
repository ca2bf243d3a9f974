package reconcile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/afero"

	"github.com/conn-castle/upgrade-ai/internal/messages"
)

// DefaultDiffMaxLines is the default maximum number of diff lines shown per file.
const DefaultDiffMaxLines = 40

// Change classifies what a sync would do to one destination file.
type Change string

const (
	ChangeAdd       Change = "add"
	ChangeUpdate    Change = "update"
	ChangeUnchanged Change = "unchanged"
	ChangeSkip      Change = "skip"
)

// PlanEntry is the predicted outcome for one snapshot file.
type PlanEntry struct {
	Path   string `json:"path"`
	Change Change `json:"change"`
	// Reason is set for skipped files.
	Reason      Action `json:"reason,omitempty"`
	UnifiedDiff string `json:"diff,omitempty"`
	Truncated   bool   `json:"truncated,omitempty"`
}

// Plan is a dry-run of Run.
type Plan struct {
	LocalVersion  string      `json:"local_version"`
	RemoteVersion string      `json:"remote_version"`
	Entries       []PlanEntry `json:"entries"`
}

// PlanOptions controls diff rendering.
type PlanOptions struct {
	Diffs        bool
	DiffMaxLines int
}

// Filter returns the entries with the given change.
func (p Plan) Filter(change Change) []PlanEntry {
	out := make([]PlanEntry, 0)
	for _, entry := range p.Entries {
		if entry.Change == change {
			out = append(out, entry)
		}
	}
	return out
}

// Plan classifies every snapshot file without writing to the destination.
func (r Reconciler) Plan(opts PlanOptions) (Plan, error) {
	var plan Plan
	if _, err := r.FS.Stat(r.Snapshot); err != nil {
		return plan, fmt.Errorf(messages.ReconcileSnapshotMissingFmt, r.Snapshot, err)
	}
	local, remote, err := r.Sets()
	if err != nil {
		return plan, err
	}

	err = r.walkSnapshot(func(rel string, absPath string, _ os.FileInfo) error {
		action := r.Policy.Decide(rel, local, remote)
		if action.Skip() {
			plan.Entries = append(plan.Entries, PlanEntry{Path: rel, Change: ChangeSkip, Reason: action})
			return nil
		}
		entry, err := r.classify(rel, absPath, opts)
		if err != nil {
			return err
		}
		plan.Entries = append(plan.Entries, entry)
		return nil
	})
	return plan, err
}

func (r Reconciler) classify(rel string, absPath string, opts PlanOptions) (PlanEntry, error) {
	remoteBytes, err := afero.ReadFile(r.FS, absPath)
	if err != nil {
		return PlanEntry{}, err
	}
	localBytes, err := afero.ReadFile(r.FS, filepath.Join(r.Dest, filepath.FromSlash(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return PlanEntry{Path: rel, Change: ChangeAdd}, nil
	}
	if err != nil {
		// Unreadable destinations (for example a directory in the way) would be overwritten.
		return PlanEntry{Path: rel, Change: ChangeUpdate}, nil //nolint:nilerr
	}
	if bytes.Equal(localBytes, remoteBytes) {
		return PlanEntry{Path: rel, Change: ChangeUnchanged}, nil
	}
	entry := PlanEntry{Path: rel, Change: ChangeUpdate}
	if opts.Diffs {
		entry.UnifiedDiff, entry.Truncated = renderDiff(rel, localBytes, remoteBytes, opts.DiffMaxLines)
	}
	return entry, nil
}

func renderDiff(rel string, local []byte, remote []byte, maxLines int) (string, bool) {
	if bytes.IndexByte(local, 0) >= 0 || bytes.IndexByte(remote, 0) >= 0 {
		return "Binary files differ\n", false
	}
	return renderTruncatedUnifiedDiff(rel+" (local)", rel+" (remote)", string(local), string(remote), maxLines)
}

func renderTruncatedUnifiedDiff(fromName string, toName string, fromContent string, toContent string, maxLines int) (string, bool) {
	limit := maxLines
	if limit <= 0 {
		limit = DefaultDiffMaxLines
	}
	diff := udiff.Unified(fromName, toName, fromContent, toContent)
	lines := splitDiffLines(diff)
	if len(lines) <= limit {
		return ensureTrailingNewline(strings.Join(lines, "\n")), false
	}
	truncated := append(lines[:limit:limit], fmt.Sprintf("... (truncated to %d lines; rerun with --diff-lines <n> to see more)", limit))
	return ensureTrailingNewline(strings.Join(truncated, "\n")), true
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" || strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
