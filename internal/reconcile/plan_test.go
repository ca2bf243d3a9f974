package reconcile

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanClassifiesEntries(t *testing.T) {
	r, fs := newMemReconciler(t,
		map[string]string{
			"same.md":          "same\n",
			"changed.md":       "old\n",
			"kept.template.md": "mine\n",
		},
		map[string]string{
			"same.md":          "same\n",
			"changed.md":       "new\n",
			"added.md":         "added\n",
			"kept.template.md": "theirs\n",
			"new.template.md":  "upstream\n",
		},
	)

	plan, err := r.Plan(PlanOptions{})
	require.NoError(t, err)

	got := map[string]PlanEntry{}
	for _, entry := range plan.Entries {
		got[entry.Path] = entry
	}
	assert.Equal(t, ChangeAdd, got["added.md"].Change)
	assert.Equal(t, ChangeUpdate, got["changed.md"].Change)
	assert.Equal(t, ChangeUnchanged, got["same.md"].Change)
	assert.Equal(t, ChangeUpdate, got["kept.template.md"].Change)
	assert.Equal(t, ChangeSkip, got["new.template.md"].Change)
	assert.Equal(t, ActionSkipNewTemplate, got["new.template.md"].Reason)
	assert.Empty(t, got["changed.md"].UnifiedDiff)

	assert.Len(t, plan.Filter(ChangeUpdate), 2)
	assert.Len(t, plan.Filter(ChangeAdd), 1)

	// Planning never writes.
	exists, err := afero.Exists(fs, "/repo/added.md")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, "old\n", readFile(t, fs, "/repo/changed.md"))
}

func TestPlanRendersDiffs(t *testing.T) {
	r, _ := newMemReconciler(t,
		map[string]string{"changed.md": "a\nb\n"},
		map[string]string{"changed.md": "a\nc\n"},
	)

	plan, err := r.Plan(PlanOptions{Diffs: true})
	require.NoError(t, err)
	require.Len(t, plan.Entries, 1)
	diff := plan.Entries[0].UnifiedDiff
	assert.Contains(t, diff, "--- changed.md (local)")
	assert.Contains(t, diff, "+++ changed.md (remote)")
	assert.Contains(t, diff, "-b")
	assert.Contains(t, diff, "+c")
	assert.False(t, plan.Entries[0].Truncated)
}

func TestPlanBinaryDiff(t *testing.T) {
	r, _ := newMemReconciler(t,
		map[string]string{"blob.bin": "a\x00b"},
		map[string]string{"blob.bin": "a\x00c"},
	)

	plan, err := r.Plan(PlanOptions{Diffs: true})
	require.NoError(t, err)
	require.Len(t, plan.Entries, 1)
	assert.Equal(t, "Binary files differ\n", plan.Entries[0].UnifiedDiff)
}

func TestPlanDirectoryInTheWayIsUpdate(t *testing.T) {
	r, fs := newMemReconciler(t, nil, map[string]string{"x.md": "x"})
	require.NoError(t, fs.MkdirAll("/repo/x.md", 0o755))

	plan, err := r.Plan(PlanOptions{})
	require.NoError(t, err)
	require.Len(t, plan.Entries, 1)
	assert.Equal(t, ChangeUpdate, plan.Entries[0].Change)
}

func TestPlanMissingSnapshot(t *testing.T) {
	r := Reconciler{FS: afero.NewMemMapFs(), Snapshot: "/missing", Dest: "/repo", Policy: defaultPolicy()}
	_, err := r.Plan(PlanOptions{})
	require.Error(t, err)
}

func TestRenderTruncatedUnifiedDiff(t *testing.T) {
	var from, to strings.Builder
	for i := 0; i < 30; i++ {
		from.WriteString("old line\n")
		to.WriteString("new line\n")
	}

	diff, truncated := renderTruncatedUnifiedDiff("a", "b", from.String(), to.String(), 5)
	assert.True(t, truncated)
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[5], "truncated to 5 lines")

	diff, truncated = renderTruncatedUnifiedDiff("a", "b", "x\n", "y\n", 0)
	assert.False(t, truncated)
	assert.True(t, strings.HasSuffix(diff, "\n"))
}

func TestRenderTruncatedUnifiedDiffIdentical(t *testing.T) {
	diff, truncated := renderTruncatedUnifiedDiff("a", "b", "same\n", "same\n", 10)
	assert.Empty(t, diff)
	assert.False(t, truncated)
}
