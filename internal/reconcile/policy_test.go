package reconcile

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"

	"github.com/conn-castle/upgrade-ai/internal/config"
)

func defaultPolicy(extra ...string) Policy {
	return NewPolicy(config.DefaultConfig().Policy, extra...)
}

func set(paths ...string) mapset.Set[string] {
	return mapset.NewThreadUnsafeSet(paths...)
}

func TestDecideTemplateOnlyRemoteIsSkipped(t *testing.T) {
	p := defaultPolicy()
	got := p.Decide("notes.template.md", set(), set("notes.template.md"))
	assert.Equal(t, ActionSkipNewTemplate, got)
}

func TestDecideTemplateOnBothSidesIsOverwritten(t *testing.T) {
	p := defaultPolicy()
	got := p.Decide("notes.template.md", set("notes.template.md"), set("notes.template.md"))
	assert.Equal(t, ActionCopy, got)
}

func TestDecideNestedTemplate(t *testing.T) {
	p := defaultPolicy()
	assert.Equal(t, ActionSkipNewTemplate, p.Decide("docs/a/b.template.md", set(), set("docs/a/b.template.md")))
	assert.Equal(t, ActionCopy, p.Decide("docs/a/b.template.md", set("docs/a/b.template.md"), set("docs/a/b.template.md")))
}

func TestDecideTemplateMissingFromRemoteSetIsCopied(t *testing.T) {
	p := defaultPolicy()
	assert.Equal(t, ActionCopy, p.Decide("x.template.md", set(), set()))
}

func TestDecidePlainFileIsCopied(t *testing.T) {
	p := defaultPolicy()
	assert.Equal(t, ActionCopy, p.Decide("config.json", set(), set()))
	assert.Equal(t, ActionCopy, p.Decide("notes.md", set(), set("notes.template.md")))
}

func TestDecideVCSMetadataAlwaysSkipped(t *testing.T) {
	p := defaultPolicy()
	assert.Equal(t, ActionSkipVCS, p.Decide(".git/HEAD", set(), set()))
	assert.Equal(t, ActionSkipVCS, p.Decide("sub/.git/config", set(), set()))
	assert.Equal(t, ActionSkipVCS, p.Decide(".git/x.template.md", set(".git/x.template.md"), set(".git/x.template.md")))
	assert.Equal(t, ActionCopy, p.Decide(".gitignore", set(), set()))
	assert.Equal(t, ActionCopy, p.Decide(".github/workflows/ci.yml", set(), set()))
}

func TestDecideToolPathAlwaysSkipped(t *testing.T) {
	p := defaultPolicy("bin/upgrade-ai")
	assert.Equal(t, ActionSkipTool, p.Decide("scripts/upgrade_ai.py", set(), set()))
	assert.Equal(t, ActionSkipTool, p.Decide("scripts/upgrade-ai", set(), set()))
	assert.Equal(t, ActionSkipTool, p.Decide("./bin/upgrade-ai", set(), set()))
	assert.Equal(t, ActionCopy, p.Decide("scripts/other.py", set(), set()))
}

func TestDecideToolPathWinsOverTemplateRule(t *testing.T) {
	cfg := config.DefaultConfig().Policy
	cfg.ToolPaths = []string{"tools/self.template.md"}
	p := NewPolicy(cfg)
	assert.Equal(t, ActionSkipTool, p.Decide("tools/self.template.md", set("tools/self.template.md"), set("tools/self.template.md")))
}

func TestDecideExclude(t *testing.T) {
	cfg := config.DefaultConfig().Policy
	cfg.Exclude = []string{"docs/private/", "*.local.json"}
	p := NewPolicy(cfg)
	assert.Equal(t, ActionSkipExcluded, p.Decide("docs/private/notes.md", set(), set()))
	assert.Equal(t, ActionSkipExcluded, p.Decide("settings/app.local.json", set(), set()))
	assert.Equal(t, ActionCopy, p.Decide("docs/public/notes.md", set(), set()))
}

func TestIsTemplate(t *testing.T) {
	p := defaultPolicy()
	assert.True(t, p.IsTemplate("a.template.md"))
	assert.True(t, p.IsTemplate("deep/dir/a.template.md"))
	assert.False(t, p.IsTemplate("a.template.md.bak"))
	assert.False(t, p.IsTemplate("template.md"))
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "a/b", NormalizePath("./a//b"))
	assert.Equal(t, "", NormalizePath("."))
	assert.Equal(t, "", NormalizePath(" "))
}
