// Package reconcile decides, per snapshot file, whether to copy it into the
// destination tree and performs the copy.
package reconcile

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	mapset "github.com/deckarep/golang-set/v2"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/conn-castle/upgrade-ai/internal/config"
)

// Action is the outcome of the skip policy for one path.
type Action string

const (
	// ActionCopy copies the file, overwriting any destination file.
	ActionCopy Action = "copy"
	// ActionSkipVCS skips source-control metadata.
	ActionSkipVCS Action = "vcs-metadata"
	// ActionSkipTool skips the upgrade tool's own files.
	ActionSkipTool Action = "upgrade-tool"
	// ActionSkipExcluded skips paths matched by a configured exclude pattern.
	ActionSkipExcluded Action = "excluded"
	// ActionSkipNewTemplate skips a template the user never created locally.
	ActionSkipNewTemplate Action = "new-template"
)

// Skip reports whether the action leaves the destination untouched.
func (a Action) Skip() bool {
	return a != ActionCopy
}

// Policy holds the naming conventions used by Decide.
type Policy struct {
	templates []string
	toolPaths mapset.Set[string]
	exclude   *gitignore.GitIgnore
}

// NewPolicy builds a policy from config. extraToolPaths are root-relative
// paths (for example the running executable) that are protected as well.
func NewPolicy(cfg config.PolicyConfig, extraToolPaths ...string) Policy {
	tools := mapset.NewThreadUnsafeSet[string]()
	for _, p := range append(append([]string{}, cfg.ToolPaths...), extraToolPaths...) {
		if normalized := NormalizePath(p); normalized != "" {
			tools.Add(normalized)
		}
	}
	var exclude *gitignore.GitIgnore
	if len(cfg.Exclude) > 0 {
		exclude = gitignore.CompileIgnoreLines(cfg.Exclude...)
	}
	return Policy{
		templates: append([]string{}, cfg.Templates...),
		toolPaths: tools,
		exclude:   exclude,
	}
}

// NormalizePath converts p to a cleaned slash-separated relative path.
// It returns "" for paths that point at the root itself.
func NormalizePath(p string) string {
	cleaned := path.Clean(filepath.ToSlash(strings.TrimSpace(p)))
	cleaned = strings.TrimPrefix(cleaned, "./")
	if cleaned == "." || cleaned == "" {
		return ""
	}
	return cleaned
}

// IsTemplate reports whether rel follows the customizable template naming convention.
func (p Policy) IsTemplate(rel string) bool {
	for _, pattern := range p.templates {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Decide applies the skip rules to rel, in precedence order: source-control
// metadata, the tool itself, configured excludes, then templates that exist
// remotely but were never created locally. Everything else is copied.
// local and remote are the template sets of the destination and snapshot.
func (p Policy) Decide(rel string, local mapset.Set[string], remote mapset.Set[string]) Action {
	rel = NormalizePath(rel)
	if HasVCSComponent(rel) {
		return ActionSkipVCS
	}
	if p.toolPaths != nil && p.toolPaths.Contains(rel) {
		return ActionSkipTool
	}
	if p.exclude != nil && p.exclude.MatchesPath(rel) {
		return ActionSkipExcluded
	}
	if p.IsTemplate(rel) && !local.Contains(rel) && remote.Contains(rel) {
		return ActionSkipNewTemplate
	}
	return ActionCopy
}

// HasVCSComponent reports whether any component of rel is the VCS metadata dir.
func HasVCSComponent(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if part == config.VCSDir {
			return true
		}
	}
	return false
}
