package root

import (
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"
)

const marker = "LAST_VERSION.json"

func TestFindMarkerRootFound(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, marker), []byte(`{"version":"1.0.0"}`), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}

	got, found, err := FindMarkerRoot(sub, marker)
	if err != nil {
		t.Fatalf("FindMarkerRoot error: %v", err)
	}
	if !found {
		t.Fatalf("expected root to be found")
	}
	if got != root {
		t.Fatalf("expected root %s, got %s", root, got)
	}
}

func TestFindMarkerRootMissing(t *testing.T) {
	root := t.TempDir()
	got, found, err := FindMarkerRoot(root, "definitely-not-present-"+marker)
	if err != nil {
		t.Fatalf("FindMarkerRoot error: %v", err)
	}
	if found {
		t.Fatalf("expected not found, got %s", got)
	}
}

func TestFindMarkerRootDirectoryError(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, marker), 0o755); err != nil {
		t.Fatalf("mkdir marker: %v", err)
	}
	if _, _, err := FindMarkerRoot(root, marker); err == nil {
		t.Fatalf("expected error for directory marker")
	}
}

func TestFindTemplateRootPrefersMarker(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, marker), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	nested := filepath.Join(root, "nested")
	if err := os.MkdirAll(filepath.Join(nested, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir nested .git: %v", err)
	}

	got, err := FindTemplateRoot(nested, marker)
	if err != nil {
		t.Fatalf("FindTemplateRoot error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root %s, got %s", root, got)
	}
}

func TestFindTemplateRootUsesGit(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	sub := filepath.Join(root, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}

	got, err := FindTemplateRoot(sub, "missing-"+marker)
	if err != nil {
		t.Fatalf("FindTemplateRoot error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root %s, got %s", root, got)
	}
}

func TestFindTemplateRootUsesGitFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".git"), []byte("gitdir: .git/worktrees/x\n"), 0o644); err != nil {
		t.Fatalf("write .git file: %v", err)
	}

	got, err := FindTemplateRoot(root, "missing-"+marker)
	if err != nil {
		t.Fatalf("FindTemplateRoot error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root %s, got %s", root, got)
	}
}

func TestFindTemplateRootFallsBackToStart(t *testing.T) {
	root := t.TempDir()
	got, err := FindTemplateRoot(root, "missing-"+marker)
	if err != nil {
		t.Fatalf("FindTemplateRoot error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root %s, got %s", root, got)
	}
}

func TestFindRootsRequireStartPath(t *testing.T) {
	if _, _, err := FindMarkerRoot("", marker); err == nil {
		t.Fatal("expected FindMarkerRoot to reject empty start")
	}
	if _, err := FindTemplateRoot("", marker); err == nil {
		t.Fatal("expected FindTemplateRoot to reject empty start")
	}
}

func TestFindTemplateRootGitSpecialFileErrors(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("mkfifo is not supported on windows")
	}

	root := t.TempDir()
	if err := syscall.Mkfifo(filepath.Join(root, ".git"), 0o644); err != nil {
		t.Fatalf("mkfifo .git: %v", err)
	}

	if _, err := FindTemplateRoot(root, "missing-"+marker); err == nil {
		t.Fatal("expected error when .git is neither directory nor regular file")
	}
}
