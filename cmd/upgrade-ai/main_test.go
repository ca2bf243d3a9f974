package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/conn-castle/upgrade-ai/internal/upgrade"
)

func TestMainVersion(t *testing.T) {
	var out bytes.Buffer
	if err := execute([]string{"upgrade-ai", "--version"}, &out, &out); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out.String(), Version) {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestMainUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := execute([]string{"upgrade-ai", "unknown"}, &out, &out)
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunMainSuccess(t *testing.T) {
	var out bytes.Buffer
	called := false
	runMain([]string{"upgrade-ai", "--version"}, &out, &out, func(code int) {
		called = true
	})
	if called {
		t.Fatalf("unexpected exit")
	}
}

func TestRunMainError(t *testing.T) {
	var out bytes.Buffer
	code := 0
	runMain([]string{"upgrade-ai", "unknown"}, &out, &out, func(exitCode int) {
		code = exitCode
	})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "ERROR: unknown command") {
		t.Fatalf("expected error output, got %q", out.String())
	}
}

func TestRunMainRecoversPanic(t *testing.T) {
	orig := executeFunc
	t.Cleanup(func() { executeFunc = orig })
	executeFunc = func(args []string, stdout, stderr io.Writer) error {
		panic("boom")
	}

	var out bytes.Buffer
	code := 0
	runMain([]string{"upgrade-ai"}, &out, &out, func(c int) { code = c })
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out.String(), "ERROR: Unexpected error: unexpected panic: boom") {
		t.Fatalf("expected panic message, got %q", out.String())
	}
	if strings.Contains(out.String(), "goroutine") {
		t.Fatalf("expected no stack trace, got %q", out.String())
	}
}

func TestRunMainSilentExit(t *testing.T) {
	orig := executeFunc
	t.Cleanup(func() { executeFunc = orig })
	executeFunc = func(args []string, stdout, stderr io.Writer) error {
		return &SilentExitError{Code: 4}
	}

	var out bytes.Buffer
	code := 0
	runMain([]string{"upgrade-ai"}, &out, &out, func(c int) { code = c })
	if code != 4 {
		t.Fatalf("expected exit 4, got %d", code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"remote", fmt.Errorf("%w: dial tcp", upgrade.ErrRemoteUnavailable), exitRemoteUnavailable},
		{"source", fmt.Errorf("%w: git clone failed", upgrade.ErrSourceUnavailable), exitSourceUnavailable},
		{"silent", &SilentExitError{Code: 7}, 7},
		{"other", errors.New("disk full"), exitFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Fatalf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestMainCallsExecute(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	os.Args = []string{"upgrade-ai", "--version"}
	main()
}

func TestVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origDate
	})

	Version, Commit, BuildDate = "v1.2.3", "unknown", "unknown"
	if got := versionString(); got != "v1.2.3" {
		t.Fatalf("unexpected version %q", got)
	}
	Commit, BuildDate = "abc123", "2026-01-02"
	if got := versionString(); got != "v1.2.3 (commit abc123, built 2026-01-02)" {
		t.Fatalf("unexpected version %q", got)
	}
}
