package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/conn-castle/upgrade-ai/internal/messages"
	"github.com/conn-castle/upgrade-ai/internal/upgrade"
)

var executeFunc = execute

// Version, Commit, and BuildDate are overridden at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

const (
	exitFailure           = 1
	exitRemoteUnavailable = 2
	exitSourceUnavailable = 3
)

func main() {
	runMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

// SilentExitError reports an exit code without emitting error output.
type SilentExitError struct {
	Code int
}

func (e SilentExitError) Error() string {
	return fmt.Sprintf(messages.ExitCodeFmt, e.Code)
}

// execute runs the CLI command with the provided args and output writers.
// Interrupts cancel the command context so in-flight fetches and clones stop.
func execute(args []string, stdout io.Writer, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	cmd.Version = versionString()
	cmd.SetVersionTemplate(messages.VersionTemplate)
	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	} else {
		cmd.SetArgs([]string{})
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

// runMain executes the CLI and converts errors and panics into a single
// error line plus an exit code.
func runMain(args []string, stdout io.Writer, stderr io.Writer, exit func(int)) {
	errColor := color.New(color.FgRed)
	defer func() {
		if r := recover(); r != nil {
			_, _ = errColor.Fprintf(stderr, messages.UnexpectedErrorFmt, fmt.Errorf(messages.UnexpectedPanicFmt, r))
			exit(exitFailure)
		}
	}()

	err := executeFunc(args, stdout, stderr)
	if err == nil {
		return
	}
	var silent *SilentExitError
	if errors.As(err, &silent) {
		exit(silent.Code)
		return
	}
	_, _ = errColor.Fprintf(stderr, messages.ErrorPrefixFmt, err)
	code := exitCode(err)
	switch code {
	case exitRemoteUnavailable:
		_, _ = fmt.Fprintln(stderr, messages.AbortRemoteHint)
	case exitSourceUnavailable:
		_, _ = fmt.Fprintln(stderr, messages.AbortSourceHint)
	}
	exit(code)
}

// exitCode maps an aborting error to the process exit status.
func exitCode(err error) int {
	var silent *SilentExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &silent):
		return silent.Code
	case errors.Is(err, upgrade.ErrRemoteUnavailable):
		return exitRemoteUnavailable
	case errors.Is(err, upgrade.ErrSourceUnavailable):
		return exitSourceUnavailable
	default:
		return exitFailure
	}
}

// versionString formats Version with optional commit and build date metadata.
func versionString() string {
	meta := []string{}
	if Commit != "" && Commit != "unknown" {
		meta = append(meta, fmt.Sprintf(messages.VersionCommitFmt, Commit))
	}
	if BuildDate != "" && BuildDate != "unknown" {
		meta = append(meta, fmt.Sprintf(messages.VersionBuildFmt, BuildDate))
	}
	if len(meta) == 0 {
		return Version
	}
	return fmt.Sprintf(messages.VersionFullFmt, Version, strings.Join(meta, ", "))
}
