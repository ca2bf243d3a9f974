package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/conn-castle/upgrade-ai/internal/messages"
	"github.com/conn-castle/upgrade-ai/internal/reconcile"
)

func newPlanCmd(opts *globalOptions) *cobra.Command {
	var showDiffs bool
	var diffLines int
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   messages.PlanUse,
		Short: messages.PlanShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The plan always checks the remote; the time-gate only limits real runs.
			coordinator, err := newCoordinator(cmd, *opts, true)
			if err != nil {
				return err
			}
			plan, err := coordinator.Plan(cmd.Context(), reconcile.PlanOptions{
				Diffs:        showDiffs,
				DiffMaxLines: diffLines,
			})
			if err != nil {
				return err
			}
			if outputJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(plan)
			}
			return renderPlanText(cmd.OutOrStdout(), plan)
		},
	}
	cmd.Flags().BoolVar(&showDiffs, "diff", false, messages.PlanFlagDiff)
	cmd.Flags().IntVar(&diffLines, "diff-lines", reconcile.DefaultDiffMaxLines, messages.PlanFlagDiffLines)
	cmd.Flags().BoolVar(&outputJSON, "json", false, messages.PlanFlagJSON)
	return cmd
}

func renderPlanText(out io.Writer, plan reconcile.Plan) error {
	if _, err := fmt.Fprintln(out, messages.PlanHeader); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, messages.PlanVersionsFmt, plan.LocalVersion, plan.RemoteVersion); err != nil {
		return err
	}
	if err := writePlanSection(out, messages.PlanSectionAdditions, plan.Filter(reconcile.ChangeAdd)); err != nil {
		return err
	}
	updates := plan.Filter(reconcile.ChangeUpdate)
	if err := writePlanSection(out, messages.PlanSectionUpdates, updates); err != nil {
		return err
	}
	if err := writePlanSection(out, messages.PlanSectionSkipped, plan.Filter(reconcile.ChangeSkip)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, messages.PlanSectionFmt, messages.PlanSectionUnchanged); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, messages.PlanUnchangedCountFmt, len(plan.Filter(reconcile.ChangeUnchanged))); err != nil {
		return err
	}
	return writePlanDiffs(out, updates)
}

func writePlanSection(out io.Writer, title string, entries []reconcile.PlanEntry) error {
	if _, err := fmt.Fprintf(out, messages.PlanSectionFmt, title); err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, messages.PlanNone)
		return err
	}
	for _, entry := range entries {
		var err error
		if entry.Reason != "" {
			_, err = fmt.Fprintf(out, messages.PlanSkipEntryFmt, entry.Path, entry.Reason)
		} else {
			_, err = fmt.Fprintf(out, messages.PlanEntryFmt, entry.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writePlanDiffs(out io.Writer, updates []reconcile.PlanEntry) error {
	wroteHeader := false
	for _, entry := range updates {
		if entry.UnifiedDiff == "" {
			continue
		}
		if !wroteHeader {
			if _, err := fmt.Fprintf(out, messages.PlanSectionFmt, messages.PlanSectionDiffs); err != nil {
				return err
			}
			wroteHeader = true
		}
		if _, err := io.WriteString(out, entry.UnifiedDiff); err != nil {
			return err
		}
	}
	return nil
}
