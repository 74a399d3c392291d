package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"matebuilder/internal/allocation"
	"matebuilder/internal/logging"
	"matebuilder/internal/snapshot"
)

// snapshotCmd groups export file utilities
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect exported session files",
}

var snapshotValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check that a file is a well-formed snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotValidate,
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show FILE",
	Short: "Print a snapshot's profile, buckets and report",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotShow,
}

func init() {
	snapshotCmd.AddCommand(snapshotValidateCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
}

func runSnapshotValidate(cmd *cobra.Command, args []string) error {
	s, err := snapshot.ReadFile(args[0])
	logging.AuditWithSession("cli").SnapshotOp(logging.AuditSnapshotImport, args[0], err)
	if err != nil {
		return err
	}
	version := fmt.Sprintf("v%d", s.Version)
	if s.Version == 0 {
		version = "legacy (no version)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %s, %d placed tokens, report: %t\n",
		args[0], version, s.Placed(), s.Analysis != nil)
	return nil
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	s, err := snapshot.ReadFile(args[0])
	if err != nil {
		return err
	}
	p := s.UserProfile()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s · %s · %s岁\n\n", p.MBTI, p.GenderLabel(), p.Age)
	for _, b := range allocation.Placements {
		fmt.Fprintf(out, "%-13s %v\n", b, s.Labels(b))
	}
	if s.Analysis != nil {
		fmt.Fprintln(out)
		fmt.Fprint(out, renderMarkdown(reportMarkdown(*s.Analysis), 80))
	}
	return nil
}
