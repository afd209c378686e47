package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"symgraph/internal/diag"
	"symgraph/internal/diagfmt"
	"symgraph/internal/order"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the manifest and report every diagnostic",
	Long:  `Load and bind the manifest, resolve every closure and report unresolved references, bad overrides and dependency cycles`,
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	strict, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	g, err := order.BuildGraph(s.res.Table)
	if err != nil {
		return err
	}
	order.ReportCycles(g, order.ToposortKahn(g), diag.BagReporter{Bag: s.bag})
	s.bag.Sort()
	s.bag.Dedup()

	out := cmd.OutOrStdout()
	if format == "json" {
		if err := diagfmt.JSON(out, s.bag, s.fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			PathMode:         diagfmt.PathModeRelative,
			BaseDir:          s.st.baseDir,
		}); err != nil {
			return err
		}
	} else {
		s.printDiagnostics(out)
	}

	errs, warns := countSeverities(s.bag)
	s.storeCache(cmd.ErrOrStderr())
	s.printTimings(cmd.ErrOrStderr())
	if errs > 0 || (strict && warns > 0) {
		return fmt.Errorf("%d error(s), %d warning(s)", errs, warns)
	}
	if format == "pretty" && !s.st.quiet {
		stats := s.res.Table.Stats()
		fmt.Fprintf(out, "ok: %d symbols, %d closures, %d warning(s)\n", s.res.Table.Len(), stats.Closures, warns)
	}
	return nil
}

func countSeverities(bag *diag.Bag) (errs, warns int) {
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	return errs, warns
}
