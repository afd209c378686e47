package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var implsCmd = &cobra.Command{
	Use:   "impls <symbol>",
	Short: "List overrides of a member or implementers of a type",
	Args:  cobra.ExactArgs(1),
	RunE:  runImpls,
}

func runImpls(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	s.printDiagnostics(cmd.ErrOrStderr())
	sym, err := s.lookup(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if base := sym.Overridden(); base != nil && !s.st.quiet {
		fmt.Fprintf(out, "%s overrides %s\n", sym.Source().SourceKey(), base.Source().SourceKey())
	}
	renderTable(out, symbolHeader, symbolRows(sym.Implementations()), s.st.color)
	s.printTimings(cmd.ErrOrStderr())
	return nil
}
