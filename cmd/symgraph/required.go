package main

import (
	"errors"

	"github.com/spf13/cobra"

	"symgraph/internal/order"
	"symgraph/internal/symbols"
)

var requiredCmd = &cobra.Command{
	Use:   "required [symbol...]",
	Short: "List everything that must be emitted for the given entry points",
	Long:  `List the entry points and their transitive dependencies. Without arguments the [graph].entry list of symgraph.toml is used`,
	RunE:  runRequired,
}

func runRequired(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	s.printDiagnostics(cmd.ErrOrStderr())

	keys := args
	if len(keys) == 0 {
		keys = s.st.entry
	}
	if len(keys) == 0 {
		return errors.New("no entry points: pass symbols or set [graph].entry in symgraph.toml")
	}
	roots := make([]*symbols.Symbol, 0, len(keys))
	for _, key := range keys {
		sym, err := s.lookup(key)
		if err != nil {
			return err
		}
		roots = append(roots, sym)
	}
	syms, err := order.Required(roots)
	if err != nil {
		return err
	}
	renderTable(cmd.OutOrStdout(), symbolHeader, symbolRows(syms), s.st.color)
	s.storeCache(cmd.ErrOrStderr())
	s.printTimings(cmd.ErrOrStderr())
	return nil
}
