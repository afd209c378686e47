package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"symgraph/internal/diag"
	"symgraph/internal/order"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Print an emission order with dependencies first",
	Args:  cobra.NoArgs,
	RunE:  runOrder,
}

func init() {
	orderCmd.Flags().Bool("batches", false, "group symbols into waves that can be emitted in parallel")
}

func runOrder(cmd *cobra.Command, _ []string) error {
	batches, err := cmd.Flags().GetBool("batches")
	if err != nil {
		return fmt.Errorf("failed to get batches flag: %w", err)
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	g, err := order.BuildGraph(s.res.Table)
	if err != nil {
		return err
	}
	topo := order.ToposortKahn(g)
	order.ReportCycles(g, topo, diag.BagReporter{Bag: s.bag})
	s.printDiagnostics(cmd.ErrOrStderr())

	out := cmd.OutOrStdout()
	if batches {
		for i, batch := range topo.Batches {
			keys := make([]string, len(batch))
			for j, sym := range g.Symbols(batch) {
				keys[j] = sym.Source().SourceKey()
			}
			fmt.Fprintf(out, "%d: %s\n", i+1, strings.Join(keys, " "))
		}
		if topo.Cyclic {
			keys := make([]string, len(topo.Cycles))
			for j, sym := range g.Symbols(topo.Cycles) {
				keys[j] = sym.Source().SourceKey()
			}
			fmt.Fprintf(out, "cyclic: %s\n", strings.Join(keys, " "))
		}
	} else {
		cyclic := make(map[string]bool, len(topo.Cycles))
		for _, sym := range g.Symbols(topo.Cycles) {
			cyclic[sym.Source().SourceKey()] = true
		}
		rows := make([][]string, 0, len(topo.Order))
		for i, sym := range g.Symbols(topo.Order) {
			key := sym.Source().SourceKey()
			note := ""
			if cyclic[key] {
				note = "cycle"
			}
			rows = append(rows, []string{fmt.Sprint(i + 1), key, sym.Kind().String(), note})
		}
		renderTable(out, []string{"#", "SYMBOL", "KIND", "NOTE"}, rows, s.st.color)
	}
	s.storeCache(cmd.ErrOrStderr())
	s.printTimings(cmd.ErrOrStderr())
	return nil
}
