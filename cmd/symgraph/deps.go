package main

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"symgraph/internal/manifest"
	"symgraph/internal/symbols"
)

var depsCmd = &cobra.Command{
	Use:   "deps <symbol>",
	Short: "List what a symbol depends on",
	Long:  `List every symbol reachable from a symbol's direct dependencies, or only the direct ones with --direct`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDeps,
}

func init() {
	depsCmd.Flags().String("kind", "", "only list dependencies of this kind (type|method|field|property|local|parameter|extern)")
	depsCmd.Flags().Bool("direct", false, "list direct dependencies only")
}

func runDeps(cmd *cobra.Command, args []string) error {
	kindStr, err := cmd.Flags().GetString("kind")
	if err != nil {
		return fmt.Errorf("failed to get kind flag: %w", err)
	}
	direct, err := cmd.Flags().GetBool("direct")
	if err != nil {
		return fmt.Errorf("failed to get direct flag: %w", err)
	}
	colored, err := colorEnabled(cmd)
	if err != nil {
		return err
	}

	// полное замыкание можно отдать из кэша без связывания
	if kindStr == "" && !direct {
		if payload, ok := cachedClosures(cmd); ok {
			keys, known := payload.Closures[manifest.NormalizeKey(args[0])]
			if !known {
				return fmt.Errorf("unknown symbol %q", args[0])
			}
			rows := make([][]string, len(keys))
			for i, key := range keys {
				rows[i] = []string{key, payload.Kinds[key], payload.Flags[key]}
			}
			renderTable(cmd.OutOrStdout(), symbolHeader, rows, colored)
			return nil
		}
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	s.printDiagnostics(cmd.ErrOrStderr())
	sym, err := s.lookup(args[0])
	if err != nil {
		return err
	}

	var deps []*symbols.Symbol
	switch {
	case kindStr != "":
		kind, kerr := symbols.ParseKind(kindStr)
		if kerr != nil {
			return kerr
		}
		if direct {
			deps, err = sym.DirectDependenciesOf(kind)
		} else {
			deps, err = sym.AllDependenciesOf(kind)
		}
	case direct:
		deps, err = sym.DirectDependencies()
		if err == nil && !sym.HasDependencies() && !s.st.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "note: %s records no dependencies (%s)\n", sym.Source().SourceKey(), sym.Kind())
		}
	default:
		deps, err = sym.AllDependencies()
	}
	if err != nil {
		return err
	}

	renderTable(cmd.OutOrStdout(), symbolHeader, symbolRows(deps), s.st.color)
	s.storeCache(cmd.ErrOrStderr())
	s.printTimings(cmd.ErrOrStderr())
	return nil
}

var symbolHeader = []string{"SYMBOL", "KIND", "FLAGS"}

// symbolRows sorts by key; closures come back in traversal order.
func symbolRows(syms []*symbols.Symbol) [][]string {
	rows := make([][]string, 0, len(syms))
	for _, sym := range syms {
		rows = append(rows, []string{sym.Source().SourceKey(), sym.Kind().String(), strings.Join(sym.Flags().Strings(), ",")})
	}
	slices.SortFunc(rows, func(a, b []string) int { return cmp.Compare(a[0], b[0]) })
	return rows
}
