package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"symgraph/internal/prof"
	"symgraph/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "symgraph",
	Short:         "Symbol dependency graph inspector",
	Long:          `symgraph binds a program manifest into a symbol graph and answers dependency queries over it`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return startProfiling(cmd)
	},
}

var (
	traceCleanup func()
	profSession  *prof.Session
)

// finish runs even when the command failed, so traces and profiles of a
// failing run are still written.
func finish() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	if err := profSession.Stop(); err != nil {
		printError(os.Stderr, err)
	}
	profSession = nil
}

func startProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("memprofile"); err != nil {
		return fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	profSession, err = prof.Start(opts)
	return err
}

func init() {
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(requiredCmd)
	rootCmd.AddCommand(implsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("manifest", "", "program manifest (default: [graph].manifest of symgraph.toml)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("jobs", 0, "max parallel binder workers (0=auto)")
	flags.Bool("no-cache", false, "do not read or write the closure cache")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to collect (0 = unlimited)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "error", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.String("cpuprofile", "", "write a CPU profile to file")
	flags.String("memprofile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	finish()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
