package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"symgraph/internal/trace"
)

// setupTracing attaches a tracer built from the --trace flags to the command
// context. At the default error level only the in-memory ring is kept so
// that an internal error can dump the events leading up to it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	output, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}
	// --trace без явного уровня подразумевает фазы
	if output != "" && !flags.Changed("trace-level") {
		level = trace.LevelPhase
	}

	tracer, err := trace.New(trace.Config{Level: level, Format: format, OutputPath: output})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

// dumpTrace writes the ring of recent events after an internal error.
func dumpTrace(cmd *cobra.Command, w io.Writer) {
	tracer := trace.FromContext(cmd.Context())
	fmt.Fprintln(w, "--- recent trace events ---")
	if err := trace.DumpRing(tracer, w); err != nil {
		fmt.Fprintf(w, "trace: %v\n", err)
	}
}
