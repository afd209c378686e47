package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"symgraph/internal/binder"
	"symgraph/internal/cache"
	"symgraph/internal/diag"
	"symgraph/internal/diagfmt"
	"symgraph/internal/manifest"
	"symgraph/internal/source"
	"symgraph/internal/symbols"
)

const noManifestMessage = "no manifest given\nplease pass --manifest or add [graph].manifest to symgraph.toml"

// settings merges persistent flags over symgraph.toml.
type settings struct {
	manifest       string
	entry          []string
	jobs           int
	useCache       bool
	maxDiagnostics int
	color          bool
	quiet          bool
	timings        bool
	baseDir        string
}

func resolveSettings(cmd *cobra.Command) (settings, error) {
	flags := cmd.Root().PersistentFlags()
	var st settings

	cfg, err := discoverConfig(".")
	if err != nil {
		return st, err
	}
	if cfg != nil {
		st.manifest = cfg.Graph.Manifest
		st.entry = cfg.Graph.Entry
		st.jobs = cfg.Build.Jobs
		st.baseDir = cfg.Root
	}
	st.useCache = cfg == nil || cfg.Build.Cache == nil || *cfg.Build.Cache

	if flags.Changed("manifest") || st.manifest == "" {
		if st.manifest, err = flags.GetString("manifest"); err != nil {
			return st, fmt.Errorf("failed to get manifest flag: %w", err)
		}
	}
	if st.manifest == "" {
		return st, errors.New(noManifestMessage)
	}
	if flags.Changed("jobs") || st.jobs == 0 {
		if st.jobs, err = flags.GetInt("jobs"); err != nil {
			return st, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return st, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	st.useCache = st.useCache && !noCache
	if st.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return st, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if st.quiet, err = flags.GetBool("quiet"); err != nil {
		return st, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if st.timings, err = flags.GetBool("timings"); err != nil {
		return st, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if st.color, err = colorEnabled(cmd); err != nil {
		return st, err
	}
	return st, nil
}

func colorEnabled(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(mode) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto":
		return isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("unsupported color mode %q (must be auto, on or off)", mode)
	}
}

// session is one loaded and bound manifest.
type session struct {
	st   settings
	fs   *source.FileSet
	prog *manifest.Program
	res  *binder.Result
	bag  *diag.Bag
}

// openSession loads the manifest and runs the binder. Diagnostics are kept in
// s.bag; the error is non-nil only when no graph could be built.
func openSession(cmd *cobra.Command) (*session, error) {
	st, err := resolveSettings(cmd)
	if err != nil {
		return nil, err
	}
	s := &session{st: st, fs: source.NewFileSet(), bag: diag.NewBag(st.maxDiagnostics)}

	s.prog, err = manifest.Load(s.fs, st.manifest, diag.BagReporter{Bag: s.bag})
	if err != nil {
		s.printDiagnostics(cmd.ErrOrStderr())
		return nil, err
	}
	s.res, err = binder.Run(cmd.Context(), s.prog, binder.Options{Jobs: st.jobs, MaxDiagnostics: st.maxDiagnostics})
	if s.res != nil {
		s.bag.Merge(s.res.Bag)
	}
	if err != nil {
		s.printDiagnostics(cmd.ErrOrStderr())
		if errors.Is(err, symbols.ErrInvalidState) || errors.Is(err, symbols.ErrNotType) {
			dumpTrace(cmd, cmd.ErrOrStderr())
		}
		return nil, err
	}
	return s, nil
}

// lookup resolves a key typed on the command line the way the manifest
// spells keys.
func (s *session) lookup(key string) (*symbols.Symbol, error) {
	e, ok := s.prog.Lookup(manifest.NormalizeKey(key))
	if !ok {
		return nil, fmt.Errorf("unknown symbol %q", key)
	}
	sym, ok := s.res.Table.Lookup(e.Key)
	if !ok {
		return nil, fmt.Errorf("symbol %q is not declared", e.Key)
	}
	return sym, nil
}

func (s *session) printDiagnostics(w io.Writer) {
	if s.bag.Len() == 0 || (s.st.quiet && !s.bag.HasErrors()) {
		return
	}
	s.bag.Sort()
	diagfmt.Pretty(w, s.bag, s.fs, diagfmt.PrettyOpts{
		Color:     s.st.color,
		Context:   1,
		PathMode:  diagfmt.PathModeRelative,
		BaseDir:   s.st.baseDir,
		ShowNotes: true,
	})
}

func (s *session) printTimings(w io.Writer) {
	if s.st.timings && s.res != nil {
		fmt.Fprint(w, s.res.Timer.Summary())
	}
}

// storeCache records the closures of an error-free run.
func (s *session) storeCache(w io.Writer) {
	if !s.st.useCache || s.bag.HasErrors() {
		return
	}
	c, err := cache.Open("symgraph")
	if err != nil {
		fmt.Fprintf(w, "cache: %v\n", err)
		return
	}
	payload, err := cache.Snapshot(s.prog.Path, s.prog.Hash, s.res.Table, s.res.Timer.Report())
	if err == nil {
		err = c.Put(s.prog.Hash, payload)
	}
	if err != nil {
		fmt.Fprintf(w, "cache: %v\n", err)
	}
}

// cachedClosures returns the cached payload for the configured manifest
// without binding anything.
func cachedClosures(cmd *cobra.Command) (*cache.Payload, bool) {
	st, err := resolveSettings(cmd)
	if err != nil || !st.useCache {
		return nil, false
	}
	fs := source.NewFileSet()
	id, err := fs.Load(st.manifest)
	if err != nil {
		return nil, false
	}
	c, err := cache.Open("symgraph")
	if err != nil {
		return nil, false
	}
	payload, ok, err := c.Get(fs.Get(id).Hash)
	if err != nil || !ok {
		return nil, false
	}
	return payload, true
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "symgraph: %v\n", err)
}
