// Package binder builds the symbol graph of a manifest: it declares every
// entry, binds them in parallel and resolves every transitive closure.
package binder

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"symgraph/internal/diag"
	"symgraph/internal/manifest"
	"symgraph/internal/observ"
	"symgraph/internal/symbols"
	"symgraph/internal/trace"
)

// Options tune one run.
type Options struct {
	Jobs           int // <= 0 means GOMAXPROCS
	MaxDiagnostics int // <= 0 keeps every diagnostic
	FilterCache    int
}

// Result holds everything a run produced.
type Result struct {
	Program *manifest.Program
	Table   *symbols.Table
	Bag     *diag.Bag
	Timer   *observ.Timer
}

// Run declares, binds and closes every entry of prog. The returned error is
// non-nil on cancellation or when a symbol contract is violated; the latter
// is also reported as an ICE diagnostic.
func Run(ctx context.Context, prog *manifest.Program, opts Options) (*Result, error) {
	if prog == nil {
		return nil, errors.New("binder: nil program")
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	hint, err := safecast.Conv[uint](len(prog.Entries))
	if err != nil {
		return nil, fmt.Errorf("binder: %w", err)
	}

	res := &Result{
		Program: prog,
		Table:   symbols.NewTable(symbols.Hints{Symbols: hint, FilterCache: opts.FilterCache}),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Timer:   observ.NewTimer(),
	}
	bc := &symbols.BindContext{Table: res.Table, Reporter: diag.BagReporter{Bag: res.Bag}}

	tracer := trace.FromContext(ctx)
	runSpan := trace.Begin(tracer, trace.ScopeDriver, "binder", trace.CurrentSpan(ctx))
	defer runSpan.End("")
	ctx = trace.WithSpan(ctx, runSpan)

	syms, err := declareAll(ctx, res, bc)
	if err != nil {
		return res, err
	}
	if err := bindAll(ctx, res, bc, syms, jobs); err != nil {
		return res, err
	}
	if err := closeAll(ctx, res, syms, jobs); err != nil {
		return res, err
	}
	return res, nil
}

func declareAll(ctx context.Context, res *Result, bc *symbols.BindContext) ([]*symbols.Symbol, error) {
	idx := res.Timer.Begin("declare")
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "declare", trace.CurrentSpan(ctx))

	entries := res.Program.Entries
	syms := make([]*symbols.Symbol, len(entries))
	for i, e := range entries {
		sym, err := res.Table.Declare(e)
		if err != nil {
			span.End("failed")
			res.Timer.End(idx, "failed")
			return nil, ice(bc.Reporter, e, err)
		}
		syms[i] = sym
	}

	// Original может ссылаться на запись, объявленную позже
	for i, e := range entries {
		if e.Original == "" {
			continue
		}
		orig, ok := res.Table.Lookup(e.Original)
		if !ok {
			diag.ReportError(bc.Reporter, diag.SemaUnresolvedReference, e.Span,
				fmt.Sprintf("%q is constructed from undeclared symbol %q", e.Key, e.Original)).About(e.Key).Emit()
			continue
		}
		if err := syms[i].SetOriginal(orig); err != nil {
			span.End("failed")
			res.Timer.End(idx, "failed")
			return nil, ice(bc.Reporter, e, err)
		}
	}

	note := fmt.Sprintf("%d symbols", res.Table.Len())
	span.WithExtra("symbols", fmt.Sprint(res.Table.Len())).End("")
	res.Timer.End(idx, note)
	return syms, nil
}

func bindAll(ctx context.Context, res *Result, bc *symbols.BindContext, syms []*symbols.Symbol, jobs int) error {
	idx := res.Timer.Begin("bind")
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePhase, "bind", trace.CurrentSpan(ctx))

	entries := res.Program.Entries
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(syms))))
	for i, sym := range syms {
		e := entries[i]
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			symSpan := trace.Begin(tracer, trace.ScopeSymbol, e.Key, span.ID())
			defer symSpan.End("")

			// внешние символы связаны с момента объявления, но атрибуты у них есть
			if sym.IsBound() {
				if err := sym.SetAttributes(decodeAttributes(e, bc.Reporter)); err != nil {
					return ice(bc.Reporter, e, err)
				}
				return nil
			}
			if err := sym.Bind(gctx, bc, entryBinder{entry: e}); err != nil {
				return ice(bc.Reporter, e, err)
			}
			return nil
		})
	}
	err := g.Wait()
	span.End(status(err))
	res.Timer.End(idx, status(err))
	return err
}

func closeAll(ctx context.Context, res *Result, syms []*symbols.Symbol, jobs int) error {
	idx := res.Timer.Begin("close")
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePhase, "close", trace.CurrentSpan(ctx))
	r := diag.BagReporter{Bag: res.Bag}

	entries := res.Program.Entries
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(syms))))
	for i, sym := range syms {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			all, err := sym.AllDependencies()
			if err != nil {
				return ice(r, entries[i], err)
			}
			trace.Point(tracer, trace.ScopeSymbol, entries[i].Key, fmt.Sprintf("%d deps", len(all)), span.ID())
			return nil
		})
	}
	err := g.Wait()
	note := status(err)
	if err == nil {
		note = fmt.Sprintf("%d closures", res.Table.Stats().Closures)
	}
	span.End(note)
	res.Timer.End(idx, note)
	return err
}

// ice reports a table or symbol contract violation as an internal compiler
// error. Cancellation passes through untouched.
func ice(r diag.Reporter, e *manifest.Entry, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	diag.ReportError(r, diag.ICEContract, e.Span, fmt.Sprintf("internal error: %v", err)).About(e.Key).Emit()
	return fmt.Errorf("binder: %s: %w", e.Key, err)
}

func status(err error) string {
	if err != nil {
		return "failed"
	}
	return ""
}
