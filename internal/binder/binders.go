package binder

import (
	"context"
	"fmt"
	"slices"

	"symgraph/internal/diag"
	"symgraph/internal/manifest"
	"symgraph/internal/symbols"
)

// entryBinder binds one manifest entry. Keys that do not resolve are
// reported and dropped; the symbol is still bound with what remains.
type entryBinder struct {
	entry *manifest.Entry
}

func (b entryBinder) Bind(_ context.Context, bc *symbols.BindContext, sym *symbols.Symbol) error {
	e := b.entry
	if err := sym.SetAttributes(decodeAttributes(e, bc.Reporter)); err != nil {
		return err
	}

	deps := make([]*symbols.Symbol, 0, 8)
	add := func(dep *symbols.Symbol) {
		if dep != nil && !slices.Contains(deps, dep) {
			deps = append(deps, dep)
		}
	}

	switch sym.Kind() {
	case symbols.KindType:
		add(resolve(bc, e, e.Base))
		for _, key := range e.Implements {
			add(resolve(bc, e, key))
		}
		add(sym.ContainingType())
		for _, key := range e.References {
			add(resolve(bc, e, key))
		}
	case symbols.KindMethod:
		add(resolve(bc, e, e.Returns))
		for _, key := range e.Params {
			add(resolve(bc, e, key))
		}
		for _, key := range e.References {
			add(resolve(bc, e, key))
		}
		add(sym.ContainingType())
	case symbols.KindField, symbols.KindProperty, symbols.KindLocal, symbols.KindParameter:
		add(resolve(bc, e, e.Type))
		for _, key := range e.References {
			add(resolve(bc, e, key))
		}
	}
	if err := sym.SetDependencies(deps); err != nil {
		return err
	}
	return linkHierarchy(bc, e, sym)
}

// linkHierarchy records overrides and interface implementations. Only
// interface-flagged types can be implemented, and only virtual, abstract or
// interface members can be overridden.
func linkHierarchy(bc *symbols.BindContext, e *manifest.Entry, sym *symbols.Symbol) error {
	if sym.Kind() == symbols.KindType {
		if base := resolveQuiet(bc, e.Base); base != nil {
			base.AddImplementation(sym)
		}
		for _, key := range e.Implements {
			iface := resolveQuiet(bc, key)
			switch {
			case iface == nil:
			case !iface.IsInterface():
				diag.ReportError(bc.Reporter, diag.SemaNotInterface, e.Span,
					fmt.Sprintf("%q implements %q, which is not an interface", e.Key, key)).About(e.Key).Emit()
			default:
				iface.AddImplementation(sym)
			}
		}
		return nil
	}
	if e.Overrides == "" {
		return nil
	}
	base, ok := bc.Table.Lookup(e.Overrides)
	switch {
	case !ok:
		diag.ReportError(bc.Reporter, diag.SemaBadOverride, e.Span,
			fmt.Sprintf("%q overrides unknown member %q", e.Key, e.Overrides)).About(e.Key).Emit()
		return nil
	case base == sym || base.Kind() != sym.Kind():
		diag.ReportError(bc.Reporter, diag.SemaBadOverride, e.Span,
			fmt.Sprintf("%s %q cannot override %s %q", sym.Kind(), e.Key, base.Kind(), e.Overrides)).About(e.Key).Emit()
		return nil
	case !base.IsOverridable():
		diag.ReportError(bc.Reporter, diag.SemaBadOverride, e.Span,
			fmt.Sprintf("%q overrides %q, which is neither virtual nor abstract", e.Key, e.Overrides)).About(e.Key).Emit()
		return nil
	}
	return sym.SetOverridden(base)
}

func resolve(bc *symbols.BindContext, e *manifest.Entry, key string) *symbols.Symbol {
	if key == "" {
		return nil
	}
	sym, ok := bc.Table.Lookup(key)
	if !ok {
		diag.ReportError(bc.Reporter, diag.SemaUnresolvedReference, e.Span,
			fmt.Sprintf("%q references undeclared symbol %q", e.Key, key)).About(e.Key).Emit()
		return nil
	}
	return sym
}

func resolveQuiet(bc *symbols.BindContext, key string) *symbols.Symbol {
	if key == "" {
		return nil
	}
	sym, _ := bc.Table.Lookup(key)
	return sym
}
