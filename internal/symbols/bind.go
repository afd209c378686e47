package symbols

import (
	"context"

	"symgraph/internal/diag"
)

// BindContext is shared by all binders of one run.
type BindContext struct {
	Table    *Table
	Reporter diag.Reporter
}

// Binder performs the kind-specific binding step for one symbol: resolve
// what its declaration and body reference, then call SetAttributes and
// SetDependencies. Marking the symbol bound is left to Symbol.Bind.
type Binder interface {
	Bind(ctx context.Context, bc *BindContext, sym *Symbol) error
}

// BinderFunc adapts a function to Binder.
type BinderFunc func(ctx context.Context, bc *BindContext, sym *Symbol) error

func (f BinderFunc) Bind(ctx context.Context, bc *BindContext, sym *Symbol) error {
	return f(ctx, bc, sym)
}

// Bind runs b on s and marks s bound when it succeeds. Symbols that are
// bound from construction (externs) are left alone.
func (s *Symbol) Bind(ctx context.Context, bc *BindContext, b Binder) error {
	if s.IsBound() {
		return nil
	}
	if err := b.Bind(ctx, bc, s); err != nil {
		return err
	}
	s.MarkBound()
	return nil
}
