package symbols

import (
	"slices"
	"strings"
)

// Attribute is an annotation attached to a symbol declaration.
type Attribute interface {
	AttributeName() string
}

// SyncedAttribute marks a field as network-synchronised with the given interpolation mode.
type SyncedAttribute struct{ Mode string }

func (SyncedAttribute) AttributeName() string { return "synced" }

// RecursiveAttribute allows a method to re-enter itself.
type RecursiveAttribute struct{}

func (RecursiveAttribute) AttributeName() string { return "recursive" }

// ExecutionOrderAttribute sets the relative update order of a behaviour type.
type ExecutionOrderAttribute struct{ Order int }

func (ExecutionOrderAttribute) AttributeName() string { return "execution_order" }

// FieldCallbackAttribute routes field writes through the named property.
type FieldCallbackAttribute struct{ Target string }

func (FieldCallbackAttribute) AttributeName() string { return "field_callback" }

// BehaviourSyncAttribute selects the sync mode of a behaviour type.
type BehaviourSyncAttribute struct{ Mode string }

func (BehaviourSyncAttribute) AttributeName() string { return "behaviour_sync" }

// NamedAttribute keeps annotations that have no dedicated type.
type NamedAttribute struct {
	Name string
	Args []string
}

func (a NamedAttribute) AttributeName() string { return a.Name }

func (a NamedAttribute) String() string {
	if len(a.Args) == 0 {
		return a.Name
	}
	return a.Name + "(" + strings.Join(a.Args, ", ") + ")"
}

// SetAttributes stores an ordered snapshot of attrs. It may be called once.
func (s *Symbol) SetAttributes(attrs []Attribute) error {
	if !s.attrs.set(slices.Clone(attrs)) {
		return contractErr("SetAttributes", s, "attributes already set")
	}
	return nil
}

// Attributes returns the stored annotations. Unset reads as empty: some
// passes look at attributes before the binder has attached them.
// The returned slice must not be modified.
func (s *Symbol) Attributes() []Attribute {
	attrs, _ := s.attrs.get()
	return attrs
}

// HasAttribute reports whether s carries an attribute of dynamic type T.
func HasAttribute[T Attribute](s *Symbol) bool {
	_, ok := GetAttribute[T](s)
	return ok
}

// GetAttribute returns the first attribute of dynamic type T.
func GetAttribute[T Attribute](s *Symbol) (T, bool) {
	for _, attr := range s.Attributes() {
		if typed, ok := attr.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}
