package symbols

import (
	"fmt"
	"strings"
)

// Kind classifies what program entity a symbol stands for.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindType
	KindMethod
	KindField
	KindProperty
	KindLocal
	KindParameter
	KindExtern
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	case KindProperty:
		return "property"
	case KindLocal:
		return "local"
	case KindParameter:
		return "parameter"
	case KindExtern:
		return "extern"
	default:
		return "invalid"
	}
}

// ParseKind converts a manifest or CLI spelling into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "type", "class", "struct", "interface", "enum":
		return KindType, nil
	case "method", "function", "ctor", "constructor":
		return KindMethod, nil
	case "field":
		return KindField, nil
	case "property":
		return KindProperty, nil
	case "local":
		return KindLocal, nil
	case "parameter", "param":
		return KindParameter, nil
	case "extern":
		return KindExtern, nil
	default:
		return KindInvalid, fmt.Errorf("unknown symbol kind %q (expected: type|method|field|property|local|parameter|extern)", s)
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	FlagStatic SymbolFlags = 1 << iota
	FlagExtern
	FlagInterface
	FlagAbstract
	FlagVirtual
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 5)
	if f&FlagStatic != 0 {
		labels = append(labels, "static")
	}
	if f&FlagExtern != 0 {
		labels = append(labels, "extern")
	}
	if f&FlagInterface != 0 {
		labels = append(labels, "interface")
	}
	if f&FlagAbstract != 0 {
		labels = append(labels, "abstract")
	}
	if f&FlagVirtual != 0 {
		labels = append(labels, "virtual")
	}
	return labels
}

// String joins the labels with commas, "" when no flag is set.
func (f SymbolFlags) String() string { return strings.Join(f.Strings(), ",") }
