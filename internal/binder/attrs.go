package binder

import (
	"fmt"
	"strconv"

	"symgraph/internal/diag"
	"symgraph/internal/manifest"
	"symgraph/internal/symbols"
)

// decodeAttributes turns manifest annotations into typed attributes.
// Malformed arguments are reported and the annotation is kept as a
// NamedAttribute so nothing written in the manifest is lost.
func decodeAttributes(e *manifest.Entry, r diag.Reporter) []symbols.Attribute {
	if len(e.Attributes) == 0 {
		return nil
	}
	out := make([]symbols.Attribute, 0, len(e.Attributes))
	for _, a := range e.Attributes {
		attr, err := decodeAttribute(a)
		if err != nil {
			diag.ReportWarning(r, diag.ManifestParse, e.Span,
				fmt.Sprintf("attribute %q on %q: %v", a.Name, e.Key, err)).About(e.Key).Emit()
			attr = symbols.NamedAttribute{Name: a.Name, Args: a.Args}
		}
		out = append(out, attr)
	}
	return out
}

func decodeAttribute(a manifest.Attribute) (symbols.Attribute, error) {
	arg := func(def string) string {
		if len(a.Args) == 0 {
			return def
		}
		return a.Args[0]
	}
	switch a.Name {
	case "synced":
		return symbols.SyncedAttribute{Mode: arg("none")}, nil
	case "recursive":
		return symbols.RecursiveAttribute{}, nil
	case "execution_order":
		order, err := strconv.Atoi(arg("0"))
		if err != nil {
			return nil, fmt.Errorf("order must be an integer: %w", err)
		}
		return symbols.ExecutionOrderAttribute{Order: order}, nil
	case "field_callback":
		target := arg("")
		if target == "" {
			return nil, fmt.Errorf("missing target property")
		}
		return symbols.FieldCallbackAttribute{Target: target}, nil
	case "behaviour_sync":
		return symbols.BehaviourSyncAttribute{Mode: arg("any")}, nil
	default:
		return symbols.NamedAttribute{Name: a.Name, Args: a.Args}, nil
	}
}
