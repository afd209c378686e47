package manifest

import (
	"strings"

	"symgraph/internal/source"
	"symgraph/internal/symbols"
)

// Attribute is an annotation as written in the manifest.
type Attribute struct {
	Name string   `toml:"name"`
	Args []string `toml:"args"`
}

// Entry describes one program entity. It is the symbols.Source the table wraps.
type Entry struct {
	Key        string      `toml:"key"`
	Kind       string      `toml:"kind"`
	Name       string      `toml:"name"`
	Containing string      `toml:"containing"`
	Static     bool        `toml:"static"`
	Extern     bool        `toml:"extern"`
	Interface  bool        `toml:"interface"`
	Abstract   bool        `toml:"abstract"`
	Virtual    bool        `toml:"virtual"`
	Base       string      `toml:"base"`
	Implements []string    `toml:"implements"`
	Type       string      `toml:"type"`
	Returns    string      `toml:"returns"`
	Params     []string    `toml:"params"`
	References []string    `toml:"references"`
	Overrides  string      `toml:"overrides"`
	Original   string      `toml:"original"`
	Attributes []Attribute `toml:"attribute"`

	// Span points at the entry's key line.
	Span source.Span `toml:"-"`

	kind symbols.Kind
	decl *Entry
}

func (e *Entry) SourceKey() string { return e.Key }

func (e *Entry) SourceName() string {
	if e.Name != "" {
		return e.Name
	}
	if i := strings.LastIndexByte(e.Key, '.'); i >= 0 {
		return e.Key[i+1:]
	}
	return e.Key
}

func (e *Entry) SourceKind() symbols.Kind { return e.kind }

func (e *Entry) SourceFlags() symbols.SymbolFlags {
	var flags symbols.SymbolFlags
	if e.Static {
		flags |= symbols.FlagStatic
	}
	if e.Extern {
		flags |= symbols.FlagExtern
	}
	if e.Interface {
		flags |= symbols.FlagInterface
	}
	if e.Abstract {
		flags |= symbols.FlagAbstract
	}
	if e.Virtual {
		flags |= symbols.FlagVirtual
	}
	return flags
}

// SourceSpan points at the entry's key line in the manifest.
func (e *Entry) SourceSpan() source.Span { return e.Span }

// DeclaringType returns the containing entry, or nil for top-level entries.
func (e *Entry) DeclaringType() symbols.Source {
	if e.decl == nil {
		return nil
	}
	return e.decl
}
