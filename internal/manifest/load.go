package manifest

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"symgraph/internal/diag"
	"symgraph/internal/source"
	"symgraph/internal/symbols"
)

// Program is a loaded, validated manifest.
type Program struct {
	Path    string
	File    source.FileID
	Hash    [32]byte
	Entries []*Entry

	byKey map[string]*Entry
}

type document struct {
	Symbols []*Entry `toml:"symbol"`
}

// Lookup finds an entry by key.
func (p *Program) Lookup(key string) (*Entry, bool) {
	e, ok := p.byKey[key]
	return e, ok
}

// Load reads path into fs, decodes it and validates the entries. Entries
// with a broken key or kind are dropped with a diagnostic; a broken
// containing link is dropped and the entry kept. The error is non-nil only
// when the file cannot be read or decoded at all.
func Load(fs *source.FileSet, path string, r diag.Reporter) (*Program, error) {
	id, err := fs.Load(path)
	if err != nil {
		diag.ReportError(r, diag.IOLoadFileError, source.Span{}, fmt.Sprintf("cannot read manifest %s: %v", path, err)).Emit()
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return Decode(fs, id, r)
}

// Decode parses a file already held by fs.
func Decode(fs *source.FileSet, id source.FileID, r diag.Reporter) (*Program, error) {
	file := fs.Get(id)
	if file == nil {
		return nil, fmt.Errorf("manifest: unknown file %d", id)
	}

	var doc document
	meta, err := toml.Decode(string(file.Content), &doc)
	if err != nil {
		span := source.Span{File: id}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			start, startErr := safecast.Conv[uint32](perr.Position.Start)
			length, lenErr := safecast.Conv[uint32](perr.Position.Len)
			if startErr == nil && lenErr == nil {
				span = source.Span{File: id, Start: start, End: start + length}
			}
		}
		diag.ReportError(r, diag.ManifestParse, span, fmt.Sprintf("malformed manifest: %v", err)).Emit()
		return nil, fmt.Errorf("manifest %s: %w", file.Path, err)
	}
	for _, key := range meta.Undecoded() {
		diag.ReportWarning(r, diag.ManifestParse, source.Span{File: id}, fmt.Sprintf("unknown manifest field %q ignored", key.String())).Emit()
	}

	prog := &Program{
		Path:    file.Path,
		File:    id,
		Hash:    file.Hash,
		Entries: make([]*Entry, 0, len(doc.Symbols)),
		byKey:   make(map[string]*Entry, len(doc.Symbols)),
	}

	var cursor uint32
	for _, e := range doc.Symbols {
		normalizeEntry(e)
		e.Span, cursor = locate(fs, id, e.Key, cursor)

		if e.Key == "" {
			diag.ReportError(r, diag.ManifestEmptyKey, e.Span, "symbol entry has no key").Emit()
			continue
		}
		kind, err := symbols.ParseKind(e.Kind)
		if err != nil {
			diag.ReportError(r, diag.ManifestUnknownKind, e.Span, err.Error()).About(e.Key).Emit()
			continue
		}
		e.kind = kind
		if prev, dup := prog.byKey[e.Key]; dup {
			diag.ReportError(r, diag.ManifestDuplicateKey, e.Span, fmt.Sprintf("duplicate symbol %q", e.Key)).
				About(e.Key).
				WithNote(prev.Span, "previous declaration here").
				Emit()
			continue
		}
		prog.byKey[e.Key] = e
		prog.Entries = append(prog.Entries, e)
	}

	for _, e := range prog.Entries {
		if e.Containing == "" {
			continue
		}
		owner, ok := prog.byKey[e.Containing]
		switch {
		case !ok:
			diag.ReportError(r, diag.ManifestMissingContaining, e.Span,
				fmt.Sprintf("containing type %q of %q is not declared", e.Containing, e.Key)).About(e.Key).Emit()
		case owner.kind != symbols.KindType:
			diag.ReportError(r, diag.SemaBadContainingType, e.Span,
				fmt.Sprintf("%q is a %s and cannot contain %q", owner.Key, owner.kind, e.Key)).
				About(e.Key).
				WithNote(owner.Span, "declared here").
				Emit()
		default:
			e.decl = owner
		}
	}
	breakContainmentCycles(prog, r)
	return prog, nil
}

// breakContainmentCycles drops containing links that loop back on themselves.
func breakContainmentCycles(prog *Program, r diag.Reporter) {
	for _, e := range prog.Entries {
		seen := []*Entry{e}
		for owner := e.decl; owner != nil; owner = owner.decl {
			if slices.Contains(seen, owner) {
				diag.ReportError(r, diag.SemaBadContainingType, e.Span,
					fmt.Sprintf("containing chain of %q loops back on itself", e.Key)).About(e.Key).Emit()
				e.decl = nil
				break
			}
			seen = append(seen, owner)
		}
	}
}

func locate(fs *source.FileSet, id source.FileID, key string, cursor uint32) (source.Span, uint32) {
	header, ok := fs.FindLine(id, "[[symbol]]", cursor)
	if !ok {
		return source.Span{File: id, Start: cursor, End: cursor}, cursor
	}
	next := header.End
	if key != "" {
		if span, ok := fs.FindLine(id, `"`+key+`"`, header.End); ok {
			return span, next
		}
	}
	return header, next
}

func normalizeEntry(e *Entry) {
	e.Key = NormalizeKey(e.Key)
	e.Name = NormalizeKey(e.Name)
	e.Containing = NormalizeKey(e.Containing)
	e.Base = NormalizeKey(e.Base)
	e.Type = NormalizeKey(e.Type)
	e.Returns = NormalizeKey(e.Returns)
	e.Overrides = NormalizeKey(e.Overrides)
	e.Original = NormalizeKey(e.Original)
	e.Implements = cleanAll(e.Implements)
	e.Params = cleanAll(e.Params)
	e.References = cleanAll(e.References)
	for i := range e.Attributes {
		e.Attributes[i].Name = strings.ToLower(NormalizeKey(e.Attributes[i].Name))
	}
}

// clean trims and NFC-normalises an identifier so that keys typed with
// different Unicode compositions name the same entity.
func NormalizeKey(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func cleanAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = NormalizeKey(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
