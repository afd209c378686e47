package symbols

// Source is the semantic-analysis entity a Symbol wraps. The table keys
// symbols by SourceKey, so two Sources with the same key are the same entity.
type Source interface {
	SourceKey() string
	SourceName() string
	SourceKind() Kind
	SourceFlags() SymbolFlags
	// DeclaringType returns the enclosing type, or a nil interface for top-level entities.
	DeclaringType() Source
}
