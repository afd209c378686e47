package diag

import (
	"symgraph/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// Subject is the source key of the symbol the finding is about, if any.
	Subject string
	Notes   []Note
}
