// Package diag defines the diagnostic model shared by the manifest loader,
// the binder and the ordering pass.
//
// Diagnostic is the central record: Severity, a compact numeric Code with a
// stable textual ID, a short Message, the Primary span inside the manifest,
// the Subject symbol key and optional Notes.
//
// Phases emit through a Reporter (usually BagReporter) so they do not depend
// on storage or formatting; rendering lives in internal/diagfmt.
//
// Internal compiler errors (ICE*) mark broken binder ordering, such as a
// dependency list assigned twice. They are reported once and abort the run.
package diag
