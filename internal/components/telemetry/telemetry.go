// Package telemetry is how components report what happened to them. Components
// take an API and never log directly, tests hand them a Recorder.
package telemetry

// API receives reports from components.
//
// Report ids name the component and operation that reported, like
// "client.fetch-report", and are kept in report_* constants next to the
// code that uses them. Details belong in params or in a wrapped error, not in
// the id. Ids are lowercase, with underscores inside component names and dashes
// inside operation names.
type API interface {
	// ReportBroken reports a failure that stops the operation it happened in.
	ReportBroken(id string, params ...any)
	// ReportWarning reports something unexpected that the operation
	// recovered from, like an ambiguous crop name or a header that changed
	// between reports.
	ReportWarning(id string, params ...any)
	// ReportDebug is only shown with --verbose.
	ReportDebug(msg string, params ...any)
	// ReportCount reports a total, like the rows of a walk.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id and debug message with a namespace, usually the
// name of the package reporting.
type ScopedAPI struct {
	prefix string
	inner  API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{prefix: namespace + ": ", inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.prefix+id, params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.prefix+id, params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.prefix+msg, params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.prefix+id, count)
}
