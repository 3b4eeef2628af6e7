// Package sqlcst parses SQL SELECT statements into a concrete syntax
// tree event stream.
//
// Parsing is two-pass, following endb_lib's own endb_parse_sql_cst: a
// fast first pass runs without error tracking, and only on failure does
// a second, tracking pass re-run to localize and render a diagnostic.
// Successful input never pays for tracking.
//
// Example usage:
//
//	events, err := sqlcst.Parse("query.sql", "SELECT 1")
//	if err != nil {
//	    // err.Error() is an annotated, human-readable diagnostic
//	}
package sqlcst

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/endbase/sqlcst/cstconfig"
	"github.com/endbase/sqlcst/internal/cstcore"
	"github.com/endbase/sqlcst/internal/diag"
	"github.com/endbase/sqlcst/internal/sqlgrammar"
)

// Re-export the event model for convenience, so callers never need to
// import internal/cstcore themselves.
type (
	Event       = cstcore.Event
	Kind        = cstcore.Kind
	PatternKind = cstcore.PatternKind
	Tracer      = cstcore.Tracer
)

const (
	KindOpen    = cstcore.KindOpen
	KindClose   = cstcore.KindClose
	KindLiteral = cstcore.KindLiteral
	KindPattern = cstcore.KindPattern
	KindError   = cstcore.KindError
)

const (
	PatternIdent  = cstcore.PatternIdent
	PatternNumber = cstcore.PatternNumber
	PatternString = cstcore.PatternString
	PatternBlob   = cstcore.PatternBlob
	PatternBind   = cstcore.PatternBind
)

// Events is a parsed document's flat CST event stream: a balanced
// sequence of Open/Close/Literal/Pattern events, in source order.
type Events []Event

// ParseError is returned by Parse when source fails to parse. Error
// renders an annotated, multi-line diagnostic pointing at the furthest
// position the parser reached; Report gives the same information as a
// structured value.
type ParseError struct {
	Filename string
	Report   diag.Report
	source   string
}

func (e *ParseError) Error() string {
	return diag.Annotate(e.source, e.Report.Message, e.Report.Start, e.Report.End)
}

// Parse parses source (SQL text) and returns its CST event stream,
// enforcing cstconfig.DefaultLimits(). filename is used only for
// diagnostics. Use ParseWithLimits to supply caller-tuned limits (e.g.
// loaded via cstconfig.Load).
//
// On a parse failure, the returned error is a *ParseError. Any other
// returned error wraps a *cstcore.Fault: a violated parser invariant rather
// than malformed SQL, recovered from a panic at the package boundary the
// same way endb_lib's C ABI recovers Rust panics.
func Parse(filename, source string) (Events, error) {
	return parse(filename, source, nil, cstconfig.DefaultLimits())
}

// ParseWithLimits behaves like Parse but rejects input over
// limits.MaxInputBytes and aborts with a *cstcore.Fault if the grammar's
// rule nesting ever exceeds limits.MaxRecursionDepth, instead of running
// Parse's built-in defaults.
func ParseWithLimits(filename, source string, limits cstconfig.Limits) (Events, error) {
	return parse(filename, source, nil, limits)
}

// ParseWithTracer behaves like Parse but threads tracer through both
// passes, so callers that want per-rule tracing (see internal/trace) can
// observe even a fast, successful parse.
func ParseWithTracer(filename, source string, tracer Tracer) (Events, error) {
	return parse(filename, source, tracer, cstconfig.DefaultLimits())
}

// ParseWithTracerAndLimits combines ParseWithTracer and ParseWithLimits.
func ParseWithTracerAndLimits(filename, source string, tracer Tracer, limits cstconfig.Limits) (Events, error) {
	return parse(filename, source, tracer, limits)
}

func parse(filename, source string, tracer Tracer, limits cstconfig.Limits) (events Events, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cstcore.NewFault(fmt.Sprintf("sqlcst: internal error: %v", r))
			events = nil
		}
	}()

	if limits.MaxInputBytes > 0 && len(source) > limits.MaxInputBytes {
		return nil, cstcore.NewFault(fmt.Sprintf("sqlcst: input of %d bytes exceeds the %d byte limit", len(source), limits.MaxInputBytes))
	}
	if !utf8.ValidString(source) {
		return nil, cstcore.NewFault("sqlcst: input is not valid UTF-8")
	}

	fast := cstcore.NewState(source, false)
	fast.Tracer = tracer
	fast.MaxDepth = limits.MaxRecursionDepth
	if sqlgrammar.SqlStmtList(fast) {
		return Events(fast.Events), nil
	}

	tracking := cstcore.NewState(source, true)
	tracking.Tracer = tracer
	tracking.MaxDepth = limits.MaxRecursionDepth
	if sqlgrammar.SqlStmtList(tracking) {
		// The untracked and tracked passes disagree: an invariant the
		// grammar relies on (determinism across passes) was violated.
		return nil, cstcore.NewFault("sqlcst: parse outcome differed between tracking passes")
	}
	report := diag.BuildReport(filename, source, tracking)
	return nil, &ParseError{Filename: filename, Report: report, source: source}
}

// Annotate renders message as a single, human-readable diagnostic
// pointing at the byte range [start, end) within source, independent of
// any particular parse — used to report errors discovered by a caller
// after the CST has already been built (e.g. a semantic analysis pass).
func Annotate(source, message string, start, end int) string {
	return diag.Annotate(source, message, start, end)
}

// RenderJSONReport renders the wire JSON form of a diag.Report (as
// produced by marshaling ParseError.Report) back into the annotated
// string Error() would have produced, mirroring endb_lib's
// endb_render_json_error_report entry point for hosts that only have the
// serialized report available.
func RenderJSONReport(reportJSON, source string) (string, error) {
	out, err := diag.RenderJSONReport(reportJSON, source)
	if err != nil {
		return "", errors.Wrap(err, "sqlcst")
	}
	return out, nil
}

// Visit walks events depth-first, calling onOpen when entering a
// structural rule and onClose when leaving it, and onLeaf for every
// Literal or Pattern event encountered in between. It is the simplest
// way to turn the flat Events stream into a caller-specific tree without
// sqlcst itself committing to one tree representation.
func (events Events) Visit(onOpen func(label string, start int), onClose func(), onLeaf func(Event)) {
	for _, e := range events {
		switch e.Kind {
		case KindOpen:
			onOpen(e.Label, e.Start)
		case KindClose:
			onClose()
		case KindLiteral, KindPattern:
			onLeaf(e)
		}
	}
}
