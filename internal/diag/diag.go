// Package diag renders the furthest-failure state left in a
// cstcore.State after a tracking parse into a human-readable, annotated
// diagnostic and a JSON error report, per spec §4.4/§6/§7.
package diag

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/endbase/sqlcst/internal/cstcore"
)

// Report is the structured diagnostic produced by a failed, tracking
// parse. Its JSON shape is exactly the wire schema spec §6 documents for
// the JSON diagnostic entry point — filename, message, start, end — plus
// Line/Column/Expected as additional fields for callers that want them;
// RenderJSONReport only ever reads filename/message/start/end back out,
// so a document containing just those four fields round-trips correctly.
type Report struct {
	Filename string   `json:"filename"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Expected []string `json:"expected"`
	Message  string   `json:"message"`
}

// BuildReport turns a tracking State's furthest-failure fields into a
// Report, computing the 1-based line/column of the offset within input.
// The reported range is a 1-byte span starting at the furthest offset
// reached, clamped to the input's length.
func BuildReport(filename, input string, s *cstcore.State) Report {
	expected := s.SortedExpected()
	line, column := lineColumn(input, s.Furthest)
	end := s.Furthest + 1
	if end > len(input) {
		end = len(input)
	}
	return Report{
		Filename: filename,
		Start:    s.Furthest,
		End:      end,
		Line:     line,
		Column:   column,
		Expected: expected,
		Message:  renderMessage(expected),
	}
}

func renderMessage(expected []string) string {
	if len(expected) == 0 {
		return "parse error"
	}
	if len(expected) == 1 {
		return fmt.Sprintf("expected %s", expected[0])
	}
	return fmt.Sprintf("expected one of: %s", strings.Join(expected, ", "))
}

func lineColumn(input string, offset int) (line, column int) {
	line = 1
	column = 1
	for i := 0; i < offset && i < len(input); i++ {
		if input[i] == '\n' {
			line++
			column = 1
			continue
		}
		column++
	}
	return line, column
}

// Annotate renders a caret-pointer view of message at the given byte
// range within source, in the style of the original
// endb_annotate_input_with_error: a "line N, column M: message" header,
// the offending source line, and a line of spaces and carets under
// [start, end).
func Annotate(source, message string, start, end int) string {
	line, column := lineColumn(source, start)
	lineStart, lineEnd := lineBounds(source, start)
	lineText := source[lineStart:lineEnd]

	width := end - start
	if width < 1 {
		width = 1
	}
	if column-1+width > len(lineText) {
		width = len(lineText) - (column - 1)
		if width < 1 {
			width = 1
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "line %d, column %d: %s\n", line, column, message)
	b.WriteString(lineText)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", column-1))
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}

func lineBounds(source string, offset int) (start, end int) {
	start = offset
	for start > 0 && source[start-1] != '\n' {
		start--
	}
	end = offset
	for end < len(source) && source[end] != '\n' {
		end++
	}
	return start, end
}

// RenderJSONReport parses reportJSON — the JSON diagnostic entry point's
// documented schema of filename/message/start/end — and re-renders it as
// the annotated single-string form produced by Annotate, mirroring
// endb_render_json_error_report's role of turning the wire JSON shape
// back into the message a user reads. A small, fixed-shape struct like
// Report is simplest decoded with the standard library; none of the
// pack's JSON helper libraries (e.g. a path-query library like gjson)
// buys anything over encoding/json here since there is no dynamic
// traversal to do.
func RenderJSONReport(reportJSON string, source string) (string, error) {
	var r Report
	if err := json.Unmarshal([]byte(reportJSON), &r); err != nil {
		return "", errors.Wrap(err, "diag: malformed error report")
	}
	return Annotate(source, r.Message, r.Start, r.End), nil
}
