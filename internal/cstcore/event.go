// Package cstcore holds the event and parse-state model shared by the
// combinator kernel, the primitive matchers, and the grammar: the data
// model described for the SQL concrete-syntax-tree parser.
package cstcore

import "sort"

// Kind identifies which of the five event variants an Event carries.
type Kind int

const (
	// KindOpen marks entry into a named, non-transparent rule.
	KindOpen Kind = iota
	// KindClose marks the exit of the most recently opened rule.
	KindClose
	// KindLiteral marks a matched keyword or operator token.
	KindLiteral
	// KindPattern marks a matched regex-class token.
	KindPattern
	// KindError marks a diagnostic, only ever emitted in tracking mode.
	KindError
)

// PatternKind identifies which regex class a KindPattern event matched.
type PatternKind int

const (
	PatternIdent PatternKind = iota
	PatternNumber
	PatternString
	PatternBlob
	PatternBind
)

func (k PatternKind) String() string {
	switch k {
	case PatternIdent:
		return "identifier"
	case PatternNumber:
		return "number"
	case PatternString:
		return "string"
	case PatternBlob:
		return "blob"
	case PatternBind:
		return "bind parameter"
	default:
		return "pattern"
	}
}

// Event is a single tagged record in the CST event stream. Which fields
// are meaningful depends on Kind: Label is set only for KindOpen, Bytes
// only for KindLiteral (the literal's canonical text) and KindError (the
// rendered message), PatKind only for KindPattern, Start for every variant
// except KindClose, and End for KindLiteral, KindPattern and KindError.
type Event struct {
	Kind    Kind
	Label   string
	Bytes   string
	PatKind PatternKind
	Start   int
	End     int
}

// Tracer receives rule entry/exit notifications for optional diagnostic
// logging. See internal/trace for the logrus-backed implementation; the
// kernel never requires one.
type Tracer interface {
	Enter(label string, pos int)
	Exit(label string, pos int, ok bool)
}

// State is the mutable parse state threaded through every combinator and
// matcher call. A State is owned exclusively by one top-level parse; it is
// never shared across goroutines.
type State struct {
	Input string
	Pos   int

	Events []Event

	TrackErrors bool
	Errors      []Event

	// Furthest and Expected implement the furthest-failure heuristic: the
	// byte offset of the deepest failure seen so far, and the set of
	// expected items recorded at that offset.
	Furthest int
	Expected map[string]bool

	// Committed is true while a commit marker's scope is active; see
	// Fail for how it changes failure recording.
	Committed bool

	// Depth is the current nesting count of live rule invocations
	// (peg.WithRule calls that have not yet returned). MaxDepth caps it;
	// zero means unlimited. See peg.WithRule for the enforcement.
	Depth    int
	MaxDepth int

	Tracer Tracer
}

// NewState builds a fresh parse state for a single top-level parse of
// input. trackErrors enables the second, error-tracking pass described in
// spec §4.4.
func NewState(input string, trackErrors bool) *State {
	return &State{
		Input:       input,
		TrackErrors: trackErrors,
		Expected:    make(map[string]bool),
	}
}

// Fail records a leaf-level match failure at offset for the curated,
// user-visible expected label (a literal's own text, or a domain term
// like "identifier"). Only has any effect when TrackErrors is set.
//
// Normally a failure only updates the furthest position/expected-set pair
// when offset is at least as deep as the current furthest (ties merge,
// shallower failures are discarded). A committed failure bypasses that
// filter unconditionally, per spec §4.2/§9: it always becomes the
// recorded failure regardless of how far other, uncommitted alternatives
// reached.
func (s *State) Fail(offset int, expected string) {
	if !s.TrackErrors {
		return
	}
	if s.Committed && offset < s.Furthest {
		s.Furthest = offset
		s.Expected = map[string]bool{expected: true}
		return
	}
	if offset > s.Furthest {
		s.Furthest = offset
		s.Expected = map[string]bool{expected: true}
		return
	}
	if offset == s.Furthest {
		s.Expected[expected] = true
	}
}

// SortedExpected returns the furthest-position expected-item set, sorted
// and deduplicated, for rendering ("expected one of: …").
func (s *State) SortedExpected() []string {
	items := make([]string, 0, len(s.Expected))
	for item := range s.Expected {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}

// TruncateEvents restores the event buffer to length n, as done on rule
// or combinator failure. Capacity is retained; only the length changes.
func (s *State) TruncateEvents(n int) {
	s.Events = s.Events[:n]
}
