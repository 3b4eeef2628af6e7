// Package peg implements the PEG combinator kernel described in spec §4.2:
// ordered choice, sequence, repetition, optional, lookahead, and the
// commit marker, all operating on a shared *cstcore.State. The style here
// — plain func(*State) bool values composed by higher-order functions —
// follows the pack's own PEG combinator libraries (other_examples'
// hucsmn/peg and itsManjeet/exp peg packages), adapted from their
// capture-returning Pattern interface to this module's mutable,
// event-emitting State.
//
// Rule bodies are ordinary Go functions rather than package-level Fn
// variables so that the grammar's mutual recursion (expr -> atom ->
// subquery -> select_stmt -> ... -> expr) never trips Go's initialization
// cycle check, which only applies to variables, not functions.
package peg

import (
	"fmt"

	"github.com/endbase/sqlcst/internal/cstcore"
)

// Fn is a single match attempt at the state's current position. It
// returns whether it matched. A failed leaf matcher may leave Pos past
// the trivia it skipped; every combinator here, and WithRule, restores
// Pos and Events itself after a failed child.
type Fn func(s *cstcore.State) bool

// WithRule runs body as the named rule's invocation: a non-transparent
// rule emits a balanced Open/Close pair around a successful match;
// transparent rules (trivia, or the grammar's <label>-tagged inline
// rules) emit neither. Either way, failure restores both the event
// buffer length and the byte position to what they were on entry.
//
// Every invocation, transparent or not, counts against s.MaxDepth: a
// pathologically nested input (thousands of parenthesized
// subexpressions) recurses through WithRule regardless of which rules
// are transparent, so depth is tracked here rather than only at
// Open/Close boundaries. Exceeding MaxDepth panics with a *cstcore.Fault
// rather than failing the rule, since an exhausted depth budget is an
// abandoned parse, not a backtrackable alternative.
func WithRule(s *cstcore.State, label string, transparent bool, body Fn) bool {
	startPos := s.Pos
	startLen := len(s.Events)
	s.Depth++
	defer func() { s.Depth-- }()
	if s.MaxDepth > 0 && s.Depth > s.MaxDepth {
		panic(cstcore.NewFault(fmt.Sprintf("sqlcst: recursion depth exceeded limit of %d", s.MaxDepth)))
	}
	if s.Tracer != nil {
		s.Tracer.Enter(label, startPos)
	}
	if !transparent {
		s.Events = append(s.Events, cstcore.Event{Kind: cstcore.KindOpen, Label: label, Start: startPos})
	}
	ok := body(s)
	if ok && !transparent {
		s.Events = append(s.Events, cstcore.Event{Kind: cstcore.KindClose})
	}
	if !ok {
		s.TruncateEvents(startLen)
		s.Pos = startPos
	}
	if s.Tracer != nil {
		s.Tracer.Exit(label, startPos, ok)
	}
	return ok
}

// Seq runs each fn in order; any failure rolls position and events back
// to the sequence's entry point.
func Seq(fns ...Fn) Fn {
	return func(s *cstcore.State) bool {
		startPos := s.Pos
		startLen := len(s.Events)
		for _, fn := range fns {
			if !fn(s) {
				s.TruncateEvents(startLen)
				s.Pos = startPos
				return false
			}
		}
		return true
	}
}

// Choice tries each fn left to right, rolling back on every failure, and
// succeeds with the first to match. It fails only if all fail.
func Choice(fns ...Fn) Fn {
	return func(s *cstcore.State) bool {
		startPos := s.Pos
		startLen := len(s.Events)
		for _, fn := range fns {
			if fn(s) {
				return true
			}
			s.TruncateEvents(startLen)
			s.Pos = startPos
		}
		return false
	}
}

// Star matches fn zero or more times, greedily. It never fails.
func Star(fn Fn) Fn {
	return func(s *cstcore.State) bool {
		for {
			pos := s.Pos
			l := len(s.Events)
			if !fn(s) {
				s.TruncateEvents(l)
				s.Pos = pos
				return true
			}
			if s.Pos == pos {
				// fn matched without consuming input; stop to avoid looping forever.
				return true
			}
		}
	}
}

// Plus matches fn one or more times, greedily; it fails if fn never
// matches even once.
func Plus(fn Fn) Fn {
	return Seq(fn, Star(fn))
}

// Opt attempts fn once, ignoring failure either way.
func Opt(fn Fn) Fn {
	return func(s *cstcore.State) bool {
		pos := s.Pos
		l := len(s.Events)
		if !fn(s) {
			s.TruncateEvents(l)
			s.Pos = pos
		}
		return true
	}
}

// And is positive lookahead: it runs fn, unconditionally rolls back
// position and events, and succeeds iff fn succeeded.
func And(fn Fn) Fn {
	return func(s *cstcore.State) bool {
		pos := s.Pos
		l := len(s.Events)
		ok := fn(s)
		s.TruncateEvents(l)
		s.Pos = pos
		return ok
	}
}

// Not is negative lookahead: same as And with the outcome inverted.
func Not(fn Fn) Fn {
	return func(s *cstcore.State) bool {
		pos := s.Pos
		l := len(s.Events)
		ok := fn(s)
		s.TruncateEvents(l)
		s.Pos = pos
		return !ok
	}
}

// Commit marks the remainder of the enclosing sequence or alternative as
// "definitely chosen": it does not change what is accepted (backtracking
// still unwinds fn's failures like any other), but while fn runs, every
// leaf-level failure recorded via State.Fail bypasses the furthest-
// position filter and is unconditionally kept. The committed flag is
// restored to its prior value once fn returns, so sibling alternatives
// that never reached their own commit start fresh.
func Commit(fn Fn) Fn {
	return func(s *cstcore.State) bool {
		prev := s.Committed
		s.Committed = true
		ok := fn(s)
		s.Committed = prev
		return ok
	}
}
