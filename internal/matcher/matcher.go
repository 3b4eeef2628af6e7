// Package matcher implements the primitive matchers described in spec
// §4.1: trivia skipping, case-insensitive word-boundary-aware keyword and
// operator matching, and the five regex-class patterns (identifier,
// number, string, blob, bind parameter). Leaf-level scanning follows the
// peek-ahead style of ha1tch/tsqlparser's lexer/lexer.go (isLetter,
// isDigit helpers and manual rune stepping), generalized here to match
// mid-string at an arbitrary byte offset rather than tokenizing the whole
// input up front, since the PEG kernel backtracks to arbitrary positions.
package matcher

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/endbase/sqlcst/internal/cstcore"
)

// Trivia advances past any run of whitespace and "--" line comments. It
// never fails and never emits events.
func Trivia(s *cstcore.State) bool {
	for s.Pos < len(s.Input) {
		r, size := utf8.DecodeRuneInString(s.Input[s.Pos:])
		switch {
		case unicode.IsSpace(r):
			s.Pos += size
		case strings.HasPrefix(s.Input[s.Pos:], "--"):
			s.Pos += 2
			for s.Pos < len(s.Input) {
				r, size := utf8.DecodeRuneInString(s.Input[s.Pos:])
				if r == '\n' || r == '\r' {
					break
				}
				s.Pos += size
			}
		default:
			return true
		}
	}
	return true
}

// isWordRune approximates the "identifier-continue" class used to decide
// whether a keyword match is followed by a word boundary (so ORDER does
// not match a prefix of ORDERING).
func isWordRune(r rune) bool {
	return isIdentContinue(r)
}

// Literal matches text case-insensitively at the current position
// (after skipping trivia). When text ends in a word rune, the match only
// succeeds if the following byte is not itself a word-continue rune. On
// success it emits a Literal event carrying text's own canonical bytes —
// not whatever casing the source used — and the consumed byte range.
func Literal(text string) func(s *cstcore.State) bool {
	return func(s *cstcore.State) bool {
		Trivia(s)
		start := s.Pos
		if start+len(text) > len(s.Input) {
			s.Fail(start, text)
			return false
		}
		if !strings.EqualFold(s.Input[start:start+len(text)], text) {
			s.Fail(start, text)
			return false
		}
		if lastRune := []rune(text)[len([]rune(text))-1]; isWordRune(lastRune) {
			if start+len(text) < len(s.Input) {
				next, _ := utf8.DecodeRuneInString(s.Input[start+len(text):])
				if isWordRune(next) {
					s.Fail(start, text)
					return false
				}
			}
		}
		end := start + len(text)
		s.Pos = end
		s.Events = append(s.Events, cstcore.Event{Kind: cstcore.KindLiteral, Bytes: text, Start: start, End: end})
		return true
	}
}

// isIdentStart approximates Unicode XID_Start: Go's standard library has
// no XID_Start/XID_Continue tables (RE2 doesn't expose them as \p{}
// classes either), so — like ha1tch/tsqlparser's own hand-rolled
// isLetter/isDigit — this is built from unicode.IsLetter plus '_'.
func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

// isIdentContinue approximates XID_Continue: letters, decimal digits,
// combining marks, and '_'.
func isIdentContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}

// Identifier matches one identifier-start rune followed by any number of
// identifier-continue runes.
func Identifier(s *cstcore.State) bool {
	Trivia(s)
	start := s.Pos
	if start >= len(s.Input) {
		s.Fail(start, "identifier")
		return false
	}
	r, size := utf8.DecodeRuneInString(s.Input[start:])
	if !isIdentStart(r) {
		s.Fail(start, "identifier")
		return false
	}
	pos := start + size
	for pos < len(s.Input) {
		r, size := utf8.DecodeRuneInString(s.Input[pos:])
		if !isIdentContinue(r) {
			break
		}
		pos += size
	}
	s.Pos = pos
	s.Events = append(s.Events, cstcore.Event{Kind: cstcore.KindPattern, PatKind: cstcore.PatternIdent, Start: start, End: pos})
	return true
}

var (
	numberRe = regexp.MustCompile(`^(0[xX][0-9A-Fa-f]+|[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?)\b`)
	stringRe = regexp.MustCompile(`^("(?:\\"|[^"])*?"|'(?:''|[^'])*?')`)
	blobRe   = regexp.MustCompile(`^(\b[xX]'[0-9A-Fa-f]*?'|[xX]"[0-9A-Fa-f]*?")`)
)

func regexMatch(re *regexp.Regexp, kind cstcore.PatternKind, expected string) func(s *cstcore.State) bool {
	return func(s *cstcore.State) bool {
		Trivia(s)
		start := s.Pos
		loc := re.FindStringIndex(s.Input[start:])
		if loc == nil || loc[0] != 0 {
			s.Fail(start, expected)
			return false
		}
		end := start + loc[1]
		s.Pos = end
		s.Events = append(s.Events, cstcore.Event{Kind: cstcore.KindPattern, PatKind: kind, Start: start, End: end})
		return true
	}
}

// Number matches a hex literal (0x/0X prefix) or a decimal literal with
// optional fraction and optional signed exponent.
var Number = regexMatch(numberRe, cstcore.PatternNumber, "number")

// String matches a single-quoted string with '' escaping, or a
// double-quoted string with \" escaping.
var String = regexMatch(stringRe, cstcore.PatternString, "string")

// Blob matches x'…'/X"…" surrounding hexadecimal digits.
var Blob = regexMatch(blobRe, cstcore.PatternBlob, "blob")

// BindParameter matches '?' (optionally prefixed ':'), or ':' followed by
// an identifier.
//
// The ":?" form (a colon directly before the bare '?') is preserved
// verbatim per spec §9's open question: it is unclear whether the
// original grammar intended "literally accept the two characters :?" or
// whether it is a leftover from an earlier draft, so it stays accepted
// here pending clarification rather than being quietly dropped.
func BindParameter(s *cstcore.State) bool {
	Trivia(s)
	start := s.Pos
	in := s.Input

	if start < len(in) && in[start] == '?' {
		s.Pos = start + 1
		s.Events = append(s.Events, cstcore.Event{Kind: cstcore.KindPattern, PatKind: cstcore.PatternBind, Start: start, End: s.Pos})
		return true
	}
	if start+1 < len(in) && in[start] == ':' && in[start+1] == '?' {
		s.Pos = start + 2
		s.Events = append(s.Events, cstcore.Event{Kind: cstcore.KindPattern, PatKind: cstcore.PatternBind, Start: start, End: s.Pos})
		return true
	}
	if start < len(in) && in[start] == ':' {
		r, size := utf8.DecodeRuneInString(in[start+1:])
		if start+1 < len(in) && isIdentStart(r) {
			pos := start + 1 + size
			for pos < len(in) {
				r, size := utf8.DecodeRuneInString(in[pos:])
				if !isIdentContinue(r) {
					break
				}
				pos += size
			}
			s.Pos = pos
			s.Events = append(s.Events, cstcore.Event{Kind: cstcore.KindPattern, PatKind: cstcore.PatternBind, Start: start, End: pos})
			return true
		}
	}
	s.Fail(start, "bind parameter")
	return false
}
