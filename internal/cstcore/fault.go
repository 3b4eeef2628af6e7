package cstcore

import "github.com/pkg/errors"

// Fault represents a violated invariant — an empty event stack on Close,
// a range outside the input, non-UTF-8 input — as opposed to an ordinary
// parse failure. Faults are never silently swallowed: the boundary that
// recovers a panic wraps it in a Fault so callers can tell "your SQL
// didn't parse" apart from "the parser itself broke".
type Fault struct {
	msg string
}

func (f *Fault) Error() string { return f.msg }

// NewFault wraps msg with a stack trace via github.com/pkg/errors so
// internal tracing can log where an invariant broke, while the message
// surfaced to callers (Fault.Error) stays exactly msg.
func NewFault(msg string) error {
	return errors.WithStack(&Fault{msg: msg})
}

// AsFault reports whether err is (or wraps) a *Fault.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
