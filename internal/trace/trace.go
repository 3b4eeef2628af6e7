// Package trace implements ambient rule entry/exit tracing: a
// cstcore.Tracer backed by logrus, tagging every parse with a
// google/uuid session id so that interleaved log lines from concurrent
// parses (each with its own State, each still sharing a process-wide
// logger) can be told apart. Grounded on OPA's topdown evaluator
// tracing, which logs rule entry/exit the same way.
package trace

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LogrusTracer logs every rule Enter/Exit at Debug level, tagged with a
// per-parse session id.
type LogrusTracer struct {
	log     *logrus.Entry
	session string
}

// NewLogrusTracer creates a tracer bound to logger, stamping a fresh
// session id. Pass nil for logger to use logrus's standard logger.
func NewLogrusTracer(logger *logrus.Logger) *LogrusTracer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	session := uuid.NewString()
	return &LogrusTracer{
		log:     logger.WithField("session", session),
		session: session,
	}
}

// Session returns the tracer's session id, for correlating a parse's log
// lines with its returned error or report.
func (t *LogrusTracer) Session() string { return t.session }

func (t *LogrusTracer) Enter(label string, pos int) {
	t.log.WithFields(logrus.Fields{"rule": label, "pos": pos}).Debug("enter")
}

func (t *LogrusTracer) Exit(label string, pos int, ok bool) {
	t.log.WithFields(logrus.Fields{"rule": label, "pos": pos, "ok": ok}).Debug("exit")
}
