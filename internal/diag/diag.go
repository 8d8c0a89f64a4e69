// Package diag renders parser diagnostics to a logrus logger.
//
// Severity, structured fields (file, line, col) and the process exit-code
// decision all flow through one logger instead of scattered
// fmt.Fprintf(os.Stderr, ...) calls, matching the rest of the domain stack's
// preference for a library over a hand-rolled equivalent.
package diag

import (
	"io"

	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"

	"github.com/tisannai/mucgly/internal/parser"
)

// Formatter wraps an easy.Formatter configured to print nothing but the
// already-composed wire-format message: Diagnostic.Error() has already done
// the work of assembling "mucgly <severity> in \"<file>:<line>:<col>\":
// <message>", so the logrus layer contributes structured fields (visible to
// a JSON-hook or test, via entry.Data) without duplicating that text.
type Formatter struct {
	base *easy.Formatter
}

// NewFormatter returns the Formatter used by every Logger constructed by
// NewLogger.
func NewFormatter() *Formatter {
	return &Formatter{
		base: &easy.Formatter{
			LogFormat: "%msg%\n",
		},
	}
}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	return f.base.Format(entry)
}

// NewLogger builds a logrus.Logger that writes to w using Formatter. Every
// level is enabled; severity selection happens in Log, not here.
func NewLogger(w io.Writer) *logrus.Logger {
	lg := logrus.New()
	lg.SetOutput(w)
	lg.SetFormatter(NewFormatter())
	lg.SetLevel(logrus.DebugLevel)
	return lg
}

// Log renders d through lg at the logrus level implied by its Severity and
// returns the same message text, so a caller that also needs the plain
// string (tests, a second sink) doesn't have to re-derive it.
//
// d.Severity == SeverityFatal is logged at logrus.ErrorLevel, not
// logrus.FatalLevel: logrus.Logger.Fatal calls os.Exit itself, which would
// take that decision away from cmd/mucgly's own exit-code handling.
func Log(lg *logrus.Logger, d *parser.Diagnostic) string {
	msg := d.Error()
	fields := logrus.Fields{}
	if d.HasLocation {
		fields["file"] = d.File
		fields["line"] = d.Line
		fields["col"] = d.Col
	}
	entry := lg.WithFields(fields)
	switch d.Severity {
	case parser.SeverityWarning:
		entry.Warn(msg)
	default:
		entry.Error(msg)
	}
	return msg
}

// ExitCode returns the process exit status implied by d: 0 for a clean run
// (d == nil) or a warning, 1 for an error or fatal error (spec section 7).
func ExitCode(d *parser.Diagnostic) int {
	if d == nil || !d.Fatal() {
		return 0
	}
	return 1
}
