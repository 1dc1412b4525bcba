package asterix

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// maxTraceMessage is the truncation applied to every diagnostic message
// before it reaches the sink, per the "Diagnostics sink" interface:
// messages longer than 1024 bytes are truncated.
const maxTraceMessage = 1024

// Tracer is the decoder's diagnostic sink. It wraps a *logrus.Logger so the
// rest of the package can log with levels without taking a hard dependency
// on any particular sink; callers embedding the decoder in a host process
// can replace the process-wide default wholesale with SetLogger, or inject
// a per-instance Tracer via Emitter.Tracer or the tr argument of
// DecodeBlock / DecodeRecord.
type Tracer struct {
	lg *logrus.Logger
}

// NewTracer wraps lg, defaulting to a fresh logrus.Logger at error level if
// lg is nil.
func NewTracer(lg *logrus.Logger) *Tracer {
	if lg == nil {
		lg = logrus.New()
		lg.SetLevel(logrus.ErrorLevel)
	}
	return &Tracer{lg: lg}
}

// _lg is the process-wide default sink, mirroring the teacher's
// package-level logger-with-override singleton in define.go.
var _lg = NewTracer(nil)

// SetLogger replaces the process-wide default tracer's logrus backend.
func SetLogger(lg *logrus.Logger) {
	_lg = NewTracer(lg)
}

func (t *Tracer) truncate(msg string) string {
	if len(msg) <= maxTraceMessage {
		return msg
	}
	return msg[:maxTraceMessage]
}

// Errorf is the error-level printf-style entry point required by the
// diagnostics sink interface; it logs block-level failures (bad length,
// unreadable FSPEC), out-of-range bit spans and unknown encodings.
// Record-level failures and
// unknown categories are logged through Warnf.
func (t *Tracer) Errorf(format string, args ...interface{}) {
	t.lg.Errorf("%s", t.truncate(fmt.Sprintf(format, args...)))
}

// Debugf logs at debug level; used for non-fatal trace-only observations
// (e.g. the Variable-with-exhausted-parts-list open question in format_variable.go).
func (t *Tracer) Debugf(format string, args ...interface{}) {
	t.lg.Debugf("%s", t.truncate(fmt.Sprintf(format, args...)))
}

// Warnf logs a conversion warning (scale/min/max breach, const mismatch,
// non-multiple span) at warn level.
func (t *Tracer) Warnf(format string, args ...interface{}) {
	t.lg.Warnf("%s", t.truncate(fmt.Sprintf(format, args...)))
}
