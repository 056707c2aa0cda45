package xslt

import "log/slog"

// ============================================================================
// DIAGNOSTICS
// ============================================================================
//
// No repo in the retrieval pack imports a structured logging library (no
// zap/zerolog/logrus anywhere under _examples/), so log/slog — the one
// ecosystem-adjacent stdlib answer — is used here, per DESIGN.md's
// ambient-stack entry. ErrorListener itself is grounded on the teacher's
// wrapError/SyntaxError shape in xml/error.go, generalized into a
// dispatch target instead of a single return value, because spec.md
// section 7 requires warnings to be reported without aborting the
// transform while fatal errors unwind to the top-level caller.

// Severity classifies a message dispatched to an ErrorListener.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityFatal
)

// ErrorListener receives diagnostics raised during a transform: xsl:message
// output, recoverable-error warnings, and fatal conditions.
type ErrorListener interface {
	Report(severity Severity, err error)
}

// SlogListener adapts log/slog as an ErrorListener. It never aborts the
// transform itself — FatalSignal (see signal.go) is what actually unwinds
// execution; this listener only records.
type SlogListener struct {
	Logger *slog.Logger
}

// NewSlogListener builds a listener around the given logger, or
// slog.Default() if nil.
func NewSlogListener(logger *slog.Logger) *SlogListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogListener{Logger: logger}
}

func (l *SlogListener) Report(severity Severity, err error) {
	code, _ := CodeOf(err)
	attrs := []any{slog.String("code", string(code))}
	if severity == SeverityFatal {
		l.Logger.Error("xslt transform error", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	l.Logger.Warn("xslt transform warning", append(attrs, slog.String("error", err.Error()))...)
}

// RecoveryMode selects how the engine treats recoverable dynamic errors
// (spec.md section 7): strict errors out, recover warns and continues,
// silent suppresses the warning entirely.
type RecoveryMode uint8

const (
	RecoveryStrict RecoveryMode = iota
	RecoveryRecover
	RecoverySilent
)

// recoverable reports a condition classified as recoverable under the
// current RecoveryMode: strict turns it into a fatal error, recover warns
// and continues, silent continues without reporting.
func recoverable(ctx *TransformContext, code Code, format string, args ...any) error {
	err := NewError(code, format, args...)
	switch ctx.recoveryMode {
	case RecoveryStrict:
		return err
	case RecoverySilent:
		return nil
	default:
		if ctx.listener != nil {
			ctx.listener.Report(SeverityWarning, err)
		}
		return nil
	}
}
