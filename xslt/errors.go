package xslt

import "fmt"

// ============================================================================
// ERROR TAXONOMY
// ============================================================================
//
// Grounded on xml/error.go's SyntaxError: a wrapping error type that keeps
// the underlying cause reachable via Unwrap, plus a short stable prefix.
// Generalized here from a single syntax-error shape to the full XTDE/XTTE/
// XPST/FODC code family spec.md section 6 requires, each instance carrying
// its code so an ErrorListener (see listener.go) can classify it without
// string-matching the message.

// Code is one of the standard XSLT/XPath error codes this engine surfaces.
type Code string

const (
	XTDE0030 Code = "XTDE0030" // invalid terminate value on xsl:message
	XTDE0555 Code = "XTDE0555" // no template matches in a mode whose no-match policy is fail
	XTDE0560 Code = "XTDE0560" // unbound variable, no usable current rule, or unknown named template
	XTDE0700 Code = "XTDE0700" // required template parameter not supplied
	XTDE0820 Code = "XTDE0820" // invalid computed element name
	XTDE0830 Code = "XTDE0830" // unresolvable prefix in computed name
	XTDE0835 Code = "XTDE0835" // invalid computed attribute name
	XTDE0850 Code = "XTDE0850" // xsl:number invalid grouping
	XTDE0855 Code = "XTDE0855" // xsl:number invalid format token
	XTDE0860 Code = "XTDE0860" // xsl:number level=any conflict
	XTDE0865 Code = "XTDE0865" // xsl:number count/from pattern error
	XTDE0980 Code = "XTDE0980" // xsl:number negative value
	XTTE0505 Code = "XTTE0505" // ambiguous template match in a mode whose multi-match policy is fail
	XTTE0520 Code = "XTTE0520" // required item type mismatch
	XTTE0570 Code = "XTTE0570" // value-of selecting more than one item in 1.0 mode
	XTTE0590 Code = "XTTE0590" // parameter value does not match declared type
	XTTE3090 Code = "XTTE3090" // constructed node fails validation against its declared type
	XTTE3375 Code = "XTTE3375" // xsl:map content is not a map
	XTMM9000 Code = "XTMM9000" // xsl:assert failure (default code)
	FODC0002 Code = "FODC0002" // error retrieving a resource (document())
	XPST0003 Code = "XPST0003" // static XPath syntax error (dynamic evaluate)
)

// Error is the engine's error type: a stable code, a human message, and an
// optional wrapped cause.
type Error struct {
	code Code
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.msg == "" {
		return string(e.code)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// Code returns the error's standard code.
func (e *Error) Code() Code { return e.code }

// NewError builds an Error with the given code and formatted message.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// WrapError attaches a code and message to an underlying cause, mirroring
// the teacher's wrapError(err) helper in xml/error.go but keyed on our
// error-code family instead of line numbers.
func WrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...), err: cause}
}

// CodeOf extracts the Code from err if it (or something it wraps) is an
// *Error, and ok=false otherwise.
func CodeOf(err error) (Code, bool) {
	var xe *Error
	for err != nil {
		if e, ok := err.(*Error); ok {
			xe = e
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if xe == nil {
		return "", false
	}
	return xe.code, true
}

// UsageError is raised by the output pipeline's state machine when an
// event arrives in a state that forbids it (spec.md section 4.1).
type UsageError struct {
	Op    string
	State string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage error: %s not valid in state %s", e.Op, e.State)
}
