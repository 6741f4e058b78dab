package uci

import "fmt"

// Kind discriminates the class of failure a UCI operation can report.
type Kind int

const (
	KindMem Kind = iota + 1
	KindInval
	KindNotFound
	KindIO
	KindParse
	KindDuplicate
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindMem:
		return "out of memory"
	case KindInval:
		return "invalid argument"
	case KindNotFound:
		return "not found"
	case KindIO:
		return "I/O error"
	case KindParse:
		return "parse error"
	case KindDuplicate:
		return "duplicate entry"
	case KindUnknown:
		return "unknown error"
	default:
		return "unknown error"
	}
}

// Error is the discriminated result every public UCI operation can fail
// with. Parse errors additionally carry a line/byte position within the
// logical line being scanned.
type Error struct {
	Kind   Kind
	Prefix string // context-supplied prefix, e.g. "uci"
	Func   string // calling function name, filled in by callers that wrap
	Msg    string
	Reason string
	Line   int // 1-based physical line, 0 if not applicable
	Byte   int // 0-based byte offset within the logical line, 0 if not applicable
}

func (e *Error) Error() string {
	s := ""
	if e.Prefix != "" {
		s += e.Prefix + ": "
	}
	if e.Func != "" {
		s += e.Func + ": "
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	s += msg
	if e.Reason != "" {
		s += fmt.Sprintf(" (%s)", e.Reason)
	}
	if e.Line > 0 {
		s += fmt.Sprintf(" at line %d, byte %d", e.Line, e.Byte)
	}
	return s
}

// Is reports whether target names the same Kind, so callers can write
// errors.Is(err, uci.ErrNotFound) style checks against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors for errors.Is comparisons; only Kind is significant.
var (
	ErrMem       = &Error{Kind: KindMem}
	ErrInval     = &Error{Kind: KindInval}
	ErrNotFound  = &Error{Kind: KindNotFound}
	ErrIO        = &Error{Kind: KindIO}
	ErrParse     = &Error{Kind: KindParse}
	ErrDuplicate = &Error{Kind: KindDuplicate}
	ErrUnknown   = &Error{Kind: KindUnknown}
)

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// wrapFunc annotates err, if it is a *Error, with the calling function's
// name, following the "[function: ]" slot of the error message format.
// Non-*Error values pass through unchanged.
func wrapFunc(fn string, err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		clone := *e
		clone.Func = fn
		return &clone
	}
	return err
}

// isParseErr reports whether err is a *Error of KindParse, used to decide
// whether lenient-mode import recovery applies.
func isParseErr(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindParse
}

// isNotFoundErr reports whether err is a *Error of KindNotFound, used by
// ImportMerge to tell "no existing package to merge into" apart from a
// real backend failure.
func isNotFoundErr(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindNotFound
}
