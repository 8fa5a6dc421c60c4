// Package errtax is the interpreter's error taxonomy: a single typed Error
// value used across lexing, parsing, evaluation, and polyglot execution so
// callers can switch on Kind instead of parsing message strings.
package errtax

import "encoding/json"

// Kind enumerates the error categories the evaluator and its surrounding
// components can raise.
type Kind string

const (
	KindSyntax          Kind = "SYNTAX"
	KindUnboundName     Kind = "UNBOUND_NAME"
	KindUnknownField    Kind = "UNKNOWN_FIELD"
	KindUnknownBlock    Kind = "UNKNOWN_BLOCK"
	KindTypeMismatch    Kind = "TYPE_MISMATCH"
	KindDivideByZero    Kind = "DIVISION_BY_ZERO"
	KindIndexOutOfRange Kind = "INDEX_OUT_OF_RANGE"
	KindOverflow        Kind = "OVERFLOW"
	KindTimeWraparound  Kind = "TIME_WRAPAROUND"
	KindPolyglotTimeout Kind = "POLYGLOT_TIMEOUT"
	KindPolyglotError   Kind = "POLYGLOT_ERROR"
	KindUnsupportedLang Kind = "UNSUPPORTED_LANGUAGE"
	KindModuleNotFound  Kind = "MODULE_NOT_FOUND"
	KindCircularImport  Kind = "CIRCULAR_IMPORT"
	KindBreakOutsideLoop    Kind = "BREAK_OUTSIDE_LOOP"
	KindContinueOutsideLoop Kind = "CONTINUE_OUTSIDE_LOOP"
	KindReturnOutsideFunc   Kind = "RETURN_OUTSIDE_FUNCTION"
	KindMisplacedStatement  Kind = "MISPLACED_STATEMENT"
	KindReservedKeyword     Kind = "RESERVED_KEYWORD_AS_IDENTIFIER"
	KindAccidentalAssign    Kind = "ACCIDENTAL_ASSIGNMENT"
	KindMalformedPolyglot   Kind = "MALFORMED_POLYGLOT_BLOCK"
	KindNullSafety          Kind = "NULL_SAFETY"
	KindNullMemberAccess    Kind = "NULL_MEMBER_ACCESS"
	KindGenericUnification  Kind = "GENERIC_UNIFICATION"
	KindPermissionDenied    Kind = "PERMISSION_DENIED"
	KindAuditChainBroken    Kind = "AUDIT_CHAIN_BROKEN"
	KindIO                  Kind = "IO"
	KindInvalidConfig       Kind = "INVALID_CONFIG"
	KindInternal            Kind = "INTERNAL"
)

// SourceLocation pinpoints where in naab source an error originated.
type SourceLocation struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// StackFrame is one level of the naab call stack captured at the time an
// error was raised, not a Go stack trace.
type StackFrame struct {
	Function string          `json:"function"`
	Location *SourceLocation `json:"location,omitempty"`
}

// Error is the uniform error payload raised by every layer of the
// interpreter. Printed with %s it returns Message (optionally with
// Detail); JSON renders the full structured form for tooling.
type Error struct {
	Kind       Kind            `json:"kind"`
	Message    string          `json:"message"`
	Detail     string          `json:"detail,omitempty"`
	Suggestion string          `json:"suggestion,omitempty"`
	Location   *SourceLocation `json:"location,omitempty"`
	Stack      []StackFrame    `json:"stack,omitempty"`
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e *Error) String() string {
	return e.Error()
}

// JSON renders the structured error, including location and stack, for
// consumers that want more than the flat message.
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// WithLocation returns a copy of e with Location set, for the common case
// of attaching position information once the raising site knows it.
func (e *Error) WithLocation(loc SourceLocation) *Error {
	cp := *e
	cp.Location = &loc
	return &cp
}

// WithSuggestion returns a copy of e with a "did you mean" suggestion
// attached (see internal/evaluator's use of agnivade/levenshtein).
func (e *Error) WithSuggestion(name string) *Error {
	cp := *e
	cp.Suggestion = name
	return &cp
}

// Wrap builds an *Error of the given kind, carrying inner's message as
// Detail.
func Wrap(kind Kind, msg string, inner error) error {
	return &Error{Kind: kind, Message: msg, Detail: inner.Error()}
}

// New builds a bare *Error of the given kind with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}
