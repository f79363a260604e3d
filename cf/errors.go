package cf

import (
	"fmt"
)

// ErrKind classifies the compile errors. Every failure is fatal to
// the current compilation run; the first error aborts the walk.
type ErrKind int

const (
	ErrInternal ErrKind = iota
	ErrUndeclaredVariable
	ErrUninitializedUse
	ErrIllegalFree
	ErrTypeMismatch
	ErrArityMismatch
	ErrMisplacedReturn
	ErrOutOfSpace
	ErrUnsupportedConstruction
	ErrUnknownFunction
	ErrSyntax
)

func (k ErrKind) String() string {
	switch k {
	case ErrUndeclaredVariable:
		return "undeclared variable"
	case ErrUninitializedUse:
		return "uninitialized use"
	case ErrIllegalFree:
		return "illegal free"
	case ErrTypeMismatch:
		return "type mismatch"
	case ErrArityMismatch:
		return "arity mismatch"
	case ErrMisplacedReturn:
		return "misplaced return"
	case ErrOutOfSpace:
		return "out of tape space"
	case ErrUnsupportedConstruction:
		return "unsupported construction"
	case ErrUnknownFunction:
		return "unknown function"
	case ErrSyntax:
		return "syntax error"
	}
	return "internal error"
}

// CompileError carries the error kind and the source line of the
// offending node.
type CompileError struct {
	Kind ErrKind
	Line int
	Msg  string
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func errAt(kind ErrKind, line int, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// IsErrKind reports whether err is a *CompileError of kind k.
func IsErrKind(err error, k ErrKind) bool {
	ce, ok := err.(*CompileError)
	return ok && ce.Kind == k
}

// UnexpectedEnd reports input that ran out mid-construct. The parser
// returns it wrapped, so errors.Is matches; the repl's balance check
// keeps reading continuation lines before parsing, which is why an
// interactive session rarely sees it.
var UnexpectedEnd error = fmt.Errorf("unexpected end of input")
