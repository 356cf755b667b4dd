package word2vec

import "fmt"

// An ErrorKind classifies the failures reported by the
// training core.
type ErrorKind int

const (
	// OutOfRange means an index was outside [0, V).
	OutOfRange ErrorKind = iota + 1

	// ShapeMismatch means the embedding tables disagree
	// on their dimensions.
	ShapeMismatch

	// InvalidConfiguration means the session settings
	// cannot be used to train.
	InvalidConfiguration
)

func (k ErrorKind) String() string {
	switch k {
	case OutOfRange:
		return "out of range"
	case ShapeMismatch:
		return "shape mismatch"
	case InvalidConfiguration:
		return "invalid configuration"
	default:
		return "unknown error"
	}
}

// Sentinel errors for use with errors.Is.
var (
	ErrOutOfRange    = &Error{Kind: OutOfRange}
	ErrShapeMismatch = &Error{Kind: ShapeMismatch}
	ErrInvalidConfig = &Error{Kind: InvalidConfiguration}
)

// Error is the error type returned by the training core.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Status is the outcome of a successful Kernel.Update.
type Status int

const (
	// StatusError accompanies a non-nil error; no rows
	// were changed.
	StatusError Status = iota

	// StatusOK means every requested row update was
	// applied.
	StatusOK

	// StatusEmptyContext means the sample had no context
	// words, so nothing was changed.
	StatusEmptyContext
)

func (s Status) String() string {
	switch s {
	case StatusError:
		return "error"
	case StatusOK:
		return "ok"
	case StatusEmptyContext:
		return "empty context"
	default:
		return "unknown status"
	}
}
