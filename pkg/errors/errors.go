package errors

import "errors"

// Kind classifies an error for the request boundary
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindPreconditionFailed
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error a business error with a user-visible message
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// New creates a classified error. Callers keep the pointer as a sentinel
// and compare with errors.Is.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf returns the kind of the first classified error in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ErrOptimisticLock a conditional update matched fewer rows than expected
var ErrOptimisticLock = errors.New("record was modified by another operation, please retry")
