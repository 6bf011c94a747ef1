package table

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrFileNotFound    = errors.New("file not found")
	ErrIO              = errors.New("io error")
	ErrSchemaMismatch  = errors.New("schema mismatch")
	ErrNameCollision   = errors.New("feature name collision")
	ErrNameNotFound    = errors.New("feature name not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrRange           = errors.New("invalid range")
)

// Error describes a failed table operation.
//
// Kind is one of the sentinel errors above. Err, when set, is the underlying
// cause (typically an *fs.PathError) and stays reachable through errors.Is/As.
type Error struct {
	Op     string // Operation that failed, e.g. "Cut", "Load"
	Kind   error  // Sentinel error kind
	Detail string // Human-readable specifics
	Err    error  // Underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind error, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func wrapError(op string, kind error, cause error, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Detail: fmt.Sprintf(format, args...), Err: cause}
}
