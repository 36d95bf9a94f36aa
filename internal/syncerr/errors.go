// Package syncerr defines the classified error returned by the sync engine
// and the structural adapters.
package syncerr

import (
	"errors"
	"fmt"
)

// Kind classifies a sync failure.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindBinary          Kind = "binary"
	KindAdapter         Kind = "adapter"
	KindNotImplemented  Kind = "not_implemented"
	KindSectionNotFound Kind = "section_not_found"
	KindUnsupported     Kind = "unsupported"
	KindMapping         Kind = "mapping"
	KindFilesystem      Kind = "filesystem"
)

// Error is a classified error. Err, when set, is the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Kind) + " error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a classified error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err. The message may be empty.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	msg := ""
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or "" when
// there is none.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// Is reports whether any *Error in err's chain has the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var se *Error
		if !errors.As(err, &se) {
			return false
		}
		if se.Kind == kind {
			return true
		}
		err = se.Err
	}
	return false
}
