// Package apperrors provides hierarchical application errors. An error created from
// another with New or Msg keeps the parent in its chain, so errors.Is matches every
// ancestor. Each error can carry an HTTP status code and field level details that the
// http layer renders back to the caller.
package apperrors

import (
	"errors"
	"strings"
)

// FieldError describes a problem with a single request field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type Error interface {
	error
	Unwrap() []error
	// New creates a child error with its own message.
	New(msg string) Error
	// Msg returns a copy of the error with a more specific message.
	Msg(msg string) Error
	// Err attaches underlying causes.
	Err(err ...error) Error
	// MsgErr combines Msg and Err.
	MsgErr(msg string, err ...error) Error
	SetStatusCode(code int) Error
	StatusCode() int
	// SetExpandError makes ErrorAll include the messages of attached causes.
	SetExpandError(expand bool) Error
	ErrorAll() string
	WithFields(fields ...FieldError) Error
	Fields() []FieldError
}

type appError struct {
	msg        string
	parent     *appError
	causes     []error
	statusCode int
	expand     bool
	fields     []FieldError
}

var _ Error = (*appError)(nil)

func New(msg string) Error {
	return &appError{msg: msg}
}

func (e *appError) Error() string {
	return e.msg
}

func (e *appError) Unwrap() []error {
	errs := make([]error, 0, len(e.causes)+1)
	if e.parent != nil {
		errs = append(errs, e.parent)
	}
	return append(errs, e.causes...)
}

func (e *appError) New(msg string) Error {
	return &appError{
		msg:    msg,
		parent: e,
	}
}

func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:    msg,
		parent: e,
		expand: e.expand,
		fields: e.fields,
	}
}

func (e *appError) Err(err ...error) Error {
	causes := make([]error, 0, len(err))
	for _, c := range err {
		if c != nil {
			causes = append(causes, c)
		}
	}
	return &appError{
		msg:    e.msg,
		parent: e,
		causes: causes,
		expand: e.expand,
		fields: e.fields,
	}
}

func (e *appError) MsgErr(msg string, err ...error) Error {
	return e.Msg(msg).Err(err...)
}

func (e *appError) SetStatusCode(code int) Error {
	e.statusCode = code
	return e
}

// StatusCode returns the closest status code set on the error or its ancestors.
func (e *appError) StatusCode() int {
	for p := e; p != nil; p = p.parent {
		if p.statusCode != 0 {
			return p.statusCode
		}
	}
	return 0
}

func (e *appError) SetExpandError(expand bool) Error {
	e.expand = expand
	return e
}

func (e *appError) ErrorAll() string {
	if !e.expandErrors() || len(e.causes) == 0 {
		return e.msg
	}
	var sb strings.Builder
	sb.WriteString(e.msg)
	for _, c := range e.causes {
		sb.WriteString(": ")
		var ae Error
		if errors.As(c, &ae) {
			sb.WriteString(ae.ErrorAll())
		} else {
			sb.WriteString(c.Error())
		}
	}
	return sb.String()
}

func (e *appError) expandErrors() bool {
	for p := e; p != nil; p = p.parent {
		if p.expand {
			return true
		}
	}
	return false
}

func (e *appError) WithFields(fields ...FieldError) Error {
	return &appError{
		msg:    e.msg,
		parent: e,
		expand: e.expand,
		fields: append(append([]FieldError(nil), e.fields...), fields...),
	}
}

func (e *appError) Fields() []FieldError {
	return e.fields
}
