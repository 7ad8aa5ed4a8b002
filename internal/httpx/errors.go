package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
)

// Error is the JSON error body: {"error": "...", "fields": [...]}.
type Error struct {
	StatusCode  int                    `json:"-"`
	Description string                 `json:"error"`
	Fields      []apperrors.FieldError `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return e.Description
}

func (e *Error) Send(w http.ResponseWriter) {
	b, _ := json.Marshal(e)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_, _ = w.Write(b)
}

func ErrInvalidRequest(msg ...string) *Error {
	d := "invalid request"
	if len(msg) > 0 {
		d = msg[0]
	}
	return &Error{StatusCode: http.StatusBadRequest, Description: d}
}

func ErrUnableToReadRequest() *Error {
	return &Error{StatusCode: http.StatusBadRequest, Description: "unable to read request"}
}

func ErrInvalidID(param string) *Error {
	return &Error{
		StatusCode:  http.StatusBadRequest,
		Description: "invalid " + param,
		Fields:      []apperrors.FieldError{{Field: param, Reason: "must be a valid id"}},
	}
}

func ErrUnauthorized(msg ...string) *Error {
	d := "unauthorized"
	if len(msg) > 0 {
		d = msg[0]
	}
	return &Error{StatusCode: http.StatusUnauthorized, Description: d}
}

func ErrServiceUnavailable() *Error {
	return &Error{StatusCode: http.StatusServiceUnavailable, Description: "service unavailable"}
}

func ErrApplicationError() *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Description: "internal server error"}
}
