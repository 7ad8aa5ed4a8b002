// Package httpx holds the JSON request/response plumbing shared by every handler.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
	"github.com/rs/zerolog/log"
)

// Response is what a RequestHandler returns on success. Response is encoded as JSON
// unless it is nil.
type Response struct {
	StatusCode int
	Location   string
	Response   any
}

type RequestHandler func(r *http.Request) (*Response, error)

// WrapHttpRsp adapts a RequestHandler to http.HandlerFunc. Errors are rendered with
// ErrorFrom.
func WrapHttpRsp(handler RequestHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			httpErr := ErrorFrom(err)
			if httpErr.StatusCode >= http.StatusInternalServerError {
				log.Ctx(r.Context()).Error().Err(err).Int("status", httpErr.StatusCode).Msg("request failed")
			} else {
				log.Ctx(r.Context()).Debug().Err(err).Int("status", httpErr.StatusCode).Msg("request rejected")
			}
			httpErr.Send(w)
			return
		}
		if rsp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if rsp.Location != "" {
			w.Header().Set("Location", rsp.Location)
		}
		if rsp.Response == nil {
			w.WriteHeader(rsp.StatusCode)
			return
		}
		SendJsonRsp(r.Context(), w, rsp.StatusCode, rsp.Response)
	}
}

func SendJsonRsp(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to encode response")
		ErrApplicationError().Send(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(b); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to write response")
	}
}

// DecodeJson reads a JSON request body into v. Unknown fields are rejected.
func DecodeJson(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrInvalidRequest("missing request body")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ErrInvalidRequest("unable to parse request body: " + err.Error())
	}
	return nil
}

// ErrorFrom converts any error into an HTTP error. apperrors.Error values keep their
// status code and field errors; anything else becomes a 500.
func ErrorFrom(err error) *Error {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var appErr apperrors.Error
	if errors.As(err, &appErr) {
		statusCode := appErr.StatusCode()
		if statusCode == 0 {
			statusCode = http.StatusInternalServerError
		}
		return &Error{
			StatusCode:  statusCode,
			Description: appErr.ErrorAll(),
			Fields:      appErr.Fields(),
		}
	}
	return ErrApplicationError()
}
