package dberror

import (
	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
)

var (
	ErrDatabase       apperrors.Error = apperrors.New("db error")
	ErrAlreadyExists  apperrors.Error = ErrDatabase.New("already exists")
	ErrNotFound       apperrors.Error = ErrDatabase.New("not found")
	ErrParentNotFound apperrors.Error = ErrNotFound.New("parent not found")
	ErrInvalidInput   apperrors.Error = ErrDatabase.New("invalid input")
	ErrUnavailable    apperrors.Error = ErrDatabase.New("database unavailable")
)
