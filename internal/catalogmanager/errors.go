package catalogmanager

import (
	"net/http"

	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
)

var (
	ErrCatalogError apperrors.Error = apperrors.New("error in processing catalog").SetStatusCode(http.StatusInternalServerError)

	ErrValidation       apperrors.Error = ErrCatalogError.New("validation failed").SetStatusCode(http.StatusBadRequest)
	ErrInvalidSchema    apperrors.Error = ErrValidation.New("invalid request schema")
	ErrInvalidDriveLink apperrors.Error = ErrValidation.New("driveLink must be a Google Drive or Docs link")
	ErrBlankName        apperrors.Error = ErrValidation.New("name must not be blank")

	ErrConflict      apperrors.Error = ErrCatalogError.New("already exists").SetStatusCode(http.StatusConflict)
	ErrTitleExists   apperrors.Error = ErrConflict.New("title with this name already exists")
	ErrClassExists   apperrors.Error = ErrConflict.New("class with this name already exists for the title")
	ErrSubjectExists apperrors.Error = ErrConflict.New("subject with this name already exists for the class")
	ErrChapterExists apperrors.Error = ErrConflict.New("chapter with this name already exists for the subject")

	ErrNotFound         apperrors.Error = ErrCatalogError.New("not found").SetStatusCode(http.StatusNotFound)
	ErrTitleNotFound    apperrors.Error = ErrNotFound.New("title not found")
	ErrClassNotFound    apperrors.Error = ErrNotFound.New("class not found")
	ErrSubjectNotFound  apperrors.Error = ErrNotFound.New("subject not found")
	ErrChapterNotFound  apperrors.Error = ErrNotFound.New("chapter not found")
	ErrBrokenChain      apperrors.Error = ErrNotFound.New("chapter is missing a subject, class or title")
	ErrMyDetailNotFound apperrors.Error = ErrNotFound.New("my details not found")

	ErrUnavailable apperrors.Error = ErrCatalogError.New("catalog store unavailable").SetStatusCode(http.StatusServiceUnavailable)
)
