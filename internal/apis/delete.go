package apis

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
	"github.com/mugiliam/notecatalogsrv/internal/catalogmanager"
	"github.com/mugiliam/notecatalogsrv/internal/httpx"
	"github.com/mugiliam/notecatalogsrv/pkg/api"
)

type deleteFunc func(ctx context.Context, id uuid.UUID) apperrors.Error

// deleteObject removes the entity named by ?id. Children are left in place.
func deleteObject(kind string, del deleteFunc) httpx.RequestHandler {
	return func(r *http.Request) (*httpx.Response, error) {
		id, err := requiredQueryID(r, "id")
		if err != nil {
			return nil, err
		}
		if err := del(r.Context(), id); err != nil {
			return nil, err
		}
		return ok(&api.MessageRsp{Message: kind + " deleted"}), nil
	}
}

var (
	deleteTitle   = deleteObject("title", catalogmanager.DeleteTitle)
	deleteClass   = deleteObject("class", catalogmanager.DeleteClass)
	deleteSubject = deleteObject("subject", catalogmanager.DeleteSubject)
	deleteChapter = deleteObject("chapter", catalogmanager.DeleteChapter)
)
