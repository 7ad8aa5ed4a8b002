package apis

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/auth"
	"github.com/mugiliam/notecatalogsrv/internal/catalogmanager"
	"github.com/mugiliam/notecatalogsrv/internal/httpx"
)

// getTitles returns a single title when ?id is set, otherwise the titles whose
// name contains ?name.
func getTitles(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	id, err := queryID(r, "id")
	if err != nil {
		return nil, err
	}
	if id != uuid.Nil {
		t, err := catalogmanager.GetTitle(ctx, id)
		if err != nil {
			return nil, err
		}
		return ok(t), nil
	}
	titles, appErr := catalogmanager.ListTitles(ctx, nameQuery(r))
	if appErr != nil {
		return nil, appErr
	}
	return ok(titles), nil
}

func getClasses(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	id, err := queryID(r, "id")
	if err != nil {
		return nil, err
	}
	if id != uuid.Nil {
		c, err := catalogmanager.GetClass(ctx, id)
		if err != nil {
			return nil, err
		}
		return ok(c), nil
	}
	titleID, err := queryID(r, "titleId")
	if err != nil {
		return nil, err
	}
	classes, appErr := catalogmanager.ListClasses(ctx, titleID, nameQuery(r))
	if appErr != nil {
		return nil, appErr
	}
	return ok(classes), nil
}

func getSubjects(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	id, err := queryID(r, "id")
	if err != nil {
		return nil, err
	}
	if id != uuid.Nil {
		s, err := catalogmanager.GetSubject(ctx, id)
		if err != nil {
			return nil, err
		}
		return ok(s), nil
	}
	classID, err := queryID(r, "classId")
	if err != nil {
		return nil, err
	}
	subjects, appErr := catalogmanager.ListSubjects(ctx, classID, nameQuery(r))
	if appErr != nil {
		return nil, appErr
	}
	return ok(subjects), nil
}

func getChapters(r *http.Request) (*httpx.Response, error) {
	f, err := chapterFilter(r)
	if err != nil {
		return nil, err
	}
	list, appErr := catalogmanager.ListChapters(r.Context(), f)
	if appErr != nil {
		return nil, appErr
	}
	return ok(list), nil
}

func getChapterPreview(r *http.Request) (*httpx.Response, error) {
	id, err := urlID(r, "chapterId")
	if err != nil {
		return nil, err
	}
	p, appErr := catalogmanager.PreviewChapter(r.Context(), id)
	if appErr != nil {
		return nil, appErr
	}
	return ok(p), nil
}

func getMaterials(r *http.Request) (*httpx.Response, error) {
	f, err := chapterFilter(r)
	if err != nil {
		return nil, err
	}
	m, appErr := catalogmanager.ListMaterials(r.Context(), f)
	if appErr != nil {
		return nil, appErr
	}
	return ok(m), nil
}

// getMyDetail answers {} until the record has been saved once.
func getMyDetail(r *http.Request) (*httpx.Response, error) {
	d, err := catalogmanager.GetMyDetail(r.Context())
	if errors.Is(err, catalogmanager.ErrMyDetailNotFound) {
		return ok(struct{}{}), nil
	}
	if err != nil {
		return nil, err
	}
	return ok(d), nil
}

func getSession(r *http.Request) (*httpx.Response, error) {
	s := auth.SessionFromContext(r.Context())
	if s == nil {
		return nil, auth.ErrMissingToken
	}
	return ok(sessionRsp(s)), nil
}
