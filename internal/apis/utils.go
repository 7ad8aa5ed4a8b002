package apis

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/browse"
	"github.com/mugiliam/notecatalogsrv/internal/httpx"
)

// queryID parses an optional id query parameter. Absent or blank yields uuid.Nil.
func queryID(r *http.Request, param string) (uuid.UUID, error) {
	v := strings.TrimSpace(r.URL.Query().Get(param))
	if v == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, httpx.ErrInvalidID(param)
	}
	return id, nil
}

func requiredQueryID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := queryID(r, param)
	if err != nil {
		return uuid.Nil, err
	}
	if id == uuid.Nil {
		return uuid.Nil, httpx.ErrInvalidID(param)
	}
	return id, nil
}

func urlID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, httpx.ErrInvalidID(param)
	}
	return id, nil
}

func nameQuery(r *http.Request) string {
	return r.URL.Query().Get("name")
}

// chapterFilter reads titleId, classId, subjectId, chapterId and name from the query.
func chapterFilter(r *http.Request) (browse.ChapterFilter, error) {
	f := browse.ChapterFilter{Name: nameQuery(r)}
	var err error
	if f.TitleID, err = queryID(r, "titleId"); err != nil {
		return f, err
	}
	if f.ClassID, err = queryID(r, "classId"); err != nil {
		return f, err
	}
	if f.SubjectID, err = queryID(r, "subjectId"); err != nil {
		return f, err
	}
	if f.ChapterID, err = queryID(r, "chapterId"); err != nil {
		return f, err
	}
	return f, nil
}

func ok(v any) *httpx.Response {
	return &httpx.Response{StatusCode: http.StatusOK, Response: v}
}
