package apis

import (
	"net/http"

	"github.com/mugiliam/notecatalogsrv/internal/catalogmanager"
	"github.com/mugiliam/notecatalogsrv/internal/httpx"
	"github.com/mugiliam/notecatalogsrv/pkg/api"
)

func created(location string, v any) *httpx.Response {
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   location,
		Response:   v,
	}
}

func createTitle(r *http.Request) (*httpx.Response, error) {
	req := &api.CreateTitleReq{}
	if err := httpx.DecodeJson(r, req); err != nil {
		return nil, err
	}
	t, err := catalogmanager.CreateTitle(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return created("/api/titles?id="+t.TitleID.String(), t), nil
}

func createClass(r *http.Request) (*httpx.Response, error) {
	req := &api.CreateClassReq{}
	if err := httpx.DecodeJson(r, req); err != nil {
		return nil, err
	}
	c, err := catalogmanager.CreateClass(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return created("/api/classes?id="+c.ClassID.String(), c), nil
}

func createSubject(r *http.Request) (*httpx.Response, error) {
	req := &api.CreateSubjectReq{}
	if err := httpx.DecodeJson(r, req); err != nil {
		return nil, err
	}
	s, err := catalogmanager.CreateSubject(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return created("/api/subjects?id="+s.SubjectID.String(), s), nil
}

func createChapter(r *http.Request) (*httpx.Response, error) {
	req := &api.CreateChapterReq{}
	if err := httpx.DecodeJson(r, req); err != nil {
		return nil, err
	}
	c, err := catalogmanager.CreateChapter(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return created("/api/chapters?chapterId="+c.ChapterID.String(), c), nil
}

// saveMyDetail upserts the singleton my-details record.
func saveMyDetail(r *http.Request) (*httpx.Response, error) {
	req := &api.MyDetailReq{}
	if err := httpx.DecodeJson(r, req); err != nil {
		return nil, err
	}
	d, err := catalogmanager.SaveMyDetail(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return ok(d), nil
}
