package apis

import (
	"net/http"

	"github.com/mugiliam/notecatalogsrv/internal/catalogmanager"
	"github.com/mugiliam/notecatalogsrv/internal/httpx"
	"github.com/mugiliam/notecatalogsrv/pkg/api"
)

// Updates carry the id in the body and apply only the fields that are present.

func updateTitle(r *http.Request) (*httpx.Response, error) {
	req := &api.UpdateTitleReq{}
	if err := httpx.DecodeJson(r, req); err != nil {
		return nil, err
	}
	t, err := catalogmanager.UpdateTitle(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return ok(t), nil
}

func updateClass(r *http.Request) (*httpx.Response, error) {
	req := &api.UpdateClassReq{}
	if err := httpx.DecodeJson(r, req); err != nil {
		return nil, err
	}
	c, err := catalogmanager.UpdateClass(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return ok(c), nil
}

func updateSubject(r *http.Request) (*httpx.Response, error) {
	req := &api.UpdateSubjectReq{}
	if err := httpx.DecodeJson(r, req); err != nil {
		return nil, err
	}
	s, err := catalogmanager.UpdateSubject(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return ok(s), nil
}

func updateChapter(r *http.Request) (*httpx.Response, error) {
	req := &api.UpdateChapterReq{}
	if err := httpx.DecodeJson(r, req); err != nil {
		return nil, err
	}
	c, err := catalogmanager.UpdateChapter(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return ok(c), nil
}
