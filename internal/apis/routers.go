package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mugiliam/notecatalogsrv/internal/auth"
	"github.com/mugiliam/notecatalogsrv/internal/httpx"
)

type handlerParam struct {
	Method  string
	Path    string
	Handler httpx.RequestHandler
}

// Reads are public.
var publicHandlers = []handlerParam{
	{Method: http.MethodGet, Path: "/titles", Handler: getTitles},
	{Method: http.MethodGet, Path: "/classes", Handler: getClasses},
	{Method: http.MethodGet, Path: "/subjects", Handler: getSubjects},
	{Method: http.MethodGet, Path: "/chapters", Handler: getChapters},
	{Method: http.MethodGet, Path: "/chapters/{chapterId}/preview", Handler: getChapterPreview},
	{Method: http.MethodGet, Path: "/materials", Handler: getMaterials},
	{Method: http.MethodGet, Path: "/mydetail", Handler: getMyDetail},
}

// Mutations need an admin bearer token.
var adminHandlers = []handlerParam{
	{Method: http.MethodPost, Path: "/titles", Handler: createTitle},
	{Method: http.MethodPatch, Path: "/titles", Handler: updateTitle},
	{Method: http.MethodDelete, Path: "/titles", Handler: deleteTitle},
	{Method: http.MethodPost, Path: "/classes", Handler: createClass},
	{Method: http.MethodPatch, Path: "/classes", Handler: updateClass},
	{Method: http.MethodDelete, Path: "/classes", Handler: deleteClass},
	{Method: http.MethodPost, Path: "/subjects", Handler: createSubject},
	{Method: http.MethodPatch, Path: "/subjects", Handler: updateSubject},
	{Method: http.MethodDelete, Path: "/subjects", Handler: deleteSubject},
	{Method: http.MethodPost, Path: "/chapters", Handler: createChapter},
	{Method: http.MethodPatch, Path: "/chapters", Handler: updateChapter},
	{Method: http.MethodDelete, Path: "/chapters", Handler: deleteChapter},
	{Method: http.MethodPost, Path: "/mydetail", Handler: saveMyDetail},
}

// AuthRouter mounts the login and session routes. They never touch the store.
func AuthRouter(r chi.Router, a *auth.Authenticator) {
	r.Method(http.MethodPost, "/auth/login", httpx.WrapHttpRsp(login(a)))
	r.With(a.RequireAdmin).Method(http.MethodGet, "/auth/session", httpx.WrapHttpRsp(getSession))
}

// Router mounts the catalog API on r.
func Router(r chi.Router, a *auth.Authenticator) {
	for _, h := range publicHandlers {
		r.Method(h.Method, h.Path, httpx.WrapHttpRsp(h.Handler))
	}
	r.Group(func(r chi.Router) {
		r.Use(a.RequireAdmin)
		for _, h := range adminHandlers {
			r.Method(h.Method, h.Path, httpx.WrapHttpRsp(h.Handler))
		}
	})
}
