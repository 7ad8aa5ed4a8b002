package apis

import (
	"net/http"

	"github.com/mugiliam/notecatalogsrv/internal/auth"
	"github.com/mugiliam/notecatalogsrv/internal/catalogmanager/schema/schemavalidator"
	"github.com/mugiliam/notecatalogsrv/internal/httpx"
	"github.com/mugiliam/notecatalogsrv/pkg/api"
)

func login(a *auth.Authenticator) httpx.RequestHandler {
	return func(r *http.Request) (*httpx.Response, error) {
		req := &api.LoginReq{}
		if err := httpx.DecodeJson(r, req); err != nil {
			return nil, err
		}
		if err := schemavalidator.V().Struct(req); err != nil {
			return nil, &httpx.Error{
				StatusCode:  http.StatusBadRequest,
				Description: "username and password are required",
				Fields:      schemavalidator.FieldErrors(err),
			}
		}
		token, expiresAt, err := a.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			return nil, err
		}
		return ok(&api.LoginRsp{Token: token, ExpiresAt: expiresAt}), nil
	}
}

func sessionRsp(s *auth.Session) *api.SessionRsp {
	return &api.SessionRsp{Username: s.Username, ExpiresAt: s.ExpiresAt}
}
