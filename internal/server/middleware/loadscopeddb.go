package middleware

import (
	"net/http"

	"github.com/mugiliam/notecatalogsrv/internal/db"
	"github.com/mugiliam/notecatalogsrv/internal/httpx"
)

// LoadScopedDB binds one pooled connection to the request and returns it when the
// request is done. Requests fail with 503 when no connection can be acquired.
func LoadScopedDB(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := db.ConnCtx(r.Context())
		store := db.DB(ctx)
		if store == nil {
			httpx.ErrServiceUnavailable().Send(w)
			return
		}
		defer store.Close(ctx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
