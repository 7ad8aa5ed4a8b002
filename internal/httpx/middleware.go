package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger assigns each request an id, echoes it in X-Request-ID, stores a
// logger carrying it in the request context and logs the request on completion.
func RequestLogger(next http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})
	h := access(next)
	h = requestIDLogger(h)
	h = hlog.NewHandler(log.Logger)(h)
	return middleware.RequestID(h)
}

func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reqID := middleware.GetReqID(ctx)
		w.Header().Set(RequestIDHeader, reqID)
		l := zerolog.Ctx(ctx).With().Str("request_id", reqID).Logger()
		next.ServeHTTP(w, r.WithContext(l.WithContext(ctx)))
	})
}
