// Package server assembles the HTTP surface of the note catalog.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mugiliam/notecatalogsrv/internal/apis"
	"github.com/mugiliam/notecatalogsrv/internal/auth"
	"github.com/mugiliam/notecatalogsrv/internal/catalogmanager"
	"github.com/mugiliam/notecatalogsrv/internal/config"
	"github.com/mugiliam/notecatalogsrv/internal/httpx"
	"github.com/mugiliam/notecatalogsrv/internal/server/middleware"
	"github.com/mugiliam/notecatalogsrv/pkg/api"
	"github.com/riandyrn/otelchi"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
)

const serviceName = "notecatalogsrv"

// Version is stamped at build time with -ldflags "-X .../internal/server.Version=...".
var Version = "1.0.0"

type NoteCatalogServer struct {
	Router *chi.Mux
	auth   *auth.Authenticator
}

// CreateNewServer builds a server from the active configuration.
func CreateNewServer() (*NoteCatalogServer, error) {
	c := config.Config()
	s := &NoteCatalogServer{
		Router: chi.NewRouter(),
		auth: auth.New(auth.Options{
			Username:     c.Auth.AdminUsername,
			PasswordHash: c.Auth.AdminPasswordHash,
			TokenSecret:  c.Auth.TokenSecret,
			TokenTTL:     c.Auth.TokenTTL.Duration,
		}),
	}
	return s, nil
}

func (s *NoteCatalogServer) MountHandlers() {
	s.Router.Use(httpx.RequestLogger)
	s.Router.Use(chimiddleware.Recoverer)
	if config.Config().Server.HandleCORS {
		s.Router.Use(s.corsHandler())
	}
	s.Router.Use(otelchi.Middleware(serviceName,
		otelchi.WithChiRoutes(s.Router),
		otelchi.WithTracerProvider(otel.GetTracerProvider()),
	))
	s.Router.Route("/api", s.mountResourceHandlers)

	if zerolog.GlobalLevel() <= zerolog.TraceLevel {
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			log.Trace().Str("method", method).Str("route", route).Msg("route")
			return nil
		}
		if err := chi.Walk(s.Router, walkFunc); err != nil {
			log.Error().Err(err).Msg("unable to walk routes")
		}
	}
}

func (s *NoteCatalogServer) mountResourceHandlers(r chi.Router) {
	r.Get("/version", s.getVersion)
	apis.AuthRouter(r, s.auth)
	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadScopedDB)
		r.Get("/health", httpx.WrapHttpRsp(s.getHealth))
		apis.Router(r, s.auth)
	})
}

func (s *NoteCatalogServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &api.GetVersionRsp{
		ServerVersion: "NoteCatalogSrv: " + Version,
		ApiVersion:    api.ApiVersion_1_0,
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}

func (s *NoteCatalogServer) getHealth(r *http.Request) (*httpx.Response, error) {
	if err := catalogmanager.Health(r.Context()); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   &api.HealthRsp{Status: "ok", Database: "ok"},
	}, nil
}

func (s *NoteCatalogServer) corsHandler() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: config.Config().Server.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", httpx.RequestIDHeader},
		ExposedHeaders:   []string{httpx.RequestIDHeader, "Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

// Serve listens on addr until ctx is cancelled, then drains in-flight requests for
// at most shutdownTimeout.
func (s *NoteCatalogServer) Serve(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Ctx(ctx).Info().Str("addr", addr).Msg("note catalog server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Ctx(ctx).Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
