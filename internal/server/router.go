// Package server exposes the kansible operations over HTTP for a hosting
// runtime: plain JSON endpoints and a websocket endpoint that streams output.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/kaholo/kansible/internal/api"
	"github.com/kaholo/kansible/internal/constants"
	"github.com/kaholo/kansible/internal/executor"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// Service is the set of operations served over HTTP.
type Service interface {
	RunPlaybook(ctx context.Context, req *api.RunPlaybookRequest, progress executor.ProgressFunc) (*api.RunResponse, error)
	RunCommand(ctx context.Context, req *api.RunCommandRequest, progress executor.ProgressFunc) (*api.RunResponse, error)
}

// Router wraps the chi router with the service it serves.
type Router struct {
	router   *chi.Mux
	svc      Service
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewRouter creates a new chi router with routes configured.
// requestTimeout bounds every request, streamed runs included; zero disables it.
func NewRouter(svc Service, logger *slog.Logger, requestTimeout time.Duration) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	router := &Router{
		router: r,
		svc:    svc,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  constants.WebSocketBufferSize,
			WriteBufferSize: constants.WebSocketBufferSize,
		},
	}

	r.Use(middleware.Recoverer)
	r.Use(router.requestIDMiddleware)
	r.Use(router.requestLoggingMiddleware)
	if requestTimeout > 0 {
		r.Use(router.requestTimeoutMiddleware(requestTimeout))
	}

	r.Route(constants.APIPrefix, func(r chi.Router) {
		r.With(setContentTypeJSONMiddleware).Get("/health", router.handleHealth)
		r.With(setContentTypeJSONMiddleware).Post("/playbooks/run", router.handleRunPlaybook)
		r.With(setContentTypeJSONMiddleware).Post("/commands/run", router.handleRunCommand)
		r.Get("/playbooks/stream", router.handleStreamPlaybook)
	})

	return router
}

// ServeHTTP implements http.Handler for use with chi router
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// Handler returns an http.Handler for the router
func (r *Router) Handler() http.Handler {
	return r.router
}
