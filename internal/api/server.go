package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Mirxa893/zola/internal/middleware"
	"github.com/Mirxa893/zola/internal/registry"
	"github.com/Mirxa893/zola/internal/schema"
)

type ChatHandler interface {
	Handle(ctx context.Context, req schema.ChatRequest) (schema.ChatResponse, error)
}

type ModelLister interface {
	AllWithAccessFlags(ctx context.Context) []registry.AccessibleModel
	ForProviders(ctx context.Context, providerIDs []string) []registry.AccessibleModel
	Invalidate()
}

type KeyStatuser interface {
	KeyStatus(ctx context.Context, userID string) (map[string]bool, error)
}

type Deps struct {
	Chat      ChatHandler
	Models    ModelLister
	KeyStatus KeyStatuser
	Users     middleware.UserResolver
}

type Server struct {
	Router http.Handler
}

func NewServer(logger zerolog.Logger, deps Deps) (*Server, error) {
	if deps.Chat == nil || deps.Models == nil {
		return nil, errors.New("api: chat and model dependencies are required")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.AccessLog(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/chat", Chat(deps.Chat))
	r.Get("/models", ListModels(deps.Models))
	r.Post("/models/refresh", RefreshModels(deps.Models))

	if deps.KeyStatus != nil && deps.Users != nil {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthenticateUser(deps.Users))
			r.Get("/user-key-status", UserKeyStatus(deps.KeyStatus, logger))
		})
	}

	return &Server{Router: r}, nil
}
