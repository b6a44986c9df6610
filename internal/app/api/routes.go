// Package api предоставляет маршруты для сервера хранилища.
package api

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/trakio/trakio/internal/http/handlers/auth/login"
	"github.com/trakio/trakio/internal/http/handlers/auth/register"
	"github.com/trakio/trakio/internal/http/handlers/health"
	storagehandler "github.com/trakio/trakio/internal/http/handlers/storage"
	"github.com/trakio/trakio/internal/http/middlewarectx"
	"github.com/trakio/trakio/internal/lib/jwt"
	authservice "github.com/trakio/trakio/internal/services/auth"
	storageservice "github.com/trakio/trakio/internal/services/storage"
)

// RegisterRoutes регистрирует все маршруты сервера.
func RegisterRoutes(r chi.Router, logger *slog.Logger, maker jwt.Maker,
	authService *authservice.AuthService, storageService *storageservice.StorageService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/storage", storagehandler.New(logger, storageService).ServeHTTP)
		})
	})

	r.Get("/health", health.New().ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
