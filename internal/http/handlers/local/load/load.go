// Package load реализует локальный обработчик чтения списка подписок.
package load

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/trakio/trakio/internal/http/response"
	"github.com/trakio/trakio/internal/models"
)

type Service interface {
	Load(ctx context.Context, email string) []models.Subscription
}

type Handler struct {
	log     *slog.Logger
	service Service
	email   string
}

func New(log *slog.Logger, service Service, email string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		email:   email,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.local.load"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subs := h.service.Load(r.Context(), h.email)
	log.Info("loaded local subscriptions", slog.Int("count", len(subs)))

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscriptions": subs,
	}))
}
