// Package syncup реализует локальный обработчик синхронизации с сервером.
package syncup

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/trakio/trakio/internal/agent/coordinator"
	"github.com/trakio/trakio/internal/http/response"
	"github.com/trakio/trakio/internal/lib/sl"
)

type Service interface {
	Sync(ctx context.Context, email string) (int, error)
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
	const op = "handlers.local.syncup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	mergedCount, err := h.service.Sync(r.Context(), h.email)
	if err != nil {
		if errors.Is(err, coordinator.ErrRemoteDeferred) {
			log.Info("sync deferred, no connection")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("no connection to server"))
			return
		}
		log.Error("sync failed", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to sync with server"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"mergedCount": mergedCount,
	}))
}
