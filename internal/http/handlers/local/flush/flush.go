// Package flush реализует локальный обработчик принудительной отправки
// очереди накопленных изменений.
package flush

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/trakio/trakio/internal/http/response"
	"github.com/trakio/trakio/internal/lib/sl"
)

type Service interface {
	Flush(ctx context.Context) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.local.flush"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Flush(r.Context()); err != nil {
		log.Error("flush failed", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to deliver queued changes"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "queue flushed",
	}))
}
