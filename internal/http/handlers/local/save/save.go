// Package save реализует локальный обработчик сохранения списка подписок.
//
// Обработчик доступен только на loopback-адресе агента и не требует
// аутентификации: личность пользователя задана конфигурацией агента.
package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/trakio/trakio/internal/agent/coordinator"
	"github.com/trakio/trakio/internal/http/response"
	"github.com/trakio/trakio/internal/lib/sl"
	"github.com/trakio/trakio/internal/models"
)

type Service interface {
	Persist(ctx context.Context, email string, subs []models.Subscription) error
}

// Request — список подписок для сохранения. Пустой список допустим:
// так удаляется последняя подписка.
type Request struct {
	Subscriptions []models.Subscription `json:"subscriptions" validate:"dive"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	email    string
	validate *validator.Validate
}

func New(log *slog.Logger, service Service, email string) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		email:    email,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.local.save"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	// подпискам без идентификатора присваивается новый uuid
	for i := range req.Subscriptions {
		if req.Subscriptions[i].ID == "" {
			req.Subscriptions[i].ID = uuid.New().String()
		}
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	err := h.service.Persist(r.Context(), h.email, req.Subscriptions)
	if err != nil {
		if errors.Is(err, coordinator.ErrRemoteDeferred) {
			log.Info("saved locally, remote delivery deferred")
			render.Status(r, http.StatusAccepted)
			render.JSON(w, r, response.StatusOKWithData(map[string]any{
				"message": "saved locally, will retry delivery",
			}))
			return
		}
		log.Error("failed to persist subscriptions", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to save subscriptions"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count": len(req.Subscriptions),
	}))
}
