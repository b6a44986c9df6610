// Package storage реализует единственную конечную точку хранилища подписок.
//
// Все операции выполняются через POST с полем action: get возвращает список
// подписок, save полностью заменяет список, sync объединяет отложенные
// изменения клиента с удаленным списком.
package storage

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/trakio/trakio/internal/http/middlewarectx"
	"github.com/trakio/trakio/internal/lib/sl"
	"github.com/trakio/trakio/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP выполняет действие над хранилищем подписок пользователя.
//
// @Summary      Операции с хранилищем подписок
// @Description  Выполняет get, save или sync над списком подписок пользователя
// @Tags         storage
// @Accept       json
// @Produce      json
// @Param        request body models.StorageRequest true "Действие и данные"
// @Success      200 {object} models.StorageResponse
// @Failure      400 {object} models.StorageResponse
// @Failure      403 {object} models.StorageResponse
// @Failure      500 {object} models.StorageResponse
// @Security     BearerAuth
// @Router       /storage [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.storage"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.StorageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, models.StorageResponse{Error: "invalid request body"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, models.StorageResponse{Error: "invalid action or email"})
		return
	}

	tokenEmail, ok := r.Context().Value(middlewarectx.Email).(string)
	if !ok || tokenEmail == "" {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, models.StorageResponse{Error: "user identification missing"})
		return
	}
	if tokenEmail != req.Email {
		log.Error("email mismatch", slog.String("token_email", tokenEmail))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, models.StorageResponse{Error: "email does not match token"})
		return
	}

	log.Info("storage action requested",
		slog.String("action", req.Action),
		slog.String("email", req.Email))

	switch req.Action {
	case models.ActionGet:
		subs, err := h.service.Get(r.Context(), req.Email)
		if err != nil {
			log.Error("failed to get subscriptions", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, models.StorageResponse{Error: "failed to load subscriptions"})
			return
		}
		render.JSON(w, r, models.StorageResponse{Subscriptions: subs})

	case models.ActionSave:
		if err := h.service.Save(r.Context(), req.Email, req.Subscriptions); err != nil {
			log.Error("failed to save subscriptions", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, models.StorageResponse{Error: "failed to save subscriptions"})
			return
		}
		render.JSON(w, r, models.StorageResponse{OK: true})

	case models.ActionSync:
		mergedCount, err := h.service.Sync(r.Context(), req.Email, req.Subscriptions)
		if err != nil {
			log.Error("failed to sync subscriptions", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, models.StorageResponse{Error: "failed to sync subscriptions"})
			return
		}
		render.JSON(w, r, models.StorageResponse{OK: true, MergedCount: mergedCount})

	default:
		// validate не должен пропустить неизвестное действие
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, models.StorageResponse{Error: "unknown action"})
	}
}
