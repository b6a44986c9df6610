// Package health реализует проверку живости сервера.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/trakio/trakio/internal/http/response"
)

type Handler struct{}

func New() *Handler {
	return &Handler{}
}

// ServeHTTP отвечает статусом OK, если сервер работает.
//
// @Summary      Проверка живости
// @Tags         health
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]string{"status": "alive"}))
}
