// Package cancel реализует HTTP-обработчик отмены сессии её хостом.
package cancel

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/runmeet/runmeet-backend/internal/http/middlewarectx"
	"github.com/runmeet/runmeet-backend/internal/http/response"
	"github.com/runmeet/runmeet-backend/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики отмены сессии.
type Service interface {
	Cancel(ctx context.Context, id int, hostUID string) (int64, error)
}

// Handler обрабатывает запросы на отмену сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	hostUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || hostUID == "" {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	affected, err := h.service.Cancel(r.Context(), id, hostUID)
	if err != nil {
		log.Error("failed to cancel session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel session"))
		return
	}
	if affected == 0 {
		// Либо сессии нет, либо вызывающий не её хост.
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	}

	log.Info("session cancelled", slog.Int("session_id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "session cancelled successfully",
	}))
}
