// Package read реализует HTTP-обработчик получения сессии по ID
// вместе с её производным состоянием для наблюдателя.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/runmeet/runmeet-backend/internal/http/middlewarectx"
	"github.com/runmeet/runmeet-backend/internal/http/response"
	"github.com/runmeet/runmeet-backend/internal/lib/sl"
	"github.com/runmeet/runmeet-backend/internal/models"
	"github.com/runmeet/runmeet-backend/internal/services/session"
	"github.com/runmeet/runmeet-backend/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики чтения сессии.
type Service interface {
	Read(ctx context.Context, id int) (*models.SessionWithSpots, error)
	Present(sess models.SessionWithSpots, now time.Time, viewerUID string, canEnrollFlag bool) session.Presentation
}

// Handler обрабатывает запросы на получение сессии по ID.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	res, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("session not found"))
			return
		}
		log.Error("failed to read session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read session"))
		return
	}

	// Наблюдатель может быть анонимным: uid тогда пуст.
	viewerUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	presentation := h.service.Present(*res, time.Now(), viewerUID, viewerUID != "")

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"session":      res,
		"presentation": presentation,
	}))
}
