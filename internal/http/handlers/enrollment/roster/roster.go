// Package roster реализует HTTP-обработчик списка участников сессии
// для её хоста.
package roster

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/runmeet/runmeet-backend/internal/http/middlewarectx"
	"github.com/runmeet/runmeet-backend/internal/http/response"
	"github.com/runmeet/runmeet-backend/internal/lib/sl"
	"github.com/runmeet/runmeet-backend/internal/models"
	"github.com/runmeet/runmeet-backend/internal/services/enrollment"
	"github.com/runmeet/runmeet-backend/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики списка участников.
type Service interface {
	Roster(ctx context.Context, sessionID int, callerUID string) ([]*models.Enrollment, error)
}

// Handler обрабатывает запросы на получение списка участников.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.enrollment.roster"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	sessionID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	list, err := h.service.Roster(r.Context(), sessionID, userUID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	case errors.Is(err, enrollment.ErrNotHost):
		log.Warn("roster access denied", slog.Int("session_id", sessionID))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("only the session host can view enrollments"))
		return
	case err != nil:
		log.Error("failed to list enrollments", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list enrollments"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"enrollments": list,
		"count":       len(list),
	}))
}
