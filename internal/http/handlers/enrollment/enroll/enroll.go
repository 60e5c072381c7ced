// Package enroll реализует HTTP-обработчик записи участника на сессию.
package enroll

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
	"github.com/runmeet/runmeet-backend/internal/services/enrollment"
	"github.com/runmeet/runmeet-backend/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики записи на сессию.
type Service interface {
	Enroll(ctx context.Context, sessionID int, userUID string) (int, error)
}

// Handler обрабатывает запросы на запись.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.enrollment.enroll"

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

	enrollmentID, err := h.service.Enroll(r.Context(), sessionID, userUID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	case errors.Is(err, enrollment.ErrNotEligible):
		log.Warn("enrollment rejected", slog.Int("session_id", sessionID))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("enrollment is not available for this session"))
		return
	case errors.Is(err, repository.ErrAlreadyEnrolled):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("already enrolled in this session"))
		return
	case err != nil:
		log.Error("failed to enroll", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not enroll"))
		return
	}

	log.Info("enrollment created", slog.Int("enrollment_id", enrollmentID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"enrollment_id": enrollmentID,
		"status":        "pending",
	}))
}
