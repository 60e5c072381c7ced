// Package list реализует HTTP-обработчик списка опубликованных сессий
// с пагинацией и производным состоянием каждой карточки.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/runmeet/runmeet-backend/internal/http/middlewarectx"
	"github.com/runmeet/runmeet-backend/internal/http/response"
	"github.com/runmeet/runmeet-backend/internal/lib/sl"
	"github.com/runmeet/runmeet-backend/internal/models"
	"github.com/runmeet/runmeet-backend/internal/services/session"
)

const defaultLimit = 20

// Service описывает интерфейс бизнес-логики списка сессий.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.SessionWithSpots, error)
	Present(sess models.SessionWithSpots, now time.Time, viewerUID string, canEnrollFlag bool) session.Presentation
}

// Handler обрабатывает запросы на список сессий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

type sessionCard struct {
	Session      *models.SessionWithSpots `json:"session"`
	Presentation session.Presentation     `json:"presentation"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	sessions, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list sessions", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list sessions"))
		return
	}

	viewerUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	now := time.Now()

	cards := make([]sessionCard, 0, len(sessions))
	for _, s := range sessions {
		cards = append(cards, sessionCard{
			Session:      s,
			Presentation: h.service.Present(*s, now, viewerUID, viewerUID != ""),
		})
	}

	log.Info("sessions listed", slog.Int("count", len(cards)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"sessions": cards,
	}))
}
