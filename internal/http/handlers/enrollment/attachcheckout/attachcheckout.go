// Package attachcheckout реализует HTTP-обработчик привязки
// checkout-сессии платёжного виджета к записи участника.
package attachcheckout

import (
	"context"
	"encoding/json"
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

// Service описывает интерфейс бизнес-логики привязки checkout-сессии.
type Service interface {
	AttachCheckout(ctx context.Context, enrollmentID int, userUID, origin string, payload []byte) error
}

// Handler обрабатывает запросы на привязку checkout-сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Request — сообщение платёжного виджета, переданное клиентом как есть:
// origin события и его непарсенный payload.
type Request struct {
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data"`
}

// ServeHTTP godoc
// @Summary Привязать checkout-сессию к записи
// @Description Принимает сообщение платёжного виджета и привязывает его checkout-сессию к pending-записи. Webhook провайдера позже переведёт запись в paid.
// @Tags Enrollments
// @Accept  json
// @Produce  json
// @Param id path int true "ID записи"
// @Param request body Request true "Сообщение виджета"
// @Success 200 {object} map[string]any "Checkout-сессия привязана"
// @Failure 400 {object} response.ErrorResponse "Чужой origin или не то сообщение"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена или уже привязана"
// @Router /enrollments/{id}/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.enrollment.attachcheckout"

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

	enrollmentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	err = h.service.AttachCheckout(r.Context(), enrollmentID, userUID, req.Origin, req.Data)
	switch {
	case errors.Is(err, enrollment.ErrOriginNotAllowed):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("message origin is not allowed"))
		return
	case errors.Is(err, enrollment.ErrNotCheckoutComplete):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("not a checkout completion message"))
		return
	case errors.Is(err, repository.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("enrollment not found or checkout already attached"))
		return
	case err != nil:
		log.Error("failed to attach checkout session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not attach checkout session"))
		return
	}

	log.Info("checkout session attached", slog.Int("enrollment_id", enrollmentID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "checkout session attached",
	}))
}
