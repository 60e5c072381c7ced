// Package checkoutcreate реализует HTTP-обработчик создания
// checkout-сессии подписки у платёжного провайдера.
package checkoutcreate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/runmeet/runmeet-backend/internal/http/middlewarectx"
	"github.com/runmeet/runmeet-backend/internal/http/response"
	"github.com/runmeet/runmeet-backend/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики создания checkout-сессии.
type Service interface {
	CreateSubscriptionCheckout(ctx context.Context, userUID string) (string, error)
}

// Handler обрабатывает запросы на создание checkout-сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создать checkout-сессию подписки
// @Description Создает checkout-сессию у платёжного провайдера и возвращает URL для редиректа.
// @Tags Payments
// @Produce  json
// @Success 200 {object} map[string]any "URL checkout-сессии"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.TimestampedError "Сбой провайдера или конфигурации"
// @Router /checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkoutcreate"

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

	url, err := h.service.CreateSubscriptionCheckout(r.Context(), userUID)
	if err != nil {
		// Любой сбой — конфигурация, профиль, провайдер — отдаётся
		// одинаково: {error, timestamp} и HTTP 500.
		log.Error("failed to create checkout session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorWithTimestamp("failed to create checkout session"))
		return
	}

	log.Info("checkout session created")
	render.JSON(w, r, map[string]string{"url": url})
}
