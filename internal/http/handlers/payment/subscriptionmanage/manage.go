// Package subscriptionmanage реализует HTTP-обработчик управления подпиской:
// отмена в конце периода, снятие отмены и немедленная отмена.
package subscriptionmanage

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/runmeet/runmeet-backend/internal/http/response"
	"github.com/runmeet/runmeet-backend/internal/lib/sl"
	"github.com/runmeet/runmeet-backend/internal/models"
	"github.com/runmeet/runmeet-backend/internal/services/subscriptionmgmt"
)

// Service описывает интерфейс бизнес-логики управления подпиской.
type Service interface {
	Manage(ctx context.Context, req models.DummyManageSubscription) (*subscriptionmgmt.ManageResult, error)
}

// errorResult — тело ошибки этой границы: {success:false, error}, в пару
// к полю success в успешном результате действия.
type errorResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Handler обрабатывает запросы на управление подпиской.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Управлять подпиской
// @Description Выполняет одно действие над подпиской: cancel_at_period_end, reactivate или cancel_immediately.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyManageSubscription true "Управляющее действие"
// @Success 200 {object} subscriptionmgmt.ManageResult "Результат действия"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} errorResult "Сбой провайдера: {success:false, error}"
// @Router /subscription/manage [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.subscriptionmanage"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyManageSubscription
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.Manage(r.Context(), req)
	if err != nil {
		log.Error("failed to manage subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResult{Error: "could not apply subscription action"})
		return
	}

	log.Info("subscription action applied", slog.String("action", req.Action))
	render.JSON(w, r, result)
}
