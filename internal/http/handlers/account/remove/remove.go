// Package remove реализует HTTP-обработчик удаления учётной записи.
// Флаг подтверждения проверяется до авторизации: запрос без
// {"confirm": true} отклоняется с 400 независимо от токена.
package remove

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/runmeet/runmeet-backend/internal/http/middlewarectx"
	"github.com/runmeet/runmeet-backend/internal/http/response"
	"github.com/runmeet/runmeet-backend/internal/lib/sl"
	"github.com/runmeet/runmeet-backend/internal/services/account"
)

// Service описывает интерфейс бизнес-логики удаления учётной записи.
type Service interface {
	DeleteAccount(ctx context.Context, userUID string) error
}

// Handler обрабатывает запросы на удаление учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Request — тело запроса на удаление.
type Request struct {
	Confirm bool `json:"confirm"`
}

// ServeHTTP godoc
// @Summary Удалить учётную запись
// @Description Удаляет профиль, его данные и учётные данные. Требует {"confirm": true}.
// @Tags Account
// @Accept  json
// @Produce  json
// @Param request body Request true "Подтверждение удаления"
// @Success 200 {object} map[string]any "Учётная запись удалена"
// @Failure 400 {object} response.ErrorResponse "Нет подтверждения"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Сбой на одном из шагов удаления"
// @Router /account [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Confirm {
		log.Error("deletion not confirmed")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("account deletion must be confirmed"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userUID); err != nil {
		log.Error("failed to delete account", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(deletionStepMessage(err)))
		return
	}

	log.Info("account deleted", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "account deleted successfully",
	}))
}

// deletionStepMessage называет упавший шаг удаления в тексте ошибки.
func deletionStepMessage(err error) string {
	switch {
	case errors.Is(err, account.ErrLoadProfile):
		return "failed to load profile"
	case errors.Is(err, account.ErrDeleteProfile):
		return "failed to delete profile data"
	case errors.Is(err, account.ErrDeleteIdentity):
		return "failed to delete identity"
	default:
		return "failed to delete account"
	}
}
