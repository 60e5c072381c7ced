// Package validateform реализует HTTP-обработчик проверки формы сессии.
// Возвращает упорядоченное отображение поле→ошибка, чтобы клиент мог
// подсветить поля в порядке их следования в форме.
package validateform

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/runmeet/runmeet-backend/internal/http/response"
	"github.com/runmeet/runmeet-backend/internal/lib/sl"
	"github.com/runmeet/runmeet-backend/internal/rules"
)

// Handler обрабатывает запросы на проверку формы сессии.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// Request — сырые значения формы. Числовые поля приходят строками.
type Request struct {
	Title           string             `json:"title"`
	Date            string             `json:"date"`
	Time            string             `json:"time"`
	Start           *rules.Coordinates `json:"start,omitempty"`
	End             *rules.Coordinates `json:"end,omitempty"`
	DistanceKm      string             `json:"distance_km"`
	MaxParticipants string             `json:"max_participants"`
	AreaHint        string             `json:"area_hint"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.validateform"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	errs := rules.Validate(rules.SessionForm{
		Title:           req.Title,
		Date:            req.Date,
		Time:            req.Time,
		Start:           req.Start,
		End:             req.End,
		DistanceKm:      req.DistanceKm,
		MaxParticipants: req.MaxParticipants,
		AreaHint:        req.AreaHint,
	})

	ordered := make([]fieldError, 0, errs.Len())
	for _, field := range errs.Fields() {
		ordered = append(ordered, fieldError{Field: field, Message: errs.Get(field)})
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"valid":       errs.IsEmpty(),
		"errors":      ordered,
		"first_error": errs.First(),
	}))
}
