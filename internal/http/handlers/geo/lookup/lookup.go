// Package lookup реализует функциональную границу геокодирования.
// Тело ответа провайдера отдаётся клиенту как есть, без разбора;
// любой сбой, включая отсутствие учётных данных провайдера,
// превращается в {error} и HTTP 400.
package lookup

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/runmeet/runmeet-backend/internal/lib/sl"
)

// Provider описывает сырой вызов картографического провайдера.
type Provider interface {
	Raw(ctx context.Context, action string, params url.Values) ([]byte, error)
}

// Handler обрабатывает геозапросы.
type Handler struct {
	log      *slog.Logger
	provider Provider
}

// New создает новый Handler с переданным логгером и провайдером.
func New(log *slog.Logger, provider Provider) *Handler {
	return &Handler{log: log, provider: provider}
}

// Request — тело геозапроса. Параметры зависят от действия.
type Request struct {
	Action       string   `json:"action"`
	Address      string   `json:"address,omitempty"`
	Lat          float64  `json:"lat,omitempty"`
	Lng          float64  `json:"lng,omitempty"`
	Origins      []string `json:"origins,omitempty"`
	Destinations []string `json:"destinations,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.geo.lookup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid request body"})
		return
	}

	params := url.Values{}
	switch req.Action {
	case "geocode":
		params.Set("address", req.Address)
	case "reverse_geocode":
		latlng := strconv.FormatFloat(req.Lat, 'f', -1, 64) + "," +
			strconv.FormatFloat(req.Lng, 'f', -1, 64)
		params.Set("latlng", latlng)
	case "directions":
		params.Set("origins", strings.Join(req.Origins, "|"))
		params.Set("destinations", strings.Join(req.Destinations, "|"))
	default:
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "unknown action"})
		return
	}

	body, err := h.provider.Raw(r.Context(), req.Action, params)
	if err != nil {
		log.Error("geo provider call failed", slog.String("action", req.Action), sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "geo lookup failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
