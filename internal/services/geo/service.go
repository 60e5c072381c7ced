package geo

import (
	"context"
	"log/slog"
	"strings"

	"github.com/runmeet/runmeet-backend/internal/lib/sl"
)

// Point — результат геокодирования. Нулевое значение означает
// "координаты не определены".
type Point struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// DistanceCell — одна ячейка матрицы расстояний. Known=false означает,
// что провайдер не смог посчитать эту пару; остальные ячейки при этом
// остаются пригодными.
type DistanceCell struct {
	Known           bool  `json:"known"`
	DistanceMeters  int64 `json:"distance_meters"`
	DurationSeconds int64 `json:"duration_seconds"`
}

// Provider описывает вызовы картографического провайдера.
type Provider interface {
	Geocode(ctx context.Context, address string) (*GeocodeResponse, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error)
	DistanceMatrix(ctx context.Context, origins, destinations []string) (*DistanceMatrixResponse, error)
}

// Service — геокодирование с деградацией: пустой вход и сбой провайдера
// дают нулевой результат без ошибки, сбой при этом логируется.
// Сигнал неудачи для вызывающего — отсутствие изменений, не ошибка.
type Service struct {
	provider Provider
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(provider Provider, log *slog.Logger) *Service {
	return &Service{provider: provider, log: log}
}

// Geocode переводит адрес в координаты. Пустой адрес — ноль без вызова.
func (s *Service) Geocode(ctx context.Context, address string) (Point, error) {
	if strings.TrimSpace(address) == "" {
		return Point{}, nil
	}

	resp, err := s.provider.Geocode(ctx, address)
	if err != nil {
		s.log.Warn("geocoding failed", slog.String("address", address), sl.Err(err))
		return Point{}, nil
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		s.log.Warn("geocoding returned no results",
			slog.String("address", address), slog.String("status", resp.Status))
		return Point{}, nil
	}

	first := resp.Results[0]
	return Point{
		Lat:     first.Geometry.Location.Lat,
		Lng:     first.Geometry.Location.Lng,
		Address: first.FormattedAddress,
	}, nil
}

// ReverseGeocode переводит координаты в адрес. Нулевые координаты —
// пустой результат без вызова.
func (s *Service) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	if lat == 0 && lng == 0 {
		return "", nil
	}

	resp, err := s.provider.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		s.log.Warn("reverse geocoding failed", sl.Err(err))
		return "", nil
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		return "", nil
	}
	return resp.Results[0].FormattedAddress, nil
}

// Distances возвращает матрицу расстояний. Частичные сбои на уровне
// элементов сохраняются как неизвестные ячейки, а не как ошибка пакета.
func (s *Service) Distances(ctx context.Context, origins, destinations []string) ([][]DistanceCell, error) {
	if len(origins) == 0 || len(destinations) == 0 {
		return nil, nil
	}

	resp, err := s.provider.DistanceMatrix(ctx, origins, destinations)
	if err != nil {
		s.log.Warn("distance matrix request failed", sl.Err(err))
		return nil, nil
	}

	matrix := make([][]DistanceCell, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		cells := make([]DistanceCell, 0, len(row.Elements))
		for _, el := range row.Elements {
			if el.Status != "OK" {
				cells = append(cells, DistanceCell{})
				continue
			}
			cells = append(cells, DistanceCell{
				Known:           true,
				DistanceMeters:  el.Distance.Value,
				DurationSeconds: el.Duration.Value,
			})
		}
		matrix = append(matrix, cells)
	}
	return matrix, nil
}
