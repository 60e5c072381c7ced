package models

import "time"

// Интенсивность пробежки.
const (
	IntensityLow    = "low"
	IntensityMedium = "medium"
	IntensityHigh   = "high"
)

// Аудитория сессии.
const (
	AudienceMixed     = "mixed"
	AudienceWomenOnly = "women_only"
	AudienceMenOnly   = "men_only"
)

// Статусы сессии.
const (
	SessionDraft     = "draft"
	SessionPublished = "published"
	SessionCancelled = "cancelled"
	SessionCompleted = "completed"
)

// Session представляет тренировочную сессию, созданную хостом.
// Инварианты: MaxParticipants >= MinParticipants >= 1, PriceCents >= 0,
// широта в [-90, 90], долгота в [-180, 180].
type Session struct {
	ID              int
	HostUID         string    // Профиль хоста
	Title           string    // Название сессии
	Description     string    // Описание
	ScheduledAt     time.Time // Дата и время старта
	StartLat        float64
	StartLng        float64
	EndLat          float64
	EndLng          float64
	DistanceKm      float64 // Дистанция в километрах
	Intensity       string  // low, medium или high
	Audience        string  // mixed, women_only или men_only
	MinParticipants int
	MaxParticipants int
	PriceCents      int64  // Цена в минорных единицах валюты
	AreaHint        string // Текстовое описание района старта
	Status          string // draft, published, cancelled или completed
	CreatedAt       time.Time
}

// SessionWithSpots объединяет сессию и число свободных мест,
// посчитанное слоем данных (активные записи не пересчитываются выше).
type SessionWithSpots struct {
	Session
	AvailableSpots int
}

// DummySession используется для приёма данных новой сессии из JSON-запроса,
// прежде чем конвертировать их в Session. Дата и время приходят строками,
// чтобы их можно было валидировать и парсить вручную.
type DummySession struct {
	Title           string  `json:"title" validate:"required"`
	Description     string  `json:"description,omitempty"`
	Date            string  `json:"date" validate:"required"`       // Формат 2006-01-02
	Time            string  `json:"time" validate:"required"`       // Формат 15:04
	StartLat        float64 `json:"start_lat" validate:"min=-90,max=90"`
	StartLng        float64 `json:"start_lng" validate:"min=-180,max=180"`
	EndLat          float64 `json:"end_lat" validate:"min=-90,max=90"`
	EndLng          float64 `json:"end_lng" validate:"min=-180,max=180"`
	DistanceKm      float64 `json:"distance_km" validate:"required,gt=0"`
	Intensity       string  `json:"intensity" validate:"required,oneof=low medium high"`
	Audience        string  `json:"audience" validate:"required,oneof=mixed women_only men_only"`
	MinParticipants int     `json:"min_participants" validate:"required,gte=1"`
	MaxParticipants int     `json:"max_participants" validate:"required,gtefield=MinParticipants"`
	PriceCents      int64   `json:"price_cents" validate:"gte=0"`
	AreaHint        string  `json:"area_hint" validate:"required"`
}
