// Package rules реализует доменную валидацию формы создания сессии.
// Validate — чистая функция без ввода-вывода: проверяет все правила
// по порядку, не останавливаясь на первом нарушении, и возвращает
// упорядоченное отображение "поле → сообщение".
package rules

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Coordinates — пара широта/долгота.
type Coordinates struct {
	Lat float64
	Lng float64
}

// SessionForm — сырые значения полей формы создания сессии.
// Числовые поля приходят строками: нечисловой ввод приводится к нулю
// и затем отклоняется проверками диапазона.
type SessionForm struct {
	Title           string
	Date            string // Формат 2006-01-02
	Time            string // Формат 15:04
	Start           *Coordinates
	End             *Coordinates
	DistanceKm      string
	MaxParticipants string
	AreaHint        string
}

// Имена полей в отображении ошибок.
const (
	FieldTitle           = "title"
	FieldScheduledAt     = "scheduled_at"
	FieldStartPoint      = "start_point"
	FieldEndPoint        = "end_point"
	FieldDistance        = "distance_km"
	FieldMaxParticipants = "max_participants"
	FieldAreaHint        = "area_hint"
)

// Validate проверяет форму и возвращает набор ошибок.
// Пустой набор означает валидную форму.
func Validate(form SessionForm) *Errors {
	errs := NewErrors()

	title := strings.TrimSpace(form.Title)
	if title == "" {
		errs.Add(FieldTitle, "title is required")
	} else if len([]rune(title)) > TitleMaxLen {
		errs.Add(FieldTitle, "title is too long")
	}

	if form.Date == "" || form.Time == "" {
		errs.Add(FieldScheduledAt, "date and time are required")
	} else if _, err := time.Parse("2006-01-02 15:04", form.Date+" "+form.Time); err != nil {
		errs.Add(FieldScheduledAt, "date and time do not form a valid timestamp")
	}

	validateCoordinates(errs, FieldStartPoint, "start point", form.Start)
	validateCoordinates(errs, FieldEndPoint, "end point", form.End)

	distance := parseNumber(form.DistanceKm)
	if distance < DistanceMinKm || distance > DistanceMaxKm {
		errs.Add(FieldDistance, "distance must be a positive number of kilometers")
	}

	capacity := parseNumber(form.MaxParticipants)
	if capacity < ParticipantsMin || capacity > ParticipantsMax {
		errs.Add(FieldMaxParticipants, "capacity must be a positive number of participants")
	}

	if strings.TrimSpace(form.AreaHint) == "" {
		errs.Add(FieldAreaHint, "area description is required")
	}

	return errs
}

// validateCoordinates различает отсутствующую точку и точку вне диапазона:
// UI показывает для них разные сообщения.
func validateCoordinates(errs *Errors, field, label string, c *Coordinates) {
	if c == nil {
		errs.Add(field, label+" is required")
		return
	}
	if !inBounds(c.Lat, LatMin, LatMax) || !inBounds(c.Lng, LngMin, LngMax) {
		errs.Add(field, label+" coordinates are out of range")
	}
}

func inBounds(v, min, max float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= min && v <= max
}

// parseNumber приводит нечисловой ввод к нулю; ноль отклоняется
// проверками диапазона выше.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
