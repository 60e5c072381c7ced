package session

import (
	"fmt"
	"time"

	"github.com/runmeet/runmeet-backend/internal/models"
)

// Метки статуса для карточки сессии. Показывается ровно одна метка,
// первая подошедшая по приоритету: прошедшая, заполненная, своя, доступная.
const (
	LabelCompleted = "completed"
	LabelFull      = "full"
	LabelOwn       = "my session"
	LabelAvailable = "available"
)

// Presentation — производное состояние сессии для отображения.
type Presentation struct {
	StatusLabel string `json:"status_label"`
	IsPast      bool   `json:"is_past"`
	IsFull      bool   `json:"is_full"`
	IsOwn       bool   `json:"is_own"`
	SpotsLeft   int    `json:"spots_left"`
	CanEnroll   bool   `json:"can_enroll"`
	Price       string `json:"price"`
}

// Derive вычисляет производные поля карточки из сессии, числа свободных мест
// (посчитанного слоем данных), текущего времени и наблюдателя.
// canEnrollFlag — внешний признак права записи (статус подписки наблюдателя).
func Derive(sess models.Session, availableSpots int, now time.Time, viewerUID string, canEnrollFlag bool) Presentation {
	isPast := sess.ScheduledAt.Before(now)
	isFull := availableSpots <= 0
	isOwn := viewerUID != "" && viewerUID == sess.HostUID

	var label string
	switch {
	case isPast:
		label = LabelCompleted
	case isFull:
		label = LabelFull
	case isOwn:
		label = LabelOwn
	default:
		label = LabelAvailable
	}

	spots := availableSpots
	if spots < 0 {
		spots = 0
	}

	return Presentation{
		StatusLabel: label,
		IsPast:      isPast,
		IsFull:      isFull,
		IsOwn:       isOwn,
		SpotsLeft:   spots,
		CanEnroll:   !isPast && !isFull && !isOwn && canEnrollFlag,
		Price:       FormatPrice(sess.PriceCents),
	}
}

// FormatPrice переводит минорные единицы в строку с двумя знаками после
// запятой. Целочисленная арифметика: без неоднозначности округления.
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
