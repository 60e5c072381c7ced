package models

import "time"

// Статусы записи участника. Переход в paid/confirmed происходит только
// по подтверждению платёжного провайдера через webhook.
const (
	EnrollmentPending   = "pending"
	EnrollmentPaid      = "paid"
	EnrollmentConfirmed = "confirmed"
	EnrollmentCancelled = "cancelled"
	EnrollmentNoShow    = "noshow"
	EnrollmentPresent   = "present"
)

// Enrollment связывает участника с сессией и хранит корреляционные
// идентификаторы платежа. Не более одной неотменённой записи на пару
// (сессия, пользователь) — обеспечивается частичным уникальным индексом.
type Enrollment struct {
	ID                      int
	SessionID               int
	UserUID                 string
	Status                  string
	StripeCheckoutSessionID string
	StripePaymentIntentID   string
	CreatedAt               time.Time
}
