// Package models содержит доменные структуры маркетплейса пробежек:
// профили пользователей, тренировочные сессии, записи участников
// и зеркальные данные подписок платёжного провайдера.
package models

import "time"

// Роли пользователя.
const (
	RoleParticipant = "participant"
	RoleHost        = "host"
	RoleAdmin       = "admin"
)

// Статусы подписки, зеркалируемые из платёжного провайдера.
const (
	SubStatusNone      = "none"
	SubStatusTrial     = "trial"
	SubStatusActive    = "active"
	SubStatusCancelled = "cancelled"
	SubStatusExpired   = "expired"
)

// Profile представляет профиль зарегистрированного пользователя.
// Поле StripeCustomerID заполняется лениво при первом создании
// checkout-сессии и далее переиспользуется.
type Profile struct {
	UID                 string     // Уникальный идентификатор пользователя
	Email               string     // Электронная почта
	Username            string     // Имя пользователя
	FirstName           string     // Имя
	LastName            string     // Фамилия
	AvatarURL           string     // Ссылка на аватар
	Role                string     // Роль: participant, host или admin
	SubStatus           string     // Снимок статуса подписки
	SubCurrentPeriodEnd *time.Time // Дата окончания оплаченного периода
	StripeCustomerID    string     // ID клиента у платёжного провайдера
	CreatedAt           time.Time
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// DummyProfileUpdate используется для приёма изменяемых полей профиля.
type DummyProfileUpdate struct {
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=60"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=60"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// TokenInfo содержит данные пользователя, извлечённые из bearer-токена.
type TokenInfo struct {
	UserUID  string
	Username string
	Role     string
}
