package models

import "time"

// Subscriber отражает состояние регулярной подписки пользователя,
// зеркалируемое из платёжного провайдера. Авторитетный источник — провайдер;
// строка обновляется по результатам управляющих вызовов и webhook-событий.
type Subscriber struct {
	UserUID              string
	StripeSubscriptionID string
	Status               string
	CancelAtPeriodEnd    bool
	CurrentPeriodEnd     *time.Time
	UpdatedAt            time.Time
}

// DummyManageSubscription используется для приёма управляющего запроса
// подписки из JSON. Поддерживаются три действия, каждое — один
// идемпотентный вызов провайдера.
type DummyManageSubscription struct {
	Action         string `json:"action" validate:"required,oneof=cancel_at_period_end reactivate cancel_immediately"`
	SubscriptionID string `json:"subscription_id" validate:"required"`
	CustomerID     string `json:"customer_id,omitempty"`
	Reason         string `json:"reason,omitempty"`
}
