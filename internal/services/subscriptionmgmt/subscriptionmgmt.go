// Package subscriptionmgmt содержит логику управления регулярной подпиской:
// отмена в конце периода, снятие отмены и немедленная отмена.
// Каждое действие — один идемпотентный вызов платёжного провайдера,
// результат зеркалируется в строку подписчика.
package subscriptionmgmt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/runmeet/runmeet-backend/internal/lib/sl"
	"github.com/runmeet/runmeet-backend/internal/models"
	"github.com/runmeet/runmeet-backend/internal/paymentprovider"
)

// Поддерживаемые действия над подпиской.
const (
	ActionCancelAtPeriodEnd = "cancel_at_period_end"
	ActionReactivate        = "reactivate"
	ActionCancelImmediately = "cancel_immediately"
)

// Provider описывает управляющие вызовы платёжного провайдера.
type Provider interface {
	SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*paymentprovider.SubscriptionState, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*paymentprovider.SubscriptionState, error)
}

// SubscriberRepository описывает контракт зеркалирования подписки в базу.
type SubscriberRepository interface {
	UpsertSubscriber(ctx context.Context, sub models.Subscriber) error
	GetSubscriberBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscriber, error)
}

// ManageResult — результат управляющего действия над подпиской.
type ManageResult struct {
	Success           bool       `json:"success"`
	Action            string     `json:"action"`
	SubscriptionID    string     `json:"subscription_id"`
	Status            string     `json:"status,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	Message           string     `json:"message,omitempty"`
}

// Service управляет подписками через платёжного провайдера.
type Service struct {
	provider    Provider
	subscribers SubscriberRepository
	log         *slog.Logger
}

// New создает новый экземпляр Service.
func New(provider Provider, subscribers SubscriberRepository, log *slog.Logger) *Service {
	return &Service{
		provider:    provider,
		subscribers: subscribers,
		log:         log,
	}
}

// Manage выполняет одно действие над подпиской и возвращает его результат.
// Неизвестное действие — ошибка без обращения к провайдеру.
func (s *Service) Manage(ctx context.Context, req models.DummyManageSubscription) (*ManageResult, error) {
	const op = "subscriptionmgmt.Manage"

	var (
		state *paymentprovider.SubscriptionState
		err   error
	)
	switch req.Action {
	case ActionCancelAtPeriodEnd:
		state, err = s.provider.SetCancelAtPeriodEnd(ctx, req.SubscriptionID, true)
	case ActionReactivate:
		state, err = s.provider.SetCancelAtPeriodEnd(ctx, req.SubscriptionID, false)
	case ActionCancelImmediately:
		state, err = s.provider.CancelSubscription(ctx, req.SubscriptionID)
	default:
		return nil, fmt.Errorf("%s: unknown action %q", op, req.Action)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mirror(ctx, state)

	result := &ManageResult{
		Success:           true,
		Action:            req.Action,
		SubscriptionID:    state.ID,
		Status:            state.Status,
		CancelAtPeriodEnd: state.CancelAtPeriodEnd,
		CurrentPeriodEnd:  state.CurrentPeriodEnd,
		CancelledAt:       state.CancelledAt,
		Message:           actionMessage(req.Action),
	}
	s.log.Info("subscription action applied",
		slog.String("action", req.Action),
		slog.String("status", state.Status),
		slog.Bool("cancel_at_period_end", state.CancelAtPeriodEnd))
	return result, nil
}

// mirror обновляет строку подписчика по свежему состоянию провайдера.
// Сбой зеркалирования не отменяет уже применённое действие.
func (s *Service) mirror(ctx context.Context, state *paymentprovider.SubscriptionState) {
	existing, err := s.subscribers.GetSubscriberBySubscriptionID(ctx, state.ID)
	if err != nil {
		s.log.Warn("subscriber row not found, mirror skipped",
			slog.String("subscription_id", state.ID), sl.Err(err))
		return
	}
	existing.Status = state.Status
	existing.CancelAtPeriodEnd = state.CancelAtPeriodEnd
	existing.CurrentPeriodEnd = state.CurrentPeriodEnd
	if err := s.subscribers.UpsertSubscriber(ctx, *existing); err != nil {
		s.log.Warn("failed to mirror subscription state", sl.Err(err))
	}
}

func actionMessage(action string) string {
	switch action {
	case ActionCancelAtPeriodEnd:
		return "subscription will be cancelled at the end of the current period"
	case ActionReactivate:
		return "subscription reactivated"
	case ActionCancelImmediately:
		return "subscription cancelled"
	default:
		return ""
	}
}
