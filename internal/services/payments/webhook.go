// Package payments содержит обработку webhook-событий платёжного
// провайдера: подтверждение оплаты записи и синхронизацию подписки.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v81"

	"github.com/runmeet/runmeet-backend/internal/lib/sl"
	"github.com/runmeet/runmeet-backend/internal/models"
)

// Storage описывает контракт хранилища для обработки webhook-событий.
type Storage interface {
	MarkEnrollmentPaid(ctx context.Context, checkoutSessionID, paymentIntentID string) (*models.Enrollment, error)
	UpsertSubscriber(ctx context.Context, sub models.Subscriber) error
	GetUIDByStripeCustomerID(ctx context.Context, customerID string) (string, error)
	UpdateSubscriptionStatus(ctx context.Context, uid, status string, periodEnd *time.Time) error
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// ConfirmedEvent — событие о подтверждённой оплатой записи.
type ConfirmedEvent struct {
	EnrollmentID int    `json:"enrollment_id"`
	SessionID    int    `json:"session_id"`
	UserUID      string `json:"user_uid"`
}

// Service обрабатывает webhook-события провайдера.
type Service struct {
	storage Storage
	events  EventPublisher
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(storage Storage, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		storage: storage,
		events:  events,
		log:     log,
	}
}

// ProcessEvent обрабатывает одно событие провайдера. Неизвестные типы
// игнорируются: провайдер шлёт много событий, интересны единицы.
func (s *Service) ProcessEvent(ctx context.Context, event stripe.Event) error {
	const op = "payments.ProcessEvent"

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return s.handleCheckoutCompleted(ctx, &sess)

	case "customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return s.syncSubscription(ctx, &sub)

	default:
		s.log.Info("ignored webhook event", slog.String("type", string(event.Type)))
		return nil
	}
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, sess *stripe.CheckoutSession) error {
	const op = "payments.handleCheckoutCompleted"

	if sess.Mode == stripe.CheckoutSessionModeSubscription {
		if sess.Subscription == nil {
			s.log.Warn("subscription checkout completed without subscription", slog.String("checkout_id", sess.ID))
			return nil
		}
		return s.syncSubscription(ctx, sess.Subscription)
	}

	var paymentIntentID string
	if sess.PaymentIntent != nil {
		paymentIntentID = sess.PaymentIntent.ID
	}

	enr, err := s.storage.MarkEnrollmentPaid(ctx, sess.ID, paymentIntentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.events.Publish("enrollment.confirmed", ConfirmedEvent{
		EnrollmentID: enr.ID,
		SessionID:    enr.SessionID,
		UserUID:      enr.UserUID,
	}); err != nil {
		s.log.Error("failed to publish enrollment confirmation", sl.Err(err))
	}

	s.log.Info("enrollment paid",
		slog.Int("enrollment_id", enr.ID),
		slog.Int("session_id", enr.SessionID))
	return nil
}

// syncSubscription зеркалирует состояние подписки провайдера в строку
// подписчика и снимок статуса в профиле.
func (s *Service) syncSubscription(ctx context.Context, sub *stripe.Subscription) error {
	const op = "payments.syncSubscription"

	if sub.Customer == nil {
		return fmt.Errorf("%s: subscription %s has no customer", op, sub.ID)
	}

	uid, err := s.storage.GetUIDByStripeCustomerID(ctx, sub.Customer.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var periodEnd *time.Time
	if sub.CurrentPeriodEnd > 0 {
		t := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		periodEnd = &t
	}

	if err := s.storage.UpsertSubscriber(ctx, models.Subscriber{
		UserUID:              uid,
		StripeSubscriptionID: sub.ID,
		Status:               string(sub.Status),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
		CurrentPeriodEnd:     periodEnd,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	status := profileStatus(sub.Status)
	if err := s.storage.UpdateSubscriptionStatus(ctx, uid, status, periodEnd); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription synced",
		slog.String("user_uid", uid),
		slog.String("status", status))
	return nil
}

// profileStatus переводит статус провайдера в снимок статуса профиля.
func profileStatus(status stripe.SubscriptionStatus) string {
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return models.SubStatusActive
	case stripe.SubscriptionStatusCanceled:
		return models.SubStatusCancelled
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid,
		stripe.SubscriptionStatusIncompleteExpired:
		return models.SubStatusExpired
	default:
		return models.SubStatusNone
	}
}
