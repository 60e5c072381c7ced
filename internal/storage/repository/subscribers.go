package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/runmeet/runmeet-backend/internal/models"
)

// UpsertSubscriber сохраняет зеркальное состояние подписки провайдера.
func (s *Storage) UpsertSubscriber(ctx context.Context, sub models.Subscriber) error {
	const op = "storage.UpsertSubscriber"

	var periodEnd sql.NullTime
	if sub.CurrentPeriodEnd != nil {
		periodEnd = sql.NullTime{Time: *sub.CurrentPeriodEnd, Valid: true}
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO subscribers (user_uid, stripe_subscription_id, status,
		     cancel_at_period_end, current_period_end, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (user_uid) DO UPDATE
		 SET stripe_subscription_id = EXCLUDED.stripe_subscription_id,
		     status = EXCLUDED.status,
		     cancel_at_period_end = EXCLUDED.cancel_at_period_end,
		     current_period_end = EXCLUDED.current_period_end,
		     updated_at = NOW()`,
		sub.UserUID, sub.StripeSubscriptionID, sub.Status,
		sub.CancelAtPeriodEnd, periodEnd)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSubscriber возвращает зеркальное состояние подписки пользователя.
func (s *Storage) GetSubscriber(ctx context.Context, userUID string) (*models.Subscriber, error) {
	const op = "storage.GetSubscriber"

	sub := &models.Subscriber{}
	var periodEnd sql.NullTime
	row := s.DB.QueryRowContext(ctx,
		`SELECT user_uid, stripe_subscription_id, status,
		     cancel_at_period_end, current_period_end, updated_at
		 FROM subscribers WHERE user_uid = $1`, userUID)
	if err := row.Scan(&sub.UserUID, &sub.StripeSubscriptionID, &sub.Status,
		&sub.CancelAtPeriodEnd, &periodEnd, &sub.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if periodEnd.Valid {
		sub.CurrentPeriodEnd = &periodEnd.Time
	}
	return sub, nil
}

// GetSubscriberBySubscriptionID ищет зеркальную запись по ID подписки провайдера.
func (s *Storage) GetSubscriberBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscriber, error) {
	const op = "storage.GetSubscriberBySubscriptionID"

	sub := &models.Subscriber{}
	var periodEnd sql.NullTime
	row := s.DB.QueryRowContext(ctx,
		`SELECT user_uid, stripe_subscription_id, status,
		     cancel_at_period_end, current_period_end, updated_at
		 FROM subscribers WHERE stripe_subscription_id = $1`, subscriptionID)
	if err := row.Scan(&sub.UserUID, &sub.StripeSubscriptionID, &sub.Status,
		&sub.CancelAtPeriodEnd, &periodEnd, &sub.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if periodEnd.Valid {
		sub.CurrentPeriodEnd = &periodEnd.Time
	}
	return sub, nil
}
