// Package account содержит оркестрацию удаления учётной записи:
// очистку данных у платёжного провайдера, удаление профиля и,
// строго после него, удаление учётных данных.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/runmeet/runmeet-backend/internal/lib/sl"
	"github.com/runmeet/runmeet-backend/internal/models"
	"github.com/runmeet/runmeet-backend/internal/paymentprovider"
)

// Ошибки шагов удаления. Каждый серверный шаг помечает свой сбой
// собственной ошибкой, чтобы граница HTTP могла назвать упавший шаг.
var (
	// ErrLoadProfile — не удалось загрузить профиль перед удалением.
	ErrLoadProfile = errors.New("failed to load profile")
	// ErrDeleteProfile — не удалось удалить профиль и его данные.
	ErrDeleteProfile = errors.New("failed to delete profile data")
	// ErrDeleteIdentity — не удалось удалить учётные данные.
	ErrDeleteIdentity = errors.New("failed to delete identity")
)

// Repository описывает контракт хранилища для удаления учётной записи.
type Repository interface {
	// GetProfile возвращает профиль пользователя по uid.
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
	// GetSubscriber возвращает зеркальную строку подписки пользователя.
	GetSubscriber(ctx context.Context, userUID string) (*models.Subscriber, error)
	// DeleteProfile удаляет профиль и каскадно его сессии, записи и подписку.
	DeleteProfile(ctx context.Context, uid string) error
	// DeleteIdentity удаляет учётные данные. Вызывается строго после DeleteProfile.
	DeleteIdentity(ctx context.Context, uid string) error
}

// PaymentProvider описывает вызовы очистки у платёжного провайдера.
type PaymentProvider interface {
	CancelSubscription(ctx context.Context, subscriptionID string) (*paymentprovider.SubscriptionState, error)
	DeleteCustomer(ctx context.Context, customerID string) error
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// DeletedEvent — событие об удалении учётной записи.
type DeletedEvent struct {
	UserUID   string    `json:"user_uid"`
	DeletedAt time.Time `json:"deleted_at"`
}

// Service оркестрирует удаление учётной записи.
type Service struct {
	repo     Repository
	provider PaymentProvider
	events   EventPublisher
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, provider PaymentProvider, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		events:   events,
		log:      log,
	}
}

// DeleteAccount удаляет учётную запись пользователя.
// Порядок фиксированный: очистка у провайдера (по возможности), затем
// профиль с каскадом, затем учётные данные. Если удаление профиля
// не удалось, учётные данные НЕ трогаются: иначе останутся осиротевшие
// данные без возможности входа.
func (s *Service) DeleteAccount(ctx context.Context, userUID string) error {
	const op = "account.DeleteAccount"

	profile, err := s.repo.GetProfile(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrLoadProfile, err)
	}

	s.cleanupProvider(ctx, userUID, profile.StripeCustomerID)

	if err := s.repo.DeleteProfile(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrDeleteProfile, err)
	}

	if err := s.repo.DeleteIdentity(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrDeleteIdentity, err)
	}

	if err := s.events.Publish("account.deleted", DeletedEvent{
		UserUID:   userUID,
		DeletedAt: time.Now().UTC(),
	}); err != nil {
		s.log.Error("failed to publish account deletion event", sl.Err(err))
	}

	s.log.Info("account deleted", slog.String("user_uid", userUID))
	return nil
}

// cleanupProvider отменяет подписку и удаляет клиента у провайдера.
// Сбои логируются и не останавливают удаление данных: авторитетный
// источник подписки переживёт пользователя, дальше разберётся поддержка.
func (s *Service) cleanupProvider(ctx context.Context, userUID, customerID string) {
	sub, err := s.repo.GetSubscriber(ctx, userUID)
	if err == nil && sub.StripeSubscriptionID != "" {
		if _, err := s.provider.CancelSubscription(ctx, sub.StripeSubscriptionID); err != nil {
			s.log.Warn("failed to cancel subscription before deletion",
				slog.String("subscription_id", sub.StripeSubscriptionID), sl.Err(err))
		}
	}
	if customerID != "" {
		if err := s.provider.DeleteCustomer(ctx, customerID); err != nil {
			s.log.Warn("failed to delete payment customer", sl.Err(err))
		}
	}
}
