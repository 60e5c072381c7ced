// Package profile содержит логику бизнес-уровня для чтения и обновления
// профиля и определения актуального статуса подписки пользователя.
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/runmeet/runmeet-backend/internal/models"
)

// Repository описывает контракт хранилища профилей.
type Repository interface {
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, uid string, upd models.DummyProfileUpdate) (int64, error)
}

// Service реализует операции над профилем пользователя.
type Service struct {
	repo Repository
}

// New создает новый экземпляр Service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get возвращает профиль пользователя.
func (s *Service) Get(ctx context.Context, uid string) (*models.Profile, error) {
	return s.repo.GetProfile(ctx, uid)
}

// Update обновляет изменяемые поля профиля. Возвращает число затронутых строк.
func (s *Service) Update(ctx context.Context, uid string, upd models.DummyProfileUpdate) (int64, error) {
	const op = "profile.Update"
	affected, err := s.repo.UpdateProfile(ctx, uid, upd)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// GetSubscriptionStatus возвращает актуальный статус подписки пользователя.
// Снимок статуса в профиле понижается до expired, если оплаченный период
// уже закончился: webhook провайдера мог ещё не дойти.
func (s *Service) GetSubscriptionStatus(ctx context.Context, userUID string) (string, error) {
	profile, err := s.repo.GetProfile(ctx, userUID)
	if err != nil {
		return "", err
	}

	status := profile.SubStatus
	if status == models.SubStatusActive || status == models.SubStatusCancelled {
		if profile.SubCurrentPeriodEnd != nil && profile.SubCurrentPeriodEnd.Before(time.Now()) {
			return models.SubStatusExpired, nil
		}
	}
	return status, nil
}
