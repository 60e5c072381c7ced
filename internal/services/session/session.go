// Package session содержит бизнес-логику работы с тренировочными сессиями,
// включая кеширование чтения и производное состояние для отображения.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/runmeet/runmeet-backend/internal/models"
)

// Repository определяет методы для работы с сессиями в хранилище.
type Repository interface {
	// CreateSession добавляет новую сессию и возвращает её ID.
	CreateSession(ctx context.Context, sess models.Session) (int, error)
	// GetSession возвращает сессию с числом свободных мест.
	GetSession(ctx context.Context, id int) (*models.SessionWithSpots, error)
	// ListPublishedSessions возвращает опубликованные сессии с пагинацией.
	ListPublishedSessions(ctx context.Context, limit, offset int) ([]*models.SessionWithSpots, error)
	// UpdateSessionStatus меняет статус сессии от имени хоста.
	UpdateSessionStatus(ctx context.Context, id int, hostUID, status string) (int64, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует бизнес-логику работы с сессиями.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает новую опубликованную сессию от имени хоста и возвращает её ID.
func (s *Service) Create(ctx context.Context, hostUID string, req models.DummySession) (int, error) {
	scheduledAt, err := time.Parse("2006-01-02 15:04", req.Date+" "+req.Time)
	if err != nil {
		return 0, fmt.Errorf("invalid schedule: %w", err)
	}
	if scheduledAt.Before(time.Now()) {
		return 0, fmt.Errorf("session must be scheduled in the future")
	}

	sess := models.Session{
		HostUID:         hostUID,
		Title:           req.Title,
		Description:     req.Description,
		ScheduledAt:     scheduledAt,
		StartLat:        req.StartLat,
		StartLng:        req.StartLng,
		EndLat:          req.EndLat,
		EndLng:          req.EndLng,
		DistanceKm:      req.DistanceKm,
		Intensity:       req.Intensity,
		Audience:        req.Audience,
		MinParticipants: req.MinParticipants,
		MaxParticipants: req.MaxParticipants,
		PriceCents:      req.PriceCents,
		AreaHint:        req.AreaHint,
		Status:          models.SessionPublished,
	}

	id, err := s.repo.CreateSession(ctx, sess)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new session", slog.Int("id", id))

	if err := s.cache.Invalidate(listCacheKey); err != nil {
		s.log.Warn("failed to invalidate session list cache", slog.Any("err", err))
	}

	return id, nil
}

const listCacheKey = "sessions:published"

// Read возвращает сессию по ID, используя кеш или репозиторий.
func (s *Service) Read(ctx context.Context, id int) (*models.SessionWithSpots, error) {
	var result *models.SessionWithSpots
	cacheKey := fmt.Sprintf("session:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Minute); err != nil {
			s.log.Warn("failed to add session to cache", slog.String("key", cacheKey),
				slog.Any("err", err))
		}
	}
	return result, nil
}

// List возвращает опубликованные сессии с пагинацией.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.SessionWithSpots, error) {
	return s.repo.ListPublishedSessions(ctx, limit, offset)
}

// Cancel отменяет сессию от имени её хоста и инвалидирует кеш.
/// Возвращает число затронутых строк: ноль — сессии нет или вызывающий не хост.
func (s *Service) Cancel(ctx context.Context, id int, hostUID string) (int64, error) {
	affected, err := s.repo.UpdateSessionStatus(ctx, id, hostUID, models.SessionCancelled)
	if err != nil {
		return 0, err
	}
	cacheKey := fmt.Sprintf("session:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove session from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if err := s.cache.Invalidate(listCacheKey); err != nil {
		s.log.Warn("failed to invalidate session list cache", slog.Any("err", err))
	}
	return affected, nil
}

// Present вычисляет производное состояние сессии для наблюдателя.
func (s *Service) Present(sess models.SessionWithSpots, now time.Time, viewerUID string, canEnrollFlag bool) Presentation {
	return Derive(sess.Session, sess.AvailableSpots, now, viewerUID, canEnrollFlag)
}
