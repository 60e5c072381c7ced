// Package enrollment содержит логику бизнес-уровня для записи участников
// на сессии и создания checkout-сессий подписки у платёжного провайдера.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/runmeet/runmeet-backend/internal/config"
	"github.com/runmeet/runmeet-backend/internal/lib/sl"
	"github.com/runmeet/runmeet-backend/internal/models"
	"github.com/runmeet/runmeet-backend/internal/services/session"
)

// ErrNotEligible возвращается, когда запись на сессию недоступна:
// сессия прошла, заполнена или наблюдатель — её хост.
var ErrNotEligible = errors.New("enrollment is not available for this session")

// ErrCheckoutNotConfigured возвращается, когда не заданы секретный ключ
// или price у платёжного провайдера. Дефолтных учётных данных нет.
var ErrCheckoutNotConfigured = errors.New("payment provider is not configured")

// ErrOriginNotAllowed возвращается при сообщении виджета с чужого origin.
var ErrOriginNotAllowed = errors.New("message origin is not allowed")

// ErrNotCheckoutComplete возвращается, когда payload не является
// сообщением об успешном завершении checkout-сессии.
var ErrNotCheckoutComplete = errors.New("not a checkout completion message")

// ErrNotHost возвращается, когда список участников запрашивает не хост.
var ErrNotHost = errors.New("caller is not the session host")

// Repository описывает контракт хранилища для записи на сессии.
type Repository interface {
	// GetSession возвращает сессию с числом свободных мест.
	GetSession(ctx context.Context, id int) (*models.SessionWithSpots, error)
	// CreateEnrollment создаёт pending-запись и возвращает её ID.
	CreateEnrollment(ctx context.Context, sessionID int, userUID string) (int, error)
	// SetEnrollmentCheckout однократно привязывает checkout-сессию
	// к собственной pending-записи пользователя.
	SetEnrollmentCheckout(ctx context.Context, enrollmentID int, userUID, checkoutSessionID string) error
	// ListEnrollmentsBySession возвращает записи участников сессии.
	ListEnrollmentsBySession(ctx context.Context, sessionID int) ([]*models.Enrollment, error)
	// GetProfile возвращает профиль пользователя по uid.
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
	// SetStripeCustomerID сохраняет ID клиента платёжного провайдера.
	SetStripeCustomerID(ctx context.Context, uid, customerID string) error
}

// PaymentProvider описывает вызовы платёжного провайдера,
// нужные для оформления подписки.
type PaymentProvider interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (string, error)
}

// Service оркестрирует запись на сессию и оплату подписки.
type Service struct {
	repo     Repository
	provider PaymentProvider
	cfg      config.Stripe
	allowed  OriginAllowList
	log      *slog.Logger
}

// New создает новый экземпляр Service. Allow-list origin виджета
// собирается из конфигурации; пустое значение даёт origin по умолчанию.
func New(repo Repository, provider PaymentProvider, cfg config.Stripe, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		cfg:      cfg,
		allowed:  NewOriginAllowList(cfg.CheckoutOrigin),
		log:      log,
	}
}

// Enroll записывает пользователя на сессию, если она доступна для записи.
// Возвращает ID созданной pending-записи.
func (s *Service) Enroll(ctx context.Context, sessionID int, userUID string) (int, error) {
	const op = "enrollment.Enroll"

	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	pres := session.Derive(sess.Session, sess.AvailableSpots, time.Now(), userUID, true)
	if !pres.CanEnroll {
		return 0, ErrNotEligible
	}

	id, err := s.repo.CreateEnrollment(ctx, sessionID, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("enrollment created",
		slog.Int("enrollment_id", id),
		slog.Int("session_id", sessionID),
		slog.String("user_uid", userUID))
	return id, nil
}

// AttachCheckout привязывает checkout-сессию из сообщения платёжного
// виджета к записи пользователя. Origin сообщения сверяется с allow-list
// ДО разбора payload: сообщение с чужого origin отбрасывается независимо
// от содержимого. Привязка однократная; по её идентификатору webhook
// провайдера позже переведёт запись в paid.
func (s *Service) AttachCheckout(ctx context.Context, enrollmentID int, userUID, origin string, payload []byte) error {
	const op = "enrollment.AttachCheckout"

	if !s.allowed.Allowed(origin) {
		s.log.Warn("checkout message from unexpected origin rejected",
			slog.String("origin", origin))
		return ErrOriginNotAllowed
	}

	msg, ok := ParseCheckoutMessage(payload)
	if !ok || msg.CheckoutSessionID == "" {
		return ErrNotCheckoutComplete
	}

	if err := s.repo.SetEnrollmentCheckout(ctx, enrollmentID, userUID, msg.CheckoutSessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("checkout session attached",
		slog.Int("enrollment_id", enrollmentID),
		slog.String("user_uid", userUID))
	return nil
}

// Roster возвращает записи участников сессии. Доступен только её хосту.
func (s *Service) Roster(ctx context.Context, sessionID int, callerUID string) ([]*models.Enrollment, error) {
	const op = "enrollment.Roster"

	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if sess.HostUID != callerUID {
		return nil, ErrNotHost
	}

	list, err := s.repo.ListEnrollmentsBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// CreateSubscriptionCheckout создаёт checkout-сессию подписки и возвращает
// URL для редиректа. Клиент у провайдера создаётся лениво, и его ID
// сохраняется в профиле ДО создания checkout-сессии: повторный вызов
// переиспользует уже сохранённого клиента.
func (s *Service) CreateSubscriptionCheckout(ctx context.Context, userUID string) (string, error) {
	const op = "enrollment.CreateSubscriptionCheckout"

	if s.cfg.SecretKey == "" || s.cfg.PriceID == "" {
		return "", ErrCheckoutNotConfigured
	}

	profile, err := s.repo.GetProfile(ctx, userUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	customerID := profile.StripeCustomerID
	if customerID == "" {
		name := profile.FirstName + " " + profile.LastName
		if profile.FirstName == "" && profile.LastName == "" {
			name = profile.Username
		}
		customerID, err = s.provider.CreateCustomer(ctx, profile.Email, name)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if err := s.repo.SetStripeCustomerID(ctx, userUID, customerID); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("payment customer created", slog.String("user_uid", userUID))
	}

	successURL := s.cfg.PublicBaseURL + "/subscription/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := s.cfg.PublicBaseURL + "/subscription/cancel"

	url, err := s.provider.CreateCheckoutSession(ctx, customerID, s.cfg.PriceID, successURL, cancelURL)
	if err != nil {
		s.log.Error("failed to create checkout session", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return url, nil
}
