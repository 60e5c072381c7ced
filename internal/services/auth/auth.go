// Package auth содержит логику бизнес-уровня для регистрации,
// входа и проверки bearer-токенов.
package auth

import (
	"context"
	"errors"

	"github.com/runmeet/runmeet-backend/internal/lib/jwt"
	"github.com/runmeet/runmeet-backend/internal/lib/password"
	"github.com/runmeet/runmeet-backend/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
// Текст одинаков для несуществующего email и неверного пароля.
var ErrInvalidCredentials = errors.New("invalid credentials")

// IdentityRepository описывает контракт для работы с учётными записями в базе данных.
type IdentityRepository interface {
	// RegisterUser сохраняет учётную запись и профиль, возвращает uid.
	RegisterUser(ctx context.Context, email, username, passwordHash string) (string, error)

	// GetIdentityByEmail возвращает uid и хэш пароля по email.
	GetIdentityByEmail(ctx context.Context, email string) (uid, passwordHash string, err error)

	// GetProfile возвращает профиль пользователя по uid.
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	identities IdentityRepository
	jwtMaker   jwt.Maker
}

// New создает новый экземпляр Service.
func New(identities IdentityRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		identities: identities,
		jwtMaker:   jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и возвращает его uid.
func (s *Service) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	return s.identities.RegisterUser(ctx, req.Email, req.Username, hashed)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *Service) Login(ctx context.Context, req models.DummyLogin) (token, role string, err error) {
	uid, passwordHash, err := s.identities.GetIdentityByEmail(ctx, req.Email)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(passwordHash, req.Password); err != nil {
		return "", "", ErrInvalidCredentials
	}
	profile, err := s.identities.GetProfile(ctx, uid)
	if err != nil {
		return "", "", err
	}
	token, err = s.jwtMaker.GenerateToken(profile.UID, profile.Username, profile.Role)
	if err != nil {
		return "", "", err
	}
	return token, profile.Role, nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе и признак валидности.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.TokenInfo, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, false, err
	}
	info := &models.TokenInfo{
		UserUID:  claims.UserUID,
		Username: claims.Username,
		Role:     claims.Role,
	}
	return info, true, nil
}
