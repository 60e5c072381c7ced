package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/runmeet/runmeet-backend/internal/models"
)

// RegisterUser сохраняет учётную запись и профиль нового пользователя
// в одной транзакции и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, email, username, passwordHash string) (string, error) {
	const op = "storage.RegisterUser"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck

	var uid string
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO identities (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING uid;`,
		email, passwordHash).Scan(&uid); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (uid, email, username, role, sub_status)
		 VALUES ($1, $2, $3, $4, $5);`,
		uid, email, username, models.RoleParticipant, models.SubStatusTrial); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// GetIdentityByEmail возвращает UID и хэш пароля по email.
func (s *Storage) GetIdentityByEmail(ctx context.Context, email string) (uid, passwordHash string, err error) {
	const op = "storage.GetIdentityByEmail"

	row := s.DB.QueryRowContext(ctx,
		`SELECT uid, password_hash FROM identities WHERE email = $1`, email)
	if err := row.Scan(&uid, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, passwordHash, nil
}

// DeleteIdentity удаляет учётную запись пользователя. Вызывается строго
// после удаления профиля: иначе можно удалить доступ к входу, оставив данные.
func (s *Storage) DeleteIdentity(ctx context.Context, uid string) error {
	const op = "storage.DeleteIdentity"

	res, err := s.DB.ExecContext(ctx, `DELETE FROM identities WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// GetProfile возвращает профиль пользователя по UID.
func (s *Storage) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	const op = "storage.GetProfile"

	query := `SELECT uid, email, username,
			      COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(avatar_url, ''),
			      role, sub_status, sub_current_period_end,
			      COALESCE(stripe_customer_id, ''), created_at
			  FROM profiles
			  WHERE uid = $1`
	p := &models.Profile{}
	row := s.DB.QueryRowContext(ctx, query, uid)

	var periodEnd sql.NullTime
	if err := row.Scan(&p.UID, &p.Email, &p.Username, &p.FirstName, &p.LastName,
		&p.AvatarURL, &p.Role, &p.SubStatus, &periodEnd, &p.StripeCustomerID,
		&p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if periodEnd.Valid {
		p.SubCurrentPeriodEnd = &periodEnd.Time
	}
	return p, nil
}

// UpdateProfile обновляет изменяемые поля профиля и возвращает число
// затронутых строк.
func (s *Storage) UpdateProfile(ctx context.Context, uid string, upd models.DummyProfileUpdate) (int64, error) {
	const op = "storage.UpdateProfile"

	res, err := s.DB.ExecContext(ctx,
		`UPDATE profiles
		 SET first_name = COALESCE(NULLIF($2, ''), first_name),
		     last_name  = COALESCE(NULLIF($3, ''), last_name),
		     avatar_url = COALESCE(NULLIF($4, ''), avatar_url)
		 WHERE uid = $1`,
		uid, upd.FirstName, upd.LastName, upd.AvatarURL)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// SetStripeCustomerID фиксирует ID клиента платёжного провайдера.
// Вызывается до создания checkout-сессии, чтобы повтор запроса
// переиспользовал клиента, а не создавал осиротевшего.
func (s *Storage) SetStripeCustomerID(ctx context.Context, uid, customerID string) error {
	const op = "storage.SetStripeCustomerID"

	res, err := s.DB.ExecContext(ctx,
		`UPDATE profiles SET stripe_customer_id = $2 WHERE uid = $1`, uid, customerID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// GetUIDByStripeCustomerID возвращает uid профиля по ID клиента
// платёжного провайдера. Используется webhook-обработчиком.
func (s *Storage) GetUIDByStripeCustomerID(ctx context.Context, customerID string) (string, error) {
	const op = "storage.GetUIDByStripeCustomerID"

	var uid string
	err := s.DB.QueryRowContext(ctx,
		`SELECT uid FROM profiles WHERE stripe_customer_id = $1`, customerID).Scan(&uid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// UpdateSubscriptionStatus обновляет снимок статуса подписки в профиле.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, uid, status string, periodEnd *time.Time) error {
	const op = "storage.UpdateSubscriptionStatus"

	var end sql.NullTime
	if periodEnd != nil {
		end = sql.NullTime{Time: *periodEnd, Valid: true}
	}
	_, err := s.DB.ExecContext(ctx,
		`UPDATE profiles SET sub_status = $2, sub_current_period_end = $3 WHERE uid = $1`,
		uid, status, end)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteProfile удаляет профиль пользователя; зависимые строки
// (сессии, записи, подписчик) удаляются каскадно.
func (s *Storage) DeleteProfile(ctx context.Context, uid string) error {
	const op = "storage.DeleteProfile"

	res, err := s.DB.ExecContext(ctx, `DELETE FROM profiles WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
