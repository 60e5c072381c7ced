package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/runmeet/runmeet-backend/internal/models"
)

// Код PostgreSQL для нарушения уникальности.
const uniqueViolationCode = "23505"

// CreateEnrollment создаёт запись участника в статусе pending.
// Частичный уникальный индекс по (session_id, user_uid) для неотменённых
// записей превращает повторную попытку в ErrAlreadyEnrolled.
func (s *Storage) CreateEnrollment(ctx context.Context, sessionID int, userUID string) (int, error) {
	const op = "storage.CreateEnrollment"

	var id int
	query := `INSERT INTO enrollments (session_id, user_uid, status)
			  VALUES ($1, $2, $3)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query, sessionID, userUID, models.EnrollmentPending).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return 0, fmt.Errorf("%s: %w", op, ErrAlreadyEnrolled)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// SetEnrollmentCheckout привязывает checkout-сессию провайдера к записи.
// Привязка однократная и только к собственной pending-записи: повторная
// попытка или чужая запись дают ErrNotFound.
func (s *Storage) SetEnrollmentCheckout(ctx context.Context, enrollmentID int, userUID, checkoutSessionID string) error {
	const op = "storage.SetEnrollmentCheckout"

	res, err := s.DB.ExecContext(ctx,
		`UPDATE enrollments SET stripe_checkout_session_id = $3
		 WHERE id = $1 AND user_uid = $2 AND status = $4
		     AND stripe_checkout_session_id IS NULL`,
		enrollmentID, userUID, checkoutSessionID, models.EnrollmentPending)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// MarkEnrollmentPaid переводит запись в paid по подтверждению провайдера
// и сохраняет идентификатор платежа. Возвращает запись для публикации события.
func (s *Storage) MarkEnrollmentPaid(ctx context.Context, checkoutSessionID, paymentIntentID string) (*models.Enrollment, error) {
	const op = "storage.MarkEnrollmentPaid"

	e := &models.Enrollment{}
	query := `UPDATE enrollments
			  SET status = $2, stripe_payment_intent_id = $3
			  WHERE stripe_checkout_session_id = $1 AND status = $4
			  RETURNING id, session_id, user_uid, status,
			      COALESCE(stripe_checkout_session_id, ''),
			      COALESCE(stripe_payment_intent_id, ''), created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		checkoutSessionID, models.EnrollmentPaid, paymentIntentID,
		models.EnrollmentPending).Scan(
		&e.ID, &e.SessionID, &e.UserUID, &e.Status,
		&e.StripeCheckoutSessionID, &e.StripePaymentIntentID, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// ListEnrollmentsBySession возвращает записи участников сессии.
func (s *Storage) ListEnrollmentsBySession(ctx context.Context, sessionID int) ([]*models.Enrollment, error) {
	const op = "storage.ListEnrollmentsBySession"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, session_id, user_uid, status,
		     COALESCE(stripe_checkout_session_id, ''),
		     COALESCE(stripe_payment_intent_id, ''), created_at
		 FROM enrollments WHERE session_id = $1 ORDER BY created_at`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Enrollment
	for rows.Next() {
		e := &models.Enrollment{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.UserUID, &e.Status,
			&e.StripeCheckoutSessionID, &e.StripePaymentIntentID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
