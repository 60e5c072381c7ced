package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/runmeet/runmeet-backend/internal/models"
)

const sessionColumns = `s.id, s.host_uid, s.title, COALESCE(s.description, ''), s.scheduled_at,
	s.start_lat, s.start_lng, s.end_lat, s.end_lng, s.distance_km,
	s.intensity, s.audience, s.min_participants, s.max_participants,
	s.price_cents, s.area_hint, s.status, s.created_at`

// CreateSession сохраняет новую сессию и возвращает её ID.
func (s *Storage) CreateSession(ctx context.Context, sess models.Session) (int, error) {
	const op = "storage.CreateSession"

	var id int
	query := `INSERT INTO sessions (host_uid, title, description, scheduled_at,
			      start_lat, start_lng, end_lat, end_lng, distance_km,
			      intensity, audience, min_participants, max_participants,
			      price_cents, area_hint, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		sess.HostUID, sess.Title, sess.Description, sess.ScheduledAt,
		sess.StartLat, sess.StartLng, sess.EndLat, sess.EndLng, sess.DistanceKm,
		sess.Intensity, sess.Audience, sess.MinParticipants, sess.MaxParticipants,
		sess.PriceCents, sess.AreaHint, sess.Status).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetSession возвращает сессию вместе с числом свободных мест,
// посчитанным по неотменённым записям.
func (s *Storage) GetSession(ctx context.Context, id int) (*models.SessionWithSpots, error) {
	const op = "storage.GetSession"

	query := `SELECT ` + sessionColumns + `,
			      s.max_participants - COUNT(e.id) FILTER (WHERE e.status <> 'cancelled') AS available_spots
			  FROM sessions s
			  LEFT JOIN enrollments e ON e.session_id = s.id
			  WHERE s.id = $1
			  GROUP BY s.id`
	row := s.DB.QueryRowContext(ctx, query, id)

	sess, err := scanSessionWithSpots(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}

// ListPublishedSessions возвращает опубликованные сессии с пагинацией,
// отсортированные по времени старта.
func (s *Storage) ListPublishedSessions(ctx context.Context, limit, offset int) ([]*models.SessionWithSpots, error) {
	const op = "storage.ListPublishedSessions"

	query := `SELECT ` + sessionColumns + `,
			      s.max_participants - COUNT(e.id) FILTER (WHERE e.status <> 'cancelled') AS available_spots
			  FROM sessions s
			  LEFT JOIN enrollments e ON e.session_id = s.id
			  WHERE s.status = 'published'
			  GROUP BY s.id
			  ORDER BY s.scheduled_at
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.SessionWithSpots
	for rows.Next() {
		sess, err := scanSessionWithSpots(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSessionStatus меняет статус сессии от имени её хоста.
// Возвращает число затронутых строк: ноль означает, что сессии нет
// или вызывающий не является хостом.
func (s *Storage) UpdateSessionStatus(ctx context.Context, id int, hostUID, status string) (int64, error) {
	const op = "storage.UpdateSessionStatus"

	res, err := s.DB.ExecContext(ctx,
		`UPDATE sessions SET status = $3 WHERE id = $1 AND host_uid = $2`,
		id, hostUID, status)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSessionWithSpots(row rowScanner) (*models.SessionWithSpots, error) {
	sess := &models.SessionWithSpots{}
	if err := row.Scan(&sess.ID, &sess.HostUID, &sess.Title, &sess.Description,
		&sess.ScheduledAt, &sess.StartLat, &sess.StartLng, &sess.EndLat, &sess.EndLng,
		&sess.DistanceKm, &sess.Intensity, &sess.Audience, &sess.MinParticipants,
		&sess.MaxParticipants, &sess.PriceCents, &sess.AreaHint, &sess.Status,
		&sess.CreatedAt, &sess.AvailableSpots); err != nil {
		return nil, err
	}
	return sess, nil
}
