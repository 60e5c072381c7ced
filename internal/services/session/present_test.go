package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/runmeet/runmeet-backend/internal/models"
)

var now = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func futureSession() models.Session {
	return models.Session{
		ID:              1,
		HostUID:         "host-uid",
		Title:           "Morning run",
		ScheduledAt:     now.Add(24 * time.Hour),
		MaxParticipants: 10,
		PriceCents:      500,
		Status:          models.SessionPublished,
	}
}

func TestDerive_Available(t *testing.T) {
	p := Derive(futureSession(), 4, now, "viewer-uid", true)

	assert.Equal(t, LabelAvailable, p.StatusLabel)
	assert.False(t, p.IsPast)
	assert.False(t, p.IsFull)
	assert.False(t, p.IsOwn)
	assert.Equal(t, 4, p.SpotsLeft)
	assert.True(t, p.CanEnroll)
}

func TestDerive_FullImpliesFullLabel(t *testing.T) {
	tests := []struct {
		name  string
		spots int
	}{
		{name: "zero spots", spots: 0},
		{name: "negative spots from overbooking", spots: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Derive(futureSession(), tt.spots, now, "viewer-uid", true)

			assert.True(t, p.IsFull)
			assert.Equal(t, LabelFull, p.StatusLabel)
			assert.False(t, p.CanEnroll)
			assert.Equal(t, 0, p.SpotsLeft)
		})
	}
}

func TestDerive_PastDominatesFullAndOwn(t *testing.T) {
	sess := futureSession()
	sess.ScheduledAt = now.Add(-time.Hour)

	// Прошедшая, заполненная и своя одновременно: показывается completed.
	p := Derive(sess, 0, now, sess.HostUID, true)

	assert.Equal(t, LabelCompleted, p.StatusLabel)
	assert.True(t, p.IsPast)
	assert.True(t, p.IsFull)
	assert.True(t, p.IsOwn)
	assert.False(t, p.CanEnroll)
}

func TestDerive_OwnSession(t *testing.T) {
	sess := futureSession()

	p := Derive(sess, 5, now, sess.HostUID, true)

	assert.Equal(t, LabelOwn, p.StatusLabel)
	assert.False(t, p.CanEnroll, "host cannot enroll into own session")
}

func TestDerive_ExternalFlagBlocksEnrollment(t *testing.T) {
	p := Derive(futureSession(), 5, now, "viewer-uid", false)

	assert.Equal(t, LabelAvailable, p.StatusLabel)
	assert.False(t, p.CanEnroll)
}

func TestDerive_AnonymousViewerNotOwn(t *testing.T) {
	sess := futureSession()
	sess.HostUID = ""

	p := Derive(sess, 5, now, "", true)

	assert.False(t, p.IsOwn)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 99, want: "0.99"},
		{cents: 0, want: "0.00"},
		{cents: 1000, want: "10.00"},
		{cents: 1005, want: "10.05"},
		{cents: 1, want: "0.01"},
		{cents: 123456, want: "1234.56"},
		{cents: -250, want: "-2.50"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.cents))
		})
	}
}
