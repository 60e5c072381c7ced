package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/runmeet/runmeet-backend/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateSession(ctx context.Context, sess models.Session) (int, error) {
	args := m.Called(ctx, sess)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) GetSession(ctx context.Context, id int) (*models.SessionWithSpots, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.SessionWithSpots), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListPublishedSessions(ctx context.Context, limit, offset int) ([]*models.SessionWithSpots, error) {
	args := m.Called(ctx, limit, offset)
	if res := args.Get(0); res != nil {
		return res.([]*models.SessionWithSpots), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) UpdateSessionStatus(ctx context.Context, id int, hostUID, status string) (int64, error) {
	args := m.Called(ctx, id, hostUID, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func validRequest() models.DummySession {
	future := time.Now().Add(72 * time.Hour)
	return models.DummySession{
		Title:           "Tempo intervals",
		Date:            future.Format("2006-01-02"),
		Time:            future.Format("15:04"),
		StartLat:        48.85,
		StartLng:        2.35,
		EndLat:          48.86,
		EndLng:          2.36,
		DistanceKm:      8,
		Intensity:       models.IntensityHigh,
		Audience:        models.AudienceMixed,
		MinParticipants: 2,
		MaxParticipants: 10,
		PriceCents:      500,
		AreaHint:        "Parc des Buttes-Chaumont",
	}
}

func TestService_Create(t *testing.T) {
	repo := new(MockRepository)
	cacheMock := new(MockCache)
	svc := New(repo, cacheMock, testLogger())

	repo.On("CreateSession", mock.Anything, mock.MatchedBy(func(s models.Session) bool {
		return s.HostUID == "host-uid" && s.Status == models.SessionPublished
	})).Return(42, nil)
	cacheMock.On("Invalidate", listCacheKey).Return(nil)

	id, err := svc.Create(context.Background(), "host-uid", validRequest())

	require.NoError(t, err)
	assert.Equal(t, 42, id)
	repo.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}

func TestService_Create_PastSchedule(t *testing.T) {
	repo := new(MockRepository)
	cacheMock := new(MockCache)
	svc := New(repo, cacheMock, testLogger())

	req := validRequest()
	req.Date = "2020-01-01"
	req.Time = "08:00"

	_, err := svc.Create(context.Background(), "host-uid", req)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestService_Create_BadSchedule(t *testing.T) {
	repo := new(MockRepository)
	cacheMock := new(MockCache)
	svc := New(repo, cacheMock, testLogger())

	req := validRequest()
	req.Time = "25:99"

	_, err := svc.Create(context.Background(), "host-uid", req)

	assert.Error(t, err)
}

func TestService_Read_CacheMissThenStore(t *testing.T) {
	repo := new(MockRepository)
	cacheMock := new(MockCache)
	svc := New(repo, cacheMock, testLogger())

	want := &models.SessionWithSpots{
		Session:        models.Session{ID: 7, Title: "Morning run"},
		AvailableSpots: 3,
	}
	cacheMock.On("Get", "session:7", mock.Anything).Return(false, nil)
	repo.On("GetSession", mock.Anything, 7).Return(want, nil)
	cacheMock.On("Set", "session:7", want, time.Minute).Return(nil)

	got, err := svc.Read(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}

func TestService_Cancel_NotHost(t *testing.T) {
	repo := new(MockRepository)
	cacheMock := new(MockCache)
	svc := New(repo, cacheMock, testLogger())

	repo.On("UpdateSessionStatus", mock.Anything, 7, "stranger-uid", models.SessionCancelled).
		Return(int64(0), nil)
	cacheMock.On("Invalidate", mock.Anything).Return(nil)

	affected, err := svc.Cancel(context.Background(), 7, "stranger-uid")

	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestService_List_RepoError(t *testing.T) {
	repo := new(MockRepository)
	cacheMock := new(MockCache)
	svc := New(repo, cacheMock, testLogger())

	repo.On("ListPublishedSessions", mock.Anything, 20, 0).Return(nil, errors.New("db down"))

	_, err := svc.List(context.Background(), 20, 0)

	assert.Error(t, err)
}
