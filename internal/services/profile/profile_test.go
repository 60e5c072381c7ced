package profile

import (
	"context"
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

func (m *MockRepository) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, uid string, upd models.DummyProfileUpdate) (int64, error) {
	args := m.Called(ctx, uid, upd)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_GetSubscriptionStatus(t *testing.T) {
	future := time.Now().Add(14 * 24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name    string
		profile *models.Profile
		want    string
	}{
		{
			name:    "trial passes through",
			profile: &models.Profile{SubStatus: models.SubStatusTrial},
			want:    models.SubStatusTrial,
		},
		{
			name: "active with future period end",
			profile: &models.Profile{
				SubStatus:           models.SubStatusActive,
				SubCurrentPeriodEnd: &future,
			},
			want: models.SubStatusActive,
		},
		{
			name: "active with elapsed period end downgrades to expired",
			profile: &models.Profile{
				SubStatus:           models.SubStatusActive,
				SubCurrentPeriodEnd: &past,
			},
			want: models.SubStatusExpired,
		},
		{
			name: "cancelled but period still paid",
			profile: &models.Profile{
				SubStatus:           models.SubStatusCancelled,
				SubCurrentPeriodEnd: &future,
			},
			want: models.SubStatusCancelled,
		},
		{
			name: "cancelled and period elapsed",
			profile: &models.Profile{
				SubStatus:           models.SubStatusCancelled,
				SubCurrentPeriodEnd: &past,
			},
			want: models.SubStatusExpired,
		},
		{
			name:    "expired snapshot stays expired",
			profile: &models.Profile{SubStatus: models.SubStatusExpired},
			want:    models.SubStatusExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetProfile", mock.Anything, "uid-1").Return(tt.profile, nil).Once()
			svc := New(repo)

			got, err := svc.GetSubscriptionStatus(context.Background(), "uid-1")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Update(t *testing.T) {
	repo := new(MockRepository)
	svc := New(repo)

	upd := models.DummyProfileUpdate{FirstName: "Jess"}
	repo.On("UpdateProfile", mock.Anything, "uid-1", upd).Return(int64(1), nil).Once()

	affected, err := svc.Update(context.Background(), "uid-1", upd)

	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	repo.AssertExpectations(t)
}
