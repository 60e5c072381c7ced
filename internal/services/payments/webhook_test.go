package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"

	"github.com/runmeet/runmeet-backend/internal/models"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) MarkEnrollmentPaid(ctx context.Context, checkoutSessionID, paymentIntentID string) (*models.Enrollment, error) {
	args := m.Called(ctx, checkoutSessionID, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Enrollment), args.Error(1)
}

func (m *MockStorage) UpsertSubscriber(ctx context.Context, sub models.Subscriber) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockStorage) GetUIDByStripeCustomerID(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) UpdateSubscriptionStatus(ctx context.Context, uid, status string, periodEnd *time.Time) error {
	args := m.Called(ctx, uid, status, periodEnd)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func makeEvent(t *testing.T, eventType string, object any) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(object)
	require.NoError(t, err)
	return stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestService_ProcessEvent_PaymentCheckoutCompleted(t *testing.T) {
	storage := new(MockStorage)
	events := new(MockPublisher)
	svc := New(storage, events, testLogger())

	paid := &models.Enrollment{
		ID:        11,
		SessionID: 5,
		UserUID:   "runner-uid",
		Status:    models.EnrollmentPaid,
	}
	storage.On("MarkEnrollmentPaid", mock.Anything, "cs_123", "pi_123").
		Return(paid, nil).Once()
	events.On("Publish", "enrollment.confirmed", mock.MatchedBy(func(ev ConfirmedEvent) bool {
		return ev.EnrollmentID == 11 && ev.SessionID == 5 && ev.UserUID == "runner-uid"
	})).Return(nil).Once()

	event := makeEvent(t, "checkout.session.completed", map[string]any{
		"id":             "cs_123",
		"mode":           "payment",
		"payment_intent": "pi_123",
	})

	err := svc.ProcessEvent(context.Background(), event)

	require.NoError(t, err)
	storage.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestService_ProcessEvent_SubscriptionUpdated(t *testing.T) {
	storage := new(MockStorage)
	events := new(MockPublisher)
	svc := New(storage, events, testLogger())

	periodEnd := time.Now().Add(30 * 24 * time.Hour).Unix()
	storage.On("GetUIDByStripeCustomerID", mock.Anything, "cus_123").
		Return("runner-uid", nil).Once()
	storage.On("UpsertSubscriber", mock.Anything, mock.MatchedBy(func(sub models.Subscriber) bool {
		return sub.UserUID == "runner-uid" &&
			sub.StripeSubscriptionID == "sub_123" &&
			sub.Status == "active" &&
			sub.CurrentPeriodEnd != nil
	})).Return(nil).Once()
	storage.On("UpdateSubscriptionStatus", mock.Anything, "runner-uid",
		models.SubStatusActive, mock.Anything).Return(nil).Once()

	event := makeEvent(t, "customer.subscription.updated", map[string]any{
		"id":                 "sub_123",
		"status":             "active",
		"customer":           "cus_123",
		"current_period_end": periodEnd,
	})

	err := svc.ProcessEvent(context.Background(), event)

	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestService_ProcessEvent_SubscriptionDeletedDowngradesProfile(t *testing.T) {
	storage := new(MockStorage)
	events := new(MockPublisher)
	svc := New(storage, events, testLogger())

	storage.On("GetUIDByStripeCustomerID", mock.Anything, "cus_123").
		Return("runner-uid", nil).Once()
	storage.On("UpsertSubscriber", mock.Anything, mock.Anything).Return(nil).Once()
	storage.On("UpdateSubscriptionStatus", mock.Anything, "runner-uid",
		models.SubStatusCancelled, mock.Anything).Return(nil).Once()

	event := makeEvent(t, "customer.subscription.deleted", map[string]any{
		"id":       "sub_123",
		"status":   "canceled",
		"customer": "cus_123",
	})

	err := svc.ProcessEvent(context.Background(), event)

	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestService_ProcessEvent_UnknownEventIgnored(t *testing.T) {
	storage := new(MockStorage)
	events := new(MockPublisher)
	svc := New(storage, events, testLogger())

	event := makeEvent(t, "invoice.finalized", map[string]any{"id": "in_123"})

	err := svc.ProcessEvent(context.Background(), event)

	require.NoError(t, err)
	storage.AssertNotCalled(t, "MarkEnrollmentPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ProcessEvent_PublishFailureDoesNotFailEvent(t *testing.T) {
	storage := new(MockStorage)
	events := new(MockPublisher)
	svc := New(storage, events, testLogger())

	storage.On("MarkEnrollmentPaid", mock.Anything, "cs_123", "").
		Return(&models.Enrollment{ID: 11, SessionID: 5, UserUID: "runner-uid"}, nil).Once()
	events.On("Publish", "enrollment.confirmed", mock.Anything).
		Return(errors.New("broker down")).Once()

	event := makeEvent(t, "checkout.session.completed", map[string]any{
		"id":   "cs_123",
		"mode": "payment",
	})

	err := svc.ProcessEvent(context.Background(), event)

	require.NoError(t, err)
}

func TestService_ProcessEvent_UnknownCheckoutSession(t *testing.T) {
	storage := new(MockStorage)
	events := new(MockPublisher)
	svc := New(storage, events, testLogger())

	storage.On("MarkEnrollmentPaid", mock.Anything, "cs_unknown", "").
		Return(nil, errors.New("no pending enrollment")).Once()

	event := makeEvent(t, "checkout.session.completed", map[string]any{
		"id":   "cs_unknown",
		"mode": "payment",
	})

	err := svc.ProcessEvent(context.Background(), event)

	assert.Error(t, err)
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
