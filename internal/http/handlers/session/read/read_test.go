package read

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/runmeet/runmeet-backend/internal/http/middlewarectx"
	"github.com/runmeet/runmeet-backend/internal/models"
	"github.com/runmeet/runmeet-backend/internal/services/session"
	"github.com/runmeet/runmeet-backend/internal/storage/repository"
)

// Мок сервиса с методами Read и Present
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Read(ctx context.Context, id int) (*models.SessionWithSpots, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionWithSpots), args.Error(1)
}

func (m *ServiceMock) Present(sess models.SessionWithSpots, now time.Time, viewerUID string, canEnrollFlag bool) session.Presentation {
	args := m.Called(sess, now, viewerUID, canEnrollFlag)
	return args.Get(0).(session.Presentation)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(id string, viewerUID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if viewerUID != "" {
		ctx = context.WithValue(ctx, middlewarectx.UserUID, viewerUID)
	}
	return req.WithContext(ctx)
}

func TestReadHandler_ServeHTTP(t *testing.T) {
	sess := &models.SessionWithSpots{
		Session: models.Session{
			ID:      7,
			HostUID: "host-1",
			Title:   "Morning run",
			Status:  "published",
		},
		AvailableSpots: 3,
	}

	t.Run("authenticated viewer", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("Read", mock.Anything, 7).Return(sess, nil).Once()
		serviceMock.On("Present", *sess, mock.Anything, "uid-1", true).
			Return(session.Presentation{StatusLabel: "published", SpotsLeft: 3, CanEnroll: true}).Once()
		handler := New(newNoopLogger(), serviceMock)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("7", "uid-1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Status string `json:"status"`
			Data   struct {
				Session      models.SessionWithSpots `json:"session"`
				Presentation session.Presentation    `json:"presentation"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "OK", resp.Status)
		assert.Equal(t, 7, resp.Data.Session.ID)
		assert.True(t, resp.Data.Presentation.CanEnroll)
		serviceMock.AssertExpectations(t)
	})

	t.Run("anonymous viewer gets empty uid and no enroll flag", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("Read", mock.Anything, 7).Return(sess, nil).Once()
		serviceMock.On("Present", *sess, mock.Anything, "", false).
			Return(session.Presentation{StatusLabel: "published", SpotsLeft: 3}).Once()
		handler := New(newNoopLogger(), serviceMock)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("7", ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		serviceMock.AssertExpectations(t)
	})

	t.Run("bad id returns 400", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("abc", ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		serviceMock.AssertNotCalled(t, "Read", mock.Anything, mock.Anything)
	})

	t.Run("missing session returns 404", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("Read", mock.Anything, 99).Return(nil, repository.ErrNotFound).Once()
		handler := New(newNoopLogger(), serviceMock)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("99", ""))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		serviceMock.AssertExpectations(t)
	})

	t.Run("storage failure returns 500", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("Read", mock.Anything, 7).Return(nil, errors.New("db down")).Once()
		handler := New(newNoopLogger(), serviceMock)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("7", ""))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		serviceMock.AssertExpectations(t)
	})
}
