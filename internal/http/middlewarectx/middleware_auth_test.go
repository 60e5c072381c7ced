package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/runmeet/runmeet-backend/internal/http/middlewarectx"
	"github.com/runmeet/runmeet-backend/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*models.TokenInfo, bool, error) {
	args := m.Called(ctx, token)
	info, _ := args.Get(0).(*models.TokenInfo)
	return info, args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validInfo() *models.TokenInfo {
	return &models.TokenInfo{
		UserUID:  "uid-1",
		Username: "runner42",
		Role:     models.RoleParticipant,
	}
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(m *AuthServiceMock)
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			setupMock:      func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			setupMock:      func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "token validation error",
			authHeader: "Bearer badtoken",
			setupMock: func(m *AuthServiceMock) {
				m.On("ValidateToken", mock.Anything, "badtoken").
					Return(nil, false, errors.New("parse error")).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer goodtoken",
			setupMock: func(m *AuthServiceMock) {
				m.On("ValidateToken", mock.Anything, "goodtoken").
					Return(validInfo(), true, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			tt.setupMock(authMock)

			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				assert.Equal(t, "runner42", r.Context().Value(middlewarectx.User))
				assert.Equal(t, "uid-1", r.Context().Value(middlewarectx.UserUID))
				assert.Equal(t, models.RoleParticipant, r.Context().Value(middlewarectx.Role))
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.JWTMiddleware(authMock, newNoopLogger())(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			authMock.AssertExpectations(t)
		})
	}
}

func TestOptionalAuthMiddleware_NoHeaderContinuesAnonymously(t *testing.T) {
	authMock := new(AuthServiceMock)

	var gotUID any
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID = r.Context().Value(middlewarectx.UserUID)
		w.WriteHeader(http.StatusOK)
	})

	mw := middlewarectx.OptionalAuthMiddleware(authMock, newNoopLogger())(next)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotUID)
	authMock.AssertNotCalled(t, "ValidateToken", mock.Anything, mock.Anything)
}

func TestOptionalAuthMiddleware_FailedResolutionFailsOpen(t *testing.T) {
	authMock := new(AuthServiceMock)
	authMock.On("ValidateToken", mock.Anything, "stale").
		Return(nil, false, errors.New("auth store down")).Once()

	var gotUID any
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID = r.Context().Value(middlewarectx.UserUID)
		w.WriteHeader(http.StatusOK)
	})

	mw := middlewarectx.OptionalAuthMiddleware(authMock, newNoopLogger())(next)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
	req.Header.Set("Authorization", "Bearer stale")
	mw.ServeHTTP(rec, req)

	// Неудачное разрешение сессии не блокирует запрос.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotUID)
}

func TestOptionalAuthMiddleware_ValidTokenPopulatesContext(t *testing.T) {
	authMock := new(AuthServiceMock)
	authMock.On("ValidateToken", mock.Anything, "goodtoken").
		Return(validInfo(), true, nil).Once()

	var gotUID any
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID = r.Context().Value(middlewarectx.UserUID)
		w.WriteHeader(http.StatusOK)
	})

	mw := middlewarectx.OptionalAuthMiddleware(authMock, newNoopLogger())(next)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
	req.Header.Set("Authorization", "Bearer goodtoken")
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uid-1", gotUID)
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	mw := middlewarectx.CORSMiddleware(next)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/sessions", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_PassThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw := middlewarectx.CORSMiddleware(next)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
