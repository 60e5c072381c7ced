package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/runmeet/runmeet-backend/internal/lib/watchdog"
	"github.com/runmeet/runmeet-backend/internal/models"
)

// OptionalAuthMiddleware разрешает анонимный доступ, но пытается
// разрешить bearer-токен в пределах фиксированного окна watchdog.
// Если проверка не уложилась в окно или не удалась, запрос продолжается
// как неаутентифицированный: отсутствие личности — не ошибка.
func OptionalAuthMiddleware(authService AuthService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			info, ok := watchdog.Await(r.Context(), watchdog.DefaultWindow,
				func(ctx context.Context) (*models.TokenInfo, error) {
					info, valid, err := authService.ValidateToken(ctx, tokenStr)
					if err != nil {
						return nil, err
					}
					if !valid {
						return nil, errors.New("invalid token")
					}
					return info, nil
				})
			if !ok || info == nil {
				log.Debug("session resolution timed out or failed, continuing anonymously")
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), User, info.Username)
			ctx = context.WithValue(ctx, UserUID, info.UserUID)
			ctx = context.WithValue(ctx, Role, info.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
