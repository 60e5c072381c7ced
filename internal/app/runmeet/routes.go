// Package runmeet предоставляет маршруты для основного приложения.
package runmeet

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/runmeet/runmeet-backend/internal/http/handlers/account/remove"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/auth/login"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/auth/register"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/enrollment/attachcheckout"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/enrollment/enroll"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/enrollment/roster"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/geo/lookup"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/health"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/payment/checkoutcreate"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/payment/paymentwebhook"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/payment/subscriptionmanage"
	profileread "github.com/runmeet/runmeet-backend/internal/http/handlers/profile/read"
	profileupdate "github.com/runmeet/runmeet-backend/internal/http/handlers/profile/update"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/session/cancel"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/session/create"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/session/list"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/session/read"
	"github.com/runmeet/runmeet-backend/internal/http/handlers/session/validateform"
	"github.com/runmeet/runmeet-backend/internal/http/middlewarectx"
	accountservice "github.com/runmeet/runmeet-backend/internal/services/account"
	authservice "github.com/runmeet/runmeet-backend/internal/services/auth"
	enrollmentservice "github.com/runmeet/runmeet-backend/internal/services/enrollment"
	geoservice "github.com/runmeet/runmeet-backend/internal/services/geo"
	paymentsservice "github.com/runmeet/runmeet-backend/internal/services/payments"
	profileservice "github.com/runmeet/runmeet-backend/internal/services/profile"
	sessionservice "github.com/runmeet/runmeet-backend/internal/services/session"
	"github.com/runmeet/runmeet-backend/internal/services/subscriptionmgmt"

	"log/slog"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.Service,
	sessionService *sessionservice.Service,
	profileService *profileservice.Service,
	enrollmentService *enrollmentservice.Service,
	subMgmtService *subscriptionmgmt.Service,
	accountService *accountservice.Service,
	paymentsService *paymentsservice.Service,
	geoClient *geoservice.Client,
	limiter *rate.Limiter,
	webhookSecret string,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.CORSMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/sessions/validate", validateform.New(logger).ServeHTTP)
		r.Post("/geo", lookup.New(logger, geoClient).ServeHTTP)

		// Просмотр сессий доступен анонимно, но токен при наличии
		// учитывается для персонализации ответа.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalAuthMiddleware(authService, logger))
			r.Get("/sessions", list.New(logger, sessionService).ServeHTTP)
			r.Get("/sessions/{id}", read.New(logger, sessionService).ServeHTTP)
			// Подтверждение удаления проверяется до аутентификации.
			r.Delete("/account", remove.New(logger, accountService).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Get("/profile", profileread.New(logger, profileService).ServeHTTP)
			r.Patch("/profile", profileupdate.New(logger, profileService).ServeHTTP)
			r.Post("/sessions", create.New(logger, sessionService).ServeHTTP)
			r.Delete("/sessions/{id}", cancel.New(logger, sessionService).ServeHTTP)
			r.Get("/sessions/{id}/enrollments", roster.New(logger, enrollmentService).ServeHTTP)
			r.Post("/enrollments/{id}/checkout", attachcheckout.New(logger, enrollmentService).ServeHTTP)
			r.Post("/checkout", checkoutcreate.New(logger, enrollmentService).ServeHTTP)
			r.Post("/subscription/manage", subscriptionmanage.New(logger, subMgmtService).ServeHTTP)

			// Запись на сессию требует действующей подписки
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.SubscriptionStatusMiddleware(logger, profileService))
				r.Post("/sessions/{id}/enroll", enroll.New(logger, enrollmentService).ServeHTTP)
			})
		})

		// Webhook endpoint (без аутентификации)
		r.Post("/payments/webhook", paymentwebhook.New(logger, paymentsService, webhookSecret).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
