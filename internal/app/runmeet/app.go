package runmeet

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/runmeet/runmeet-backend/internal/cache"
	"github.com/runmeet/runmeet-backend/internal/config"
	"github.com/runmeet/runmeet-backend/internal/lib/jwt"
	"github.com/runmeet/runmeet-backend/internal/lib/rabbitmq"
	"github.com/runmeet/runmeet-backend/internal/migrations"
	"github.com/runmeet/runmeet-backend/internal/paymentprovider"
	accountservice "github.com/runmeet/runmeet-backend/internal/services/account"
	authservice "github.com/runmeet/runmeet-backend/internal/services/auth"
	enrollmentservice "github.com/runmeet/runmeet-backend/internal/services/enrollment"
	geoservice "github.com/runmeet/runmeet-backend/internal/services/geo"
	paymentsservice "github.com/runmeet/runmeet-backend/internal/services/payments"
	profileservice "github.com/runmeet/runmeet-backend/internal/services/profile"
	sessionservice "github.com/runmeet/runmeet-backend/internal/services/session"
	"github.com/runmeet/runmeet-backend/internal/services/subscriptionmgmt"
	"github.com/runmeet/runmeet-backend/internal/storage/repository"
)

type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	cache    *cache.Cache
	amqpConn *amqp.Connection
	amqpCh   *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, amqpCh, err := rabbitmq.Connect(cfg.AMQPURI, rabbitmq.GetEventQueues())
	if err != nil {
		return nil, err
	}
	events := rabbitmq.NewPublisher(amqpCh)

	providerClient := paymentprovider.NewClient(cfg.Stripe.SecretKey)
	geoClient := geoservice.NewClient(cfg.Geo.GeoAPIKey, cfg.Geo.GeoBaseURL)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	sessionService := sessionservice.New(db, cacheRedis, logger)
	profileService := profileservice.New(db)
	enrollmentService := enrollmentservice.New(db, providerClient, cfg.Stripe, logger)
	subMgmtService := subscriptionmgmt.New(providerClient, db, logger)
	accountService := accountservice.New(db, providerClient, events, logger)
	paymentsService := paymentsservice.New(db, events, logger)

	limiter := rate.NewLimiter(rate.Limit(10), 20)

	router := chi.NewRouter()

	RegisterRoutes(router, logger,
		authService,
		sessionService,
		profileService,
		enrollmentService,
		subMgmtService,
		accountService,
		paymentsService,
		geoClient,
		limiter,
		cfg.Stripe.WebhookSecret,
	)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		cache:    cacheRedis,
		amqpConn: amqpConn,
		amqpCh:   amqpCh,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.amqpCh.Close()
		a.amqpConn.Close()
		a.cache.Db.Close()
		a.db.DB.Close()
		return err
	}
}
