package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/infra/config"
	"github.com/JJProjectStash/aibarangay-be/internal/infra/database"
	kafkainfra "github.com/JJProjectStash/aibarangay-be/internal/infra/kafka"
	"github.com/JJProjectStash/aibarangay-be/internal/infra/logger"
	redisinfra "github.com/JJProjectStash/aibarangay-be/internal/infra/redis"
	"github.com/JJProjectStash/aibarangay-be/internal/infra/security"
	"github.com/JJProjectStash/aibarangay-be/internal/infra/telemetry"
	postgresrepo "github.com/JJProjectStash/aibarangay-be/internal/repository/postgres"
	redisrepo "github.com/JJProjectStash/aibarangay-be/internal/repository/redis"
	"github.com/JJProjectStash/aibarangay-be/internal/transport/http/middleware"
	"github.com/JJProjectStash/aibarangay-be/internal/transport/http/routes"
	"github.com/JJProjectStash/aibarangay-be/internal/usecase"
)

// Application owns the portal's wired dependencies and server lifecycle.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	tracer   *telemetry.TracerProvider
	reminder *usecase.ReminderService
}

// New wires configuration into a runnable application.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	if err := security.ConfigureArgon2(security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	tokens, err := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	redisClient, err := redisinfra.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.OTLPEndpoint != "" {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			log.Warn("failed to init tracer provider, continuing without tracing", zap.Error(err))
		}
	}

	repos := postgresrepo.NewRepositories(pool)

	var producer *kafkainfra.Producer
	var eventPublisher port.EventPublisher
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
		}
	} else {
		log.Info("kafka disabled, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: cfg.Redis.RateLimitPrefix,
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	responseCache := redisrepo.NewResponseCache(redisClient.Client(), cfg.Redis.CachePrefix)

	clock := port.SystemClock()
	metrics := telemetry.NewMetrics()

	lockoutPolicy := usecase.LockoutPolicy{
		MaxAttempts:     cfg.Lockout.MaxAttempts,
		LockoutDuration: cfg.Lockout.LockDuration,
	}
	guard, err := usecase.NewLockoutGuard(repos.Accounts, eventPublisher, clock, lockoutPolicy, log)
	if err != nil {
		return nil, fmt.Errorf("init lockout guard: %w", err)
	}

	authService, err := usecase.NewAuthService(repos.Accounts, repos.LoginAttempts, guard, tokens, clock, log)
	if err != nil {
		return nil, fmt.Errorf("init auth service: %w", err)
	}

	registrationService, err := usecase.NewRegistrationService(
		repos.Accounts, repos.Notifications, eventPublisher, security.DefaultPasswordPolicy(), clock, log)
	if err != nil {
		return nil, fmt.Errorf("init registration service: %w", err)
	}

	complaintService, err := usecase.NewComplaintService(
		repos.Complaints, repos.Notifications, repos.Audit, eventPublisher, clock, log)
	if err != nil {
		return nil, fmt.Errorf("init complaint service: %w", err)
	}

	serviceRequestService, err := usecase.NewServiceRequestService(
		repos.ServiceRequests, repos.Notifications, repos.Audit, eventPublisher, clock, log)
	if err != nil {
		return nil, fmt.Errorf("init service request service: %w", err)
	}

	bulkStatusService := usecase.NewBulkStatusService(
		repos.Notifications, repos.Audit, eventPublisher, clock, log)

	announcementService, err := usecase.NewAnnouncementService(repos.Announcements, repos.Audit, clock, log)
	if err != nil {
		return nil, fmt.Errorf("init announcement service: %w", err)
	}

	eventService, err := usecase.NewEventService(repos.Events, repos.Notifications, repos.Audit, clock, log)
	if err != nil {
		return nil, fmt.Errorf("init event service: %w", err)
	}

	notificationService, err := usecase.NewNotificationService(repos.Notifications)
	if err != nil {
		return nil, fmt.Errorf("init notification service: %w", err)
	}

	var reminderService *usecase.ReminderService
	if cfg.Reminder.Enabled {
		reminderService, err = usecase.NewReminderService(
			repos.ServiceRequests, repos.Notifications, clock, cfg.Reminder.Interval, cfg.Reminder.Horizon, log)
		if err != nil {
			return nil, fmt.Errorf("init reminder service: %w", err)
		}
	}

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Cache:       responseCache,
		Metrics:     metrics,
		HTTPMetrics: httpMetrics,
		Tokens:      tokens,
		Database:    pool,
		Redis:       redisClient,
		Services: routes.ServiceSet{
			Auth:            authService,
			Registration:    registrationService,
			Complaints:      complaintService,
			ServiceRequests: serviceRequestService,
			BulkStatus:      bulkStatusService,
			Announcements:   announcementService,
			Events:          eventService,
			Notifications:   notificationService,
		},
		Stores: routes.StoreSet{
			Complaints:      repos.Complaints,
			ServiceRequests: repos.ServiceRequests,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		tracer:   tracer,
		reminder: reminderService,
	}, nil
}

// Run starts the HTTP server and the reminder job, blocking until ctx is
// cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()
	defer func() {
		if a.tracer != nil {
			_ = a.tracer.Shutdown(context.Background())
		}
	}()

	if a.reminder != nil {
		go a.reminder.Run(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting barangay portal API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
