package container

import (
	"context"
	"fmt"
	"io"

	"github.com/gdugdh24/fabdive-backend/internal/config"
	"github.com/gdugdh24/fabdive-backend/internal/delivery/http"
	"github.com/gdugdh24/fabdive-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/fabdive-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/database"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/events"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/geocoding"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/magiclink"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/mailer"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/ratelimit"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/server"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/storage"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/gdugdh24/fabdive-backend/internal/repository/postgres"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/auth"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/crush"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/matches"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/onboarding"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/profile"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/stats"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Log    *logger.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.GeminiClient
	Blobs  storage.BlobStore
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	db, err := database.NewPostgresDB(ctx, &cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	rdb, err := database.NewRedisClient(ctx, &cfg.Redis, log)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	c.Redis = rdb

	blobs, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.Blobs = blobs

	mail, err := mailer.NewSendGridMailer(&cfg.Mail, log)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	// The portrait falls back to a template without Gemini.
	geminiClient, err := gemini.NewGeminiClient(cfg.GeminiAPIKey, log)
	if err != nil {
		log.Warn("gemini disabled, using fallback portraits", "error", err)
	}
	c.Gemini = geminiClient

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	routingMetrics := metrics.NewRouting(registry)
	httpMetrics := metrics.NewHTTP(registry)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	preferencesRepo := postgres.NewPreferencesRepository(db)
	crushRepo := postgres.NewCrushRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	// Initialize use cases
	loader := onboarding.NewLoader(profileRepo, preferencesRepo)
	navigator := onboarding.NewNavigator(loader, onboarding.Paths{
		SignedOut: cfg.Onboarding.SignedOutPath,
		Done:      cfg.Onboarding.DonePath,
	}, routingMetrics, log)

	authUseCase := auth.NewAuthUseCase(
		userRepo,
		sessionRepo,
		magiclink.NewStore(rdb, cfg.Onboarding.MagicLinkTTL),
		mail,
		events.NewSessionBus(rdb, log),
		auth.Options{
			JWTSecret:  cfg.JWT.AccessSecret,
			SessionTTL: cfg.JWT.SessionTTL,
			AppBaseURL: cfg.Mail.AppBaseURL,
		},
		log,
	)

	var portraits profile.PortraitGenerator
	if geminiClient != nil {
		portraits = geminiClient
	}
	profileUseCase := profile.NewProfileUseCase(
		profileRepo,
		preferencesRepo,
		loader,
		blobs,
		geocoding.NewNominatimClient(cfg.Geocoding.BaseURL, cfg.Geocoding.UserAgent, log),
		portraits,
		log,
	)

	crushUseCase := crush.NewCrushUseCase(
		crushRepo,
		ratelimit.NewDaily(rdb, "crush", cfg.Crush.DailyLimit),
		mail,
		cfg.Mail.AppBaseURL,
		log,
	)
	matchesUseCase := matches.NewMatchesUseCase(profileRepo, preferencesRepo, log)
	statsUseCase := stats.NewStatsUseCase(userRepo, statsRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUseCase, navigator, log)
	onboardingHandler := handler.NewOnboardingHandler(profileUseCase, navigator)
	profileHandler := handler.NewProfileHandler(profileUseCase)
	crushHandler := handler.NewCrushHandler(crushUseCase)
	matchesHandler := handler.NewMatchesHandler(matchesUseCase)
	adminHandler := handler.NewAdminHandler(statsUseCase)

	authMiddleware := middleware.NewAuthMiddleware(authUseCase, log)

	opts := http.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Gatherer:       registry,
		HTTPMetrics:    httpMetrics,
	}
	if local, ok := blobs.(*storage.LocalStore); ok {
		opts.UploadsDir = local.Root()
	}

	router := http.NewRouter(
		authHandler,
		onboardingHandler,
		profileHandler,
		crushHandler,
		matchesHandler,
		adminHandler,
		authMiddleware,
		opts,
		log,
	)

	engine, err := router.Setup()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	c.Server = server.NewServer(&cfg.Server, engine, log)
	return c, nil
}

// Close releases every connection the container opened. It is safe on a
// partially built container.
func (c *Container) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	c.Gemini.Close()
	if closer, ok := c.Blobs.(io.Closer); ok {
		keep(closer.Close())
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Warn("error closing redis", "error", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			keep(fmt.Errorf("failed to close database: %w", err))
		}
	}
	return firstErr
}
