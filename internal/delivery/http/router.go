package http

import (
	"net/http"

	"github.com/gdugdh24/fabdive-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/fabdive-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	AllowedOrigins []string
	// UploadsDir is served under /uploads when photos are stored locally.
	UploadsDir  string
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTP
}

type Router struct {
	authHandler       *handler.AuthHandler
	onboardingHandler *handler.OnboardingHandler
	profileHandler    *handler.ProfileHandler
	crushHandler      *handler.CrushHandler
	matchesHandler    *handler.MatchesHandler
	adminHandler      *handler.AdminHandler
	authMiddleware    *middleware.AuthMiddleware
	opts              RouterOptions
	log               *logger.Logger
}

func NewRouter(
	authHandler *handler.AuthHandler,
	onboardingHandler *handler.OnboardingHandler,
	profileHandler *handler.ProfileHandler,
	crushHandler *handler.CrushHandler,
	matchesHandler *handler.MatchesHandler,
	adminHandler *handler.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
	opts RouterOptions,
	log *logger.Logger,
) *Router {
	return &Router{
		authHandler:       authHandler,
		onboardingHandler: onboardingHandler,
		profileHandler:    profileHandler,
		crushHandler:      crushHandler,
		matchesHandler:    matchesHandler,
		adminHandler:      adminHandler,
		authMiddleware:    authMiddleware,
		opts:              opts,
		log:               log,
	}
}

func (r *Router) Setup() (*gin.Engine, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(r.log))
	router.Use(middleware.Metrics(r.opts.HTTPMetrics))
	if len(r.opts.AllowedOrigins) > 0 {
		router.Use(middleware.CORS(r.opts.AllowedOrigins))
	}

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	if r.opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.opts.Gatherer, promhttp.HandlerOpts{})))
	}
	if r.opts.UploadsDir != "" {
		router.Static("/uploads", r.opts.UploadsDir)
	}

	requireAuth := r.authMiddleware.RequireAuth()

	// API v1
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/magic-link", r.authHandler.RequestMagicLink)
			auth.GET("/callback", r.authHandler.Callback)
			auth.POST("/signup", r.authHandler.SignUp)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/logout", requireAuth, r.authHandler.Logout)
			auth.GET("/me", requireAuth, r.authHandler.Me)
			auth.GET("/events", requireAuth, r.authHandler.Events)
		}

		// Cold start works signed out too: it answers with the signed-out route.
		v1.GET("/onboarding/next", r.authMiddleware.OptionalAuth(), r.onboardingHandler.Next)

		protected := v1.Group("")
		protected.Use(requireAuth)
		{
			onboarding := protected.Group("/onboarding")
			{
				onboarding.PUT("/steps/:step", r.onboardingHandler.SaveStep)
				onboarding.POST("/photo", r.onboardingHandler.UploadPhoto)
			}

			profile := protected.Group("/profile")
			{
				profile.GET("/me", r.profileHandler.GetMyProfile)
				profile.GET("/me/portrait", r.profileHandler.GetPortrait)
			}

			protected.POST("/crush", r.crushHandler.Send)
			protected.GET("/matches", r.matchesHandler.Find)
			protected.GET("/admin/stats", r.adminHandler.Stats)
		}
	}

	return router, nil
}
