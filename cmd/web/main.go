package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketing-site/config"
	v1 "marketing-site/internal/delivery/http/v1"
	"marketing-site/internal/delivery/http/middleware"
	"marketing-site/internal/delivery/http/web"
	"marketing-site/internal/domain"
	"marketing-site/internal/repository/httpapi"
	"marketing-site/internal/usecase"
	"marketing-site/pkg/audit"
	"marketing-site/pkg/auth"
	"marketing-site/pkg/email"
	"marketing-site/pkg/logger"
	"marketing-site/pkg/redis"
	"marketing-site/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Marketing Site
// @version         1.0
// @description     Marketing page with a contact form backed by a remote contact API.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	environment := "development"
	if cfg.IsProduction() {
		environment = "production"
	}
	auditLog := audit.Init("marketing-site", environment)
	defer func() { _ = auditLog.Sync() }()
	logger.Log.Info("Starting marketing site", "port", cfg.Port, "backend", cfg.BackendURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Redis (optional)
	var redisClient *goredis.Client
	redisClient, err = redis.Connect(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
	case err != nil:
		logger.Log.Warn("Redis unavailable, rate limiting in memory", "error", err)
	default:
		defer redisClient.Close()
	}

	// 4. Setup Backend Repository
	tokens, err := auth.NewTokenSource(cfg.BackendAPIKey, cfg.BackendJWTSecret, cfg.BackendJWTIssuer)
	if err != nil {
		logger.Log.Error("Failed to build backend token source", "error", err)
		os.Exit(1)
	}
	contactRepo := httpapi.NewContactRepository(httpapi.Options{
		BaseURL:         cfg.BackendURL,
		SubmissionsPath: cfg.BackendSubmissionsPath,
		Client:          &http.Client{Timeout: cfg.BackendTimeout},
		Tokens:          tokens,
	})

	// 5. Setup UseCases
	var notifier domain.ContactNotifier
	mailer := email.NewEmailService(email.Config{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.SMTPFromEmail,
		ToEmail:   cfg.ContactEmailTo,
		SiteName:  cfg.SiteName,
	})
	if mailer.IsConfigured() && cfg.ContactEmailTo != "" {
		notifier = mailer
	} else {
		logger.Log.Info("SMTP not configured, contact notifications disabled")
	}

	contactUC := usecase.NewContactUsecase(contactRepo, notifier, validation.New(), auditLog)
	adminUC := usecase.NewAdminUsecase(contactRepo, auditLog)
	var pinger usecase.Pinger
	if redisClient != nil {
		pinger = redis.Checker{Client: redisClient}
	}
	healthUC := usecase.NewHealthUsecase(pinger)
	pages := usecase.NewPageStore(contactUC, adminUC, cfg.SessionTTL())
	go pages.Run(ctx, time.Minute)

	// 6. Setup Rate Limiter
	limitCfg := middleware.SubmitRateLimitConfig(cfg.RateLimitSubmitThreshold, cfg.RateLimitWindow())
	limitCfg.OnLimit = v1.RateLimitResponder
	limiter := middleware.NewRateLimiter(limitCfg, redisClient, auditLog)
	go limiter.RunCleanup(ctx, 5*time.Minute)

	// 7. Setup Router
	templates, err := web.Templates()
	if err != nil {
		logger.Log.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:   contactUC,
		AdminUC:     adminUC,
		HealthUC:    healthUC,
		Pages:       pages,
		Templates:   templates,
		RateLimiter: limiter,
		Config:      cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
