package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/betterhealth/bh-platform/cmd/mainconfig"
	"github.com/betterhealth/bh-platform/internal/admin"
	"github.com/betterhealth/bh-platform/internal/api/router"
	"github.com/betterhealth/bh-platform/internal/applications"
	"github.com/betterhealth/bh-platform/internal/auth"
	"github.com/betterhealth/bh-platform/internal/booking"
	appconfig "github.com/betterhealth/bh-platform/internal/config"
	"github.com/betterhealth/bh-platform/internal/media"
	"github.com/betterhealth/bh-platform/internal/meetings"
	"github.com/betterhealth/bh-platform/internal/notify"
	"github.com/betterhealth/bh-platform/internal/observability/metrics"
	"github.com/betterhealth/bh-platform/internal/payments"
	"github.com/betterhealth/bh-platform/internal/pricing"
	"github.com/betterhealth/bh-platform/internal/providers"
	"github.com/betterhealth/bh-platform/internal/questionnaire"
	"github.com/betterhealth/bh-platform/internal/users"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting bh-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.JWTSecret == "" || cfg.AdminJWTSecret == "" {
		logger.Error("JWT_SECRET and ADMIN_JWT_SECRET are required")
		os.Exit(1)
	}

	ctx := context.Background()
	m := metrics.NewPlatformMetrics(nil)

	// Postgres
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed", "error", err)
		os.Exit(1)
	}

	// The admin dashboard aggregates over database/sql.
	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open sql db", "error", err)
		os.Exit(1)
	}
	defer func() { _ = sqlDB.Close() }()

	// Redis backs OTP codes and wizard sessions.
	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOptions)
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("redis ping failed", "error", err)
		os.Exit(1)
	}

	// Outbound notifications
	smsSender := buildSMSSender(cfg, logger)
	emailSender, emailNeedsAWS := buildEmailSender(cfg, logger)

	var s3Client *s3.Client
	if cfg.DocumentBucket != "" || emailNeedsAWS {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		if cfg.DocumentBucket != "" {
			s3Client = s3.NewFromConfig(awsCfg)
		}
		if emailNeedsAWS {
			emailSender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
				FromEmail: cfg.SendGridFromEmail,
				FromName:  cfg.SendGridFromName,
			}, logger)
		}
	}
	notifier := notify.NewService(emailSender, smsSender, logger)

	// Repositories
	usersRepo := users.NewPostgresRepository(pool)
	pricingRepo := pricing.NewPostgresRepository(pool)
	providersRepo := providers.NewPostgresRepository(pool)
	questionsRepo := questionnaire.NewPostgresRepository(pool)
	bookingsRepo := booking.NewPostgresRepository(pool)
	meetingsRepo := meetings.NewPostgresRepository(pool)
	applicationsRepo := applications.NewPostgresRepository(pool)

	// Services
	authSvc := auth.NewService(auth.NewOTPStore(redisClient), smsSender, usersRepo, m, logger, auth.ServiceConfig{
		CodeTTL:        cfg.OTPTTL,
		ResendCooldown: cfg.OTPResendCooldown,
		JWTSecret:      cfg.JWTSecret,
		SessionTTL:     cfg.SessionTTL,
	})
	pricingSvc := pricing.NewService(pricingRepo, usersRepo, logger)
	bookingSvc := booking.NewService(
		booking.NewSessionStore(redisClient, cfg.BookingSessionTTL),
		pricingSvc, providersRepo, questionsRepo, authSvc, usersRepo,
		bookingsRepo, m, logger,
	)
	meetingsSvc := meetings.NewService(meetingsRepo, usersRepo, notifier, cfg.PublicBaseURL, logger)
	applicationsSvc := applications.NewService(applicationsRepo, notifier, logger)

	gateway, verifier := buildPaymentGateway(cfg, logger)

	var mediaHandler *media.Handler
	if cfg.CloudinaryCloudName != "" {
		cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s",
			cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryCloudName)
		uploader, err := media.NewCloudinaryUploader(cloudinaryURL, logger)
		if err != nil {
			logger.Error("failed to init cloudinary uploader", "error", err)
			os.Exit(1)
		}
		archiver := media.NewArchiver(s3Client, cfg.DocumentBucket, logger)
		mediaHandler = media.NewHandler(uploader, archiver, cfg.MediaMaxBytes, cfg.MediaUploadTimeout, m, logger)
	} else {
		logger.Warn("cloudinary not configured, media uploads disabled")
	}

	r := router.New(&router.Config{
		Logger:               logger,
		AuthHandler:          auth.NewHandler(authSvc, logger),
		PricingHandler:       pricing.NewHandler(pricingSvc, logger),
		QuestionnaireHandler: questionnaire.NewHandler(questionsRepo, logger),
		ProvidersHandler:     providers.NewHandler(providersRepo, logger),
		BookingHandler:       booking.NewHandler(bookingSvc, logger),
		PaymentsHandler:      payments.NewHandler(gateway, verifier, bookingSvc, notifier, m, logger),
		MeetingsHandler:      meetings.NewHandler(meetingsSvc, logger),
		ApplicationsHandler:  applications.NewHandler(applicationsSvc, logger),
		MediaHandler:         mediaHandler,
		AdminDashboard:       admin.NewDashboardHandler(sqlDB, logger),
		JWTSecret:            cfg.JWTSecret,
		AdminJWTSecret:       cfg.AdminJWTSecret,
		MetricsHandler:       promhttp.Handler(),
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		OTPRateLimit:         cfg.OTPRateLimit,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func buildSMSSender(cfg *appconfig.Config, logger *logging.Logger) notify.SMSSender {
	switch cfg.SMSProvider {
	case "gateway":
		if cfg.SMSGatewayURL != "" {
			return notify.NewGatewaySMSSender(cfg.SMSGatewayURL, cfg.SMSGatewayKey, cfg.SMSSenderID, logger)
		}
		logger.Warn("SMS_GATEWAY_URL not set, falling back to stub SMS sender")
	case "stub":
	default:
		logger.Warn("unknown SMS provider, falling back to stub", "provider", cfg.SMSProvider)
	}
	return notify.NewStubSMSSender(logger)
}

func buildEmailSender(cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, bool) {
	switch cfg.EmailProvider {
	case "sendgrid":
		if cfg.SendGridAPIKey != "" {
			return notify.NewSendGridSender(notify.SendGridConfig{
				APIKey:    cfg.SendGridAPIKey,
				FromEmail: cfg.SendGridFromEmail,
				FromName:  cfg.SendGridFromName,
			}, logger), false
		}
		logger.Warn("SENDGRID_API_KEY not set, falling back to stub email sender")
	case "ses":
		// The SES client needs the shared AWS config, built later.
		return nil, true
	}
	return notify.NewStubEmailSender(logger), false
}

func buildPaymentGateway(cfg *appconfig.Config, logger *logging.Logger) (payments.Gateway, payments.Verifier) {
	if cfg.AllowFakePayments && cfg.Env != "production" {
		logger.Warn("fake payment gateway enabled, do not use in production")
		fake := payments.NewFakeGateway(cfg.PaymentGatewaySecret, logger)
		return fake, fake
	}
	gw := payments.NewRazorpayGateway(cfg.PaymentGatewayKeyID, cfg.PaymentGatewaySecret, cfg.PaymentCurrency, logger)
	if cfg.PaymentGatewayBaseURL != "" {
		gw = gw.WithBaseURL(cfg.PaymentGatewayBaseURL)
	}
	return gw, gw
}
