// cmd/server/main.go
// HTTP Server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"paylink/internal/config"
	"paylink/internal/handler"
	"paylink/internal/mailer"
	"paylink/internal/provider"
	"paylink/internal/receipt"
	"paylink/internal/repository"
	"paylink/internal/service"
	"paylink/shared/pkg/logger"
	"paylink/shared/pkg/middleware"
	"paylink/shared/pkg/redis"
)

func main() {
	configPath := flag.String("config", getEnv("PAYLINK_CONFIG", "config.yaml"), "path to the YAML config file")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New("paylink", cfg.Env, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Stripe.SecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY is not set, checkout creation will fail")
	}
	if cfg.Stripe.WebhookSecret == "" {
		log.Warn("STRIPE_WEBHOOK_SECRET is not set, webhook events are accepted without signature verification")
	}
	if cfg.AdminToken == "" {
		log.Warn("ADMIN_TOKEN is not set, admin endpoints are disabled")
	}

	// Initialize repositories
	salesRepo, err := repository.NewSalesRepository(cfg.SalesLog.Path)
	if err != nil {
		log.Fatal("failed to open sales log", zap.Error(err))
	}

	stripeProvider := provider.NewStripeProvider(cfg.Stripe.SecretKey)
	dashboard := provider.DashboardLinks{
		AccountID: cfg.Stripe.AccountID,
		Live:      cfg.Stripe.DashboardMode == "live",
	}

	checks := map[string]handler.ReadinessCheck{
		"sales_log": func(ctx context.Context) error {
			_, err := os.Stat(salesRepo.Path())
			return err
		},
	}

	// Receipts
	var receipts service.ReceiptSender
	if cfg.SMTP.Enabled() {
		var guard service.ReceiptGuard = service.NewMemoryReceiptGuard(cfg.Receipt.DedupeTTL)
		if cfg.Redis.URL != "" {
			redisClient, err := redis.NewRedisClient(cfg.Redis.URL)
			if err != nil {
				log.Fatal("failed to configure redis", zap.Error(err))
			}
			defer redisClient.Close()
			guard = service.NewRedisReceiptGuard(redisClient, cfg.Receipt.DedupeTTL)
			checks["redis"] = redisClient.Ping
		}

		loc, err := time.LoadLocation("Europe/Rome")
		if err != nil {
			log.Warn("timezone data unavailable, receipts use UTC", zap.Error(err))
			loc = time.UTC
		}

		receipts = service.NewReceiptService(
			receipt.NewRenderer(loc),
			mailer.NewSMTPMailer(cfg.SMTP),
			guard,
			service.ReceiptOptions{
				Brand:       cfg.Receipt.Brand,
				SellerEmail: cfg.Receipt.SellerEmail,
				From:        cfg.SMTP.From,
				FromName:    cfg.SMTP.FromName,
			},
			log,
		)
		log.Info("receipt emails enabled", zap.String("smtp_host", cfg.SMTP.Host))
	}

	// Initialize services
	checkoutService := service.NewCheckoutService(stripeProvider, salesRepo, service.CheckoutOptions{
		BaseURL:            cfg.HTTP.BaseURL,
		FrontendSuccessURL: cfg.Checkout.FrontendSuccessURL,
		Currency:           cfg.Checkout.Currency,
		Locale:             cfg.Checkout.Locale,
		PaymentMethods:     cfg.Checkout.PaymentMethods,
		DefaultCountryCode: cfg.Checkout.DefaultCountryCode,
		AdminToken:         cfg.AdminToken,
	}, log)
	statusService := service.NewStatusService(stripeProvider, dashboard, log)
	webhookService := service.NewWebhookService(stripeProvider, salesRepo, receipts, cfg.Stripe.WebhookSecret, log)

	// Initialize handlers
	handlers := handler.Handlers{
		Checkout: handler.NewCheckoutHandler(checkoutService, salesRepo.Path(), log),
		Status:   handler.NewStatusHandler(statusService, log),
		Webhook:  handler.NewWebhookHandler(webhookService, log),
		Health:   handler.NewHealthHandler(checks),
	}

	// Setup router
	router := setupRouter(cfg, handlers, log)

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		log.Info("starting server",
			zap.String("port", cfg.HTTP.Port),
			zap.String("base_url", cfg.HTTP.BaseURL),
			zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func setupRouter(cfg config.Config, h handler.Handlers, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.HTTP.AllowedOrigins...))

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterRoutes(router, h, middleware.RateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst))

	// Seller form and result pages
	if info, err := os.Stat(cfg.HTTP.StaticDir); err == nil && info.IsDir() {
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.HTTP.StaticDir))))
	} else {
		log.Info("static directory not found, serving the API only", zap.String("dir", cfg.HTTP.StaticDir))
	}

	return router
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
