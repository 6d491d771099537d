package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/goshop/storefront/internal/adapter/primary/http"
	"github.com/goshop/storefront/internal/adapter/secondary/cache"
	"github.com/goshop/storefront/internal/adapter/secondary/database"
	"github.com/goshop/storefront/internal/adapter/secondary/messaging"
	"github.com/goshop/storefront/internal/config"
	"github.com/goshop/storefront/internal/constant/model/db"
	"github.com/goshop/storefront/internal/core/service"
)

func main() {
	cfg := config.Load()
	logg := config.NewLogger(cfg.LogLevel)

	if cfg.WebhookAPIKey == "" {
		log.Fatal("WEBHOOK_API_KEY must be set")
	}

	// Initialize secondary adapter: Database
	dbConn, err := db.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	// Initialize secondary adapters: Repositories and Messaging (implement output ports)
	orderRepo := database.NewGormOrderRepository(dbConn.DB)
	auditLog := database.NewGormWebhookAuditLog(dbConn.DB)

	events, err := messaging.NewOrderEventPublisher(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer events.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logg.WithError(err).Warn("redis unreachable; verification codes unavailable until it recovers")
	}
	codeStore := cache.NewRedisCodeStore(rdb)

	// Initialize core services (implement input ports)
	webhookService := service.NewWebhookService(orderRepo, events, service.WebhookConfig{
		AmountMismatchBlock: cfg.AmountMismatchBlock,
	}, logg)
	verificationService := service.NewVerificationService(codeStore, cfg.VerificationCodeTTL, logg)

	// Initialize primary adapters: HTTP handlers (use input ports)
	webhookHandler := http.NewWebhookHandler(webhookService, auditLog, logg)
	verificationHandler := http.NewVerificationHandler(verificationService)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = http.NewValidator()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Webhook routes: audit capture runs before the auth gate so that
	// rejected calls are still recorded.
	webhook := e.Group("/payment-webhook",
		http.CaptureAudit(auditLog, logg),
		http.RequireWebhookSecret(cfg.WebhookAuthHeader, cfg.WebhookAPIKey),
	)
	webhook.POST("", webhookHandler.HandleNotification)
	webhook.GET("/simulate", webhookHandler.Simulate)

	api := e.Group("/api/v1")
	api.POST("/verification-codes", verificationHandler.IssueCode)
	api.POST("/verification-codes/verify", verificationHandler.VerifyCode)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	logg.Infof("Starting API server on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
