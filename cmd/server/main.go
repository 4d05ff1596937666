package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"openpayflow/internal/config"
	"openpayflow/internal/infrastructure/cache"
	"openpayflow/internal/infrastructure/gateway"
	"openpayflow/internal/infrastructure/gateway/mock"
	"openpayflow/internal/infrastructure/gateway/razorpay"
	"openpayflow/internal/infrastructure/gateway/stripe"
	"openpayflow/internal/infrastructure/models"
	"openpayflow/internal/infrastructure/queue"
	"openpayflow/internal/infrastructure/repositories"
	openpayflowhttp "openpayflow/internal/interfaces/http"
	"openpayflow/internal/usecases"
	"openpayflow/internal/workers"
	"openpayflow/pkg/logger"
	"openpayflow/pkg/redisclient"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.Load()

	logger.Init(cfg.Server.Env)
	ctx := context.Background()
	logger.Info(ctx, "logger initialized", zap.String("env", cfg.Server.Env))

	rdb, err := redisclient.New(cfg.Redis.URL, cfg.Redis.Password)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	logger.Info(ctx, "redis connected")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.Database.URL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(
		&models.Merchant{},
		&models.Payment{},
		&models.PaymentAttempt{},
		&models.Refund{},
		&models.Outbox{},
		&models.Event{},
		&models.WebhookEndpoint{},
		&models.WebhookDelivery{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	logger.Info(ctx, "database migrated")

	// Repositories
	merchantRepo := repositories.NewMerchantRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	refundRepo := repositories.NewRefundRepository(db)
	outboxRepo := repositories.NewOutboxRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	endpointRepo := repositories.NewWebhookEndpointRepository(db)
	deliveryRepo := repositories.NewWebhookDeliveryRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Caches and queues
	merchantCache := cache.NewMerchantCache(rdb)
	idemCache := cache.NewIdempotencyCache(rdb)
	workQueue := queue.NewWorkQueue(rdb)
	deadLetter := queue.NewDeadLetterQueue(rdb)

	// Gateway Port adapters
	registry := gateway.NewRegistry()
	if cfg.Gateways.EnableMock {
		registry.Register(mock.New(mock.Config{
			SuccessRate:      cfg.Mock.SuccessRate,
			AverageLatencyMs: cfg.Mock.AverageLatencyMs,
			EnableChaos:      cfg.Mock.EnableChaos,
			ChaosRate:        cfg.Mock.ChaosRate,
		}))
	}
	if cfg.Gateways.EnableStripe {
		registry.Register(stripe.New(cfg.Gateways.StripeAPIKey))
	}
	if cfg.Gateways.EnableRazorpay {
		registry.Register(razorpay.New(cfg.Gateways.RazorpayKeyID, cfg.Gateways.RazorpayKeySecret))
	}

	// Usecases
	paymentService := usecases.NewPaymentService(uow, merchantRepo, paymentRepo, outboxRepo, registry, merchantCache, idemCache)
	refundService := usecases.NewRefundService(uow, paymentRepo, refundRepo, outboxRepo, registry)
	endpointService := usecases.NewWebhookEndpointService(endpointRepo)

	// Background workers
	workerCtx, cancelWorkers := context.WithCancel(context.Background())

	drainer := workers.NewOutboxDrainer(uow, outboxRepo, eventRepo, endpointRepo, deliveryRepo, workQueue)
	scheduler := workers.NewWebhookScheduler(uow, deliveryRepo, workQueue, deadLetter, cfg.Webhook.Timeout())
	housekeeper := workers.NewHousekeeper(outboxRepo, deliveryRepo, eventRepo)

	go drainer.Start(workerCtx)
	go scheduler.Start(workerCtx)
	go housekeeper.Start(workerCtx)

	router := openpayflowhttp.NewRouter(openpayflowhttp.Dependencies{
		DB:         db,
		Redis:      rdb,
		StartedAt:  time.Now(),
		RateLimit:  cfg.RateLimit,
		Payments:   paymentService,
		Refunds:    refundService,
		Endpoints:  endpointService,
		RefundRepo: refundRepo,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info(ctx, "server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "shutting down")

	drainer.Stop()
	scheduler.Stop()
	housekeeper.Stop()
	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
