package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"openpayflow/internal/config"
	"openpayflow/internal/infrastructure/repositories"
	"openpayflow/internal/workers"
	"openpayflow/pkg/logger"
)

// reaper runs the Housekeeper in isolation, for deployments that want the
// retention sweep on its own process/schedule instead of bundled into
// cmd/server.
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
	logger.Info(ctx, "reaper logger initialized", zap.String("env", cfg.Server.Env))

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

	outboxRepo := repositories.NewOutboxRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	deliveryRepo := repositories.NewWebhookDeliveryRepository(db)

	housekeeper := workers.NewHousekeeper(outboxRepo, deliveryRepo, eventRepo)

	workerCtx, cancel := context.WithCancel(context.Background())
	go housekeeper.Start(workerCtx)

	logger.Info(ctx, "reaper running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "reaper shutting down")

	housekeeper.Stop()
	cancel()
	return nil
}
