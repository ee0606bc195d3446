package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/loginhistory"
	"github.com/yhnjiuy4321/BankSystem/internal/messaging/kafka"
	"github.com/yhnjiuy4321/BankSystem/internal/messaging/kafka/producer"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/connection"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunWorker hosts the outbox relay and the nightly login history sweep in
// one process. It blocks until SIGINT or SIGTERM.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	historyService := loginhistory.NewService(loginhistory.NewRepository(gormDB))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	scheduler := cron.New()
	_, err = scheduler.AddFunc("0 3 * * *", func() {
		deleted, err := historyService.Cleanup(ctx)
		if err != nil {
			logger.Error("login history cleanup failed", zap.Error(err))
			return
		}
		logger.Info("login history cleanup done", zap.Int64("deleted", deleted))
	})
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
