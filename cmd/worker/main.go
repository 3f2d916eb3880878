package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/muhammadheryan/artisanhub/cmd/config"
	"github.com/muhammadheryan/artisanhub/thirdparty/rabbitmq"
	"github.com/muhammadheryan/artisanhub/utils/logger"
	"go.uber.org/zap"
)

// Worker consumes login events and forwards them to the internal audit API.
func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment, cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Close()

	if cfg.Internal.APIKey == "" {
		logger.Fatal("INTERNAL_API_KEY is required for the audit worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	forwarder := rabbitmq.NewAuditForwarder(cfg.Internal.BaseURL, cfg.Internal.APIKey, nil)

	consumer, err := rabbitmq.NewConsumer(cfg.GetRabbitMQURL(), forwarder)
	if err != nil {
		logger.Fatal("err connect rabbitmq", zap.Error(err))
	}
	defer consumer.Close()

	done, err := consumer.Start(ctx)
	if err != nil {
		logger.Fatal("err start consumer", zap.Error(err))
	}

	logger.Info("Audit worker started", zap.String("api", cfg.Internal.BaseURL))

	select {
	case <-ctx.Done():
		logger.Info("Audit worker stopping")
	case <-done:
		logger.Warn("Audit worker delivery channel closed")
	}
}
