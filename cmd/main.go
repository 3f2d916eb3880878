package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/muhammadheryan/artisanhub/application/audit"
	healthapp "github.com/muhammadheryan/artisanhub/application/health"
	userapp "github.com/muhammadheryan/artisanhub/application/user"
	"github.com/muhammadheryan/artisanhub/cmd/config"
	"github.com/muhammadheryan/artisanhub/cmd/database"
	redisclient "github.com/muhammadheryan/artisanhub/cmd/redis"
	_ "github.com/muhammadheryan/artisanhub/docs"
	auditRepo "github.com/muhammadheryan/artisanhub/repository/audit"
	redisRepo "github.com/muhammadheryan/artisanhub/repository/redis"
	txRepo "github.com/muhammadheryan/artisanhub/repository/tx"
	userRepo "github.com/muhammadheryan/artisanhub/repository/user"
	"github.com/muhammadheryan/artisanhub/thirdparty/rabbitmq"
	"github.com/muhammadheryan/artisanhub/transport"
	"github.com/muhammadheryan/artisanhub/utils/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// @title ArtisanHub API
// @version 1.0
// @description ArtisanHub authentication and role routing API
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize global logger
	if err := logger.Init(cfg.Environment, cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Close()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("Starting server", zap.String("env", cfg.Environment))

	// Connect to database
	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), cfg, db); err != nil {
		logger.Fatal("err run migrations", zap.Error(err))
	}

	// Initialize Redis client. An unreachable Redis only disables the login
	// throttle; /healthz reports it until it recovers.
	redisClient, err := redisclient.New(cfg)
	if err != nil {
		logger.Fatal("err init redis", zap.Error(err))
	}
	defer func() {
		_ = redisClient.Close()
	}()
	if err := redisclient.Ping(context.Background(), redisClient); err != nil {
		logger.Warn("redis unreachable, login throttle fails open", zap.Error(err))
	}

	// Initialize RabbitMQ publisher
	var publisher rabbitmq.EventPublisher = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQ.Enabled {
		p, err := rabbitmq.NewPublisher(cfg.GetRabbitMQURL())
		if err != nil {
			logger.Fatal("err connect rabbitmq", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Warn("RabbitMQ disabled, login audit events are dropped")
	}

	// Initialize repositories
	UserRepo := userRepo.NewUserRepository(db)
	TxRepo := txRepo.NewTxRepository(db)
	AuditRepo := auditRepo.NewAuditRepository(db)
	RedisRepo := redisRepo.NewRepository(redisClient)

	// Initialize application layers
	UserApp := userapp.NewUserApp(cfg, UserRepo, TxRepo, RedisRepo, publisher)
	AuditApp := auditapp.NewAuditApp(AuditRepo)
	HealthApp := healthapp.NewHealthApp(db, RedisRepo)

	httpTransport := transport.NewTransport(UserApp, AuditApp, HealthApp, transport.Options{
		InternalAPIKey: cfg.Internal.APIKey,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("failed server", zap.Error(err))
	case sig := <-quit:
		logger.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("err server shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}
