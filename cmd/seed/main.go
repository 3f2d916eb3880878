package main

import (
	"context"
	stderrors "errors"
	"time"

	userapp "github.com/muhammadheryan/artisanhub/application/user"
	"github.com/muhammadheryan/artisanhub/cmd/config"
	"github.com/muhammadheryan/artisanhub/cmd/database"
	"github.com/muhammadheryan/artisanhub/constant"
	"github.com/muhammadheryan/artisanhub/model"
	txRepo "github.com/muhammadheryan/artisanhub/repository/tx"
	userRepo "github.com/muhammadheryan/artisanhub/repository/user"
	"github.com/muhammadheryan/artisanhub/utils/errors"
	"github.com/muhammadheryan/artisanhub/utils/logger"
	"go.uber.org/zap"
)

var demoAccounts = []model.RegisterRequest{
	{
		Name:     "Demo Customer",
		Email:    "customer@artisanhub.com",
		Phone:    "+1234567890",
		Password: "customer123",
		Role:     string(constant.RoleCustomer),
	},
	{
		Name:     "Demo Seller",
		Email:    "seller@artisanhub.com",
		Phone:    "+1987654321",
		Password: "seller123",
		Role:     string(constant.RoleSeller),
	},
}

// Seed registers the demo accounts. Existing accounts are left untouched.
func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment, cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Close()

	if cfg.Environment == "production" {
		logger.Fatal("refusing to seed demo accounts in production")
	}

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, cfg, db); err != nil {
		logger.Fatal("err run migrations", zap.Error(err))
	}

	app := userapp.NewUserApp(cfg, userRepo.NewUserRepository(db), txRepo.NewTxRepository(db), nil, nil)

	for _, account := range demoAccounts {
		account := account
		res, err := app.Register(ctx, &account)
		if err != nil {
			if stderrors.Is(err, errors.SetCustomError(constant.ErrCredentialExists)) {
				logger.Info("demo account already exists", zap.String("email", account.Email))
				continue
			}
			logger.Fatal("err seed account", zap.String("email", account.Email), zap.Error(err))
		}
		logger.Info("demo account created", zap.Uint64("id", res.ID), zap.String("role", res.Role.String()))
	}
}
