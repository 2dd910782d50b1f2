package main

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/rajbhasha-api/internal/repository"
	"github.com/noah-isme/rajbhasha-api/internal/service"
	"github.com/noah-isme/rajbhasha-api/pkg/config"
	"github.com/noah-isme/rajbhasha-api/pkg/database"
	"github.com/noah-isme/rajbhasha-api/pkg/logger"
)

// admin-setup seeds the first admin account from ADMIN_NAME, ADMIN_EMAIL and
// ADMIN_PASSWORD. It is safe to run repeatedly.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logr.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := service.NewUserService(repository.NewUserRepository(db), validator.New(), logr)
	admin, created, err := users.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		logr.Fatal("failed to seed admin", zap.Error(err))
	}
	if !created {
		logr.Info("admin already exists, nothing to do")
		return
	}
	logr.Info("admin created", zap.String("user_id", admin.ID), zap.String("email", admin.Email))
}
