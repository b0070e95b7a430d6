package main

import (
	"context"

	"crm-backoffice/internal/config"
	"crm-backoffice/internal/db"
	"crm-backoffice/internal/migrate"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := logrus.New()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	logger.Info("migrations applied")
}
