package main

import (
	"context"

	"crm-backoffice/internal/config"
	"crm-backoffice/internal/db"
	"crm-backoffice/internal/seed"
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

	if err := seed.Apply(ctx, pool); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Info("seed applied")
}
