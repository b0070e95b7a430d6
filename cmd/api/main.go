package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"crm-backoffice/internal/config"
	"crm-backoffice/internal/db"
	"crm-backoffice/internal/httpserver"
	customerrepo "crm-backoffice/internal/repository/customer"
	tokenstore "crm-backoffice/internal/repository/token"
	userrepo "crm-backoffice/internal/repository/user"
	authsvc "crm-backoffice/internal/service/auth"
	customersvc "crm-backoffice/internal/service/customer"
	usersvc "crm-backoffice/internal/service/user"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := setupLogger(cfg.LogLevel)

	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	redisClient, err := db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("connect to redis: %v", err)
	}
	defer redisClient.Close()

	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool)
	tokens := tokenstore.NewRedis(redisClient)

	customerService := customersvc.New(customerRepo, logger)
	userService := usersvc.New(userRepo)
	authService := authsvc.New(userRepo, tokens, cfg.JWTSecret)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CustomerSvc:    customerService,
		AuthSvc:        authService,
		UserSvc:        userService,
		ImporterRepo:   customerRepo,
		StorageTimeout: cfg.StorageTimeout,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Errorf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	} else {
		logger.Info("server stopped")
	}
}

func setupLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}
