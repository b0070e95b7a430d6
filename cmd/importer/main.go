package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"crm-backoffice/internal/config"
	"crm-backoffice/internal/db"
	"crm-backoffice/internal/importer"
	customerrepo "crm-backoffice/internal/repository/customer"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to customer CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := logrus.New()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, customerrepo.NewPostgres(pool, logger))

	start := time.Now()
	result, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d customers in %s\n", result.Imported, time.Since(start).Truncate(time.Millisecond))
	if len(result.Skipped) > 0 {
		fmt.Printf("Skipped existing intNr: %s\n", strings.Join(result.Skipped, ", "))
	}
}
