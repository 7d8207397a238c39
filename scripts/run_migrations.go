package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/run_migrations.go [up|down]")
	}
	direction := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	n, err := database.Migrate(context.Background(), db, "migrations", direction, func(file string) {
		logger.Info("running migration", zap.String("file", file))
	})
	if err != nil {
		logger.Fatal("migrate", zap.String("direction", direction), zap.Error(err))
	}

	logger.Info("migrations complete", zap.Int("count", n), zap.String("direction", direction))
}
