// verify-db applies pending SQL migrations from MIGRATIONS_DIR and verifies
// the checksums of those already applied.
//
// Usage: go run ./cmd/verify-db
package main

import (
	"context"
	"log"

	"fieldops/internal/config"
	"fieldops/internal/db"
	"fieldops/internal/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect failed", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("connected")

	if err := db.Migrate(ctx, pool, cfg.MigrationsDir, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("all migrations processed", zap.String("dir", cfg.MigrationsDir))
}
