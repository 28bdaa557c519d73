package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/pageza/tastetrail/backend/config"
	"github.com/pageza/tastetrail/backend/internal/database"
	"github.com/pageza/tastetrail/backend/internal/logging"
	"github.com/pageza/tastetrail/backend/internal/service"
)

// Rebuilds the ingredient tags and search embedding of every recipe, for
// rows written before the current tagging rules.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	db, err := database.New(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	updated, err := service.NewRecipeService(db, logger).Reindex(ctx)
	if err != nil {
		logger.Fatal("reindex failed", zap.Error(err))
	}
	fmt.Printf("Reindexed %d recipe(s)\n", updated)
}
