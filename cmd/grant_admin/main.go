package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/tastetrail/backend/config"
	"github.com/pageza/tastetrail/backend/internal/database"
	"github.com/pageza/tastetrail/backend/internal/logging"
	"github.com/pageza/tastetrail/backend/internal/service"
)

func main() {
	email := flag.String("email", "", "Email of the account to promote")
	flag.Parse()
	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: grant_admin -email user@example.com")
		os.Exit(2)
	}

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

	user, err := service.NewUserService(db, logger).GrantAdmin(ctx, *email)
	if err != nil {
		logger.Fatal("failed to grant admin", zap.String("email", *email), zap.Error(err))
	}
	fmt.Printf("%s (%s) is now an admin\n", user.Email, user.ID)
}
