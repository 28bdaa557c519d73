package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pageza/tastetrail/backend/config"
	"github.com/pageza/tastetrail/backend/internal/database"
	"github.com/pageza/tastetrail/backend/internal/logging"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	status := flag.Bool("status", false, "List pending migrations without applying them")
	dir := flag.String("dir", "", "Read migrations from this directory instead of the embedded set")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	dsn := cfg.Database.URL
	if dsn == "" {
		dsn = cfg.Database.DSN()
	}
	if strings.HasPrefix(dsn, "sqlite://") {
		logger.Fatal("SQL migrations target PostgreSQL; sqlite databases are auto-migrated at startup")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	var files fs.FS
	if *dir != "" {
		files = os.DirFS(*dir)
	}
	m := database.NewMigrator(db, files, logger)
	ctx := context.Background()

	switch {
	case *status:
		pending, err := m.Pending(ctx)
		if err != nil {
			logger.Fatal("failed to read migration status", zap.Error(err))
		}
		if len(pending) == 0 {
			fmt.Println("No pending migrations")
		}
		for _, name := range pending {
			fmt.Println("pending:", name)
		}
	case *rollback:
		name, err := m.Rollback(ctx)
		if errors.Is(err, database.ErrNothingToRollback) {
			logger.Info("no migrations to rollback")
			return
		}
		if err != nil {
			logger.Fatal("rollback failed", zap.Error(err))
		}
		fmt.Println("Rolled back", name)
	default:
		n, err := m.Up(ctx)
		if err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		fmt.Printf("Applied %d migration(s)\n", n)
	}
}
