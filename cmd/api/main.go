package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/tastetrail/backend/config"
	"github.com/pageza/tastetrail/backend/internal/database"
	"github.com/pageza/tastetrail/backend/internal/logging"
	"github.com/pageza/tastetrail/backend/internal/middleware"
	"github.com/pageza/tastetrail/backend/internal/router"
	"github.com/pageza/tastetrail/backend/internal/server"
	"github.com/pageza/tastetrail/backend/internal/service"
	"github.com/pageza/tastetrail/backend/internal/shopping"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := database.New(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := database.RunMigrations(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Rate limiting fails open when Redis is unavailable.
	var limiterStore redis.Cmdable
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, rate limits disabled", zap.Error(err))
	} else {
		defer func() { _ = redisClient.Close() }()
		limiterStore = redisClient
	}

	var uploader service.ObjectUploader
	if cfg.Storage.Enabled() {
		s3Cfg, err := config.NewS3Config(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize S3: %w", err)
		}
		uploader = s3Cfg
	} else {
		logger.Info("image storage not configured, uploads disabled")
	}

	recipes := service.NewRecipeService(db, logger)
	mealPlans := service.NewMealPlanService(db)
	aggregator := shopping.NewAggregator(service.NewRecipeStore(db), logger)

	services := router.Services{
		Auth:          service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.Expiry, logger),
		Users:         service.NewUserService(db, logger),
		Recipes:       recipes,
		Reviews:       service.NewReviewService(db, recipes, logger),
		Collections:   service.NewCollectionService(db),
		MealPlans:     mealPlans,
		ShoppingLists: service.NewShoppingListService(db, aggregator, mealPlans, logger),
		Images:        service.NewImageService(uploader, logger),

		ShoppingListLimiter: middleware.NewShoppingListRateLimiter(limiterStore,
			cfg.RateLimit.ShoppingListRequests, cfg.RateLimit.ShoppingListWindow, logger),
		ReviewLimiter: middleware.NewReviewRateLimiter(limiterStore,
			cfg.RateLimit.ReviewRequests, cfg.RateLimit.ReviewWindow, logger),
	}

	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := router.SetupRouter(db, services, cfg.Server.CORSOrigins, logger)

	return server.New(cfg.Server, handler, logger).Run(ctx)
}
