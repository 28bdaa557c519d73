package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/tastetrail/backend/config"
	"github.com/pageza/tastetrail/backend/internal/database"
	"github.com/pageza/tastetrail/backend/internal/logging"
	"github.com/pageza/tastetrail/backend/internal/service"
	"github.com/pageza/tastetrail/backend/internal/types"
)

//go:embed recipes.json
var defaultRecipes []byte

// RecipeData is one entry of the seed file.
type RecipeData struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Cuisine      string   `json:"cuisine"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     int      `json:"prep_time"`
	CookTime     int      `json:"cook_time"`
	DietaryTags  []string `json:"dietary_tags"`
}

func main() {
	file := flag.String("file", "", "JSON file of recipes to seed (defaults to the built-in set)")
	email := flag.String("email", "chef@tastetrail.local", "Email of the admin account that owns the seeded recipes")
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

	data := defaultRecipes
	if *file != "" {
		if data, err = os.ReadFile(*file); err != nil {
			logger.Fatal("failed to read seed file", zap.String("file", *file), zap.Error(err))
		}
	}
	var recipes []RecipeData
	if err := json.Unmarshal(data, &recipes); err != nil {
		logger.Fatal("failed to parse seed recipes", zap.Error(err))
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "change-me-please"
	}

	ctx := context.Background()
	db, err := database.New(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()
	if err := database.RunMigrations(ctx, db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	created, err := seed(ctx, db, cfg, logger, *email, password, recipes)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	fmt.Printf("Seeded %d of %d recipe(s)\n", created, len(recipes))
}

// seed creates the owning admin when needed and inserts every recipe the
// admin does not already have by name.
func seed(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger, email, password string, recipes []RecipeData) (int, error) {
	auth := service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.Expiry, logger)
	users := service.NewUserService(db, logger)
	recipeService := service.NewRecipeService(db, logger)

	_, _, err := auth.Register(ctx, &types.RegisterRequest{
		Name:     "TasteTrail Kitchen",
		Email:    email,
		Password: password,
	})
	if err != nil && !errors.Is(err, service.ErrConflict) {
		return 0, fmt.Errorf("failed to create seed user: %w", err)
	}
	owner, err := users.GrantAdmin(ctx, email)
	if err != nil {
		return 0, err
	}
	actor := service.Actor{UserID: owner.ID, Role: owner.Role}

	existing, err := recipeService.ListByAuthor(ctx, owner.ID)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.Name] = true
	}

	created := 0
	for _, rd := range recipes {
		if seen[rd.Name] {
			continue
		}
		ingredients := types.StringList(rd.Ingredients)
		instructions := types.StringList(rd.Instructions)
		tags := types.StringList(rd.DietaryTags)
		_, err := recipeService.CreateRecipe(ctx, actor, &types.RecipeInput{
			Name:         &rd.Name,
			Description:  &rd.Description,
			Cuisine:      &rd.Cuisine,
			Ingredients:  &ingredients,
			Instructions: &instructions,
			DietaryTags:  &tags,
			PrepTime:     &rd.PrepTime,
			CookTime:     &rd.CookTime,
		})
		if err != nil {
			logger.Warn("skipping recipe", zap.String("name", rd.Name), zap.Error(err))
			continue
		}
		seen[rd.Name] = true
		created++
	}
	return created, nil
}
