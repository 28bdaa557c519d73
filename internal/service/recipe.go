package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/tastetrail/backend/internal/models"
	"github.com/pageza/tastetrail/backend/internal/types"
)

// RecipeService handles recipe CRUD and listing.
type RecipeService struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ IRecipeService = (*RecipeService)(nil)

func NewRecipeService(db *gorm.DB, logger *zap.Logger) *RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeService{db: db, logger: logger}
}

// CreateRecipe stores a new recipe authored by the actor.
func (s *RecipeService) CreateRecipe(ctx context.Context, actor Actor, in *types.RecipeInput) (*models.Recipe, error) {
	recipe := &models.Recipe{UserID: actor.UserID}
	applyRecipeInput(recipe, in)

	if err := validateRecipe(recipe); err != nil {
		return nil, err
	}
	indexRecipe(recipe)

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.logger.Info("recipe created",
		zap.String("recipe_id", recipe.ID.String()),
		zap.String("user_id", actor.UserID.String()),
		zap.Int("ingredient_tags", len(recipe.IngredientTags)),
	)
	return recipe, nil
}

// GetRecipe returns a recipe with its reviews, newest first.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		First(&recipe, "id = ?", id).Error
	if err != nil {
		return nil, notFound("recipe", err)
	}
	return &recipe, nil
}

// UpdateRecipe applies the non-nil fields of in. Only the author or an admin
// may update a recipe.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actor Actor, id uuid.UUID, in *types.RecipeInput) (*models.Recipe, error) {
	recipe, err := s.loadForWrite(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	applyRecipeInput(recipe, in)
	if err := validateRecipe(recipe); err != nil {
		return nil, err
	}
	indexRecipe(recipe)

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return recipe, nil
}

// SetImage replaces the recipe image URL.
func (s *RecipeService) SetImage(ctx context.Context, actor Actor, id uuid.UUID, imageURL string) (*models.Recipe, error) {
	recipe, err := s.loadForWrite(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(imageURL) == "" {
		return nil, validationError("image url is required")
	}

	if err := s.db.WithContext(ctx).Model(recipe).Update("image_url", imageURL).Error; err != nil {
		return nil, fmt.Errorf("failed to update recipe image: %w", err)
	}
	recipe.ImageURL = imageURL
	return recipe, nil
}

// DeleteRecipe removes a recipe together with its reviews and every
// reference to it from collections, saved lists and meal plans.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actor Actor, id uuid.UUID) error {
	recipe, err := s.loadForWrite(ctx, actor, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refs := []interface{}{
			&models.Review{},
			&models.SavedRecipe{},
			&models.CollectionRecipe{},
			&models.MealPlanEntry{},
		}
		for _, m := range refs {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to delete recipe references: %w", err)
			}
		}
		if err := tx.Delete(recipe).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
}

// ListRecipes returns recipes matching the query filters.
func (s *RecipeService) ListRecipes(ctx context.Context, q types.ListRecipesQuery) ([]models.Recipe, error) {
	db := s.db.WithContext(ctx).Model(&models.Recipe{})
	postgres := db.Dialector.Name() == "postgres"

	search := strings.TrimSpace(q.Search)
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if tags := types.SplitList(q.DietaryTags); len(tags) > 0 {
		db = jsonContainsAny(db, "dietary_tags", tags)
	}
	if cuisine := strings.TrimSpace(q.Cuisine); cuisine != "" {
		db = db.Where("LOWER(cuisine) LIKE ?", "%"+strings.ToLower(cuisine)+"%")
	}
	if q.MaxPrepTime > 0 {
		db = db.Where("prep_time <= ?", q.MaxPrepTime)
	}
	if q.MinRating > 0 {
		db = db.Where("rating >= ?", q.MinRating)
	}

	switch q.SortBy {
	case "rating":
		db = db.Order("rating DESC")
	case "prepTime":
		db = db.Order("prep_time ASC")
	case "name":
		db = db.Order("name ASC")
	default:
		if search != "" && postgres {
			vec := GenerateEmbedding(IngredientTokens(search))
			db = db.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		}
	}
	db = db.Order("created_at DESC")

	if q.Limit > 0 {
		page, limit := pageBounds(q.Page, q.Limit)
		db = db.Offset((page - 1) * limit).Limit(limit)
	}

	var recipes []models.Recipe
	if err := db.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// ListByAuthor returns the recipes a user has published.
func (s *RecipeService) ListByAuthor(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Reindex rebuilds ingredient tags and the embedding of every recipe and
// returns how many were updated.
func (s *RecipeService) Reindex(ctx context.Context) (int, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Find(&recipes).Error; err != nil {
		return 0, fmt.Errorf("failed to load recipes: %w", err)
	}

	updated := 0
	for i := range recipes {
		r := &recipes[i]
		indexRecipe(r)
		err := s.db.WithContext(ctx).Model(r).Updates(map[string]interface{}{
			"ingredient_tags": r.IngredientTags,
			"embedding":       r.Embedding,
		}).Error
		if err != nil {
			s.logger.Warn("failed to reindex recipe", zap.String("recipe_id", r.ID.String()), zap.Error(err))
			continue
		}
		updated++
	}
	return updated, nil
}

func (s *RecipeService) loadForWrite(ctx context.Context, actor Actor, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, notFound("recipe", err)
	}
	if !actor.CanModify(recipe.UserID) {
		return nil, fmt.Errorf("not the author of this recipe: %w", ErrForbidden)
	}
	return &recipe, nil
}

func applyRecipeInput(r *models.Recipe, in *types.RecipeInput) {
	if in == nil {
		return
	}
	if in.Name != nil {
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		r.Description = strings.TrimSpace(*in.Description)
	}
	if in.Ingredients != nil {
		r.Ingredients = models.StringArray(*in.Ingredients)
	}
	if in.Instructions != nil {
		r.Instructions = models.StringArray(*in.Instructions)
	}
	if in.PrepTime != nil {
		r.PrepTime = *in.PrepTime
	}
	if in.CookTime != nil {
		r.CookTime = *in.CookTime
	}
	if in.DietaryTags != nil {
		r.DietaryTags = models.StringArray(*in.DietaryTags)
	}
	if in.Cuisine != nil {
		r.Cuisine = strings.TrimSpace(*in.Cuisine)
	}
	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) != "" {
		r.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
}

func validateRecipe(r *models.Recipe) error {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.Description == "" {
		missing = append(missing, "description")
	}
	if len(r.Ingredients) == 0 {
		missing = append(missing, "ingredients")
	}
	if len(r.Instructions) == 0 {
		missing = append(missing, "instructions")
	}
	if len(missing) > 0 {
		return validationError("missing required fields: %s", strings.Join(missing, ", "))
	}
	if r.PrepTime < 0 || r.CookTime < 0 {
		return validationError("prep and cook time cannot be negative")
	}
	return nil
}

// indexRecipe refreshes the derived search fields.
func indexRecipe(r *models.Recipe) {
	r.IngredientTags = models.StringArray(BuildIngredientTags(r.Ingredients))
	vec := RecipeEmbedding(r)
	r.Embedding = &vec
}

// jsonContainsAny filters rows whose JSON array column holds any of values.
func jsonContainsAny(db *gorm.DB, column string, values []string) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Where("jsonb_exists_any("+column+", ?)", pq.StringArray(values))
	}
	return db.Where("EXISTS (SELECT 1 FROM json_each("+column+") WHERE json_each.value IN ?)", values)
}
