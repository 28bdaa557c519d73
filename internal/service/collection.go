package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/tastetrail/backend/internal/models"
)

// CollectionService manages saved recipes and named recipe collections.
type CollectionService struct {
	db *gorm.DB
}

func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{db: db}
}

// ListSaved returns the user's saved recipes, most recently saved first.
func (s *CollectionService) ListSaved(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Joins("JOIN saved_recipes ON saved_recipes.recipe_id = recipes.id").
		Where("saved_recipes.user_id = ?", userID).
		Order("saved_recipes.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}
	return recipes, nil
}

// SaveRecipe bookmarks a recipe. Saving twice is a no-op.
func (s *CollectionService) SaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return err
	}
	saved := &models.SavedRecipe{UserID: userID, RecipeID: recipeID}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(saved).Error
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// RemoveSaved drops a bookmark. Removing a recipe that is not saved is a no-op.
func (s *CollectionService) RemoveSaved(ctx context.Context, userID, recipeID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.SavedRecipe{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove saved recipe: %w", err)
	}
	return nil
}

// CreateCollection creates an empty collection.
func (s *CollectionService) CreateCollection(ctx context.Context, userID uuid.UUID, name string) (*models.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("collection name is required")
	}

	c := &models.Collection{UserID: userID, Name: name, Recipes: []models.Recipe{}}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return c, nil
}

// ListCollections returns the user's collections with their recipes.
func (s *CollectionService) ListCollections(ctx context.Context, userID uuid.UUID) ([]models.Collection, error) {
	var collections []models.Collection
	err := s.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&collections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	for i := range collections {
		if err := s.fillRecipes(ctx, &collections[i]); err != nil {
			return nil, err
		}
	}
	return collections, nil
}

// RenameCollection changes a collection's name.
func (s *CollectionService) RenameCollection(ctx context.Context, userID, collectionID uuid.UUID, name string) (*models.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("collection name is required")
	}

	c, err := s.loadOwned(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(c).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("failed to rename collection: %w", err)
	}
	c.Name = name
	return c, s.fillRecipes(ctx, c)
}

// DeleteCollection removes a collection. The recipes themselves are untouched.
func (s *CollectionService) DeleteCollection(ctx context.Context, userID, collectionID uuid.UUID) error {
	c, err := s.loadOwned(ctx, userID, collectionID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", c.ID).Delete(&models.CollectionRecipe{}).Error; err != nil {
			return fmt.Errorf("failed to delete collection entries: %w", err)
		}
		if err := tx.Delete(c).Error; err != nil {
			return fmt.Errorf("failed to delete collection: %w", err)
		}
		return nil
	})
}

// AddRecipe puts a recipe into a collection. Adding it twice is a no-op.
func (s *CollectionService) AddRecipe(ctx context.Context, userID, collectionID, recipeID uuid.UUID) (*models.Collection, error) {
	c, err := s.loadOwned(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, err
	}

	entry := &models.CollectionRecipe{CollectionID: c.ID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to add recipe to collection: %w", err)
	}
	return s.reload(ctx, c.ID)
}

// RemoveRecipe takes a recipe out of a collection.
func (s *CollectionService) RemoveRecipe(ctx context.Context, userID, collectionID, recipeID uuid.UUID) (*models.Collection, error) {
	c, err := s.loadOwned(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).
		Where("collection_id = ? AND recipe_id = ?", c.ID, recipeID).
		Delete(&models.CollectionRecipe{}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to remove recipe from collection: %w", err)
	}
	return s.reload(ctx, c.ID)
}

func (s *CollectionService) loadOwned(ctx context.Context, userID, collectionID uuid.UUID) (*models.Collection, error) {
	var c models.Collection
	if err := s.db.WithContext(ctx).First(&c, "id = ?", collectionID).Error; err != nil {
		return nil, notFound("collection", err)
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("collection belongs to another user: %w", ErrForbidden)
	}
	return &c, nil
}

func (s *CollectionService) reload(ctx context.Context, collectionID uuid.UUID) (*models.Collection, error) {
	var c models.Collection
	err := s.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&c, "id = ?", collectionID).Error
	if err != nil {
		return nil, notFound("collection", err)
	}
	return &c, s.fillRecipes(ctx, &c)
}

// fillRecipes resolves the collection entries into recipes, keeping entry order.
func (s *CollectionService) fillRecipes(ctx context.Context, c *models.Collection) error {
	if c.Entries == nil {
		if err := s.db.WithContext(ctx).Where("collection_id = ?", c.ID).Order("created_at ASC").Find(&c.Entries).Error; err != nil {
			return fmt.Errorf("failed to load collection entries: %w", err)
		}
	}
	ids := make([]uuid.UUID, 0, len(c.Entries))
	for _, e := range c.Entries {
		ids = append(ids, e.RecipeID)
	}
	recipes, err := loadRecipesInOrder(s.db.WithContext(ctx), ids)
	if err != nil {
		return err
	}
	c.Recipes = recipes
	return nil
}

func (s *CollectionService) requireRecipe(ctx context.Context, recipeID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check recipe: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("recipe %w", ErrNotFound)
	}
	return nil
}

// loadRecipesInOrder fetches recipes by id and returns them in the order of
// ids, skipping ids that no longer resolve and repeated ids.
func loadRecipesInOrder(db *gorm.DB, ids []uuid.UUID) ([]models.Recipe, error) {
	ids = uniqueIDs(ids)
	out := make([]models.Recipe, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var found []models.Recipe
	if err := db.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	byID := make(map[uuid.UUID]models.Recipe, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
