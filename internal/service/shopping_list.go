package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/tastetrail/backend/internal/models"
	"github.com/pageza/tastetrail/backend/internal/shopping"
	"github.com/pageza/tastetrail/backend/internal/types"
)

// MealPlanSource resolves a meal plan into the recipes a shopping list is
// generated from.
type MealPlanSource interface {
	ShoppingListSource(ctx context.Context, userID, planID uuid.UUID) (string, []uuid.UUID, error)
}

// RecipeStore reads recipe ingredients for the aggregator.
type RecipeStore struct {
	db *gorm.DB
}

var _ shopping.RecipeStore = (*RecipeStore)(nil)

func NewRecipeStore(db *gorm.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// FindRecipesByIDs returns the recipes that exist among ids in request order.
func (s *RecipeStore) FindRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]shopping.Recipe, error) {
	recipes, err := loadRecipesInOrder(s.db.WithContext(ctx), ids)
	if err != nil {
		return nil, err
	}
	out := make([]shopping.Recipe, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, shopping.Recipe{ID: r.ID, Ingredients: r.Ingredients})
	}
	return out, nil
}

// ShoppingListService generates and stores shopping lists.
type ShoppingListService struct {
	db         *gorm.DB
	aggregator *shopping.Aggregator
	mealPlans  MealPlanSource
	logger     *zap.Logger
}

func NewShoppingListService(db *gorm.DB, aggregator *shopping.Aggregator, mealPlans MealPlanSource, logger *zap.Logger) *ShoppingListService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShoppingListService{db: db, aggregator: aggregator, mealPlans: mealPlans, logger: logger}
}

// Generate aggregates the selected recipes into a new list for the user.
func (s *ShoppingListService) Generate(ctx context.Context, userID uuid.UUID, req *types.GenerateShoppingListRequest) (*models.ShoppingList, error) {
	return s.generate(ctx, userID, shopping.Request{
		Name:      strings.TrimSpace(req.Name),
		Notes:     strings.TrimSpace(req.Notes),
		RecipeIDs: uniqueIDs(req.RecipeIDs),
		OwnerID:   userID,
	}, nil)
}

// GenerateFromMealPlan builds a list from every recipe in a meal plan and
// names it after the plan.
func (s *ShoppingListService) GenerateFromMealPlan(ctx context.Context, userID, planID uuid.UUID) (*models.ShoppingList, error) {
	if s.mealPlans == nil {
		return nil, errors.New("meal plan source is not configured")
	}
	name, ids, err := s.mealPlans.ShoppingListSource(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, userID, shopping.Request{
		Name:      fmt.Sprintf("Shopping list for %s", name),
		RecipeIDs: ids,
		OwnerID:   userID,
	}, &planID)
}

func (s *ShoppingListService) generate(ctx context.Context, userID uuid.UUID, req shopping.Request, planID *uuid.UUID) (*models.ShoppingList, error) {
	var owner models.User
	if err := s.db.WithContext(ctx).Select("id", "dietary_preferences").First(&owner, "id = ?", userID).Error; err != nil {
		return nil, notFound("user", err)
	}
	req.DietaryPreferences = owner.DietaryPreferences

	generated, err := s.aggregator.Aggregate(ctx, req)
	if err != nil {
		return nil, err
	}

	list, err := s.Create(ctx, generated)
	if err != nil {
		return nil, err
	}
	if planID != nil {
		list.MealPlanID = planID
		if err := s.db.WithContext(ctx).Model(list).Update("meal_plan_id", planID).Error; err != nil {
			return nil, fmt.Errorf("failed to link meal plan: %w", err)
		}
	}

	s.logger.Info("generated shopping list",
		zap.String("list_id", list.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("recipes", len(generated.RecipeIDs)),
		zap.Int("items", len(list.Items)),
	)
	return list, nil
}

// Create persists an aggregation result.
func (s *ShoppingListService) Create(ctx context.Context, generated *shopping.GeneratedList) (*models.ShoppingList, error) {
	list := &models.ShoppingList{
		UserID:             generated.OwnerID,
		Name:               generated.Name,
		Notes:              generated.Notes,
		RecipeIDs:          models.UUIDArray(generated.RecipeIDs),
		Items:              shopping.Items(generated.Items),
		DietaryPreferences: models.StringArray(generated.DietaryPreferences),
	}
	if list.Items == nil {
		list.Items = shopping.Items{}
	}
	if err := s.db.WithContext(ctx).Create(list).Error; err != nil {
		return nil, fmt.Errorf("failed to save shopping list: %w", err)
	}
	return list, nil
}

// List returns the user's lists, newest first.
func (s *ShoppingListService) List(ctx context.Context, userID uuid.UUID) ([]models.ShoppingList, error) {
	var lists []models.ShoppingList
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	return lists, nil
}

func (s *ShoppingListService) Get(ctx context.Context, userID, listID uuid.UUID) (*models.ShoppingList, error) {
	return loadOwnedList(s.db.WithContext(ctx), userID, listID)
}

// ToggleItem flips the checked flag of the item at index.
func (s *ShoppingListService) ToggleItem(ctx context.Context, userID, listID uuid.UUID, index int) (*models.ShoppingList, error) {
	var list *models.ShoppingList
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		list, err = loadOwnedList(tx.Clauses(clause.Locking{Strength: "UPDATE"}), userID, listID)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(list.Items) {
			return fmt.Errorf("%w: %d of %d", ErrItemOutOfRange, index, len(list.Items))
		}
		list.Items[index].Checked = !list.Items[index].Checked
		if err := tx.Model(list).Update("items", list.Items).Error; err != nil {
			return fmt.Errorf("failed to update shopping list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateMeta replaces the name, notes or items of a list.
func (s *ShoppingListService) UpdateMeta(ctx context.Context, userID, listID uuid.UUID, req *types.UpdateShoppingListRequest) (*models.ShoppingList, error) {
	list, err := s.Get(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationError("shopping list name cannot be empty")
		}
		list.Name = name
		updates["name"] = name
	}
	if req.Notes != nil {
		list.Notes = strings.TrimSpace(*req.Notes)
		updates["notes"] = list.Notes
	}
	if req.Items != nil {
		items, err := validateItems(*req.Items)
		if err != nil {
			return nil, err
		}
		list.Items = items
		updates["items"] = items
	}
	if len(updates) == 0 {
		return list, nil
	}
	if err := s.db.WithContext(ctx).Model(list).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update shopping list: %w", err)
	}
	return list, nil
}

func (s *ShoppingListService) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	list, err := s.Get(ctx, userID, listID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(list).Error; err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return nil
}

func loadOwnedList(db *gorm.DB, userID, listID uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := db.First(&list, "id = ?", listID).Error; err != nil {
		return nil, notFound("shopping list", err)
	}
	if list.UserID != userID {
		return nil, fmt.Errorf("shopping list belongs to another user: %w", ErrForbidden)
	}
	return &list, nil
}

// validateItems normalizes client-edited items. Missing units and categories
// are filled the same way generation fills them.
func validateItems(items shopping.Items) (shopping.Items, error) {
	out := make(shopping.Items, 0, len(items))
	for i, it := range items {
		it.Name = shopping.Normalize(it.Name)
		if it.Name == "" {
			return nil, validationError("item %d: name is required", i)
		}
		if it.Quantity <= 0 {
			return nil, validationError("item %d: quantity must be positive", i)
		}
		if it.Unit == "" {
			it.Unit = shopping.UnitItem
		}
		if !it.Unit.Valid() {
			return nil, validationError("item %d: unknown unit %q", i, it.Unit)
		}
		if it.Category == "" {
			it.Category = shopping.Categorize(it.Name)
		}
		if !it.Category.Valid() {
			return nil, validationError("item %d: unknown category %q", i, it.Category)
		}
		out = append(out, it)
	}
	return out, nil
}
