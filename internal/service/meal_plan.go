package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/tastetrail/backend/internal/models"
	"github.com/pageza/tastetrail/backend/internal/types"
)

var startDateLayouts = []string{"2006-01-02", time.RFC3339}

// MealPlanService manages weekly meal plans.
type MealPlanService struct {
	db *gorm.DB
}

var _ MealPlanSource = (*MealPlanService)(nil)

func NewMealPlanService(db *gorm.DB) *MealPlanService {
	return &MealPlanService{db: db}
}

// CreateMealPlan creates an empty plan starting on the given date.
func (s *MealPlanService) CreateMealPlan(ctx context.Context, userID uuid.UUID, req *types.CreateMealPlanRequest) (*models.MealPlan, error) {
	start, err := parseStartDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	plan := &models.MealPlan{
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		StartDate: start,
		Notes:     strings.TrimSpace(req.Notes),
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(plan).Error; err != nil {
		return nil, fmt.Errorf("failed to create meal plan: %w", err)
	}
	plan.Meals = emptyWeek()
	return plan, nil
}

// ListMealPlans returns the user's plans, latest start date first.
func (s *MealPlanService) ListMealPlans(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error) {
	var plans []models.MealPlan
	err := s.db.WithContext(ctx).
		Preload("Entries", scopeEntryOrder).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	for i := range plans {
		if err := s.fillMeals(ctx, &plans[i]); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// GetMealPlan returns one of the user's plans with its recipes per day.
func (s *MealPlanService) GetMealPlan(ctx context.Context, userID, planID uuid.UUID) (*models.MealPlan, error) {
	plan, err := s.loadOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	return plan, s.fillMeals(ctx, plan)
}

// UpdateMealPlan changes the name and notes of a plan.
func (s *MealPlanService) UpdateMealPlan(ctx context.Context, userID, planID uuid.UUID, req *types.UpdateMealPlanRequest) (*models.MealPlan, error) {
	plan, err := s.loadOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationError("meal plan name cannot be empty")
		}
		updates["name"] = name
		plan.Name = name
	}
	if req.Notes != nil {
		updates["notes"] = strings.TrimSpace(*req.Notes)
		plan.Notes = strings.TrimSpace(*req.Notes)
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(plan).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update meal plan: %w", err)
		}
	}
	return plan, s.fillMeals(ctx, plan)
}

// DeleteMealPlan removes a plan and its day entries.
func (s *MealPlanService) DeleteMealPlan(ctx context.Context, userID, planID uuid.UUID) error {
	plan, err := s.loadOwned(ctx, userID, planID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_plan_id = ?", plan.ID).Delete(&models.MealPlanEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete meal plan entries: %w", err)
		}
		if err := tx.Delete(plan).Error; err != nil {
			return fmt.Errorf("failed to delete meal plan: %w", err)
		}
		return nil
	})
}

// AddRecipe places a recipe on a day. A recipe appears at most once per day.
func (s *MealPlanService) AddRecipe(ctx context.Context, userID, planID uuid.UUID, day string, recipeID uuid.UUID) (*models.MealPlan, error) {
	weekday, ok := models.ParseWeekday(day)
	if !ok {
		return nil, validationError("invalid day of week %q", day)
	}
	plan, err := s.loadOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	var recipeCount int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&recipeCount).Error; err != nil {
		return nil, fmt.Errorf("failed to check recipe: %w", err)
	}
	if recipeCount == 0 {
		return nil, fmt.Errorf("recipe %w", ErrNotFound)
	}

	var position int64
	if err := s.db.WithContext(ctx).Model(&models.MealPlanEntry{}).Where("meal_plan_id = ? AND day = ?", plan.ID, weekday).Count(&position).Error; err != nil {
		return nil, fmt.Errorf("failed to count day entries: %w", err)
	}

	entry := &models.MealPlanEntry{
		MealPlanID: plan.ID,
		Day:        weekday,
		RecipeID:   recipeID,
		Position:   int(position),
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to add recipe to %s: %w", weekday, err)
	}
	return s.GetMealPlan(ctx, userID, planID)
}

// RemoveRecipe takes a recipe off a day.
func (s *MealPlanService) RemoveRecipe(ctx context.Context, userID, planID uuid.UUID, day string, recipeID uuid.UUID) (*models.MealPlan, error) {
	weekday, ok := models.ParseWeekday(day)
	if !ok {
		return nil, validationError("invalid day of week %q", day)
	}
	plan, err := s.loadOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Where("meal_plan_id = ? AND day = ? AND recipe_id = ?", plan.ID, weekday, recipeID).
		Delete(&models.MealPlanEntry{}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to remove recipe from %s: %w", weekday, err)
	}
	return s.GetMealPlan(ctx, userID, planID)
}

// ShoppingListSource returns the plan name and every recipe id in the plan,
// Monday first, each id once. A plan without recipes is a validation error.
func (s *MealPlanService) ShoppingListSource(ctx context.Context, userID, planID uuid.UUID) (string, []uuid.UUID, error) {
	plan, err := s.loadOwned(ctx, userID, planID)
	if err != nil {
		return "", nil, err
	}

	var entries []models.MealPlanEntry
	if err := s.db.WithContext(ctx).Where("meal_plan_id = ?", plan.ID).Scopes(scopeEntryOrder).Find(&entries).Error; err != nil {
		return "", nil, fmt.Errorf("failed to load meal plan entries: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, day := range models.Weekdays {
		for _, e := range entries {
			if e.Day == day {
				ids = append(ids, e.RecipeID)
			}
		}
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return "", nil, validationError("no recipes in meal plan to generate shopping list")
	}
	return plan.Name, ids, nil
}

func (s *MealPlanService) loadOwned(ctx context.Context, userID, planID uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", planID).Error; err != nil {
		return nil, notFound("meal plan", err)
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("meal plan belongs to another user: %w", ErrForbidden)
	}
	return &plan, nil
}

// fillMeals resolves the plan entries into recipes grouped by day.
func (s *MealPlanService) fillMeals(ctx context.Context, plan *models.MealPlan) error {
	if plan.Entries == nil {
		if err := s.db.WithContext(ctx).Where("meal_plan_id = ?", plan.ID).Scopes(scopeEntryOrder).Find(&plan.Entries).Error; err != nil {
			return fmt.Errorf("failed to load meal plan entries: %w", err)
		}
	}

	ids := make([]uuid.UUID, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		ids = append(ids, e.RecipeID)
	}
	recipes, err := loadRecipesInOrder(s.db.WithContext(ctx), ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	plan.Meals = emptyWeek()
	for _, e := range plan.Entries {
		if r, ok := byID[e.RecipeID]; ok {
			plan.Meals[e.Day] = append(plan.Meals[e.Day], r)
		}
	}
	return nil
}

func scopeEntryOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("created_at ASC")
}

func emptyWeek() map[string][]models.Recipe {
	week := make(map[string][]models.Recipe, len(models.Weekdays))
	for _, d := range models.Weekdays {
		week[d] = []models.Recipe{}
	}
	return week
}

func parseStartDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, validationError("start date is required")
	}
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validationError("start date must be YYYY-MM-DD or RFC 3339")
}
