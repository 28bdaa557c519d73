package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/pageza/tastetrail/backend/internal/models"
	"github.com/pageza/tastetrail/backend/internal/service"
	"github.com/pageza/tastetrail/backend/internal/shopping"
	"github.com/pageza/tastetrail/backend/internal/testhelpers"
	"github.com/pageza/tastetrail/backend/internal/types"
)

func setupShoppingTest(t *testing.T) (*gorm.DB, *service.ShoppingListService, *service.MealPlanService) {
	db := testhelpers.SetupTestDatabase(t)
	logger := zaptest.NewLogger(t)
	plans := service.NewMealPlanService(db)
	aggregator := shopping.NewAggregator(service.NewRecipeStore(db), logger)
	return db, service.NewShoppingListService(db, aggregator, plans, logger), plans
}

func TestGenerateShoppingList(t *testing.T) {
	db, lists, _ := setupShoppingTest(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, db, models.RoleUser)

	r1 := testhelpers.CreateTestRecipe(t, db, user.ID, "Fried Rice", "2 cups rice", "salt to taste")
	r2 := testhelpers.CreateTestRecipe(t, db, user.ID, "Chicken Bowl", "1 cup rice", "chicken breast")

	list, err := lists.Generate(ctx, user.ID, &types.GenerateShoppingListRequest{
		RecipeIDs: []uuid.UUID{r1.ID, r2.ID, r1.ID},
		Notes:     "Saturday market",
	})
	require.NoError(t, err)

	assert.Equal(t, shopping.DefaultListName, list.Name)
	assert.Equal(t, "Saturday market", list.Notes)
	assert.Equal(t, user.ID, list.UserID)
	assert.Equal(t, models.UUIDArray{r1.ID, r2.ID}, list.RecipeIDs)
	assert.Equal(t, models.StringArray{"vegetarian"}, list.DietaryPreferences)
	assert.Equal(t, shopping.Items{
		{Name: "rice", Quantity: 3, Unit: shopping.UnitCup, Category: shopping.CategoryGrains},
		{Name: "salt to taste", Quantity: 1, Unit: shopping.UnitItem, Category: shopping.CategorySpices},
		{Name: "chicken breast", Quantity: 1, Unit: shopping.UnitItem, Category: shopping.CategoryMeat},
	}, list.Items)

	stored, err := lists.Get(ctx, user.ID, list.ID)
	require.NoError(t, err)
	assert.Equal(t, list.Items, stored.Items)

	t.Run("no recipes selected", func(t *testing.T) {
		_, err := lists.Generate(ctx, user.ID, &types.GenerateShoppingListRequest{})
		assert.ErrorIs(t, err, shopping.ErrNoRecipesSelected)
	})

	t.Run("no recipes found", func(t *testing.T) {
		_, err := lists.Generate(ctx, user.ID, &types.GenerateShoppingListRequest{RecipeIDs: []uuid.UUID{uuid.New()}})
		assert.ErrorIs(t, err, shopping.ErrNoRecipesFound)
	})
}

func TestGenerateFromMealPlan(t *testing.T) {
	db, lists, plans := setupShoppingTest(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, db, models.RoleUser)
	pasta := testhelpers.CreateTestRecipe(t, db, user.ID, "Pasta", "200 g pasta", "1 tbsp olive oil")
	salad := testhelpers.CreateTestRecipe(t, db, user.ID, "Salad", "1 piece lettuce", "1 tbsp olive oil")

	plan, err := plans.CreateMealPlan(ctx, user.ID, &types.CreateMealPlanRequest{Name: "Week 10", StartDate: "2026-03-02"})
	require.NoError(t, err)

	_, err = lists.GenerateFromMealPlan(ctx, user.ID, plan.ID)
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = plans.AddRecipe(ctx, user.ID, plan.ID, "tuesday", salad.ID)
	require.NoError(t, err)
	_, err = plans.AddRecipe(ctx, user.ID, plan.ID, "monday", pasta.ID)
	require.NoError(t, err)

	list, err := lists.GenerateFromMealPlan(ctx, user.ID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list for Week 10", list.Name)
	require.NotNil(t, list.MealPlanID)
	assert.Equal(t, plan.ID, *list.MealPlanID)
	assert.Equal(t, models.UUIDArray{pasta.ID, salad.ID}, list.RecipeIDs)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "olive oil", list.Items[1].Name)
	assert.Equal(t, 2.0, list.Items[1].Quantity)
}

func TestShoppingListStore(t *testing.T) {
	db, lists, _ := setupShoppingTest(t)
	ctx := context.Background()
	owner := testhelpers.CreateTestUser(t, db, models.RoleUser)
	stranger := testhelpers.CreateTestUser(t, db, models.RoleUser)

	list, err := lists.Create(ctx, &shopping.GeneratedList{
		Name:    "Party",
		OwnerID: owner.ID,
		Items: []shopping.Item{
			{Name: "chips", Quantity: 2, Unit: shopping.UnitItem, Category: shopping.CategoryOther},
			{Name: "salsa", Quantity: 1, Unit: shopping.UnitItem, Category: shopping.CategoryOther},
		},
	})
	require.NoError(t, err)

	t.Run("toggle", func(t *testing.T) {
		got, err := lists.ToggleItem(ctx, owner.ID, list.ID, 1)
		require.NoError(t, err)
		assert.True(t, got.Items[1].Checked)
		assert.False(t, got.Items[0].Checked)

		stored, err := lists.Get(ctx, owner.ID, list.ID)
		require.NoError(t, err)
		assert.True(t, stored.Items[1].Checked)

		got, err = lists.ToggleItem(ctx, owner.ID, list.ID, 1)
		require.NoError(t, err)
		assert.False(t, got.Items[1].Checked)
	})

	t.Run("toggle out of range", func(t *testing.T) {
		for _, idx := range []int{-1, 2, 99} {
			_, err := lists.ToggleItem(ctx, owner.ID, list.ID, idx)
			assert.ErrorIs(t, err, service.ErrItemOutOfRange)
		}
	})

	t.Run("ownership", func(t *testing.T) {
		_, err := lists.Get(ctx, stranger.ID, list.ID)
		assert.ErrorIs(t, err, service.ErrForbidden)
		_, err = lists.ToggleItem(ctx, stranger.ID, list.ID, 0)
		assert.ErrorIs(t, err, service.ErrForbidden)
		assert.ErrorIs(t, lists.Delete(ctx, stranger.ID, list.ID), service.ErrForbidden)
		_, err = lists.Get(ctx, owner.ID, uuid.New())
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("update meta", func(t *testing.T) {
		name := "Game night"
		items := shopping.Items{{Name: " Cheddar Cheese ", Quantity: 200, Unit: shopping.UnitGram}}
		got, err := lists.UpdateMeta(ctx, owner.ID, list.ID, &types.UpdateShoppingListRequest{Name: &name, Items: &items})
		require.NoError(t, err)
		assert.Equal(t, "Game night", got.Name)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "cheddar cheese", got.Items[0].Name)
		assert.Equal(t, shopping.CategoryDairy, got.Items[0].Category)

		bad := shopping.Items{{Name: "milk", Quantity: 1, Unit: "gallon"}}
		_, err = lists.UpdateMeta(ctx, owner.ID, list.ID, &types.UpdateShoppingListRequest{Items: &bad})
		assert.ErrorIs(t, err, service.ErrValidation)

		empty := ""
		_, err = lists.UpdateMeta(ctx, owner.ID, list.ID, &types.UpdateShoppingListRequest{Name: &empty})
		assert.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("list and delete", func(t *testing.T) {
		all, err := lists.List(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		none, err := lists.List(ctx, stranger.ID)
		require.NoError(t, err)
		assert.Empty(t, none)

		require.NoError(t, lists.Delete(ctx, owner.ID, list.ID))
		_, err = lists.Get(ctx, owner.ID, list.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}
