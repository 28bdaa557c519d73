package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/tastetrail/backend/internal/middleware"
	"github.com/pageza/tastetrail/backend/internal/service"
	"github.com/pageza/tastetrail/backend/internal/types"
)

// MealPlanHandler serves meal plan routes, including list generation from a plan.
type MealPlanHandler struct {
	plans         *service.MealPlanService
	shoppingLists *service.ShoppingListService
	limiter       *middleware.RateLimiter
}

func NewMealPlanHandler(plans *service.MealPlanService, shoppingLists *service.ShoppingListService, limiter *middleware.RateLimiter) *MealPlanHandler {
	return &MealPlanHandler{plans: plans, shoppingLists: shoppingLists, limiter: limiter}
}

// RegisterRoutes mounts /meal-plans. Generating a list shares the shopping
// list rate limit.
func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	plans := router.Group("/meal-plans")
	{
		plans.POST("", requireAuth, h.CreateMealPlan)
		plans.GET("", requireAuth, h.ListMealPlans)
		plans.GET("/:id", requireAuth, h.GetMealPlan)
		plans.PUT("/:id", requireAuth, h.UpdateMealPlan)
		plans.DELETE("/:id", requireAuth, h.DeleteMealPlan)
		plans.POST("/:id/add-recipe", requireAuth, h.AddRecipe)
		plans.DELETE("/:id/remove-recipe", requireAuth, h.RemoveRecipe)
		plans.POST("/:id/generate-shopping-list", withLimiter(h.GenerateShoppingList, requireAuth, h.limiter)...)
	}
}

func (h *MealPlanHandler) CreateMealPlan(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req types.CreateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	plan, err := h.plans.CreateMealPlan(c.Request.Context(), a.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *MealPlanHandler) ListMealPlans(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	plans, err := h.plans.ListMealPlans(c.Request.Context(), a.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal_plans": plans})
}

func (h *MealPlanHandler) GetMealPlan(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	plan, err := h.plans.GetMealPlan(c.Request.Context(), a.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) UpdateMealPlan(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req types.UpdateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	plan, err := h.plans.UpdateMealPlan(c.Request.Context(), a.UserID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) DeleteMealPlan(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.plans.DeleteMealPlan(c.Request.Context(), a.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal plan deleted"})
}

func (h *MealPlanHandler) AddRecipe(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req types.MealPlanRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	plan, err := h.plans.AddRecipe(c.Request.Context(), a.UserID, id, req.Day, req.RecipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// RemoveRecipe reads day and recipe_id from the JSON body or the query string.
func (h *MealPlanHandler) RemoveRecipe(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req types.MealPlanRecipeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	} else {
		recipeID, err := uuid.Parse(c.Query("recipe_id"))
		if err != nil || c.Query("day") == "" {
			badRequest(c, "day and recipe_id are required")
			return
		}
		req = types.MealPlanRecipeRequest{Day: c.Query("day"), RecipeID: recipeID}
	}

	plan, err := h.plans.RemoveRecipe(c.Request.Context(), a.UserID, id, req.Day, req.RecipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) GenerateShoppingList(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	list, err := h.shoppingLists.GenerateFromMealPlan(c.Request.Context(), a.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}
