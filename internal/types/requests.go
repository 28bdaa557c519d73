package types

import (
	"github.com/google/uuid"

	"github.com/pageza/tastetrail/backend/internal/shopping"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name               string     `json:"name" binding:"required"`
	Email              string     `json:"email" binding:"required,email"`
	Password           string     `json:"password" binding:"required,min=6"`
	DietaryPreferences StringList `json:"dietary_preferences"`
	Allergies          StringList `json:"allergies"`
	FavoriteCuisines   StringList `json:"favorite_cuisines"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents a request to update a user's profile.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name               *string     `json:"name,omitempty"`
	DietaryPreferences *StringList `json:"dietary_preferences,omitempty"`
	Allergies          *StringList `json:"allergies,omitempty"`
	FavoriteCuisines   *StringList `json:"favorite_cuisines,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// ListUsersQuery holds the admin user listing filters.
type ListUsersQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
	Role   string `form:"role"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

// RecipeInput carries the editable recipe fields. On update, nil fields are
// left unchanged.
type RecipeInput struct {
	Name         *string     `json:"name"`
	Description  *string     `json:"description"`
	Ingredients  *StringList `json:"ingredients"`
	Instructions *StringList `json:"instructions"`
	PrepTime     *int        `json:"prep_time"`
	CookTime     *int        `json:"cook_time"`
	DietaryTags  *StringList `json:"dietary_tags"`
	Cuisine      *string     `json:"cuisine"`
	ImageURL     *string     `json:"image_url"`
}

// ListRecipesQuery holds the recipe listing filters.
type ListRecipesQuery struct {
	Search      string  `form:"search"`
	DietaryTags string  `form:"dietaryTags"`
	Cuisine     string  `form:"cuisine"`
	MaxPrepTime int     `form:"maxPrepTime"`
	MinRating   float64 `form:"minRating"`
	SortBy      string  `form:"sortBy"`
	Page        int     `form:"page"`
	Limit       int     `form:"limit"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

type CollectionRequest struct {
	Name string `json:"name" binding:"required"`
}

type CollectionRecipeRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
}

// CreateMealPlanRequest accepts start_date as YYYY-MM-DD or RFC 3339.
type CreateMealPlanRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date" binding:"required"`
	Notes     string `json:"notes"`
}

type UpdateMealPlanRequest struct {
	Name  *string `json:"name"`
	Notes *string `json:"notes"`
}

type MealPlanRecipeRequest struct {
	Day      string    `json:"day" binding:"required"`
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
}

type GenerateShoppingListRequest struct {
	RecipeIDs []uuid.UUID `json:"recipe_ids"`
	Name      string      `json:"name"`
	Notes     string      `json:"notes"`
}

// UpdateShoppingListRequest replaces whichever fields are present.
type UpdateShoppingListRequest struct {
	Name  *string         `json:"name"`
	Notes *string         `json:"notes"`
	Items *shopping.Items `json:"items"`
}
