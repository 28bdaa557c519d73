package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/tastetrail/backend/internal/models"
	"github.com/pageza/tastetrail/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	Authenticate(ctx context.Context, token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// IUserService defines the interface for profile and admin user operations
type IUserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
	DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error
	ListUsers(ctx context.Context, q types.ListUsersQuery) ([]models.User, int64, error)
	UpdateRole(ctx context.Context, actor Actor, userID uuid.UUID, role string) (*models.User, error)
	ToggleDisabled(ctx context.Context, actor Actor, userID uuid.UUID) (*models.User, error)
	DeleteUser(ctx context.Context, actor Actor, userID uuid.UUID) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, actor Actor, in *types.RecipeInput) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, actor Actor, id uuid.UUID, in *types.RecipeInput) (*models.Recipe, error)
	SetImage(ctx context.Context, actor Actor, id uuid.UUID, imageURL string) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, actor Actor, id uuid.UUID) error
	ListRecipes(ctx context.Context, q types.ListRecipesQuery) ([]models.Recipe, error)
	ListByAuthor(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
}
