package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/tastetrail/backend/internal/models"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// CreateTestUser inserts a user with TestPassword and the given role.
func CreateTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	id := uuid.New()
	user := &models.User{
		ID:                 id,
		Name:               "Test User",
		Email:              fmt.Sprintf("user-%s@example.com", id.String()[:8]),
		PasswordHash:       string(hash),
		Role:               role,
		DietaryPreferences: models.StringArray{"vegetarian"},
		Allergies:          models.StringArray{},
		FavoriteCuisines:   models.StringArray{"italian"},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestRecipe inserts a recipe owned by userID with the given ingredient lines.
func CreateTestRecipe(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, ingredients ...string) *models.Recipe {
	t.Helper()

	if len(ingredients) == 0 {
		ingredients = []string{"1 item placeholder"}
	}
	recipe := &models.Recipe{
		UserID:         userID,
		Name:           name,
		Description:    name + " description",
		Ingredients:    models.StringArray(ingredients),
		Instructions:   models.StringArray{"Cook it."},
		IngredientTags: models.StringArray{},
		DietaryTags:    models.StringArray{},
		Cuisine:        "Test",
		PrepTime:       10,
		CookTime:       20,
		Embedding:      unitEmbedding(),
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return recipe
}

func unitEmbedding() *pgvector.Vector {
	values := make([]float32, models.EmbeddingDimensions)
	values[0] = 1
	v := pgvector.NewVector(values)
	return &v
}
