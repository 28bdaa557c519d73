package router

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/tastetrail/backend/internal/testhelpers"
)

func TestSetupRouterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDatabase(t)

	engine := SetupRouter(db, Services{}, nil, nil)

	registered := map[string]bool{}
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, route := range []string{
		"GET /health",
		"GET /api/health",
		"POST /api/v1/users/register",
		"GET /api/v1/admin/users",
		"PUT /api/v1/recipes/:id/image",
		"POST /api/v1/recipes/:id/reviews",
		"PUT /api/v1/users/collections/:collectionId/add/:recipeId",
		"POST /api/v1/meal-plans/:id/generate-shopping-list",
		"POST /api/v1/shopping-lists/generate",
		"PATCH /api/v1/shopping-lists/:id/items/:itemIndex",
	} {
		assert.True(t, registered[route], route)
	}
}
