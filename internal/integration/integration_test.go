package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/tastetrail/backend/config"
	"github.com/pageza/tastetrail/backend/internal/database"
	"github.com/pageza/tastetrail/backend/internal/middleware"
	"github.com/pageza/tastetrail/backend/internal/models"
	"github.com/pageza/tastetrail/backend/internal/router"
	"github.com/pageza/tastetrail/backend/internal/service"
	"github.com/pageza/tastetrail/backend/internal/shopping"
	"github.com/pageza/tastetrail/backend/internal/testhelpers"
)

const generateLimit = 2

// setupServer runs the full stack against PostgreSQL migrated with the SQL
// migrations and Redis-backed rate limits.
func setupServer(t *testing.T) *httptest.Server {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	db, err := database.New(ctx, config.DatabaseConfig{URL: testhelpers.StartPostgres(t), MaxConns: 4}, logger)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	if err := database.RunMigrations(ctx, db, logger); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	redisClient := testhelpers.SetupRedis(t)

	recipes := service.NewRecipeService(db, logger)
	plans := service.NewMealPlanService(db)
	aggregator := shopping.NewAggregator(service.NewRecipeStore(db), logger)

	gin.SetMode(gin.TestMode)
	engine := router.SetupRouter(db, router.Services{
		Auth:                service.NewAuthService(db, "secret", time.Hour, logger),
		Users:               service.NewUserService(db, logger),
		Recipes:             recipes,
		Reviews:             service.NewReviewService(db, recipes, logger),
		Collections:         service.NewCollectionService(db),
		MealPlans:           plans,
		ShoppingLists:       service.NewShoppingListService(db, aggregator, plans, logger),
		ShoppingListLimiter: middleware.NewShoppingListRateLimiter(redisClient, generateLimit, time.Hour, logger),
		ReviewLimiter:       middleware.NewReviewRateLimiter(redisClient, 5, time.Minute, logger),
	}, nil, logger)

	ts := httptest.NewServer(engine)
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, ts *httptest.Server, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	return resp.StatusCode, data
}

func TestIntegrationShoppingListFlow(t *testing.T) {
	ts := setupServer(t)

	code, body := call(t, ts, http.MethodPost, "/api/v1/users/register", "", map[string]interface{}{
		"name":                "Tester",
		"email":               "test@example.com",
		"password":            "password",
		"dietary_preferences": []string{"vegan"},
	})
	if code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", code, body)
	}

	code, body = call(t, ts, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email": "test@example.com", "password": "password",
	})
	if code != http.StatusOK {
		t.Fatalf("login failed: %d %s", code, body)
	}
	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token := loginResp.Token

	var ids []uuid.UUID
	for _, r := range []struct {
		name        string
		ingredients []string
		tags        []string
	}{
		{"Fried Rice", []string{"2 cups rice", "salt to taste"}, []string{"vegan"}},
		{"Chicken Bowl", []string{"1 cup rice", "chicken breast"}, []string{"high-protein"}},
	} {
		code, body = call(t, ts, http.MethodPost, "/api/v1/recipes", token, map[string]interface{}{
			"name":         r.name,
			"description":  r.name + " for dinner",
			"ingredients":  r.ingredients,
			"instructions": []string{"Cook."},
			"dietary_tags": r.tags,
		})
		if code != http.StatusCreated {
			t.Fatalf("create recipe failed: %d %s", code, body)
		}
		var recipe models.Recipe
		if err := json.Unmarshal(body, &recipe); err != nil {
			t.Fatalf("failed to decode recipe: %v", err)
		}
		ids = append(ids, recipe.ID)
	}

	code, body = call(t, ts, http.MethodGet, "/api/v1/recipes?dietaryTags=vegan", "", nil)
	if code != http.StatusOK {
		t.Fatalf("list recipes failed: %d %s", code, body)
	}
	var listResp struct {
		Recipes []models.Recipe `json:"recipes"`
	}
	if err := json.Unmarshal(body, &listResp); err != nil {
		t.Fatalf("failed to decode recipes: %v", err)
	}
	if len(listResp.Recipes) != 1 || listResp.Recipes[0].Name != "Fried Rice" {
		t.Fatalf("expected only Fried Rice for vegan filter, got %+v", listResp.Recipes)
	}

	code, _ = call(t, ts, http.MethodGet, "/api/v1/recipes?search=chicken+rice", "", nil)
	if code != http.StatusOK {
		t.Fatalf("vector ordered search failed: %d", code)
	}

	code, body = call(t, ts, http.MethodPost, "/api/v1/shopping-lists/generate", token, map[string]interface{}{
		"recipe_ids": ids,
	})
	if code != http.StatusCreated {
		t.Fatalf("generate failed: %d %s", code, body)
	}
	var list models.ShoppingList
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	want := shopping.Item{Name: "rice", Quantity: 3, Unit: shopping.UnitCup, Category: shopping.CategoryGrains}
	if len(list.Items) != 3 || list.Items[0] != want {
		t.Fatalf("unexpected items: %+v", list.Items)
	}
	if len(list.DietaryPreferences) != 1 || list.DietaryPreferences[0] != "vegan" {
		t.Fatalf("dietary preferences not snapshotted: %v", list.DietaryPreferences)
	}

	code, body = call(t, ts, http.MethodPatch, fmt.Sprintf("/api/v1/shopping-lists/%s/items/1", list.ID), token, nil)
	if code != http.StatusOK {
		t.Fatalf("toggle failed: %d %s", code, body)
	}

	for i := 1; i < generateLimit; i++ {
		code, body = call(t, ts, http.MethodPost, "/api/v1/shopping-lists/generate", token, map[string]interface{}{
			"recipe_ids": ids[:1],
		})
		if code != http.StatusCreated {
			t.Fatalf("generate %d failed: %d %s", i+1, code, body)
		}
	}
	code, body = call(t, ts, http.MethodPost, "/api/v1/shopping-lists/generate", token, map[string]interface{}{
		"recipe_ids": ids[:1],
	})
	if code != http.StatusTooManyRequests {
		t.Fatalf("expected rate limit, got %d %s", code, body)
	}
}
