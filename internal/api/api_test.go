package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/pageza/tastetrail/backend/internal/router"
	"github.com/pageza/tastetrail/backend/internal/service"
	"github.com/pageza/tastetrail/backend/internal/shopping"
	"github.com/pageza/tastetrail/backend/internal/testhelpers"
)

const testSecret = "api-test-secret"

type stubUploader struct {
	keys []string
}

func (s *stubUploader) PutObject(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	s.keys = append(s.keys, key)
	return "https://images.example.com/" + key, nil
}

type testAPI struct {
	t        *testing.T
	db       *gorm.DB
	engine   *gin.Engine
	uploader *stubUploader
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	logger := zaptest.NewLogger(t)
	uploader := &stubUploader{}

	recipes := service.NewRecipeService(db, logger)
	plans := service.NewMealPlanService(db)
	aggregator := shopping.NewAggregator(service.NewRecipeStore(db), logger)

	engine := router.SetupRouter(db, router.Services{
		Auth:          service.NewAuthService(db, testSecret, time.Hour, logger),
		Users:         service.NewUserService(db, logger),
		Recipes:       recipes,
		Reviews:       service.NewReviewService(db, recipes, logger),
		Collections:   service.NewCollectionService(db),
		MealPlans:     plans,
		ShoppingLists: service.NewShoppingListService(db, aggregator, plans, logger),
		Images:        service.NewImageService(uploader, logger),
	}, nil, logger)

	return &testAPI{t: t, db: db, engine: engine, uploader: uploader}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testAPI) multipart(method, path, token string, fields map[string][]string, file string) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			require.NoError(a.t, mw.WriteField(key, v))
		}
	}
	if file != "" {
		fw, err := mw.CreateFormFile("image", file)
		require.NoError(a.t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// register creates an account and returns its token and user id.
func (a *testAPI) register(email string) (string, string) {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/v1/users/register", "", map[string]any{
		"name":                "Cook",
		"email":               email,
		"password":            "password123",
		"dietary_preferences": []string{"vegetarian"},
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(a.t, w, &resp)
	return resp.Token, resp.User.ID
}

// createRecipe posts a JSON recipe and returns its id.
func (a *testAPI) createRecipe(token, name string, ingredients ...string) string {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/v1/recipes", token, map[string]any{
		"name":         name,
		"description":  name + " for dinner",
		"ingredients":  ingredients,
		"instructions": []string{"Cook everything."},
		"prep_time":    10,
		"cook_time":    15,
		"cuisine":      "Asian",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var recipe struct {
		ID string `json:"id"`
	}
	decode(a.t, w, &recipe)
	return recipe.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}
