package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/tastetrail/backend/internal/middleware"
	"github.com/pageza/tastetrail/backend/internal/service"
	"github.com/pageza/tastetrail/backend/internal/types"
)

const maxImageSize = 5 << 20

// RecipeHandler serves recipe, review and recipe image routes.
type RecipeHandler struct {
	recipes       service.IRecipeService
	reviews       *service.ReviewService
	images        *service.ImageService
	reviewLimiter *middleware.RateLimiter
}

func NewRecipeHandler(recipes service.IRecipeService, reviews *service.ReviewService, images *service.ImageService, reviewLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		reviews:       reviews,
		images:        images,
		reviewLimiter: reviewLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", requireAuth, h.CreateRecipe)
		recipes.PUT("/:id", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
		recipes.PUT("/:id/image", requireAuth, h.UploadImage)

		recipes.POST("/:id/reviews", withLimiter(h.AddReview, requireAuth, h.reviewLimiter)...)
		recipes.PUT("/:id/reviews/:reviewId", requireAuth, h.UpdateReview)
		recipes.DELETE("/:id/reviews/:reviewId", requireAuth, h.DeleteReview)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var q types.ListRecipesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe accepts JSON or a multipart form with an optional "image" file.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	in, ok := h.bindRecipe(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), a, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	in, ok := h.bindRecipe(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), a, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), a, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

// UploadImage replaces the recipe image with an uploaded file or an image_url.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	url := c.PostForm("image_url")
	if url == "" {
		var body struct {
			ImageURL string `json:"image_url"`
		}
		if strings.HasPrefix(c.ContentType(), "application/json") {
			if err := c.ShouldBindJSON(&body); err != nil {
				badRequest(c, err.Error())
				return
			}
			url = body.ImageURL
		}
	}
	if url == "" {
		uploaded, ok := h.uploadImage(c)
		if !ok {
			return
		}
		url = uploaded
	}
	if url == "" {
		badRequest(c, "an image file or image_url is required")
		return
	}

	recipe, err := h.recipes.SetImage(c.Request.Context(), a, id, url)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) AddReview(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req types.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	recipe, err := h.reviews.AddReview(c.Request.Context(), a, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateReview(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	reviewID, ok := uuidParam(c, "reviewId")
	if !ok {
		return
	}
	var req types.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	recipe, err := h.reviews.UpdateReview(c.Request.Context(), a, id, reviewID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteReview(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	reviewID, ok := uuidParam(c, "reviewId")
	if !ok {
		return
	}

	recipe, err := h.reviews.DeleteReview(c.Request.Context(), a, id, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// bindRecipe reads a RecipeInput from JSON or from a multipart form. A form
// may carry an "image" file, which is uploaded before the recipe is saved.
func (h *RecipeHandler) bindRecipe(c *gin.Context) (*types.RecipeInput, bool) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		var in types.RecipeInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return nil, false
		}
		return &in, true
	}

	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, err.Error())
		return nil, false
	}
	in, err := recipeInputFromForm(form.Value)
	if err != nil {
		badRequest(c, err.Error())
		return nil, false
	}

	url, ok := h.uploadImage(c)
	if !ok {
		return nil, false
	}
	if url != "" {
		in.ImageURL = &url
	}
	return in, true
}

// uploadImage stores the "image" form file if one was sent and returns its
// URL, or "" when the request has no file.
func (h *RecipeHandler) uploadImage(c *gin.Context) (string, bool) {
	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", true
	}
	if err != nil {
		badRequest(c, err.Error())
		return "", false
	}
	if file.Size > maxImageSize {
		badRequest(c, "image must be 5MB or smaller")
		return "", false
	}

	f, err := file.Open()
	if err != nil {
		respondError(c, err)
		return "", false
	}
	defer f.Close()

	url, err := h.images.UploadRecipeImage(c.Request.Context(), file.Filename, file.Header.Get("Content-Type"), f)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return url, true
}

func recipeInputFromForm(values map[string][]string) (*types.RecipeInput, error) {
	in := &types.RecipeInput{}
	str := func(key string) *string {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return nil
		}
		s := v[0]
		return &s
	}
	list := func(key string) *types.StringList {
		v, ok := values[key]
		if !ok {
			return nil
		}
		l := types.FromForm(v)
		return &l
	}
	num := func(key string) (*int, error) {
		s := str(key)
		if s == nil || strings.TrimSpace(*s) == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(*s))
		if err != nil {
			return nil, errors.New(key + " must be a whole number")
		}
		return &n, nil
	}

	in.Name = str("name")
	in.Description = str("description")
	in.Cuisine = str("cuisine")
	in.ImageURL = str("image_url")
	in.Ingredients = list("ingredients")
	in.Instructions = list("instructions")
	in.DietaryTags = list("dietary_tags")

	var err error
	if in.PrepTime, err = num("prep_time"); err != nil {
		return nil, err
	}
	if in.CookTime, err = num("cook_time"); err != nil {
		return nil, err
	}
	return in, nil
}

// withLimiter builds a route chain: auth, then the limiter when one is set,
// then the handler.
func withLimiter(handler, requireAuth gin.HandlerFunc, limiter *middleware.RateLimiter) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{requireAuth}
	if limiter != nil {
		chain = append(chain, limiter.RateLimitMiddleware())
	}
	return append(chain, handler)
}
