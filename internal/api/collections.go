package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/tastetrail/backend/internal/models"
	"github.com/pageza/tastetrail/backend/internal/service"
	"github.com/pageza/tastetrail/backend/internal/types"
)

// CollectionHandler serves saved recipe and collection routes.
type CollectionHandler struct {
	collections *service.CollectionService
}

func NewCollectionHandler(collections *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

func (h *CollectionHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	users := router.Group("/users", requireAuth)
	{
		users.GET("/saved", h.ListSaved)
		users.POST("/saved/:recipeId", h.SaveRecipe)
		users.DELETE("/saved/:recipeId", h.RemoveSaved)

		users.POST("/collections", h.CreateCollection)
		users.GET("/collections", h.ListCollections)
		users.PUT("/collections/:collectionId", h.RenameCollection)
		users.DELETE("/collections/:collectionId", h.DeleteCollection)
		users.PUT("/collections/:collectionId/add/:recipeId", h.AddRecipe)
		users.PUT("/collections/:collectionId/remove/:recipeId", h.RemoveRecipe)
	}
}

func (h *CollectionHandler) ListSaved(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	recipes, err := h.collections.ListSaved(c.Request.Context(), a.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *CollectionHandler) SaveRecipe(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	recipeID, ok := uuidParam(c, "recipeId")
	if !ok {
		return
	}
	if err := h.collections.SaveRecipe(c.Request.Context(), a.UserID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe saved"})
}

func (h *CollectionHandler) RemoveSaved(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	recipeID, ok := uuidParam(c, "recipeId")
	if !ok {
		return
	}
	if err := h.collections.RemoveSaved(c.Request.Context(), a.UserID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe removed from saved"})
}

func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req types.CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	collection, err := h.collections.CreateCollection(c.Request.Context(), a.UserID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, collection)
}

func (h *CollectionHandler) ListCollections(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	collections, err := h.collections.ListCollections(c.Request.Context(), a.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

func (h *CollectionHandler) RenameCollection(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "collectionId")
	if !ok {
		return
	}
	var req types.CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	collection, err := h.collections.RenameCollection(c.Request.Context(), a.UserID, id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "collectionId")
	if !ok {
		return
	}
	if err := h.collections.DeleteCollection(c.Request.Context(), a.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "collection deleted"})
}

func (h *CollectionHandler) AddRecipe(c *gin.Context) {
	h.changeMembership(c, h.collections.AddRecipe)
}

func (h *CollectionHandler) RemoveRecipe(c *gin.Context) {
	h.changeMembership(c, h.collections.RemoveRecipe)
}

func (h *CollectionHandler) changeMembership(c *gin.Context, change func(ctx context.Context, userID, collectionID, recipeID uuid.UUID) (*models.Collection, error)) {
	a, ok := actor(c)
	if !ok {
		return
	}
	collectionID, ok := uuidParam(c, "collectionId")
	if !ok {
		return
	}
	recipeID, ok := uuidParam(c, "recipeId")
	if !ok {
		return
	}

	collection, err := change(c.Request.Context(), a.UserID, collectionID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}
