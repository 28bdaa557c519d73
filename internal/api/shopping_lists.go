package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/tastetrail/backend/internal/middleware"
	"github.com/pageza/tastetrail/backend/internal/service"
	"github.com/pageza/tastetrail/backend/internal/types"
)

// ShoppingListHandler serves the shopping list routes.
type ShoppingListHandler struct {
	lists   *service.ShoppingListService
	limiter *middleware.RateLimiter
}

func NewShoppingListHandler(lists *service.ShoppingListService, limiter *middleware.RateLimiter) *ShoppingListHandler {
	return &ShoppingListHandler{lists: lists, limiter: limiter}
}

func (h *ShoppingListHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	lists := router.Group("/shopping-lists")
	{
		lists.POST("/generate", withLimiter(h.Generate, requireAuth, h.limiter)...)
		lists.GET("", requireAuth, h.List)
		lists.GET("/:id", requireAuth, h.Get)
		lists.PUT("/:id", requireAuth, h.Update)
		lists.DELETE("/:id", requireAuth, h.Delete)
		lists.PATCH("/:id/items/:itemIndex", requireAuth, h.ToggleItem)
	}
}

func (h *ShoppingListHandler) Generate(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req types.GenerateShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	list, err := h.lists.Generate(c.Request.Context(), a.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

func (h *ShoppingListHandler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	lists, err := h.lists.List(c.Request.Context(), a.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shopping_lists": lists})
}

func (h *ShoppingListHandler) Get(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	list, err := h.lists.Get(c.Request.Context(), a.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ShoppingListHandler) Update(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req types.UpdateShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	list, err := h.lists.UpdateMeta(c.Request.Context(), a.UserID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ShoppingListHandler) Delete(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.lists.Delete(c.Request.Context(), a.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "shopping list deleted"})
}

// ToggleItem flips the checked flag of the item at :itemIndex.
func (h *ShoppingListHandler) ToggleItem(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("itemIndex"))
	if err != nil {
		badRequest(c, "invalid item index")
		return
	}

	list, err := h.lists.ToggleItem(c.Request.Context(), a.UserID, id, index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
