package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/tastetrail/backend/internal/api"
	"github.com/pageza/tastetrail/backend/internal/middleware"
	"github.com/pageza/tastetrail/backend/internal/service"
)

// Services bundles everything the HTTP layer depends on. Limiters and
// Images may be nil.
type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Recipes       *service.RecipeService
	Reviews       *service.ReviewService
	Collections   *service.CollectionService
	MealPlans     *service.MealPlanService
	ShoppingLists *service.ShoppingListService
	Images        *service.ImageService

	ShoppingListLimiter *middleware.RateLimiter
	ReviewLimiter       *middleware.RateLimiter
}

// SetupRouter configures the application routes
func SetupRouter(db *gorm.DB, s Services, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(corsOrigins))

	health := api.HealthCheck(db)
	router.GET("/health", health)
	router.GET("/api/health", health)

	v1 := router.Group("/api/v1")
	requireAuth := middleware.AuthMiddleware(s.Auth)

	api.NewUserHandler(s.Auth, s.Users, s.Recipes).RegisterRoutes(v1, requireAuth)
	api.NewCollectionHandler(s.Collections).RegisterRoutes(v1, requireAuth)
	api.NewRecipeHandler(s.Recipes, s.Reviews, s.Images, s.ReviewLimiter).RegisterRoutes(v1, requireAuth)
	api.NewMealPlanHandler(s.MealPlans, s.ShoppingLists, s.ShoppingListLimiter).RegisterRoutes(v1, requireAuth)
	api.NewShoppingListHandler(s.ShoppingLists, s.ShoppingListLimiter).RegisterRoutes(v1, requireAuth)

	return router
}
