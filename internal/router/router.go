package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

// Handlers bundles the API handlers the router mounts.
type Handlers struct {
	Auth       *api.AuthHandler
	User       *api.UserHandler
	Ingredient *api.IngredientHandler
	Tag        *api.TagHandler
	Recipe     *api.RecipeHandler
}

// SetupRouter configures the application routes. Read paths take an optional
// principal so viewer-relative fields render for authenticated and anonymous
// requests alike; write paths require one. The rate limiter is optional and
// only guards authenticated writes.
func SetupRouter(h Handlers, authService *service.AuthService, limiter *middleware.RateLimiter) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	v1 := router.Group("/api")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	optional := middleware.OptionalAuth(authService)
	required := middleware.AuthMiddleware(authService)

	protected := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{required}
		if limiter != nil {
			chain = append(chain, limiter.RateLimitMiddleware())
		}
		return append(chain, handlers...)
	}

	ingredients := v1.Group("/ingredients")
	{
		ingredients.GET("", h.Ingredient.ListIngredients)
		ingredients.GET("/:id", h.Ingredient.GetIngredient)
	}

	tags := v1.Group("/tags")
	{
		tags.GET("", h.Tag.ListTags)
		tags.GET("/:id", h.Tag.GetTag)
	}

	recipes := v1.Group("/recipes")
	{
		recipes.GET("", optional, h.Recipe.ListRecipes)
		recipes.POST("", protected(h.Recipe.CreateRecipe)...)
		recipes.GET("/download_shopping_cart", required, h.Recipe.DownloadShoppingCart)
		recipes.GET("/:id", optional, h.Recipe.GetRecipe)
		recipes.PATCH("/:id", protected(h.Recipe.UpdateRecipe)...)
		recipes.DELETE("/:id", protected(h.Recipe.DeleteRecipe)...)
		recipes.POST("/:id/favorite", protected(h.Recipe.Favorite)...)
		recipes.DELETE("/:id/favorite", protected(h.Recipe.Favorite)...)
		recipes.POST("/:id/shopping_cart", protected(h.Recipe.ShoppingCart)...)
		recipes.DELETE("/:id/shopping_cart", protected(h.Recipe.ShoppingCart)...)
		recipes.GET("/:id/get-link", h.Recipe.GetLink)
	}

	users := v1.Group("/users")
	{
		users.GET("", optional, h.User.ListUsers)
		users.GET("/me", required, h.User.Me)
		users.PUT("/me/avatar", protected(h.User.SetAvatar)...)
		users.DELETE("/me/avatar", protected(h.User.DeleteAvatar)...)
		users.GET("/subscriptions", required, h.User.Subscriptions)
		users.GET("/:id", optional, h.User.GetUser)
		users.POST("/:id/subscribe", protected(h.User.Subscribe)...)
		users.DELETE("/:id/subscribe", protected(h.User.Subscribe)...)
	}

	return router
}
