package routes

import (
	"time"

	"github.com/foodplate/foodplate-backend/internal/config"
	"github.com/foodplate/foodplate-backend/internal/handlers"
	"github.com/foodplate/foodplate-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	recipeHandler *handlers.RecipeHandler,
	tagHandler *handlers.TagHandler,
	ingredientHandler *handlers.IngredientHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Static("/media", cfg.MediaDir)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter 10 req/min limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Reference data — open, unpaginated
	api.Get("/tags", tagHandler.List)
	api.Get("/tags/:id", tagHandler.Get)
	api.Get("/ingredients", ingredientHandler.List)
	api.Get("/ingredients/:id", ingredientHandler.Get)

	// Users. Fixed paths go before /users/:id.
	api.Get("/users/me", middleware.JWTProtected(cfg), userHandler.Me)
	api.Get("/users/subscriptions", middleware.JWTProtected(cfg), userHandler.Subscriptions)
	api.Post("/users/set_password", middleware.JWTProtected(cfg), authHandler.SetPassword)
	api.Get("/users", middleware.OptionalIdentity(cfg), userHandler.List)
	api.Get("/users/:id", middleware.OptionalIdentity(cfg), userHandler.Get)
	api.Post("/users/:id/subscribe", middleware.JWTProtected(cfg), userHandler.Subscribe)
	api.Delete("/users/:id/subscribe", middleware.JWTProtected(cfg), userHandler.Unsubscribe)

	// Recipes. Safe methods are open (viewer identity optional), unsafe
	// methods require the author.
	api.Get("/recipes/download_shopping_cart", middleware.JWTProtected(cfg), recipeHandler.DownloadShoppingCart)
	api.Get("/recipes", middleware.OptionalIdentity(cfg), recipeHandler.List)
	api.Get("/recipes/:id", middleware.OptionalIdentity(cfg), recipeHandler.Get)
	api.Post("/recipes", middleware.JWTProtected(cfg), recipeHandler.Create)
	api.Patch("/recipes/:id", middleware.JWTProtected(cfg), recipeHandler.Update)
	api.Delete("/recipes/:id", middleware.JWTProtected(cfg), recipeHandler.Delete)

	api.Post("/recipes/:id/favorite", middleware.JWTProtected(cfg), recipeHandler.Favorite)
	api.Delete("/recipes/:id/favorite", middleware.JWTProtected(cfg), recipeHandler.Unfavorite)
	api.Post("/recipes/:id/shopping_cart", middleware.JWTProtected(cfg), recipeHandler.AddToCart)
	api.Delete("/recipes/:id/shopping_cart", middleware.JWTProtected(cfg), recipeHandler.RemoveFromCart)
}
