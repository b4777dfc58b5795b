package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/unnastore/unna-api/controllers"
	"github.com/unnastore/unna-api/middlewares"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	Category *controllers.CategoryController
	Product  *controllers.ProductController
	Store    *controllers.StoreController
	Cart     *controllers.CartController
	Order    *controllers.OrderController
	Webhook  *controllers.WebhookController
	Health   *controllers.HealthController
}

// Register mounts the full HTTP surface under /api.
func Register(server *gin.Engine, c Controllers, accessSecret string) {
	server.GET("/health", c.Health.Live)
	server.GET("/health/ready", c.Health.Ready)

	api := server.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", c.Auth.Register)
	auth.POST("/login", c.Auth.Login)
	auth.POST("/refresh", c.Auth.Refresh)
	auth.GET("/me", middlewares.Authenticate(accessSecret), c.Auth.Me)

	api.GET("/categories", c.Category.List)
	api.GET("/categories/:slug", c.Category.GetBySlug)
	api.GET("/products", c.Product.List)
	api.GET("/products/:slug", c.Product.GetBySlug)
	api.GET("/products/:slug/variants", c.Product.ListVariants)
	api.GET("/stores", c.Store.List)
	api.GET("/stores/:slug", c.Store.GetBySlug)

	cart := api.Group("/cart", middlewares.Authenticate(accessSecret))
	cart.GET("", c.Cart.Get)
	cart.POST("/items", c.Cart.AddItem)
	cart.PATCH("/items/:itemId", c.Cart.UpdateItem)
	cart.DELETE("/items/:itemId", c.Cart.RemoveItem)

	orders := api.Group("/orders", middlewares.Authenticate(accessSecret))
	orders.POST("", c.Order.Create)
	orders.GET("", c.Order.ListMine)
	orders.GET("/:orderNumber", c.Order.GetDetails)
	orders.POST("/:orderNumber/preference", c.Order.RetryPreference)

	admin := api.Group("/admin", middlewares.Authenticate(accessSecret), middlewares.RequireAdmin())
	admin.GET("/orders", c.Order.ListAll)
	admin.PATCH("/orders/:id/status", c.Order.UpdateStatus)
	admin.POST("/categories", c.Category.Create)
	admin.PUT("/categories/:id", c.Category.Update)
	admin.DELETE("/categories/:id", c.Category.Delete)
	admin.POST("/products", c.Product.Create)
	admin.PUT("/products/:id", c.Product.Update)
	admin.DELETE("/products/:id", c.Product.Delete)
	admin.POST("/products/:id/variants", c.Product.AddVariant)
	admin.POST("/products/:id/images", c.Product.UploadImages)
	admin.POST("/stores", c.Store.Create)
	admin.PUT("/stores/:id", c.Store.Update)
	admin.DELETE("/stores/:id", c.Store.Delete)

	api.POST("/mercadopago/webhook", c.Webhook.Handle)
}
