package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/ozhegovsv/storefront/internal/handlers"
	cartHandlers "github.com/ozhegovsv/storefront/internal/handlers/cart"
	"github.com/ozhegovsv/storefront/internal/handlers/checkout"
	"github.com/ozhegovsv/storefront/internal/service/token"
)

type Deps struct {
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	SearchHandler   *handlers.SearchHandler
	OrderHandler    *handlers.OrderHandler
	CartHandler     *cartHandlers.CartHandler
	CheckoutHandler *checkout.CheckoutHandler
	TokenService    *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)

	v1.GET("/search", d.SearchHandler.Search)
	v1.GET("/categories", d.ProductHandler.GetCategories)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:idOrSlug", d.ProductHandler.GetProduct)

	cart := v1.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PUT("/items/:productID", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:productID", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.ClearCart)

	co := v1.Group("/checkout", d.TokenService.AutoRefreshMiddleware)
	co.GET("", d.CheckoutHandler.Show)
	co.POST("", d.CheckoutHandler.Submit)

	orders := v1.Group("/orders", d.TokenService.AutoRefreshMiddleware)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	admin := v1.Group("/admin", d.TokenService.AutoRefreshMiddlewareAdmin)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/categories", d.ProductHandler.CreateCategory)
}
