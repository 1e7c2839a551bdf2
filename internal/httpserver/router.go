package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/forgebyte/storefront/internal/handlers"
	"github.com/forgebyte/storefront/internal/middleware/auth"
)

type Deps struct {
	DB             *gorm.DB
	JWTSecret      []byte
	UserHandler    *handlers.UserHandler
	OrderHandler   *handlers.OrderHandler
	PaymentHandler *handlers.PaymentHandler
	ProductHandler *handlers.ProductHandler
	ReviewHandler  *handlers.ReviewHandler
}

// Register wires every route with its capability chain: public routes run
// bare, privileged routes run authenticate -> authorize -> handler.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	requireAuth := auth.RequireAuth(d.JWTSecret)
	adminOnly := auth.AdminOnly(d.DB)

	e.GET("/admin/:email", d.UserHandler.AdminCheck)
	e.PUT("/user/:email", d.UserHandler.Upsert)
	e.PUT("/user/admin/:email", d.UserHandler.GrantAdmin, requireAuth, adminOnly)
	e.GET("/user", d.UserHandler.List, requireAuth, adminOnly)

	e.POST("/create-payment-intent", d.PaymentHandler.CreateIntent)

	e.POST("/order", d.OrderHandler.Create)
	e.GET("/order/:id", d.OrderHandler.Get)
	e.PATCH("/order/:id", d.OrderHandler.Confirm)
	e.PUT("/order/:id", d.OrderHandler.Ship, requireAuth, adminOnly)
	e.GET("/myOrder", d.OrderHandler.ListMine)
	e.DELETE("/myOrder/:id", d.OrderHandler.Delete)

	e.GET("/product", d.ProductHandler.List)
	e.GET("/product/:id", d.ProductHandler.Get)
	e.POST("/product", d.ProductHandler.Create, requireAuth, adminOnly)
	e.DELETE("/product/:id", d.ProductHandler.Delete, requireAuth, adminOnly)

	e.GET("/review", d.ReviewHandler.List)
	e.POST("/review", d.ReviewHandler.Create)
}
