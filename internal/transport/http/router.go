package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/shop_backoffice/internal/middleware/auth"
)

// MaxBodySize must stay well above upload.MaxSize: an oversized image has to
// reach the upload checks so the product form can be redisplayed.
const MaxBodySize = "32M"

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	Ready          []Pinger
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		for _, p := range d.Ready {
			if err := p.Ping(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready").SetInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	auth := e.Group("/auth")
	auth.GET("/register", d.AuthHandler.RegisterForm)
	auth.POST("/register", d.AuthHandler.Register)
	auth.GET("/login", d.AuthHandler.LoginForm)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/logout", d.AuthHandler.LogOut)

	e.GET("/", d.CatalogHandler.Index, authmw.RequireLogin)

	products := e.Group("/products")
	products.GET("", d.CatalogHandler.ListProducts, authmw.RequireLogin)

	productsAdmin := products.Group("", authmw.RequireAdmin)
	productsAdmin.GET("/add", d.CatalogHandler.AddProductForm)
	productsAdmin.POST("/add", d.CatalogHandler.CreateProduct)
	productsAdmin.GET("/edit/:id", d.CatalogHandler.EditProductForm)
	productsAdmin.POST("/edit/:id", d.CatalogHandler.UpdateProduct)
	productsAdmin.GET("/delete/:id", d.CatalogHandler.DeleteProduct)

	categories := e.Group("/categories")
	categories.GET("", d.CatalogHandler.ListCategories, authmw.RequireLogin)
	categories.GET("/detail/:id", d.CatalogHandler.CategoryDetail, authmw.RequireLogin)

	categoriesAdmin := categories.Group("", authmw.RequireAdmin)
	categoriesAdmin.GET("/add", d.CatalogHandler.AddCategoryForm)
	categoriesAdmin.POST("/add", d.CatalogHandler.CreateCategory)
	categoriesAdmin.GET("/edit/:id", d.CatalogHandler.EditCategoryForm)
	categoriesAdmin.POST("/edit/:id", d.CatalogHandler.UpdateCategory)
	categoriesAdmin.GET("/delete/:id", d.CatalogHandler.DeleteCategory)

	api := e.Group("/api/products")
	api.GET("", d.CatalogHandler.APIGetProducts)
	api.POST("", d.CatalogHandler.APICreateProduct)
	api.POST("/add", d.CatalogHandler.APICreateProduct)
	api.PUT("/:id", d.CatalogHandler.APIUpdateProduct)
	api.PUT("/edit/:id", d.CatalogHandler.APIUpdateProduct)
	api.DELETE("/:id", d.CatalogHandler.APIDeleteProduct)
	api.DELETE("/delete/:id", d.CatalogHandler.APIDeleteProduct)
}
