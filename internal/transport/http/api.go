package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
	"github.com/Skotchmaster/shop_backoffice/internal/service"
	"github.com/Skotchmaster/shop_backoffice/internal/transport"
	"github.com/Skotchmaster/shop_backoffice/internal/util"
)

var errInternal = transport.MessageResponse{Message: "Internal server error"}

// APIGetProducts lists every product. Passing page or size switches to a
// paginated response with a meta block.
func (h *CatalogHTTP) APIGetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.get_products")

	if c.QueryParam("page") == "" && c.QueryParam("size") == "" {
		items, err := h.Svc.APIListProducts(ctx)
		if err != nil {
			l.Error("get_products_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, errInternal)
		}
		return c.JSON(http.StatusOK, map[string]any{"products": items})
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.APIListProductsPage(ctx, offset, limit)
	if err != nil {
		l.Error("get_products_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, errInternal)
	}

	l.Info("get_products_success", "count", len(items), "total", total)
	return c.JSON(http.StatusOK, map[string]any{
		"products": items,
		"meta":     util.NewMeta(page, offset, limit, total),
	})
}

func (h *CatalogHTTP) APICreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.create_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "Invalid request body"})
	}

	p, err := h.Svc.APICreateProduct(ctx, req)
	if err != nil {
		l.Error("create_product_error", "status", 500, "reason", "cannot create product", "error", err)
		return c.JSON(http.StatusInternalServerError, errInternal)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: "Product created successfully"})
}

func (h *CatalogHTTP) APIUpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", "api.update_product", "product_id", id)

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "Invalid request body"})
	}

	if _, err := h.Svc.APIUpdateProduct(ctx, id, req); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("update_product_error", "status", 404, "reason", "not found")
			return c.JSON(http.StatusNotFound, transport.MessageResponse{Message: "Product not found"})
		}
		l.Error("update_product_error", "status", 500, "reason", "cannot update product", "error", err)
		return c.JSON(http.StatusInternalServerError, errInternal)
	}

	l.Info("update_product_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product updated successfully"})
}

func (h *CatalogHTTP) APIDeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", "api.delete_product", "product_id", id)

	if err := h.Svc.APIDeleteProduct(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_product_error", "status", 404, "reason", "not found")
			return c.JSON(http.StatusNotFound, transport.MessageResponse{Message: "Product not found"})
		}
		l.Error("delete_product_error", "status", 500, "reason", "cannot delete product", "error", err)
		return c.JSON(http.StatusInternalServerError, errInternal)
	}

	l.Info("delete_product_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted successfully"})
}
