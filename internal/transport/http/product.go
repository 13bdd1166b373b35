package httpserver

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
	"github.com/Skotchmaster/shop_backoffice/internal/models"
	"github.com/Skotchmaster/shop_backoffice/internal/query"
	"github.com/Skotchmaster/shop_backoffice/internal/service"
	"github.com/Skotchmaster/shop_backoffice/internal/transport"
	"github.com/Skotchmaster/shop_backoffice/internal/upload"
	"github.com/Skotchmaster/shop_backoffice/internal/view"
)

const productsPath = "/products"

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) Index(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageIndex, page(c, "Welcome"))
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_products")

	q := query.Build(c.QueryParam("search"), c.QueryParam("sortBy"), c.QueryParam("order"))
	rows, err := h.Svc.ListProducts(ctx, q)
	if err != nil {
		l.Error("list_products_error", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error retrieving products").SetInternal(err)
	}

	l.Info("list_products_success", "count", len(rows), "search", q.Search, "sort", q.SortField, "order", q.Order())
	return c.Render(http.StatusOK, view.PageProducts, view.ProductListPage{
		Page:     page(c, "Products List"),
		Products: rows,
		Query:    q,
	})
}

// productForm renders the add or edit form. A category lookup failure still
// renders the form, with an empty selector.
func (h *CatalogHTTP) productForm(c echo.Context, status int, fp view.ProductFormPage) error {
	ctx := c.Request().Context()
	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("load_categories_error", "error", err)
	}
	fp.Categories = cats
	return c.Render(status, view.PageProductForm, fp)
}

func (h *CatalogHTTP) AddProductForm(c echo.Context) error {
	return h.productForm(c, http.StatusOK, view.ProductFormPage{
		Page:   page(c, "Add Product"),
		Action: productsPath + "/add",
	})
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var form transport.ProductForm
	if err := c.Bind(&form); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid form", "error", err)
	}
	fp := view.ProductFormPage{
		Page:   page(c, "Add Product"),
		Action: productsPath + "/add",
		Form:   form,
	}

	p, err := h.Svc.CreateProduct(ctx, form, formFile(c))
	if err != nil {
		if fe, ok := service.AsFormError(err); ok {
			l.Warn("create_product_error", "status", 400, "reason", fe.Kind.Error())
			fp.Errors = fe.Fields
			return h.productForm(c, http.StatusBadRequest, fp)
		}
		l.Error("create_product_error", "status", 500, "reason", "cannot create product", "error", err)
		fp.Errors = map[string]string{"general": "Error adding product"}
		return h.productForm(c, http.StatusInternalServerError, fp)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.Redirect(http.StatusFound, productsPath)
}

func (h *CatalogHTTP) EditProductForm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.edit_product_form")

	id := c.Param("id")
	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		l.Warn("edit_product_redirect", "product_id", id, "error", err)
		return c.Redirect(http.StatusFound, productsPath)
	}

	return h.productForm(c, http.StatusOK, view.ProductFormPage{
		Page:    page(c, "Edit Product"),
		Action:  productsPath + "/edit/" + p.ID,
		Editing: true,
		Form:    productToForm(p),
		Image:   p.Image,
	})
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", "product.update_product", "product_id", id)

	var form transport.ProductForm
	if err := c.Bind(&form); err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid form", "error", err)
	}

	_, err := h.Svc.UpdateProduct(ctx, id, form, formFile(c))
	if err == nil {
		l.Info("update_product_success")
		return c.Redirect(http.StatusFound, productsPath)
	}
	if errors.Is(err, service.ErrNotFound) {
		l.Warn("update_product_redirect", "reason", "not found")
		return c.Redirect(http.StatusFound, productsPath)
	}

	fp := view.ProductFormPage{
		Page:    page(c, "Edit Product"),
		Action:  productsPath + "/edit/" + id,
		Editing: true,
		Form:    form,
	}
	if existing, gerr := h.Svc.GetProduct(ctx, id); gerr == nil {
		fp.Image = existing.Image
	}

	if fe, ok := service.AsFormError(err); ok {
		l.Warn("update_product_error", "status", 400, "reason", fe.Kind.Error())
		fp.Errors = fe.Fields
		return h.productForm(c, http.StatusBadRequest, fp)
	}
	l.Error("update_product_error", "status", 500, "reason", "cannot update product", "error", err)
	fp.Errors = map[string]string{"general": "Error updating product"}
	return h.productForm(c, http.StatusInternalServerError, fp)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", "product.delete_product", "product_id", id)

	if _, err := h.Svc.DeleteProduct(ctx, id); err != nil {
		l.Error("delete_product_error", "status", 500, "reason", "cannot delete product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting product").SetInternal(err)
	}
	return c.Redirect(http.StatusFound, productsPath)
}

// formFile returns the uploaded image part, or nil when the request carries
// none.
func formFile(c echo.Context) *multipart.FileHeader {
	fh, err := c.FormFile(upload.FieldName)
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			logging.FromContext(c.Request().Context()).Debug("form_file_missing", "error", err)
		}
		return nil
	}
	return fh
}

func productToForm(p *models.Product) transport.ProductForm {
	return transport.ProductForm{
		Name:        p.Name,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Description: p.Description,
		Category:    p.CategoryID,
	}
}
