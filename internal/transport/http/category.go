package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
	"github.com/Skotchmaster/shop_backoffice/internal/service"
	"github.com/Skotchmaster/shop_backoffice/internal/transport"
	"github.com/Skotchmaster/shop_backoffice/internal/view"
)

const categoriesPath = "/categories"

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_categories_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error retrieving categories").SetInternal(err)
	}
	return c.Render(http.StatusOK, view.PageCategories, view.CategoryListPage{
		Page:       page(c, "Categories List"),
		Categories: cats,
	})
}

func (h *CatalogHTTP) CategoryDetail(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	cat, rows, err := h.Svc.CategoryDetail(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Category not found")
		}
		logging.FromContext(ctx).Error("category_detail_error", "status", 500, "category_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error retrieving category").SetInternal(err)
	}
	return c.Render(http.StatusOK, view.PageCategoryDetail, view.CategoryDetailPage{
		Page:     page(c, cat.Name),
		Category: *cat,
		Products: rows,
	})
}

func (h *CatalogHTTP) AddCategoryForm(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageCategoryForm, view.CategoryFormPage{
		Page:   page(c, "Add Category"),
		Action: categoriesPath + "/add",
	})
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create_category")

	var form transport.CategoryForm
	if err := c.Bind(&form); err != nil {
		l.Warn("create_category_error", "status", 400, "reason", "invalid form", "error", err)
	}

	if _, err := h.Svc.CreateCategory(ctx, form); err != nil {
		return h.categoryFormError(c, err, view.CategoryFormPage{
			Page:   page(c, "Add Category"),
			Action: categoriesPath + "/add",
			Form:   form,
		})
	}
	return c.Redirect(http.StatusFound, categoriesPath)
}

func (h *CatalogHTTP) EditCategoryForm(c echo.Context) error {
	ctx := c.Request().Context()
	cat, err := h.Svc.GetCategory(ctx, c.Param("id"))
	if err != nil {
		logging.FromContext(ctx).Warn("edit_category_redirect", "category_id", c.Param("id"), "error", err)
		return c.Redirect(http.StatusFound, categoriesPath)
	}
	return c.Render(http.StatusOK, view.PageCategoryForm, view.CategoryFormPage{
		Page:    page(c, "Edit Category"),
		Action:  categoriesPath + "/edit/" + cat.ID,
		Editing: true,
		Form:    transport.CategoryForm{Name: cat.Name, Description: cat.Description},
	})
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", "category.update_category", "category_id", id)

	var form transport.CategoryForm
	if err := c.Bind(&form); err != nil {
		l.Warn("update_category_error", "status", 400, "reason", "invalid form", "error", err)
	}

	_, err := h.Svc.UpdateCategory(ctx, id, form)
	if err == nil || errors.Is(err, service.ErrNotFound) {
		return c.Redirect(http.StatusFound, categoriesPath)
	}
	return h.categoryFormError(c, err, view.CategoryFormPage{
		Page:    page(c, "Edit Category"),
		Action:  categoriesPath + "/edit/" + id,
		Editing: true,
		Form:    form,
	})
}

func (h *CatalogHTTP) categoryFormError(c echo.Context, err error, fp view.CategoryFormPage) error {
	l := logging.FromContext(c.Request().Context())
	if fe, ok := service.AsFormError(err); ok {
		l.Warn("category_form_error", "status", 400, "reason", fe.Kind.Error())
		fp.Errors = fe.Fields
		return c.Render(http.StatusBadRequest, view.PageCategoryForm, fp)
	}
	l.Error("category_form_error", "status", 500, "error", err)
	fp.Errors = map[string]string{"general": "Error saving category"}
	return c.Render(http.StatusInternalServerError, view.PageCategoryForm, fp)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.Svc.DeleteCategory(ctx, id); err != nil {
		logging.FromContext(ctx).Error("delete_category_error", "status", 500, "category_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting category").SetInternal(err)
	}
	return c.Redirect(http.StatusFound, categoriesPath)
}
