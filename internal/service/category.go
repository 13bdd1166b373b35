package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
	"github.com/Skotchmaster/shop_backoffice/internal/models"
	"github.com/Skotchmaster/shop_backoffice/internal/transport"
)

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Store.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return s.Store.GetCategory(ctx, id)
}

// CategoryDetail returns the category and the products filed under it.
func (s *CatalogService) CategoryDetail(ctx context.Context, id string) (*models.Category, []transport.ProductRow, error) {
	cat, err := s.Store.GetCategory(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.Store.ListProductsByCategory(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.rows(ctx, products)
	if err != nil {
		return nil, nil, err
	}
	return cat, rows, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, form transport.CategoryForm) (*models.Category, error) {
	cat := &models.Category{}
	if err := s.saveCategory(ctx, cat, form, s.Store.CreateCategory); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("create_category_success", "category_id", cat.ID)
	return cat, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, form transport.CategoryForm) (*models.Category, error) {
	cat, err := s.Store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.saveCategory(ctx, cat, form, s.Store.UpdateCategory); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("update_category_success", "category_id", cat.ID)
	return cat, nil
}

func (s *CatalogService) saveCategory(ctx context.Context, cat *models.Category, form transport.CategoryForm, write func(context.Context, *models.Category) error) error {
	cat.Name = strings.TrimSpace(form.Name)
	cat.Description = strings.TrimSpace(form.Description)

	if ve, ok := models.AsValidationError(cat.Validate()); ok {
		logging.FromContext(ctx).Warn("category_rejected", "status", 400, "reason", "validation")
		return &FormError{Kind: ErrValidation, Fields: ve.Fields}
	}
	if err := write(ctx, cat); err != nil {
		if ve, ok := models.AsValidationError(err); ok {
			return &FormError{Kind: ErrValidation, Fields: ve.Fields}
		}
		return err
	}
	return nil
}

// DeleteCategory removes the category only. Products still pointing at it
// keep the dangling reference and list without a category name.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) (bool, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_category", "category_id", id)

	n, err := s.Store.CountProductsByCategory(ctx, id)
	if err != nil {
		return false, err
	}
	deleted, err := s.Store.DeleteCategory(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		l.Info("delete_category_noop", "reason", "not found")
		return false, nil
	}
	if n > 0 {
		l.Warn("delete_category_orphans", "products", n)
	}
	l.Info("delete_category_success")
	return true, nil
}
