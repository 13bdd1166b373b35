package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
	"github.com/Skotchmaster/shop_backoffice/internal/models"
	"github.com/Skotchmaster/shop_backoffice/internal/query"
	"github.com/Skotchmaster/shop_backoffice/internal/transport"
)

var defaultListing = query.Build("", query.SortByName, query.OrderAsc)

// APIListProducts returns every product with its category embedded, in name
// order.
func (s *CatalogService) APIListProducts(ctx context.Context) ([]transport.ProductResponse, error) {
	products, err := s.Store.ListProducts(ctx, defaultListing)
	if err != nil {
		return nil, err
	}
	return s.responses(ctx, products)
}

func (s *CatalogService) APIListProductsPage(ctx context.Context, offset, limit int) (int64, []transport.ProductResponse, error) {
	total, products, err := s.Store.ListProductsPage(ctx, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	items, err := s.responses(ctx, products)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *CatalogService) responses(ctx context.Context, products []models.Product) ([]transport.ProductResponse, error) {
	cats, err := s.Store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*transport.CategoryResponse, len(cats))
	for _, c := range cats {
		byID[c.ID] = &transport.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
	}

	out := make([]transport.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, transport.ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Image:       p.Image,
			Description: p.Description,
			Category:    byID[p.CategoryID],
		})
	}
	return out, nil
}

func (s *CatalogService) APICreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	p := &models.Product{}
	applyRequest(p, req)
	if err := s.checkDocument(ctx, p); err != nil {
		return nil, err
	}
	if err := s.Store.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("api_create_product_success", "product_id", p.ID)
	publish(ctx, s.Events, productEvent(EventProductCreated, p))
	return p, nil
}

// APIUpdateProduct applies the fields present in req to the stored product
// and validates the result.
func (s *CatalogService) APIUpdateProduct(ctx context.Context, id string, req transport.ProductRequest) (*models.Product, error) {
	p, err := s.Store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	applyRequest(p, req)
	if err := s.checkDocument(ctx, p); err != nil {
		return nil, err
	}
	if err := s.Store.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("api_update_product_success", "product_id", p.ID)
	publish(ctx, s.Events, productEvent(EventProductUpdated, p))
	return p, nil
}

// APIDeleteProduct returns ErrNotFound for unknown ids, unlike the form
// workflow.
func (s *CatalogService) APIDeleteProduct(ctx context.Context, id string) error {
	deleted, err := s.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func applyRequest(p *models.Product, req transport.ProductRequest) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.CategoryID = strings.TrimSpace(*req.Category)
	}
}

func (s *CatalogService) checkDocument(ctx context.Context, p *models.Product) error {
	if ve, ok := models.AsValidationError(p.Validate()); ok {
		return &FormError{Kind: ErrValidation, Fields: ve.Fields}
	}
	if _, err := s.Store.GetCategory(ctx, p.CategoryID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return formError(ErrReferenceNotFound, "category", "Selected category does not exist")
		}
		return err
	}
	return nil
}
