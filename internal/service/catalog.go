package service

import (
	"context"
	"errors"
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
	"github.com/Skotchmaster/shop_backoffice/internal/models"
	"github.com/Skotchmaster/shop_backoffice/internal/query"
	"github.com/Skotchmaster/shop_backoffice/internal/transport"
	"github.com/Skotchmaster/shop_backoffice/internal/upload"
)

type CatalogService struct {
	Store   CatalogStore
	Uploads ImageIngestor
	Assets  AssetResolver
	Events  Publisher
}

func NewCatalogService(store CatalogStore, uploads ImageIngestor, assets AssetResolver, events Publisher) *CatalogService {
	return &CatalogService{Store: store, Uploads: uploads, Assets: assets, Events: events}
}

// ListProducts runs a listing query and attaches category names and
// resolved image paths. The content directory is read once per call.
func (s *CatalogService) ListProducts(ctx context.Context, q query.Query) ([]transport.ProductRow, error) {
	products, err := s.Store.ListProducts(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.rows(ctx, products)
}

func (s *CatalogService) rows(ctx context.Context, products []models.Product) ([]transport.ProductRow, error) {
	names, err := s.categoryNames(ctx)
	if err != nil {
		return nil, err
	}
	paths := s.Assets.Resolve(ctx, products, s.Assets.Snapshot(ctx))

	rows := make([]transport.ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, transport.ProductRow{
			Product:      p,
			CategoryName: names[p.CategoryID],
			ImagePath:    paths[p.ID],
		})
	}
	return rows, nil
}

func (s *CatalogService) categoryNames(ctx context.Context) (map[string]string, error) {
	cats, err := s.Store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.Store.GetProduct(ctx, id)
}

// CreateProduct runs the create workflow: store the image, check the
// category, validate and persist. The image is required. Once stored, the
// file is removed again if any later step rejects the submission.
func (s *CatalogService) CreateProduct(ctx context.Context, form transport.ProductForm, fh *multipart.FileHeader) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	res := s.Uploads.Ingest(ctx, fh)
	if !res.OK() {
		l.Warn("create_product_rejected", "status", 400, "reason", "upload", "kind", res.Failure.Kind)
		return nil, formError(ErrUpload, upload.FieldName, res.Failure.Message)
	}

	p := &models.Product{Image: res.StoredFilename}
	if err := s.save(ctx, p, form, s.Store.CreateProduct); err != nil {
		s.discard(ctx, res.StoredFilename)
		return nil, err
	}

	l.Info("create_product_success", "product_id", p.ID, "image", p.Image)
	publish(ctx, s.Events, productEvent(EventProductCreated, p))
	return p, nil
}

// UpdateProduct runs the edit workflow. Without a new file the stored image
// is kept.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, form transport.ProductForm, fh *multipart.FileHeader) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update_product", "product_id", id)

	p, err := s.Store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	stored := ""
	if fh != nil {
		res := s.Uploads.Ingest(ctx, fh)
		switch {
		case res.OK():
			stored = res.StoredFilename
		case res.Failure.Kind != upload.NoFile:
			l.Warn("update_product_rejected", "status", 400, "reason", "upload", "kind", res.Failure.Kind)
			return nil, formError(ErrUpload, upload.FieldName, res.Failure.Message)
		}
	}

	previous := p.Image
	if stored != "" {
		p.Image = stored
	}
	if err := s.save(ctx, p, form, s.Store.UpdateProduct); err != nil {
		s.discard(ctx, stored)
		return nil, err
	}

	l.Info("update_product_success", "image", p.Image, "replaced_image", stored != "" && previous != "")
	publish(ctx, s.Events, productEvent(EventProductUpdated, p))
	return p, nil
}

// save applies form to p, checks the category reference and validates before
// handing p to write.
func (s *CatalogService) save(ctx context.Context, p *models.Product, form transport.ProductForm, write func(context.Context, *models.Product) error) error {
	l := logging.FromContext(ctx)

	p.Name = strings.TrimSpace(form.Name)
	p.Description = strings.TrimSpace(form.Description)
	p.CategoryID = strings.TrimSpace(form.Category)

	if p.CategoryID != "" {
		if _, err := s.Store.GetCategory(ctx, p.CategoryID); err != nil {
			if errors.Is(err, ErrNotFound) {
				l.Warn("product_rejected", "status", 400, "reason", "unknown category", "category", p.CategoryID)
				return formError(ErrReferenceNotFound, "category", "Selected category does not exist")
			}
			return err
		}
	}

	fields := map[string]string{}
	raw := strings.TrimSpace(form.Price)
	price, perr := strconv.ParseFloat(raw, 64)
	switch {
	case raw == "":
		fields["price"] = "Price is required"
	case perr != nil, math.IsNaN(price), math.IsInf(price, 0):
		fields["price"] = "Price must be a number"
	default:
		p.Price = price
	}

	if ve, ok := models.AsValidationError(p.Validate()); ok {
		for k, v := range ve.Fields {
			if _, taken := fields[k]; !taken {
				fields[k] = v
			}
		}
	}
	if len(fields) > 0 {
		l.Warn("product_rejected", "status", 400, "reason", "validation", "fields", len(fields))
		return &FormError{Kind: ErrValidation, Fields: fields}
	}

	if err := write(ctx, p); err != nil {
		if ve, ok := models.AsValidationError(err); ok {
			return &FormError{Kind: ErrValidation, Fields: ve.Fields}
		}
		return err
	}
	return nil
}

func (s *CatalogService) discard(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.Uploads.Remove(name); err != nil {
		logging.FromContext(ctx).Warn("upload_cleanup_failed", "stored_filename", name, "error", err)
	}
}

// DeleteProduct reports whether a product was removed. Unknown ids are not
// an error.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) (bool, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_product", "product_id", id)

	p, err := s.Store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.Info("delete_product_noop", "reason", "not found")
			return false, nil
		}
		return false, err
	}

	deleted, err := s.Store.DeleteProduct(ctx, id)
	if err != nil || !deleted {
		return false, err
	}

	l.Info("delete_product_success")
	publish(ctx, s.Events, productEvent(EventProductDeleted, p))
	return true, nil
}
