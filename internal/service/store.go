package service

import (
	"context"
	"mime/multipart"

	"github.com/Skotchmaster/shop_backoffice/internal/models"
	"github.com/Skotchmaster/shop_backoffice/internal/query"
	"github.com/Skotchmaster/shop_backoffice/internal/upload"
)

// UserStore and CatalogStore are implemented by repo.GormRepo and
// mongorepo.Repo. Lookups of unknown ids return repo.ErrNotFound.
type UserStore interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
}

type CatalogStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id string) (bool, error)

	ListProducts(ctx context.Context, q query.Query) ([]models.Product, error)
	ListProductsPage(ctx context.Context, offset, limit int) (int64, []models.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID string) ([]models.Product, error)
	CountProductsByCategory(ctx context.Context, categoryID string) (int64, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) (bool, error)
}

type CredentialVerifier interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type ImageIngestor interface {
	Ingest(ctx context.Context, fh *multipart.FileHeader) upload.Result
	Remove(name string) error
}

type AssetResolver interface {
	Snapshot(ctx context.Context) []string
	Resolve(ctx context.Context, products []models.Product, files []string) map[string]string
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}
