// Package mongorepo stores the catalog in MongoDB collections, one document
// per user, category and product.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Skotchmaster/shop_backoffice/internal/models"
	"github.com/Skotchmaster/shop_backoffice/internal/query"
	"github.com/Skotchmaster/shop_backoffice/internal/repo"
)

const (
	usersCollection      = "users"
	categoriesCollection = "categories"
	productsCollection   = "products"
)

type Repo struct {
	client     *mongo.Client
	users      *mongo.Collection
	categories *mongo.Collection
	products   *mongo.Collection
}

func Connect(ctx context.Context, uri, database string) (*Repo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	r := New(client, database)
	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return r, nil
}

func New(client *mongo.Client, database string) *Repo {
	db := client.Database(database)
	return &Repo{
		client:     client,
		users:      db.Collection(usersCollection),
		categories: db.Collection(categoriesCollection),
		products:   db.Collection(productsCollection),
	}
}

func (r *Repo) ensureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo users index: %w", err)
	}
	_, err = r.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongo products index: %w", err)
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *Repo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// productFilter matches names containing the search text, ignoring case.
// The search is quoted so regex metacharacters match literally.
func productFilter(q query.Query) bson.M {
	if !q.HasSearch() {
		return bson.M{}
	}
	return bson.M{"name": bson.M{"$regex": q.Pattern(), "$options": "i"}}
}

func productSort(q query.Query) bson.D {
	return bson.D{
		{Key: q.SortField, Value: int(q.Direction)},
		{Key: "_id", Value: 1},
	}
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repo.ErrNotFound
	}
	return err
}

func (r *Repo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, err := r.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repo.ErrUserAlreadyExist
		}
		return err
	}
	return nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]models.Category, error) {
	cur, err := r.categories.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	items := []models.Category{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repo) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := r.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *Repo) CreateCategory(ctx context.Context, c *models.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.categories.InsertOne(ctx, c)
	return err
}

func (r *Repo) UpdateCategory(ctx context.Context, c *models.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	res, err := r.categories.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteCategory(ctx context.Context, id string) (bool, error) {
	res, err := r.categories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *Repo) ListProducts(ctx context.Context, q query.Query) ([]models.Product, error) {
	return r.findProducts(ctx, productFilter(q), options.Find().SetSort(productSort(q)))
}

func (r *Repo) ListProductsPage(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	total, err := r.products.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, nil, err
	}
	opts := options.Find().
		SetSort(productSort(query.Build("", query.SortByName, query.OrderAsc))).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	items, err := r.findProducts(ctx, bson.M{}, opts)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *Repo) ListProductsByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	return r.findProducts(ctx, bson.M{"category": categoryID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *Repo) findProducts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cur, err := r.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	items := []models.Product{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repo) CountProductsByCategory(ctx context.Context, categoryID string) (int64, error) {
	return r.products.CountDocuments(ctx, bson.M{"category": categoryID})
}

func (r *Repo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *Repo) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.products.InsertOne(ctx, p)
	return err
}

func (r *Repo) UpdateProduct(ctx context.Context, p *models.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	res, err := r.products.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) (bool, error) {
	res, err := r.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
