package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_backoffice/internal/db/dbtest"
	"github.com/Skotchmaster/shop_backoffice/internal/models"
	"github.com/Skotchmaster/shop_backoffice/internal/query"
)

func seed(t *testing.T, r *GormRepo) (models.Category, []models.Product) {
	t.Helper()
	ctx := context.Background()

	cat := models.Category{Name: "Home"}
	require.NoError(t, r.CreateCategory(ctx, &cat))

	prods := []models.Product{
		{Name: "Blue Widget", Price: 12, CategoryID: cat.ID},
		{Name: "widget pro", Price: 40, CategoryID: cat.ID},
		{Name: "Lamp", Price: 25.5, CategoryID: cat.ID},
		{Name: "100% cotton", Price: 8, CategoryID: cat.ID},
		{Name: "a_b test", Price: 3, CategoryID: cat.ID},
	}
	for i := range prods {
		require.NoError(t, r.CreateProduct(ctx, &prods[i]))
		require.NotEmpty(t, prods[i].ID)
	}
	return cat, prods
}

func names(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestListProducts_SearchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	r := New(dbtest.New(t))
	seed(t, r)
	ctx := context.Background()

	lower, err := r.ListProducts(ctx, query.Build("widget", "", ""))
	require.NoError(t, err)
	upper, err := r.ListProducts(ctx, query.Build("WIDGET", "", ""))
	require.NoError(t, err)

	assert.Equal(t, []string{"Blue Widget", "widget pro"}, names(lower))
	assert.Equal(t, names(lower), names(upper))
}

func TestListProducts_SearchMetacharactersAreLiteral(t *testing.T) {
	t.Parallel()

	r := New(dbtest.New(t))
	seed(t, r)
	ctx := context.Background()

	got, err := r.ListProducts(ctx, query.Build("0%", "", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"100% cotton"}, names(got))

	got, err = r.ListProducts(ctx, query.Build("_", "", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"a_b test"}, names(got))

	got, err = r.ListProducts(ctx, query.Build(".*", "", ""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListProducts_Sort(t *testing.T) {
	t.Parallel()

	r := New(dbtest.New(t))
	seed(t, r)
	ctx := context.Background()

	got, err := r.ListProducts(ctx, query.Build("", "price", "desc"))
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Price, got[i].Price)
	}

	got, err = r.ListProducts(ctx, query.Build("", "bogus", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"100% cotton", "Blue Widget", "Lamp", "a_b test", "widget pro"}, names(got))
}

func TestProducts_CRUD(t *testing.T) {
	t.Parallel()

	r := New(dbtest.New(t))
	cat, prods := seed(t, r)
	ctx := context.Background()

	p, err := r.GetProduct(ctx, prods[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Name)

	p.Price = 30
	p.Description = "warm light"
	require.NoError(t, r.UpdateProduct(ctx, p))
	p, err = r.GetProduct(ctx, prods[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, p.Price)
	assert.Equal(t, "warm light", p.Description)

	p.Name = "x"
	_, ok := models.AsValidationError(r.UpdateProduct(ctx, p))
	assert.True(t, ok, "hooks validate on update")

	ghost := models.Product{ID: "missing", Name: "Ghost", CategoryID: cat.ID}
	assert.ErrorIs(t, r.UpdateProduct(ctx, &ghost), ErrNotFound)

	n, err := r.CountProductsByCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	deleted, err := r.DeleteProduct(ctx, prods[2].ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = r.DeleteProduct(ctx, prods[2].ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = r.GetProduct(ctx, prods[2].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	total, page, err := r.ListProductsPage(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Equal(t, []string{"Blue Widget", "a_b test"}, names(page))

	byCat, err := r.ListProductsByCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Len(t, byCat, 4)
}

func TestCreateProduct_Validates(t *testing.T) {
	t.Parallel()

	r := New(dbtest.New(t))
	err := r.CreateProduct(context.Background(), &models.Product{Name: "ab", Price: -1})
	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "price")
	assert.Contains(t, ve.Fields, "category")
}

func TestCategories_CRUD(t *testing.T) {
	t.Parallel()

	r := New(dbtest.New(t))
	ctx := context.Background()

	b := models.Category{Name: "Garden"}
	a := models.Category{Name: "Books", Description: "paper"}
	require.NoError(t, r.CreateCategory(ctx, &b))
	require.NoError(t, r.CreateCategory(ctx, &a))

	list, err := r.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Books", list[0].Name)

	b.Description = "outdoor"
	require.NoError(t, r.UpdateCategory(ctx, &b))
	got, err := r.GetCategory(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "outdoor", got.Description)

	_, ok := models.AsValidationError(r.CreateCategory(ctx, &models.Category{}))
	assert.True(t, ok)

	assert.ErrorIs(t, r.UpdateCategory(ctx, &models.Category{ID: "nope", Name: "x"}), ErrNotFound)

	deleted, err := r.DeleteCategory(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = r.GetCategory(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsers(t *testing.T) {
	t.Parallel()

	r := New(dbtest.New(t))
	ctx := context.Background()

	u := models.User{Username: "alice", PasswordHash: "h", Role: models.RoleCustomer}
	require.NoError(t, r.CreateUser(ctx, &u))
	assert.NotEmpty(t, u.ID)

	dup := models.User{Username: "alice", PasswordHash: "h2", Role: models.RoleAdmin}
	assert.ErrorIs(t, r.CreateUser(ctx, &dup), ErrUserAlreadyExist)

	got, err := r.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, got.Role)

	_, err = r.FindUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, r.Ping(ctx))
}
