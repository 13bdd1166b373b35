package mongorepo

import (
	"context"
	"os"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Skotchmaster/shop_backoffice/internal/models"
	"github.com/Skotchmaster/shop_backoffice/internal/query"
	"github.com/Skotchmaster/shop_backoffice/internal/repo"
)

func TestProductFilter(t *testing.T) {
	t.Parallel()

	assert.Empty(t, productFilter(query.Build("  ", "", "")))

	f := productFilter(query.Build("a.b(c", "", ""))
	cond, ok := f["name"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "i", cond["$options"])

	re := regexp.MustCompile("(?i)" + cond["$regex"].(string))
	assert.True(t, re.MatchString("XA.B(Cy"))
	assert.False(t, re.MatchString("axb(c"), "dot is literal")
}

func TestProductSort(t *testing.T) {
	t.Parallel()

	s := productSort(query.Build("", "price", "desc"))
	require.Len(t, s, 2)
	assert.Equal(t, "price", s[0].Key)
	assert.Equal(t, -1, s[0].Value)
	assert.Equal(t, "_id", s[1].Key)

	s = productSort(query.Build("", "", ""))
	assert.Equal(t, "name", s[0].Key)
	assert.Equal(t, 1, s[0].Value)
}

// Runs against a real server when MONGO_TEST_URL is set.
func TestRepo_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URL")
	if uri == "" {
		t.Skip("MONGO_TEST_URL not set")
	}

	ctx := context.Background()
	r, err := Connect(ctx, uri, "backoffice_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.users.Database().Drop(ctx)
		_ = r.Close(ctx)
	})

	cat := models.Category{Name: "Home"}
	require.NoError(t, r.CreateCategory(ctx, &cat))

	for _, name := range []string{"Blue Widget", "widget pro", "Lamp"} {
		p := models.Product{Name: name, Price: float64(len(name)), CategoryID: cat.ID}
		require.NoError(t, r.CreateProduct(ctx, &p))
	}

	lower, err := r.ListProducts(ctx, query.Build("widget", "", ""))
	require.NoError(t, err)
	upper, err := r.ListProducts(ctx, query.Build("WIDGET", "", ""))
	require.NoError(t, err)
	assert.Len(t, lower, 2)
	assert.Equal(t, lower, upper)

	_, err = r.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	u := models.User{Username: "alice", PasswordHash: "h", Role: models.RoleCustomer}
	require.NoError(t, r.CreateUser(ctx, &u))
	assert.ErrorIs(t, r.CreateUser(ctx, &models.User{Username: "alice"}), repo.ErrUserAlreadyExist)
}
