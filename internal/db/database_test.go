package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_backoffice/internal/config"
	"github.com/Skotchmaster/shop_backoffice/internal/models"
)

func TestOpen_SQLiteMigrates(t *testing.T) {
	t.Parallel()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := Open(context.Background(), config.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	for _, m := range []any{&models.User{}, &models.Category{}, &models.Product{}, &models.SessionRecord{}} {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
}

func TestOpen_Rejects(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), config.DriverSQLite, "")
	require.Error(t, err)

	_, err = Open(context.Background(), "oracle", "whatever")
	require.ErrorContains(t, err, "unsupported")
}
