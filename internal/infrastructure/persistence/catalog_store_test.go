package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/commercehub/catalog-sync/internal/domain/catalog"
	"github.com/commercehub/catalog-sync/internal/domain/shared"
)

// setupCatalogTestDB creates an in-memory SQLite database with the catalog schema
func setupCatalogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Catalog{},
		&catalog.Category{},
		&catalog.SellableItem{},
		&catalog.ItemAssociation{},
	)
	require.NoError(t, err)

	return db
}

func TestGormCatalogStore_FindCatalogByName(t *testing.T) {
	db := setupCatalogTestDB(t)
	store := NewGormCatalogStore(db)
	ctx := context.Background()

	t.Run("finds existing catalog", func(t *testing.T) {
		require.NoError(t, store.SaveCatalog(ctx, catalog.NewCatalog("Retail")))

		found, err := store.FindCatalogByName(ctx, "Retail")
		require.NoError(t, err)
		assert.Equal(t, "Retail", found.Name)
		assert.Equal(t, catalog.CatalogID("Retail"), found.ID)
		assert.NotEmpty(t, found.SurrogateID)
	})

	t.Run("returns ErrNotFound for missing catalog", func(t *testing.T) {
		_, err := store.FindCatalogByName(ctx, "Nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCatalogStore_FindAllCatalogs(t *testing.T) {
	db := setupCatalogTestDB(t)
	store := NewGormCatalogStore(db)
	ctx := context.Background()

	require.NoError(t, store.SaveCatalog(ctx, catalog.NewCatalog("Retail")))
	require.NoError(t, store.SaveCatalog(ctx, catalog.NewCatalog("Outlet")))

	all, err := store.FindAllCatalogs(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGormCatalogStore_FindCategoriesInCatalog(t *testing.T) {
	db := setupCatalogTestDB(t)
	store := NewGormCatalogStore(db)
	items := NewGormItemStore(db)
	ctx := context.Background()

	require.NoError(t, items.Save(ctx, catalog.NewCategory("Retail", "100", "Shoes")))
	require.NoError(t, items.Save(ctx, catalog.NewCategory("Retail", "200", "Shirts")))
	require.NoError(t, items.Save(ctx, catalog.NewCategory("Outlet", "100", "Shoes")))

	categories, err := store.FindCategoriesInCatalog(ctx, "Retail")
	require.NoError(t, err)
	require.Len(t, categories, 2)
	for _, c := range categories {
		assert.Contains(t, c.FriendlyID, "Retail-")
	}
}

func TestGormCatalogStore_SaveCatalog_Upsert(t *testing.T) {
	db := setupCatalogTestDB(t)
	store := NewGormCatalogStore(db)
	ctx := context.Background()

	cat := catalog.NewCatalog("Retail")
	require.NoError(t, store.SaveCatalog(ctx, cat))

	cat.DisplayName = "Retail Catalog"
	require.NoError(t, store.SaveCatalog(ctx, cat))

	found, err := store.FindCatalogByName(ctx, "Retail")
	require.NoError(t, err)
	assert.Equal(t, "Retail Catalog", found.DisplayName)

	all, err := store.FindAllCatalogs(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
