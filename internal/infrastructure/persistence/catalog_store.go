package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/commercehub/catalog-sync/internal/domain/catalog"
)

// GormCatalogStore implements catalog.CatalogStore using GORM
type GormCatalogStore struct {
	db *gorm.DB
}

// NewGormCatalogStore creates a new GormCatalogStore
func NewGormCatalogStore(db *gorm.DB) *GormCatalogStore {
	return &GormCatalogStore{db: db}
}

// FindAllCatalogs returns every catalog in storage
func (s *GormCatalogStore) FindAllCatalogs(ctx context.Context) ([]catalog.Catalog, error) {
	var catalogs []catalog.Catalog
	if err := s.db.WithContext(ctx).Find(&catalogs).Error; err != nil {
		return nil, err
	}
	return catalogs, nil
}

// FindCatalogByName finds a catalog by name
func (s *GormCatalogStore) FindCatalogByName(ctx context.Context, name string) (*catalog.Catalog, error) {
	var cat catalog.Catalog
	if err := s.db.WithContext(ctx).First(&cat, "name = ?", name).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &cat, nil
}

// FindCategoriesInCatalog returns the persisted categories whose friendly ID
// places them in the named catalog. Friendly IDs are formed as
// "<catalog>-<name>", so a prefix match selects the catalog's categories.
func (s *GormCatalogStore) FindCategoriesInCatalog(ctx context.Context, catalogName string) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := s.db.WithContext(ctx).
		Where("friendly_id LIKE ?", catalogName+"-%").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// SaveCatalog creates or updates a catalog
func (s *GormCatalogStore) SaveCatalog(ctx context.Context, cat *catalog.Catalog) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(cat).Error
}

// Ensure GormCatalogStore implements CatalogStore
var _ catalog.CatalogStore = (*GormCatalogStore)(nil)
