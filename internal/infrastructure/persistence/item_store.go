package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/commercehub/catalog-sync/internal/domain/catalog"
	"github.com/commercehub/catalog-sync/internal/domain/shared"
)

// GormItemStore implements catalog.ItemStore using GORM
type GormItemStore struct {
	db *gorm.DB
}

// NewGormItemStore creates a new GormItemStore
func NewGormItemStore(db *gorm.DB) *GormItemStore {
	return &GormItemStore{db: db}
}

// FindByID finds an item of the given kind by its canonical ID
func (s *GormItemStore) FindByID(ctx context.Context, kind catalog.ItemKind, id string) (catalog.Item, error) {
	switch kind {
	case catalog.ItemKindCatalog:
		var cat catalog.Catalog
		if err := s.db.WithContext(ctx).First(&cat, "id = ?", id).Error; err != nil {
			return nil, translateNotFound(err)
		}
		return &cat, nil
	case catalog.ItemKindCategory:
		var category catalog.Category
		if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
			return nil, translateNotFound(err)
		}
		return &category, nil
	case catalog.ItemKindSellableItem:
		var item catalog.SellableItem
		if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
			return nil, translateNotFound(err)
		}
		return &item, nil
	}
	return nil, fmt.Errorf("unknown item kind %q", kind)
}

// FindExisting bulk-fetches items of the given kind by canonical IDs.
// IDs without a stored row are simply absent from the result.
func (s *GormItemStore) FindExisting(ctx context.Context, kind catalog.ItemKind, ids []string) ([]catalog.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	switch kind {
	case catalog.ItemKindCatalog:
		var catalogs []catalog.Catalog
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&catalogs).Error; err != nil {
			return nil, err
		}
		items := make([]catalog.Item, len(catalogs))
		for i := range catalogs {
			items[i] = &catalogs[i]
		}
		return items, nil
	case catalog.ItemKindCategory:
		var categories []catalog.Category
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
			return nil, err
		}
		items := make([]catalog.Item, len(categories))
		for i := range categories {
			items[i] = &categories[i]
		}
		return items, nil
	case catalog.ItemKindSellableItem:
		var sellables []catalog.SellableItem
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&sellables).Error; err != nil {
			return nil, err
		}
		items := make([]catalog.Item, len(sellables))
		for i := range sellables {
			items[i] = &sellables[i]
		}
		return items, nil
	}
	return nil, fmt.Errorf("unknown item kind %q", kind)
}

// Save creates or updates an item. On a primary key conflict the imported
// value wins wholesale.
func (s *GormItemStore) Save(ctx context.Context, item catalog.Item) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(item).Error
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// Ensure GormItemStore implements ItemStore
var _ catalog.ItemStore = (*GormItemStore)(nil)
