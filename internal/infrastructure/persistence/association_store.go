package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/commercehub/catalog-sync/internal/domain/catalog"
)

// GormAssociationStore implements catalog.AssociationStore using GORM
type GormAssociationStore struct {
	db *gorm.DB
}

// NewGormAssociationStore creates a new GormAssociationStore
func NewGormAssociationStore(db *gorm.DB) *GormAssociationStore {
	return &GormAssociationStore{db: db}
}

// Create persists one association row
func (s *GormAssociationStore) Create(ctx context.Context, assoc catalog.ItemAssociation) error {
	return s.db.WithContext(ctx).Create(&assoc).Error
}

// Remove deletes the association between an item and a parent. Removing an
// absent association is not an error.
func (s *GormAssociationStore) Remove(ctx context.Context, itemID, parentID string) error {
	return s.db.WithContext(ctx).
		Where("item_id = ? AND parent_id = ?", itemID, parentID).
		Delete(&catalog.ItemAssociation{}).Error
}

// FindByItemID returns all stored associations for an item
func (s *GormAssociationStore) FindByItemID(ctx context.Context, itemID string) ([]catalog.ItemAssociation, error) {
	var associations []catalog.ItemAssociation
	if err := s.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("parent_id ASC").
		Find(&associations).Error; err != nil {
		return nil, err
	}
	return associations, nil
}

// Ensure GormAssociationStore implements AssociationStore
var _ catalog.AssociationStore = (*GormAssociationStore)(nil)
