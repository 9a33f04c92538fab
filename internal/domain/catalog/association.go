package catalog

import (
	"fmt"
	"time"
)

// Relationship type tokens for persisted item associations.
const (
	RelCatalogToCategory      = "catalog-to-category"
	RelCatalogToSellableItem  = "catalog-to-sellable-item"
	RelCategoryToCategory     = "category-to-category"
	RelCategoryToSellableItem = "category-to-sellable-item"
)

// AssociationEdge states that an item belongs under a parent within a catalog
// context. Edges are produced by resolution and reconciliation; they are
// applied as create or remove operations, never persisted as entities.
type AssociationEdge struct {
	ItemID            string
	CatalogID         string
	ParentID          string
	ParentSurrogateID string
}

// ItemAssociation is the persisted form of an association edge.
type ItemAssociation struct {
	ID               uint   `gorm:"primaryKey;autoIncrement"`
	ItemID           string `gorm:"type:varchar(512);not null;uniqueIndex:idx_assoc_item_parent,priority:1"`
	ParentID         string `gorm:"type:varchar(512);not null;uniqueIndex:idx_assoc_item_parent,priority:2"`
	CatalogID        string `gorm:"type:varchar(512);not null;index"`
	RelationshipType string `gorm:"type:varchar(50);not null"`
	CreatedAt        time.Time
}

// TableName returns the table name for GORM
func (ItemAssociation) TableName() string {
	return "item_associations"
}

// RelationshipType resolves the relationship token for an edge from the item
// and parent ID prefixes. It fails on kind pairs no relationship exists for.
func RelationshipType(itemID, parentID string) (string, error) {
	itemKind, ok := KindOfID(itemID)
	if !ok {
		return "", fmt.Errorf("cannot determine item kind from id %q", itemID)
	}
	parentKind, ok := KindOfID(parentID)
	if !ok {
		return "", fmt.Errorf("cannot determine parent kind from id %q", parentID)
	}

	switch {
	case parentKind == ItemKindCatalog && itemKind == ItemKindCategory:
		return RelCatalogToCategory, nil
	case parentKind == ItemKindCatalog && itemKind == ItemKindSellableItem:
		return RelCatalogToSellableItem, nil
	case parentKind == ItemKindCategory && itemKind == ItemKindCategory:
		return RelCategoryToCategory, nil
	case parentKind == ItemKindCategory && itemKind == ItemKindSellableItem:
		return RelCategoryToSellableItem, nil
	}
	return "", fmt.Errorf("no relationship between %s and parent %s", itemKind, parentKind)
}
