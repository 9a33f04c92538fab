package catalog

import (
	"strings"

	"github.com/google/uuid"
)

// ItemKind identifies the concrete catalog item type behind an ID.
type ItemKind string

const (
	ItemKindCatalog      ItemKind = "catalog"
	ItemKindCategory     ItemKind = "category"
	ItemKindSellableItem ItemKind = "sellable"
)

const (
	catalogIDPrefix      = "catalog-"
	categoryIDPrefix     = "category-"
	sellableItemIDPrefix = "sellable-"
)

// surrogateNamespace is the fixed UUID namespace for surrogate ID derivation.
// It must never change: surrogate IDs are persisted and compared across runs.
var surrogateNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// CatalogID derives the canonical ID for a catalog from its name.
func CatalogID(name string) string {
	return catalogIDPrefix + name
}

// CategoryID derives the canonical ID for a category from its catalog name
// and natural key. Two source rows with the same natural key in the same
// catalog always map to the same ID.
func CategoryID(catalogName, name string) string {
	return categoryIDPrefix + catalogName + "-" + name
}

// SellableItemID derives the canonical ID for a sellable item from its
// product number.
func SellableItemID(productID string) string {
	return sellableItemIDPrefix + productID
}

// CategoryFriendlyID derives the human-readable alias for a category.
func CategoryFriendlyID(catalogName, name string) string {
	return catalogName + "-" + name
}

// SurrogateID derives the deterministic surrogate identifier for a canonical
// ID. The same ID always yields the same surrogate, so surrogates are stable
// across import runs.
func SurrogateID(id string) string {
	return uuid.NewSHA1(surrogateNamespace, []byte(id)).String()
}

// KindOfID reports the item kind encoded in a canonical ID.
func KindOfID(id string) (ItemKind, bool) {
	switch {
	case strings.HasPrefix(id, catalogIDPrefix):
		return ItemKindCatalog, true
	case strings.HasPrefix(id, categoryIDPrefix):
		return ItemKindCategory, true
	case strings.HasPrefix(id, sellableItemIDPrefix):
		return ItemKindSellableItem, true
	}
	return "", false
}

// IsCatalogID reports whether the ID identifies a catalog entity.
func IsCatalogID(id string) bool {
	return strings.HasPrefix(id, catalogIDPrefix)
}

// CatalogNameFromID extracts the catalog name from a catalog ID.
func CatalogNameFromID(id string) string {
	return strings.TrimPrefix(id, catalogIDPrefix)
}
