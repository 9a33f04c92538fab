package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurrogateID_Deterministic(t *testing.T) {
	a := SurrogateID("category-Retail-1001")
	b := SurrogateID("category-Retail-1001")
	c := SurrogateID("category-Retail-1002")

	assert.Equal(t, a, b, "the same canonical ID must always yield the same surrogate")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36)
}

func TestKindOfID(t *testing.T) {
	tests := []struct {
		id   string
		kind ItemKind
		ok   bool
	}{
		{CatalogID("Retail"), ItemKindCatalog, true},
		{CategoryID("Retail", "1001"), ItemKindCategory, true},
		{SellableItemID("A-100"), ItemKindSellableItem, true},
		{"unknown-thing", "", false},
	}
	for _, tt := range tests {
		kind, ok := KindOfID(tt.id)
		assert.Equal(t, tt.ok, ok, tt.id)
		assert.Equal(t, tt.kind, kind, tt.id)
	}
}

func TestCatalogNameFromID(t *testing.T) {
	assert.Equal(t, "Retail", CatalogNameFromID(CatalogID("Retail")))
	assert.True(t, IsCatalogID(CatalogID("Retail")))
	assert.False(t, IsCatalogID(SellableItemID("A-100")))
}

func TestNewCategory_DerivedIdentifiers(t *testing.T) {
	c := NewCategory("Retail", "1001", "Bikes")

	assert.Equal(t, "category-Retail-1001", c.ID)
	assert.Equal(t, "Retail-1001", c.FriendlyID)
	assert.Equal(t, SurrogateID(c.ID), c.SurrogateID)
	assert.Equal(t, []string{ListCategories, ListCatalogItems}, c.Memberships)
	assert.NotNil(t, c.Scratch)
}

func TestNewSellableItem_DerivedIdentifiers(t *testing.T) {
	s := NewSellableItem("A-100", "bike", "Bike", "Stock")

	assert.Equal(t, "sellable-A-100", s.ID)
	assert.Equal(t, "A-100", s.FriendlyID)
	assert.Equal(t, "A-100", s.IdentityKey())
	assert.Equal(t, SurrogateID(s.ID), s.SurrogateID)
	assert.Equal(t, []string{ListSellableItems, ListCatalogItems}, s.Memberships)
}

func TestRelationshipType(t *testing.T) {
	tests := []struct {
		itemID   string
		parentID string
		want     string
	}{
		{CategoryID("Retail", "1001"), CatalogID("Retail"), RelCatalogToCategory},
		{SellableItemID("A-100"), CatalogID("Retail"), RelCatalogToSellableItem},
		{CategoryID("Retail", "1002"), CategoryID("Retail", "1001"), RelCategoryToCategory},
		{SellableItemID("A-100"), CategoryID("Retail", "1001"), RelCategoryToSellableItem},
	}
	for _, tt := range tests {
		got, err := RelationshipType(tt.itemID, tt.parentID)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestRelationshipType_Invalid(t *testing.T) {
	_, err := RelationshipType(CatalogID("Retail"), CategoryID("Retail", "1001"))
	assert.Error(t, err, "a catalog is never a child")

	_, err = RelationshipType("garbage", CatalogID("Retail"))
	assert.Error(t, err)
}
