package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportScratch_AddCatalogAssociationDeduplicates(t *testing.T) {
	s := NewImportScratch()

	assert.True(t, s.AddCatalogAssociation("Retail"))
	assert.False(t, s.AddCatalogAssociation("Retail"))
	assert.True(t, s.AddCatalogAssociation("Outlet"))
	assert.Len(t, s.CatalogAssociations, 2)
}

func TestImportScratch_AddCategoryAssociationDeduplicatesByPair(t *testing.T) {
	s := NewImportScratch()

	assert.True(t, s.AddCategoryAssociation("Retail", "1001"))
	assert.False(t, s.AddCategoryAssociation("Retail", "1001"))
	assert.True(t, s.AddCategoryAssociation("Outlet", "1001"))
	assert.True(t, s.AddCategoryAssociation("Retail", "1002"))
	assert.Len(t, s.CategoryAssociations, 3)
}

func TestImportScratch_MarkParentCatalog(t *testing.T) {
	s := NewImportScratch()
	s.AddCatalogAssociation("Retail")
	s.AddCatalogAssociation("Outlet")

	s.MarkParentCatalog("Outlet")

	assert.False(t, s.CatalogAssociations[0].IsParent)
	assert.True(t, s.CatalogAssociations[1].IsParent)

	// marking an unknown name is a no-op
	s.MarkParentCatalog("Ghost")
	assert.Len(t, s.CatalogAssociations, 2)
}

func TestImportScratch_HasCategoryAssociationInCatalog(t *testing.T) {
	s := NewImportScratch()
	s.AddCategoryAssociation("Retail", "1001")

	assert.True(t, s.HasCategoryAssociationInCatalog("Retail"))
	assert.False(t, s.HasCategoryAssociationInCatalog("Outlet"))
}

func TestImportScratch_CatalogNames(t *testing.T) {
	s := NewImportScratch()
	s.AddCategoryAssociation("Retail", "1001")
	s.AddCategoryAssociation("retail", "1002")
	s.AddCategoryAssociation("Outlet", "1001")

	assert.Equal(t, []string{"Retail", "Outlet"}, s.CatalogNames())
}

func TestStripScratch(t *testing.T) {
	c := NewCategory("Retail", "1001", "Bikes")
	assert.NotNil(t, c.ScratchRecord())
	c.StripScratch()
	assert.Nil(t, c.ScratchRecord())

	s := NewSellableItem("A-100", "bike", "Bike", "Stock")
	s.StripScratch()
	assert.Nil(t, s.ScratchRecord())
}
