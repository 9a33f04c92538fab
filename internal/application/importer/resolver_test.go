package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commercehub/catalog-sync/internal/domain/catalog"
)

func TestResolver_ResolvesParentCatalog(t *testing.T) {
	catalogs := newMemCatalogStore("Retail")
	resolver := NewResolver(catalogs, zap.NewNop())

	top := catalog.NewCategory("Retail", "1001", "Bikes")
	top.Scratch.AddCatalogAssociation("Retail")
	top.Scratch.MarkParentCatalog("Retail")

	diag := NewDiagnostics()
	err := resolver.Resolve(context.Background(), []catalog.Item{top}, nil, diag)
	require.NoError(t, err)

	retail := catalogs.catalogs["Retail"]
	assert.Equal(t, retail.SurrogateID, top.CatalogToEntityList)
	assert.Equal(t, retail.SurrogateID, top.ParentCatalogList)

	require.Len(t, top.Scratch.EdgesToCreate, 1)
	edge := top.Scratch.EdgesToCreate[0]
	assert.Equal(t, top.ID, edge.ItemID)
	assert.Equal(t, retail.ID, edge.ParentID)
	assert.Equal(t, retail.ID, edge.CatalogID)
}

func TestResolver_UnknownCatalogDropsAssociationWithWarning(t *testing.T) {
	catalogs := newMemCatalogStore("Retail")
	resolver := NewResolver(catalogs, zap.NewNop())

	item := catalog.NewCategory("Ghost", "1001", "Bikes")
	item.Scratch.AddCatalogAssociation("Ghost")
	item.Scratch.MarkParentCatalog("Ghost")

	diag := NewDiagnostics()
	err := resolver.Resolve(context.Background(), []catalog.Item{item}, nil, diag)
	require.NoError(t, err)

	assert.Empty(t, item.CatalogToEntityList)
	assert.Empty(t, item.ParentCatalogList)
	assert.Empty(t, item.Scratch.EdgesToCreate)

	messages := diag.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, LevelWarning, messages[0].Level)
	assert.Contains(t, messages[0].Text, "Ghost")
}

func TestResolver_ResolvesCategoryParentFromStorage(t *testing.T) {
	catalogs := newMemCatalogStore("Retail")
	stored := catalog.NewCategory("Retail", "1001", "Bikes")
	stored.StripScratch()
	catalogs.categories = []catalog.Category{*stored}
	resolver := NewResolver(catalogs, zap.NewNop())

	item := catalog.NewSellableItem("A-100", "bike", "Bike", "Stock")
	item.Scratch.AddCatalogAssociation("Retail")
	item.Scratch.AddCategoryAssociation("Retail", "1001")

	diag := NewDiagnostics()
	err := resolver.Resolve(context.Background(), []catalog.Item{item}, nil, diag)
	require.NoError(t, err)

	assert.Equal(t, stored.SurrogateID, item.ParentCategoryList)
	require.Len(t, item.Scratch.EdgesToCreate, 1)
	assert.Equal(t, stored.ID, item.Scratch.EdgesToCreate[0].ParentID)
}

func TestResolver_ResolvesCategoryParentFromBatch(t *testing.T) {
	// the parent category is part of the same run, not yet stored
	catalogs := newMemCatalogStore("Retail")
	resolver := NewResolver(catalogs, zap.NewNop())

	parent := catalog.NewCategory("Retail", "1001", "Bikes")
	child := catalog.NewCategory("Retail", "1002", "Helmets")
	child.Scratch.AddCatalogAssociation("Retail")
	child.Scratch.AddCategoryAssociation("Retail", "1001")

	diag := NewDiagnostics()
	err := resolver.Resolve(context.Background(), []catalog.Item{child}, []*catalog.Category{parent}, diag)
	require.NoError(t, err)

	assert.Equal(t, parent.SurrogateID, child.ParentCategoryList)
	require.Len(t, child.Scratch.EdgesToCreate, 1)
	assert.Equal(t, parent.ID, child.Scratch.EdgesToCreate[0].ParentID)
}

func TestResolver_UnknownCategoryDropsAssociationWithWarning(t *testing.T) {
	catalogs := newMemCatalogStore("Retail")
	resolver := NewResolver(catalogs, zap.NewNop())

	item := catalog.NewSellableItem("A-100", "bike", "Bike", "Stock")
	item.Scratch.AddCatalogAssociation("Retail")
	item.Scratch.AddCategoryAssociation("Retail", "9999")

	diag := NewDiagnostics()
	err := resolver.Resolve(context.Background(), []catalog.Item{item}, nil, diag)
	require.NoError(t, err)

	assert.Empty(t, item.ParentCategoryList)
	assert.Empty(t, item.Scratch.EdgesToCreate)

	var warned bool
	for _, m := range diag.Messages() {
		if m.Level == LevelWarning && strings.Contains(m.Text, "9999") {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestResolver_MissingContextCatalogFatal(t *testing.T) {
	// catalog referenced by a category association but absent from storage
	catalogs := newMemCatalogStore("Retail")
	resolver := NewResolver(catalogs, zap.NewNop())

	item := catalog.NewSellableItem("A-100", "bike", "Bike", "Stock")
	item.Scratch.AddCategoryAssociation("Ghost", "1001")

	err := resolver.Resolve(context.Background(), []catalog.Item{item}, nil, NewDiagnostics())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ghost")
}

func TestResolver_JoinsMultipleParents(t *testing.T) {
	catalogs := newMemCatalogStore("Retail")
	a := catalog.NewCategory("Retail", "1001", "Bikes")
	b := catalog.NewCategory("Retail", "1002", "Gear")
	a.StripScratch()
	b.StripScratch()
	catalogs.categories = []catalog.Category{*a, *b}
	resolver := NewResolver(catalogs, zap.NewNop())

	item := catalog.NewSellableItem("A-100", "bike", "Bike", "Stock")
	item.Scratch.AddCatalogAssociation("Retail")
	item.Scratch.AddCategoryAssociation("Retail", "1001")
	item.Scratch.AddCategoryAssociation("Retail", "1002")

	err := resolver.Resolve(context.Background(), []catalog.Item{item}, nil, NewDiagnostics())
	require.NoError(t, err)

	parents := strings.Split(item.ParentCategoryList, catalog.ListSeparator)
	assert.ElementsMatch(t, []string{a.SurrogateID, b.SurrogateID}, parents)
	assert.Len(t, item.Scratch.EdgesToCreate, 2)
}
