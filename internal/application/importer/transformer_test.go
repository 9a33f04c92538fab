package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commercehub/catalog-sync/internal/domain/catalog"
)

func categoryRow(catalogName, name, parent, display string) Record {
	return Record{
		fieldCategoryCatalog:     catalogName,
		fieldCategoryName:        name,
		fieldCategoryParent:      parent,
		fieldCategoryDisplayName: display,
	}
}

func productRow(itemNumber, searchName, productName, modelGroup, price string) Record {
	return Record{
		fieldProductID:          itemNumber,
		fieldProductName:        searchName,
		fieldProductDisplayName: productName,
		fieldProductTypeOfGood:  modelGroup,
		fieldProductListPrice:   price,
	}
}

func assignmentRow(product, catalogName, categoryDisplay string) Record {
	return Record{
		fieldAssignmentProduct:  product,
		fieldAssignmentCatalog:  catalogName,
		fieldAssignmentCategory: categoryDisplay,
	}
}

func TestCategoryTransformer_DeduplicatesByNaturalKey(t *testing.T) {
	transformer := NewCategoryTransformer(zap.NewNop())

	drafts, err := transformer.Transform([]Record{
		categoryRow("Retail", "1001", "0", "Bikes"),
		categoryRow("Retail", "1001", "0", "Bikes again"),
		categoryRow("Retail", "1002", "1001", "Helmets"),
	})
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	// first row wins on core fields
	assert.Equal(t, "Bikes", drafts[0].DisplayName)
	assert.Equal(t, catalog.CategoryID("Retail", "1001"), drafts[0].ID)
}

func TestCategoryTransformer_TopLevelCategoryGetsParentCatalog(t *testing.T) {
	transformer := NewCategoryTransformer(zap.NewNop())

	drafts, err := transformer.Transform([]Record{
		categoryRow("Retail", "1001", "0", "Bikes"),
		categoryRow("Retail", "1002", "1001", "Helmets"),
	})
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	top, child := drafts[0], drafts[1]

	require.Len(t, top.Scratch.CatalogAssociations, 1)
	assert.True(t, top.Scratch.CatalogAssociations[0].IsParent)
	assert.Empty(t, top.Scratch.CategoryAssociations)

	require.Len(t, child.Scratch.CatalogAssociations, 1)
	assert.False(t, child.Scratch.CatalogAssociations[0].IsParent)
	require.Len(t, child.Scratch.CategoryAssociations, 1)
	assert.Equal(t, "1001", child.Scratch.CategoryAssociations[0].CategoryName)
}

func TestCategoryTransformer_SameCategoryInTwoCatalogs(t *testing.T) {
	transformer := NewCategoryTransformer(zap.NewNop())

	drafts, err := transformer.Transform([]Record{
		categoryRow("Retail", "1001", "0", "Bikes"),
		categoryRow("Outlet", "1001", "0", "Bikes"),
	})
	require.NoError(t, err)

	// distinct catalogs scope distinct natural keys
	require.Len(t, drafts, 2)
	assert.NotEqual(t, drafts[0].ID, drafts[1].ID)
}

func TestCategoryTransformer_MissingFieldsFatal(t *testing.T) {
	transformer := NewCategoryTransformer(zap.NewNop())

	_, err := transformer.Transform([]Record{
		{fieldCategoryName: "1001"},
	})
	require.Error(t, err)

	_, err = transformer.Transform([]Record{
		{fieldCategoryCatalog: "Retail"},
	})
	require.Error(t, err)
}

func TestSellableItemTransformer_DeduplicatesByItemNumber(t *testing.T) {
	transformer := NewSellableItemTransformer("USD", "Retail", zap.NewNop())
	diag := NewDiagnostics()

	drafts, err := transformer.Transform([]Record{
		productRow("A-100", "widget", "Widget", "Stock", "10.50"),
		productRow("A-100", "widget-dup", "Widget Dup", "Stock", "99.99"),
		productRow("A-200", "gadget", "Gadget", "Stock", "5"),
	}, nil, nil, diag)
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "A-100", drafts[0].ProductID)
	require.Len(t, drafts[0].ListPrices, 1)
	assert.Equal(t, "USD", drafts[0].ListPrices[0].CurrencyCode)
	assert.True(t, drafts[0].ListPrices[0].Amount.Equal(decimal.RequireFromString("10.50")))
}

func TestSellableItemTransformer_AssignmentsBecomeCategoryAssociations(t *testing.T) {
	transformer := NewSellableItemTransformer("USD", "Retail", zap.NewNop())
	diag := NewDiagnostics()

	categories := []Record{categoryRow("Retail", "1001", "0", "Bikes")}
	assignments := []Record{assignmentRow("A-100", "Retail", "Bikes")}

	drafts, err := transformer.Transform(
		[]Record{productRow("A-100", "bike", "Bike", "Stock", "250")},
		categories, assignments, diag,
	)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	scratch := drafts[0].Scratch
	require.Len(t, scratch.CategoryAssociations, 1)
	// assignments name the display name, the association keys on the natural name
	assert.Equal(t, "1001", scratch.CategoryAssociations[0].CategoryName)
	assert.Equal(t, "Retail", scratch.CategoryAssociations[0].CatalogName)
	require.Len(t, scratch.CatalogAssociations, 1)
	assert.Equal(t, "Retail", scratch.CatalogAssociations[0].Name)
}

func TestSellableItemTransformer_UnknownCategoryFatal(t *testing.T) {
	transformer := NewSellableItemTransformer("USD", "Retail", zap.NewNop())

	_, err := transformer.Transform(
		[]Record{productRow("A-100", "bike", "Bike", "Stock", "250")},
		[]Record{categoryRow("Retail", "1001", "0", "Bikes")},
		[]Record{assignmentRow("A-100", "Retail", "Does Not Exist")},
		NewDiagnostics(),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Does Not Exist")
}

func TestSellableItemTransformer_UnassignedProductFallsBackToDefaultCatalog(t *testing.T) {
	transformer := NewSellableItemTransformer("USD", "Retail", zap.NewNop())
	diag := NewDiagnostics()

	drafts, err := transformer.Transform(
		[]Record{productRow("A-100", "bike", "Bike", "Stock", "250")},
		nil, nil, diag,
	)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	scratch := drafts[0].Scratch
	require.Len(t, scratch.CatalogAssociations, 1)
	assert.Equal(t, "Retail", scratch.CatalogAssociations[0].Name)
	assert.True(t, scratch.CatalogAssociations[0].IsParent)
	assert.Empty(t, scratch.CategoryAssociations)
}

func TestSellableItemTransformer_DefaultCatalogFromFirstCategoryRow(t *testing.T) {
	transformer := NewSellableItemTransformer("USD", "", zap.NewNop())
	diag := NewDiagnostics()

	drafts, err := transformer.Transform(
		[]Record{productRow("A-100", "bike", "Bike", "Stock", "250")},
		[]Record{categoryRow("Outlet", "1001", "0", "Bikes")},
		nil, diag,
	)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Outlet", drafts[0].Scratch.CatalogAssociations[0].Name)
}

func TestSellableItemTransformer_BadPriceFatal(t *testing.T) {
	transformer := NewSellableItemTransformer("USD", "Retail", zap.NewNop())

	_, err := transformer.Transform(
		[]Record{productRow("A-100", "bike", "Bike", "Stock", "twelve")},
		nil, nil, NewDiagnostics(),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A-100")
}
