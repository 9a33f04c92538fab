package importer

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/commercehub/catalog-sync/internal/domain/catalog"
)

// Source record field names for the three snapshot streams.
const (
	fieldCategoryCatalog     = "EcoResCategoryHierarchy_Name"
	fieldCategoryName        = "AxRecId"
	fieldCategoryParent      = "ParentCategory"
	fieldCategoryDisplayName = "Name"

	fieldProductID          = "ItemNumber"
	fieldProductName        = "SearchName"
	fieldProductDisplayName = "ProductName"
	fieldProductTypeOfGood  = "ItemModelGroupId"
	fieldProductListPrice   = "SalesPrice"

	fieldAssignmentProduct  = "ProductNumber"
	fieldAssignmentCatalog  = "ProductCategoryHierarchyName"
	fieldAssignmentCategory = "ProductCategoryName"
)

// noParentCategory is the source sentinel for "no category parent": the row's
// category still belongs to its catalog, as a direct child.
const noParentCategory = "0"

// CategoryTransformer converts raw category rows into deduplicated category
// drafts with populated scratch records.
type CategoryTransformer struct {
	logger *zap.Logger
}

// NewCategoryTransformer creates a category transformer.
func NewCategoryTransformer(logger *zap.Logger) *CategoryTransformer {
	return &CategoryTransformer{logger: logger}
}

// Transform builds one draft per distinct natural key. Core fields come from
// the first row seen for a key; later rows only accumulate associations.
// Duplicate (catalog, parent) pairs are ignored.
func (t *CategoryTransformer) Transform(rows []Record) ([]*catalog.Category, error) {
	drafts := make([]*catalog.Category, 0, len(rows))
	byID := make(map[string]*catalog.Category, len(rows))

	for i, row := range rows {
		catalogName := row.Get(fieldCategoryCatalog)
		name := row.Get(fieldCategoryName)
		if catalogName == "" || name == "" {
			return nil, fmt.Errorf("category row %d is missing %s or %s", i, fieldCategoryCatalog, fieldCategoryName)
		}

		id := catalog.CategoryID(catalogName, name)
		item, ok := byID[id]
		if !ok {
			item = catalog.NewCategory(catalogName, name, row.Get(fieldCategoryDisplayName))
			byID[id] = item
			drafts = append(drafts, item)
		}

		if parent := row.Get(fieldCategoryParent); parent != noParentCategory {
			item.Scratch.AddCategoryAssociation(catalogName, parent)
		}
		item.Scratch.AddCatalogAssociation(catalogName)
	}

	// A catalog the item has no category parent in is the item's direct
	// parent: the category sits at the top level of that catalog.
	for _, item := range drafts {
		for _, assoc := range item.Scratch.CatalogAssociations {
			if !item.Scratch.HasCategoryAssociationInCatalog(assoc.Name) {
				item.Scratch.MarkParentCatalog(assoc.Name)
			}
		}
	}

	t.logger.Debug("transformed category rows",
		zap.Int("rows", len(rows)),
		zap.Int("drafts", len(drafts)),
	)

	return drafts, nil
}

// SellableItemTransformer converts raw product rows into deduplicated
// sellable item drafts, resolving their category assignments against the
// category and assignment snapshots fetched in the same run.
type SellableItemTransformer struct {
	currencyCode       string
	defaultCatalogName string
	logger             *zap.Logger
}

// NewSellableItemTransformer creates a sellable item transformer. currencyCode
// is the source's fixed price currency. defaultCatalogName, when empty, falls
// back to the catalog of the first category row in the snapshot.
func NewSellableItemTransformer(currencyCode, defaultCatalogName string, logger *zap.Logger) *SellableItemTransformer {
	return &SellableItemTransformer{
		currencyCode:       currencyCode,
		defaultCatalogName: defaultCatalogName,
		logger:             logger,
	}
}

// Transform builds one draft per distinct item number. An assignment naming a
// category display name absent from the category snapshot aborts the whole
// run: it signals inconsistent source data. Products without any assignment
// fall back to the default catalog.
func (t *SellableItemTransformer) Transform(
	products, categoryRows, assignmentRows []Record,
	diag *Diagnostics,
) ([]*catalog.SellableItem, error) {
	drafts := make([]*catalog.SellableItem, 0, len(products))
	byID := make(map[string]*catalog.SellableItem, len(products))

	for i, row := range products {
		productID := row.Get(fieldProductID)
		if productID == "" {
			return nil, fmt.Errorf("product row %d is missing %s", i, fieldProductID)
		}

		id := catalog.SellableItemID(productID)
		if _, ok := byID[id]; ok {
			continue
		}

		item := catalog.NewSellableItem(
			productID,
			row.Get(fieldProductName),
			row.Get(fieldProductDisplayName),
			row.Get(fieldProductTypeOfGood),
		)
		price, err := decimal.NewFromString(row.Get(fieldProductListPrice))
		if err != nil {
			return nil, fmt.Errorf("product %q has unparsable list price %q: %w",
				productID, row.Get(fieldProductListPrice), err)
		}
		item.AddListPrice(t.currencyCode, price)

		byID[id] = item
		drafts = append(drafts, item)
	}

	// Category natural names looked up by display name; first occurrence
	// wins, matching the source's own lookup behavior.
	categoriesByDisplayName := make(map[string]Record, len(categoryRows))
	for _, row := range categoryRows {
		display := row.Get(fieldCategoryDisplayName)
		if _, ok := categoriesByDisplayName[display]; !ok {
			categoriesByDisplayName[display] = row
		}
	}

	assignmentsByProduct := make(map[string][]Record, len(assignmentRows))
	for _, row := range assignmentRows {
		product := row.Get(fieldAssignmentProduct)
		assignmentsByProduct[product] = append(assignmentsByProduct[product], row)
	}

	defaultCatalog := t.defaultCatalogName
	if defaultCatalog == "" && len(categoryRows) > 0 {
		defaultCatalog = categoryRows[0].Get(fieldCategoryCatalog)
	}

	for _, item := range drafts {
		assignments := assignmentsByProduct[item.ProductID]
		if len(assignments) == 0 {
			item.Scratch.AddCatalogAssociation(defaultCatalog)
			item.Scratch.MarkParentCatalog(defaultCatalog)
			continue
		}

		for _, assignment := range assignments {
			displayName := assignment.Get(fieldAssignmentCategory)
			categoryRow, ok := categoriesByDisplayName[displayName]
			if !ok {
				return nil, fmt.Errorf("product %q is assigned to category %q that cannot be found",
					item.ProductID, displayName)
			}

			item.Scratch.AddCategoryAssociation(
				assignment.Get(fieldAssignmentCatalog),
				categoryRow.Get(fieldCategoryName),
			)
			diag.Info(item.ProductID, "product %q associating to %q", item.ProductID, displayName)
		}

		for _, catalogName := range item.Scratch.CatalogNames() {
			item.Scratch.AddCatalogAssociation(catalogName)
		}
	}

	t.logger.Debug("transformed product rows",
		zap.Int("rows", len(products)),
		zap.Int("drafts", len(drafts)),
	)

	return drafts, nil
}
