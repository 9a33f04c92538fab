package catalog

import "strings"

// CatalogAssociation records that an item was seen in a catalog. IsParent
// marks the catalog itself as the item's parent (top-level placement).
type CatalogAssociation struct {
	Name     string
	IsParent bool
}

// CategoryAssociation records that an item was declared a child of a category
// within a catalog, by source names. It is resolved to surrogate IDs later.
type CategoryAssociation struct {
	CatalogName  string
	CategoryName string
}

// ImportScratch is the transient per-draft working state built during
// transformation and consumed during resolution. It never reaches storage:
// drafts are stripped before the bulk apply runs.
type ImportScratch struct {
	CatalogAssociations  []CatalogAssociation
	CategoryAssociations []CategoryAssociation
	EdgesToCreate        []AssociationEdge
	EdgesToRemove        []AssociationEdge
}

// NewImportScratch creates an empty scratch record.
func NewImportScratch() *ImportScratch {
	return &ImportScratch{}
}

// AddCatalogAssociation records a catalog for the item. Duplicate names are
// ignored; it reports whether the association was added.
func (s *ImportScratch) AddCatalogAssociation(name string) bool {
	for _, a := range s.CatalogAssociations {
		if a.Name == name {
			return false
		}
	}
	s.CatalogAssociations = append(s.CatalogAssociations, CatalogAssociation{Name: name})
	return true
}

// AddCategoryAssociation records a (catalog, category) pair for the item.
// Duplicate pairs are ignored; it reports whether the association was added.
func (s *ImportScratch) AddCategoryAssociation(catalogName, categoryName string) bool {
	for _, a := range s.CategoryAssociations {
		if a.CatalogName == catalogName && a.CategoryName == categoryName {
			return false
		}
	}
	s.CategoryAssociations = append(s.CategoryAssociations, CategoryAssociation{
		CatalogName:  catalogName,
		CategoryName: categoryName,
	})
	return true
}

// MarkParentCatalog flags the named catalog association as the item's parent.
func (s *ImportScratch) MarkParentCatalog(name string) {
	for i := range s.CatalogAssociations {
		if s.CatalogAssociations[i].Name == name {
			s.CatalogAssociations[i].IsParent = true
			return
		}
	}
}

// HasCategoryAssociationInCatalog reports whether the item has any category
// association within the named catalog.
func (s *ImportScratch) HasCategoryAssociationInCatalog(catalogName string) bool {
	for _, a := range s.CategoryAssociations {
		if a.CatalogName == catalogName {
			return true
		}
	}
	return false
}

// CatalogNames returns the distinct catalog names referenced by category
// associations, preserving first-seen order.
func (s *ImportScratch) CatalogNames() []string {
	var names []string
	for _, a := range s.CategoryAssociations {
		found := false
		for _, n := range names {
			if strings.EqualFold(n, a.CatalogName) {
				found = true
				break
			}
		}
		if !found {
			names = append(names, a.CatalogName)
		}
	}
	return names
}
