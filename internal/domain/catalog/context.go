package catalog

// CatalogContext bundles one catalog with lookups over its persisted
// categories. It is built once per import run per referenced catalog name
// and is read-only afterwards.
type CatalogContext struct {
	CatalogName      string
	Catalog          *Catalog
	CategoriesByName map[string]*Category
}

// NewCatalogContext builds a context from a catalog and its stored categories.
func NewCatalogContext(cat *Catalog, categories []Category) *CatalogContext {
	ctx := &CatalogContext{
		CatalogName:      cat.Name,
		Catalog:          cat,
		CategoriesByName: make(map[string]*Category, len(categories)),
	}
	for i := range categories {
		c := &categories[i]
		ctx.CategoriesByName[c.Name] = c
	}
	return ctx
}

// FindCategoryByName looks up a persisted category by its natural name.
func (c *CatalogContext) FindCategoryByName(name string) (*Category, bool) {
	cat, ok := c.CategoriesByName[name]
	return cat, ok
}
