package catalog

import "context"

// ItemStore defines persistence for importable catalog items.
type ItemStore interface {
	// FindByID finds an item of the given kind by its canonical ID.
	// Returns shared.ErrNotFound when absent.
	FindByID(ctx context.Context, kind ItemKind, id string) (Item, error)

	// FindExisting bulk-fetches items of the given kind by canonical IDs.
	// Missing IDs are simply absent from the result.
	FindExisting(ctx context.Context, kind ItemKind, ids []string) ([]Item, error)

	// Save creates or updates an item (source wins on conflict).
	Save(ctx context.Context, item Item) error
}

// CatalogStore defines lookups over the authoritative catalog set and the
// categories persisted within each catalog.
type CatalogStore interface {
	// FindAllCatalogs returns every catalog in storage.
	FindAllCatalogs(ctx context.Context) ([]Catalog, error)

	// FindCatalogByName finds a catalog by name. Returns shared.ErrNotFound
	// when absent.
	FindCatalogByName(ctx context.Context, name string) (*Catalog, error)

	// FindCategoriesInCatalog returns the persisted categories whose
	// friendly ID places them in the named catalog.
	FindCategoriesInCatalog(ctx context.Context, catalogName string) ([]Category, error)

	// SaveCatalog creates or updates a catalog.
	SaveCatalog(ctx context.Context, cat *Catalog) error
}

// AssociationStore defines persistence for parent/child association edges.
type AssociationStore interface {
	// Create persists one association row.
	Create(ctx context.Context, assoc ItemAssociation) error

	// Remove deletes the association between an item and a parent. Removing
	// an absent association is not an error.
	Remove(ctx context.Context, itemID, parentID string) error

	// FindByItemID returns all stored associations for an item.
	FindByItemID(ctx context.Context, itemID string) ([]ItemAssociation, error)
}
