package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/commercehub/catalog-sync/internal/domain/catalog"
	"github.com/commercehub/catalog-sync/internal/domain/shared"
)

// Resolver turns the name-based associations accumulated in scratch records
// into surrogate-ID relationship lists and concrete association edges, using
// the authoritative catalog set in storage.
type Resolver struct {
	catalogs catalog.CatalogStore
	logger   *zap.Logger
}

// NewResolver creates a resolver backed by the given catalog store.
func NewResolver(catalogs catalog.CatalogStore, logger *zap.Logger) *Resolver {
	return &Resolver{catalogs: catalogs, logger: logger}
}

// Resolve runs catalog resolution then category resolution over all drafts.
// inBatch lists the category drafts of the current run so parent/child
// relationships between just-imported categories resolve without a round
// trip to storage; it is nil for the sellable item pass.
func (r *Resolver) Resolve(ctx context.Context, items []catalog.Item, inBatch []*catalog.Category, diag *Diagnostics) error {
	if err := r.resolveCatalogs(ctx, items, diag); err != nil {
		return err
	}
	return r.resolveCategories(ctx, items, inBatch, diag)
}

// resolveCatalogs resolves every catalog association to the catalog's
// surrogate ID. An association naming a catalog absent from storage is
// dropped with a warning. Parent-catalog associations additionally yield a
// top-level association edge.
func (r *Resolver) resolveCatalogs(ctx context.Context, items []catalog.Item, diag *Diagnostics) error {
	all, err := r.catalogs.FindAllCatalogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}
	byName := make(map[string]*catalog.Catalog, len(all))
	for i := range all {
		byName[all[i].Name] = &all[i]
	}

	for _, item := range items {
		scratch := item.ScratchRecord()
		if scratch == nil {
			continue
		}
		base := item.Base()

		var catalogList, parentCatalogList []string
		for _, assoc := range scratch.CatalogAssociations {
			cat, ok := byName[assoc.Name]
			if !ok {
				diag.Warn(base.ID, "item %q attempting import into catalog %q which doesn't exist", base.ID, assoc.Name)
				continue
			}

			catalogList = append(catalogList, cat.SurrogateID)
			if assoc.IsParent {
				parentCatalogList = append(parentCatalogList, cat.SurrogateID)
				scratch.EdgesToCreate = append(scratch.EdgesToCreate, catalog.AssociationEdge{
					ItemID:            base.ID,
					CatalogID:         cat.ID,
					ParentID:          cat.ID,
					ParentSurrogateID: cat.SurrogateID,
				})
			}
		}

		base.CatalogToEntityList = strings.Join(catalogList, catalog.ListSeparator)
		base.ParentCatalogList = strings.Join(parentCatalogList, catalog.ListSeparator)
	}

	return nil
}

// resolveCategories builds one CatalogContext per distinct referenced catalog
// name and resolves every category association through it, falling back to
// the in-batch drafts. A referenced catalog missing from storage is fatal: a
// resolution context cannot be built for it.
func (r *Resolver) resolveCategories(ctx context.Context, items []catalog.Item, inBatch []*catalog.Category, diag *Diagnostics) error {
	contexts := make(map[string]*catalog.CatalogContext)
	for _, item := range items {
		scratch := item.ScratchRecord()
		if scratch == nil {
			continue
		}
		for _, assoc := range scratch.CategoryAssociations {
			if _, ok := contexts[assoc.CatalogName]; ok {
				continue
			}
			cctx, err := r.buildContext(ctx, assoc.CatalogName)
			if err != nil {
				return err
			}
			contexts[assoc.CatalogName] = cctx
		}
	}

	inBatchByName := make(map[string]*catalog.Category, len(inBatch))
	for _, c := range inBatch {
		if _, ok := inBatchByName[c.Name]; !ok {
			inBatchByName[c.Name] = c
		}
	}

	for _, item := range items {
		scratch := item.ScratchRecord()
		if scratch == nil {
			continue
		}
		base := item.Base()

		var categoryList []string
		for _, assoc := range scratch.CategoryAssociations {
			cctx := contexts[assoc.CatalogName]

			var parentID, parentSurrogateID string
			if parent, ok := cctx.FindCategoryByName(assoc.CategoryName); ok {
				parentID = parent.ID
				parentSurrogateID = parent.SurrogateID
			} else if draft, ok := inBatchByName[assoc.CategoryName]; ok {
				parentID = draft.ID
				parentSurrogateID = draft.SurrogateID
			} else {
				diag.Warn(base.ID, "item %q attempting import into category %q which doesn't exist", base.ID, assoc.CategoryName)
				continue
			}

			categoryList = append(categoryList, parentSurrogateID)
			scratch.EdgesToCreate = append(scratch.EdgesToCreate, catalog.AssociationEdge{
				ItemID:            base.ID,
				CatalogID:         cctx.Catalog.ID,
				ParentID:          parentID,
				ParentSurrogateID: parentSurrogateID,
			})
		}

		base.ParentCategoryList = strings.Join(categoryList, catalog.ListSeparator)
	}

	return nil
}

func (r *Resolver) buildContext(ctx context.Context, catalogName string) (*catalog.CatalogContext, error) {
	cat, err := r.catalogs.FindCatalogByName(ctx, catalogName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("catalog %q used as a resolution context was not found", catalogName)
		}
		return nil, fmt.Errorf("failed to load catalog %q: %w", catalogName, err)
	}

	categories, err := r.catalogs.FindCategoriesInCatalog(ctx, catalogName)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories of catalog %q: %w", catalogName, err)
	}

	r.logger.Debug("built catalog context",
		zap.String("catalog", catalogName),
		zap.Int("categories", len(categories)),
	)

	return catalog.NewCatalogContext(cat, categories), nil
}
