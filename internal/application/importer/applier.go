package importer

import (
	"context"

	"go.uber.org/zap"

	"github.com/commercehub/catalog-sync/internal/domain/catalog"
)

// ApplyStats counts the outcome of a bulk apply.
type ApplyStats struct {
	Persisted       int
	PersistFailures int
	EdgesApplied    int
	EdgesRemoved    int
	EdgeFailures    int
}

// Applier writes classified items and association deltas to storage. Every
// item is saved in its own transaction so one bad record never rolls back the
// rest of the batch.
type Applier struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewApplier creates an Applier.
func NewApplier(scope TransactionScope, logger *zap.Logger) *Applier {
	return &Applier{scope: scope, logger: logger}
}

// PersistItems saves each item in its own transaction. A failed item is
// recorded as an error diagnostic and the batch continues. Diagnostics raised
// while an item is being applied are buffered separately and only merged into
// the batch once that item's outcome is known.
func (a *Applier) PersistItems(ctx context.Context, items []catalog.Item, diag *Diagnostics) ApplyStats {
	var stats ApplyStats
	for _, item := range items {
		buf := NewDiagnostics()
		err := a.scope.Execute(ctx, func(stores TransactionalStores) error {
			return stores.Items().Save(ctx, item)
		})
		if err != nil {
			stats.PersistFailures++
			buf.Error(item.Base().ID, err, "failed to persist %q", item.Base().ID)
			a.logger.Warn("item persist failed",
				zap.String("item_id", item.Base().ID),
				zap.Error(err))
		} else {
			stats.Persisted++
		}
		diag.Append(buf)
	}
	return stats
}

// ApplyAssociations applies the association delta. Each create is preceded by
// a remove of the same item/parent pair, so re-imports never trip the unique
// constraint and a changed edge replaces its predecessor. A failed edge is
// recorded as an error diagnostic against its item and the rest of the delta
// still goes through.
func (a *Applier) ApplyAssociations(ctx context.Context, create, remove []catalog.AssociationEdge, diag *Diagnostics) ApplyStats {
	var stats ApplyStats

	for _, edge := range remove {
		err := a.scope.Execute(ctx, func(stores TransactionalStores) error {
			return stores.Associations().Remove(ctx, edge.ItemID, edge.ParentID)
		})
		if err != nil {
			stats.EdgeFailures++
			diag.Error(edge.ItemID, err, "failed to remove association %q -> %q", edge.ItemID, edge.ParentID)
			continue
		}
		stats.EdgesRemoved++
	}

	for _, edge := range create {
		rel, err := catalog.RelationshipType(edge.ItemID, edge.ParentID)
		if err != nil {
			stats.EdgeFailures++
			diag.Error(edge.ItemID, err, "failed to associate %q -> %q", edge.ItemID, edge.ParentID)
			continue
		}
		assoc := catalog.ItemAssociation{
			ItemID:           edge.ItemID,
			ParentID:         edge.ParentID,
			CatalogID:        edge.CatalogID,
			RelationshipType: rel,
		}
		err = a.scope.Execute(ctx, func(stores TransactionalStores) error {
			if err := stores.Associations().Remove(ctx, edge.ItemID, edge.ParentID); err != nil {
				return err
			}
			return stores.Associations().Create(ctx, assoc)
		})
		if err != nil {
			stats.EdgeFailures++
			diag.Error(edge.ItemID, err, "failed to associate %q -> %q", edge.ItemID, edge.ParentID)
			a.logger.Warn("association apply failed",
				zap.String("item_id", edge.ItemID),
				zap.String("parent_id", edge.ParentID),
				zap.Error(err))
			continue
		}
		stats.EdgesApplied++
	}

	return stats
}
