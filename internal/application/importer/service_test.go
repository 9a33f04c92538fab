package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commercehub/catalog-sync/internal/domain/catalog"
	"github.com/commercehub/catalog-sync/internal/domain/importrun"
)

type serviceFixture struct {
	source       *fakeSource
	items        *memItemStore
	catalogs     *memCatalogStore
	associations *memAssociationStore
	runs         *memRunRepository
	service      *Service
}

func newServiceFixture(source *fakeSource) *serviceFixture {
	f := &serviceFixture{
		source:       source,
		items:        newMemItemStore(),
		catalogs:     newMemCatalogStore("Retail"),
		associations: newMemAssociationStore(),
		runs:         newMemRunRepository(),
	}
	applier := NewApplier(NewNoOpTransactionScope(f.items, f.associations), zap.NewNop())
	f.service = NewService(
		source, f.items, f.catalogs, applier, f.runs,
		Config{CurrencyCode: "USD", DefaultCatalogName: "Retail"},
		zap.NewNop(),
	)
	return f
}

func snapshotSource() *fakeSource {
	return &fakeSource{
		categories: []Record{
			categoryRow("Retail", "1001", "0", "Bikes"),
			categoryRow("Retail", "1002", "1001", "Helmets"),
		},
		products: []Record{
			productRow("A-100", "bike", "Bike", "Stock", "250"),
			productRow("A-200", "pump", "Pump", "Stock", "15.50"),
		},
		assignments: []Record{
			assignmentRow("A-100", "Retail", "Bikes"),
		},
	}
}

func TestService_RunImport(t *testing.T) {
	f := newServiceFixture(snapshotSource())

	run, err := f.service.RunImport(context.Background())
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, importrun.StatusCompleted, run.Status)

	assert.Equal(t, 2, run.Categories.Fetched)
	assert.Equal(t, 2, run.Categories.New)
	assert.Equal(t, 2, run.SellableItems.Fetched)
	assert.Equal(t, 2, run.SellableItems.New)
	assert.Zero(t, run.Categories.PersistFailures)
	assert.Zero(t, run.SellableItems.EdgeFailures)

	// both categories and both products landed in storage
	assert.Len(t, f.items.items, 4)

	// the top-level category hangs off the catalog, the child off its parent
	topEdges, err := f.associations.FindByItemID(context.Background(), catalog.CategoryID("Retail", "1001"))
	require.NoError(t, err)
	require.Len(t, topEdges, 1)
	assert.Equal(t, catalog.RelCatalogToCategory, topEdges[0].RelationshipType)

	childEdges, err := f.associations.FindByItemID(context.Background(), catalog.CategoryID("Retail", "1002"))
	require.NoError(t, err)
	require.Len(t, childEdges, 1)
	assert.Equal(t, catalog.RelCategoryToCategory, childEdges[0].RelationshipType)

	// the assigned product sits under its category, the unassigned one under
	// the default catalog
	assigned, err := f.associations.FindByItemID(context.Background(), catalog.SellableItemID("A-100"))
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, catalog.RelCategoryToSellableItem, assigned[0].RelationshipType)

	fallback, err := f.associations.FindByItemID(context.Background(), catalog.SellableItemID("A-200"))
	require.NoError(t, err)
	require.Len(t, fallback, 1)
	assert.Equal(t, catalog.RelCatalogToSellableItem, fallback[0].RelationshipType)

	// the run record was persisted in its terminal state
	saved, err := f.runs.FindByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, importrun.StatusCompleted, saved.Status)
	assert.NotNil(t, saved.CompletedAt)
}

func TestService_RunImport_SecondRunIsAllUnchanged(t *testing.T) {
	f := newServiceFixture(snapshotSource())

	_, err := f.service.RunImport(context.Background())
	require.NoError(t, err)

	run, err := f.service.RunImport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, importrun.StatusCompleted, run.Status)

	assert.Zero(t, run.Categories.New)
	assert.Zero(t, run.Categories.Changed)
	assert.Equal(t, 2, run.Categories.Unchanged)
	assert.Zero(t, run.SellableItems.New)
	assert.Equal(t, 2, run.SellableItems.Unchanged)
}

func TestService_RunImport_ChangedProductIsReapplied(t *testing.T) {
	f := newServiceFixture(snapshotSource())

	_, err := f.service.RunImport(context.Background())
	require.NoError(t, err)

	f.source.products[0] = productRow("A-100", "bike", "Bike", "Stock", "275")

	run, err := f.service.RunImport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.SellableItems.Changed)
	assert.Equal(t, 1, run.SellableItems.Unchanged)

	stored, err := f.items.FindByID(context.Background(), catalog.ItemKindSellableItem, catalog.SellableItemID("A-100"))
	require.NoError(t, err)
	prices := stored.(*catalog.SellableItem).ListPrices
	require.Len(t, prices, 1)
	assert.Equal(t, "275", prices[0].Amount.String())
}

func TestService_RunImport_FetchFailureFailsRun(t *testing.T) {
	f := newServiceFixture(&fakeSource{fetchErr: errors.New("connection refused")})

	run, err := f.service.RunImport(context.Background())
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, importrun.StatusFailed, run.Status)
	assert.Contains(t, run.Error, "connection refused")

	saved, err := f.runs.FindByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, importrun.StatusFailed, saved.Status)
}

func TestService_RunImport_PerItemFailureCompletesWithErrors(t *testing.T) {
	f := newServiceFixture(snapshotSource())
	f.items.failIDs[catalog.SellableItemID("A-200")] = errors.New("disk full")

	run, err := f.service.RunImport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, importrun.StatusCompletedWithError, run.Status)
	assert.Equal(t, 1, run.SellableItems.PersistFailures)

	// the rest of the batch still landed
	_, err = f.items.FindByID(context.Background(), catalog.ItemKindSellableItem, catalog.SellableItemID("A-100"))
	assert.NoError(t, err)
}
