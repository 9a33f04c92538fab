package importer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/commercehub/catalog-sync/internal/domain/catalog"
	"github.com/commercehub/catalog-sync/internal/domain/importrun"
)

// Config carries the import settings the pipeline needs at run time.
type Config struct {
	// CurrencyCode is the currency list prices are imported under.
	CurrencyCode string
	// DefaultCatalogName receives products the source assigns to no category.
	DefaultCatalogName string
}

// Service orchestrates a full catalog import: fetch, transform, resolve,
// reconcile and apply, first for categories and then for sellable items,
// recording the outcome as an import run.
type Service struct {
	source   Source
	items    catalog.ItemStore
	catalogs catalog.CatalogStore
	applier  *Applier
	runs     importrun.Repository
	cfg      Config
	logger   *zap.Logger

	categoryTransformer *CategoryTransformer
	sellableTransformer *SellableItemTransformer
	resolver            *Resolver
}

// NewService wires an import service from its collaborators.
func NewService(
	source Source,
	items catalog.ItemStore,
	catalogs catalog.CatalogStore,
	applier *Applier,
	runs importrun.Repository,
	cfg Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		source:              source,
		items:               items,
		catalogs:            catalogs,
		applier:             applier,
		runs:                runs,
		cfg:                 cfg,
		logger:              logger,
		categoryTransformer: NewCategoryTransformer(logger),
		sellableTransformer: NewSellableItemTransformer(cfg.CurrencyCode, cfg.DefaultCatalogName, logger),
		resolver:            NewResolver(catalogs, logger),
	}
}

// RunImport executes one import run end to end. The returned run record is
// persisted in every outcome; the error reports batch-fatal failures only.
func (s *Service) RunImport(ctx context.Context) (*importrun.Run, error) {
	run := importrun.NewRun()
	if err := run.Start(); err != nil {
		return nil, err
	}
	if err := s.runs.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record import run: %w", err)
	}

	s.logger.Info("import run started", zap.String("run_id", run.ID.String()))

	diag := NewDiagnostics()
	catStats, itemStats, err := s.execute(ctx, diag)
	if err != nil {
		s.logger.Error("import run failed", zap.String("run_id", run.ID.String()), zap.Error(err))
		if failErr := run.Fail(err); failErr != nil {
			return run, failErr
		}
		run.Categories = catStats
		run.SellableItems = itemStats
		if dErr := run.SetDiagnostics(diag.Messages()); dErr != nil {
			s.logger.Warn("failed to serialize diagnostics", zap.Error(dErr))
		}
		if saveErr := s.runs.Save(ctx, run); saveErr != nil {
			s.logger.Error("failed to record failed run", zap.Error(saveErr))
		}
		return run, err
	}

	if err := run.Complete(catStats, itemStats, diag.HasErrors()); err != nil {
		return run, err
	}
	if err := run.SetDiagnostics(diag.Messages()); err != nil {
		s.logger.Warn("failed to serialize diagnostics", zap.Error(err))
	}
	if err := s.runs.Save(ctx, run); err != nil {
		return run, fmt.Errorf("failed to record import run: %w", err)
	}

	s.logger.Info("import run finished",
		zap.String("run_id", run.ID.String()),
		zap.String("status", string(run.Status)),
		zap.Int("categories_new", catStats.New),
		zap.Int("categories_changed", catStats.Changed),
		zap.Int("items_new", itemStats.New),
		zap.Int("items_changed", itemStats.Changed),
	)
	return run, nil
}

func (s *Service) execute(ctx context.Context, diag *Diagnostics) (importrun.PassStats, importrun.PassStats, error) {
	var catStats, itemStats importrun.PassStats

	categoryRows, err := s.source.FetchCategories(ctx)
	if err != nil {
		return catStats, itemStats, fmt.Errorf("failed to fetch categories: %w", err)
	}
	productRows, err := s.source.FetchProducts(ctx)
	if err != nil {
		return catStats, itemStats, fmt.Errorf("failed to fetch products: %w", err)
	}
	assignmentRows, err := s.source.FetchProductCategoryAssignments(ctx)
	if err != nil {
		return catStats, itemStats, fmt.Errorf("failed to fetch product category assignments: %w", err)
	}

	categories, err := s.categoryTransformer.Transform(categoryRows)
	if err != nil {
		return catStats, itemStats, err
	}
	catStats, err = s.runPass(ctx, catalog.ItemKindCategory, categoryItems(categories), categories, diag)
	catStats.Fetched = len(categoryRows)
	if err != nil {
		return catStats, itemStats, err
	}

	products, err := s.sellableTransformer.Transform(productRows, categoryRows, assignmentRows, diag)
	if err != nil {
		return catStats, itemStats, err
	}
	itemStats, err = s.runPass(ctx, catalog.ItemKindSellableItem, sellableItems(products), categories, diag)
	itemStats.Fetched = len(productRows)
	if err != nil {
		return catStats, itemStats, err
	}

	return catStats, itemStats, nil
}

// runPass pushes one kind of draft through resolve, classify and apply.
// inBatch carries the run's category drafts so category parents resolve
// within the batch.
func (s *Service) runPass(
	ctx context.Context,
	kind catalog.ItemKind,
	drafts []catalog.Item,
	inBatch []*catalog.Category,
	diag *Diagnostics,
) (importrun.PassStats, error) {
	stats := importrun.PassStats{Drafts: len(drafts)}

	if err := s.resolver.Resolve(ctx, drafts, inBatch, diag); err != nil {
		return stats, err
	}

	ids := make([]string, 0, len(drafts))
	for _, d := range drafts {
		ids = append(ids, d.Base().ID)
	}
	existing, err := s.items.FindExisting(ctx, kind, ids)
	if err != nil {
		return stats, fmt.Errorf("failed to load existing %s records: %w", kind, err)
	}

	classification := Classify(drafts, existing, identityComparerFor(kind), contentComparerFor(kind))
	stats.New = len(classification.New)
	stats.Changed = len(classification.Changed)
	stats.Unchanged = len(classification.Unchanged)

	persistStats := s.applier.PersistItems(ctx, classification.Apply(), diag)
	stats.PersistFailures = persistStats.PersistFailures

	edgeStats := s.applier.ApplyAssociations(ctx, classification.EdgesToCreate, classification.EdgesToRemove, diag)
	stats.EdgesApplied = edgeStats.EdgesApplied
	stats.EdgesRemoved = edgeStats.EdgesRemoved
	stats.EdgeFailures = edgeStats.EdgeFailures

	s.logger.Info("import pass finished",
		zap.String("kind", string(kind)),
		zap.Int("drafts", stats.Drafts),
		zap.Int("new", stats.New),
		zap.Int("changed", stats.Changed),
		zap.Int("unchanged", stats.Unchanged),
		zap.Int("persist_failures", stats.PersistFailures),
		zap.Int("edges_applied", stats.EdgesApplied),
		zap.Int("edges_removed", stats.EdgesRemoved),
		zap.Int("edge_failures", stats.EdgeFailures),
	)
	return stats, nil
}

func identityComparerFor(kind catalog.ItemKind) catalog.Comparer {
	if kind == catalog.ItemKindSellableItem {
		return catalog.NewSellableItemComparer(catalog.ByIdentity)
	}
	return catalog.NewCategoryComparer(catalog.ByIdentity)
}

func contentComparerFor(kind catalog.ItemKind) catalog.Comparer {
	if kind == catalog.ItemKindSellableItem {
		return catalog.NewSellableItemComparer(catalog.ByContent)
	}
	return catalog.NewCategoryComparer(catalog.ByContent)
}

func categoryItems(in []*catalog.Category) []catalog.Item {
	out := make([]catalog.Item, len(in))
	for i, c := range in {
		out[i] = c
	}
	return out
}

func sellableItems(in []*catalog.SellableItem) []catalog.Item {
	out := make([]catalog.Item, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
