package importer

import (
	"context"
	"strings"
	"sync"

	"github.com/commercehub/catalog-sync/internal/domain/catalog"
	"github.com/commercehub/catalog-sync/internal/domain/importrun"
	"github.com/commercehub/catalog-sync/internal/domain/shared"
	"github.com/google/uuid"
)

// memItemStore is an in-memory catalog.ItemStore with optional per-ID
// failure injection
type memItemStore struct {
	mu      sync.Mutex
	items   map[string]catalog.Item
	failIDs map[string]error
}

func newMemItemStore() *memItemStore {
	return &memItemStore{
		items:   map[string]catalog.Item{},
		failIDs: map[string]error{},
	}
}

func (s *memItemStore) FindByID(_ context.Context, kind catalog.ItemKind, id string) (catalog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || item.Kind() != kind {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (s *memItemStore) FindExisting(_ context.Context, kind catalog.ItemKind, ids []string) ([]catalog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []catalog.Item
	for _, id := range ids {
		if item, ok := s.items[id]; ok && item.Kind() == kind {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *memItemStore) Save(_ context.Context, item catalog.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failIDs[item.Base().ID]; ok {
		return err
	}
	s.items[item.Base().ID] = item
	return nil
}

// memCatalogStore is an in-memory catalog.CatalogStore
type memCatalogStore struct {
	catalogs   map[string]*catalog.Catalog
	categories []catalog.Category
}

func newMemCatalogStore(names ...string) *memCatalogStore {
	s := &memCatalogStore{catalogs: map[string]*catalog.Catalog{}}
	for _, name := range names {
		s.catalogs[name] = catalog.NewCatalog(name)
	}
	return s
}

func (s *memCatalogStore) FindAllCatalogs(context.Context) ([]catalog.Catalog, error) {
	var out []catalog.Catalog
	for _, c := range s.catalogs {
		out = append(out, *c)
	}
	return out, nil
}

func (s *memCatalogStore) FindCatalogByName(_ context.Context, name string) (*catalog.Catalog, error) {
	c, ok := s.catalogs[name]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (s *memCatalogStore) FindCategoriesInCatalog(_ context.Context, catalogName string) ([]catalog.Category, error) {
	var out []catalog.Category
	for _, c := range s.categories {
		if strings.HasPrefix(c.FriendlyID, catalogName+"-") {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memCatalogStore) SaveCatalog(_ context.Context, cat *catalog.Catalog) error {
	s.catalogs[cat.Name] = cat
	return nil
}

// memAssociationStore is an in-memory catalog.AssociationStore
type memAssociationStore struct {
	mu     sync.Mutex
	rows   []catalog.ItemAssociation
	nextID uint
}

func newMemAssociationStore() *memAssociationStore {
	return &memAssociationStore{}
}

func (s *memAssociationStore) Create(_ context.Context, assoc catalog.ItemAssociation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	assoc.ID = s.nextID
	s.rows = append(s.rows, assoc)
	return nil
}

func (s *memAssociationStore) Remove(_ context.Context, itemID, parentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, row := range s.rows {
		if row.ItemID == itemID && row.ParentID == parentID {
			continue
		}
		kept = append(kept, row)
	}
	s.rows = kept
	return nil
}

func (s *memAssociationStore) FindByItemID(_ context.Context, itemID string) ([]catalog.ItemAssociation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []catalog.ItemAssociation
	for _, row := range s.rows {
		if row.ItemID == itemID {
			out = append(out, row)
		}
	}
	return out, nil
}

// memRunRepository is an in-memory importrun.Repository
type memRunRepository struct {
	runs map[uuid.UUID]*importrun.Run
}

func newMemRunRepository() *memRunRepository {
	return &memRunRepository{runs: map[uuid.UUID]*importrun.Run{}}
}

func (r *memRunRepository) Save(_ context.Context, run *importrun.Run) error {
	saved := *run
	r.runs[run.ID] = &saved
	return nil
}

func (r *memRunRepository) FindByID(_ context.Context, id uuid.UUID) (*importrun.Run, error) {
	run, ok := r.runs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return run, nil
}

func (r *memRunRepository) FindRecent(context.Context, int) ([]importrun.Run, error) {
	var out []importrun.Run
	for _, run := range r.runs {
		out = append(out, *run)
	}
	return out, nil
}

// fakeSource serves canned snapshot rows
type fakeSource struct {
	categories  []Record
	products    []Record
	assignments []Record
	fetchErr    error
}

func (s *fakeSource) FetchCategories(context.Context) ([]Record, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.categories, nil
}

func (s *fakeSource) FetchProducts(context.Context) ([]Record, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.products, nil
}

func (s *fakeSource) FetchProductCategoryAssignments(context.Context) ([]Record, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.assignments, nil
}

var (
	_ catalog.ItemStore        = (*memItemStore)(nil)
	_ catalog.CatalogStore     = (*memCatalogStore)(nil)
	_ catalog.AssociationStore = (*memAssociationStore)(nil)
	_ importrun.Repository     = (*memRunRepository)(nil)
	_ Source                   = (*fakeSource)(nil)
)
