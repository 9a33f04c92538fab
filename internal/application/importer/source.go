package importer

import "context"

// Record is one flat source row, field name to raw string value.
type Record map[string]string

// Get returns the value of a field, empty string when absent.
func (r Record) Get(key string) string {
	return r[key]
}

// Source is the external ERP the import pulls its snapshot from. Every run
// re-fetches the full snapshot; there is no incremental fetch. Each fetch
// fails on transport errors and on empty responses, which aborts the run.
type Source interface {
	FetchCategories(ctx context.Context) ([]Record, error)
	FetchProducts(ctx context.Context) ([]Record, error)
	FetchProductCategoryAssignments(ctx context.Context) ([]Record, error)
}
