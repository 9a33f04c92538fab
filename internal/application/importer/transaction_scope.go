package importer

import (
	"context"

	"github.com/commercehub/catalog-sync/internal/domain/catalog"
)

// TransactionScope provides transactional access to catalog stores.
// When a function is executed within a transaction scope, all store operations
// are part of the same database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(stores TransactionalStores) error) error
}

// TransactionalStores provides access to the catalog stores within a
// transaction. All stores returned share the same underlying database
// transaction.
type TransactionalStores interface {
	// Items returns the catalog item store scoped to the current transaction.
	Items() catalog.ItemStore
	// Associations returns the association store scoped to the current transaction.
	Associations() catalog.AssociationStore
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	items        catalog.ItemStore
	associations catalog.AssociationStore
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given stores.
func NewNoOpTransactionScope(items catalog.ItemStore, associations catalog.AssociationStore) *NoOpTransactionScope {
	return &NoOpTransactionScope{items: items, associations: associations}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(stores TransactionalStores) error) error {
	return fn(s)
}

// Items returns the catalog item store.
func (s *NoOpTransactionScope) Items() catalog.ItemStore {
	return s.items
}

// Associations returns the association store.
func (s *NoOpTransactionScope) Associations() catalog.AssociationStore {
	return s.associations
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalStores = (*NoOpTransactionScope)(nil)
