package persistence

import (
	"context"

	"gorm.io/gorm"

	appimporter "github.com/commercehub/catalog-sync/internal/application/importer"
	"github.com/commercehub/catalog-sync/internal/domain/catalog"
)

// GormTransactionScope implements the importer TransactionScope using GORM
// transactions. It provides atomic execution of multiple store operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(stores appimporter.TransactionalStores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stores := &gormTransactionalStores{tx: tx}
		return fn(stores)
	})
}

// gormTransactionalStores provides access to all stores within a transaction.
type gormTransactionalStores struct {
	tx *gorm.DB
}

// Items returns the catalog item store scoped to the current transaction.
func (s *gormTransactionalStores) Items() catalog.ItemStore {
	return NewGormItemStore(s.tx)
}

// Associations returns the association store scoped to the current transaction.
func (s *gormTransactionalStores) Associations() catalog.AssociationStore {
	return NewGormAssociationStore(s.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appimporter.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalStores implements TransactionalStores
var _ appimporter.TransactionalStores = (*gormTransactionalStores)(nil)
