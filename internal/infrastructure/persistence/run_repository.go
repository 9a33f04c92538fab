package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/commercehub/catalog-sync/internal/domain/importrun"
	"github.com/commercehub/catalog-sync/internal/domain/shared"
)

// GormRunRepository implements importrun.Repository using GORM
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GormRunRepository
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// Save creates or updates an import run record
func (r *GormRunRepository) Save(ctx context.Context, run *importrun.Run) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(run).Error
}

// FindByID finds an import run by ID
func (r *GormRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*importrun.Run, error) {
	var run importrun.Run
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindRecent returns the most recently created runs, newest first
func (r *GormRunRepository) FindRecent(ctx context.Context, limit int) ([]importrun.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []importrun.Run
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// Ensure GormRunRepository implements Repository
var _ importrun.Repository = (*GormRunRepository)(nil)
