package importrun

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for import run persistence
type Repository interface {
	// Save creates or updates a run record
	Save(ctx context.Context, run *Run) error

	// FindByID finds a run by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Run, error)

	// FindRecent returns the most recent runs, newest first
	FindRecent(ctx context.Context, limit int) ([]Run, error)
}
