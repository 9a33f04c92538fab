package importrun

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/commercehub/catalog-sync/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the status of an import run
type Status string

const (
	StatusPending            Status = "pending"
	StatusRunning            Status = "running"
	StatusCompleted          Status = "completed"
	StatusCompletedWithError Status = "completed_with_errors"
	StatusFailed             Status = "failed"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusCompletedWithError, StatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true if this is a terminal state
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCompletedWithError || s == StatusFailed
}

// PassStats captures the outcome counts of one import pass (categories or
// sellable items).
type PassStats struct {
	Fetched         int `json:"fetched"`
	Drafts          int `json:"drafts"`
	New             int `json:"new"`
	Changed         int `json:"changed"`
	Unchanged       int `json:"unchanged"`
	PersistFailures int `json:"persist_failures"`
	EdgesApplied    int `json:"edges_applied"`
	EdgesRemoved    int `json:"edges_removed"`
	EdgeFailures    int `json:"edge_failures"`
}

// Run tracks one execution of the catalog import, including its diagnostic
// messages, for the run history surface.
type Run struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Status        Status     `gorm:"type:varchar(30);not null;index" json:"status"`
	Categories    PassStats  `gorm:"serializer:json;type:jsonb" json:"categories"`
	SellableItems PassStats  `gorm:"serializer:json;type:jsonb" json:"sellable_items"`
	Diagnostics   string     `gorm:"type:jsonb" json:"-"`
	Error         string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName returns the table name for GORM
func (Run) TableName() string {
	return "import_runs"
}

// NewRun creates a pending import run record
func NewRun() *Run {
	now := time.Now()
	return &Run{
		ID:        uuid.New(),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Start marks the run as executing
func (r *Run) Start() error {
	if r.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start run from state: %s", r.Status))
	}
	now := time.Now()
	r.Status = StatusRunning
	r.StartedAt = &now
	r.UpdatedAt = now
	return nil
}

// Complete records the final pass statistics. A run with per-item failures
// terminates as completed_with_errors, not failed: partial success is a
// valid terminal state.
func (r *Run) Complete(categories, sellableItems PassStats, hadErrors bool) error {
	if r.Status != StatusRunning {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete run from state: %s", r.Status))
	}
	r.Categories = categories
	r.SellableItems = sellableItems
	r.Status = StatusCompleted
	if hadErrors {
		r.Status = StatusCompletedWithError
	}
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
	return nil
}

// Fail marks the run as aborted by a batch-fatal error
func (r *Run) Fail(err error) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail run from terminal state: %s", r.Status))
	}
	r.Status = StatusFailed
	if err != nil {
		r.Error = err.Error()
	}
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
	return nil
}

// SetDiagnostics stores the run's diagnostic messages as JSON
func (r *Run) SetDiagnostics(messages any) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}
	r.Diagnostics = string(data)
	return nil
}
