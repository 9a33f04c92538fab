package dto

import (
	"encoding/json"
	"time"

	"github.com/commercehub/catalog-sync/internal/domain/importrun"
)

// PassStatsResponse carries the outcome counts of one import pass
type PassStatsResponse struct {
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

// ImportRunResponse represents one import run in API responses
type ImportRunResponse struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	Categories    PassStatsResponse `json:"categories"`
	SellableItems PassStatsResponse `json:"sellable_items"`
	Error         string            `json:"error,omitempty"`
	StartedAt     *time.Time        `json:"started_at,omitempty"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ImportRunDetailResponse additionally carries the run's diagnostics
type ImportRunDetailResponse struct {
	ImportRunResponse
	Diagnostics []DiagnosticResponse `json:"diagnostics"`
}

// DiagnosticResponse is one diagnostic message of a run
type DiagnosticResponse struct {
	Level    string `json:"level"`
	EntityID string `json:"entity_id,omitempty"`
	Text     string `json:"text"`
	Error    string `json:"error,omitempty"`
}

// ToImportRunResponse converts a domain run to its API representation
func ToImportRunResponse(run *importrun.Run) ImportRunResponse {
	return ImportRunResponse{
		ID:            run.ID.String(),
		Status:        string(run.Status),
		Categories:    toPassStatsResponse(run.Categories),
		SellableItems: toPassStatsResponse(run.SellableItems),
		Error:         run.Error,
		StartedAt:     run.StartedAt,
		CompletedAt:   run.CompletedAt,
		CreatedAt:     run.CreatedAt,
	}
}

// ToImportRunDetailResponse converts a domain run including its diagnostics
func ToImportRunDetailResponse(run *importrun.Run) ImportRunDetailResponse {
	detail := ImportRunDetailResponse{
		ImportRunResponse: ToImportRunResponse(run),
		Diagnostics:       []DiagnosticResponse{},
	}
	if run.Diagnostics != "" {
		// stored diagnostics are pre-validated JSON; a decode failure just
		// leaves the list empty
		_ = json.Unmarshal([]byte(run.Diagnostics), &detail.Diagnostics)
	}
	return detail
}

// ToImportRunListResponse converts a slice of domain runs
func ToImportRunListResponse(runs []importrun.Run) []ImportRunResponse {
	out := make([]ImportRunResponse, len(runs))
	for i := range runs {
		out[i] = ToImportRunResponse(&runs[i])
	}
	return out
}

func toPassStatsResponse(s importrun.PassStats) PassStatsResponse {
	return PassStatsResponse{
		Fetched:         s.Fetched,
		Drafts:          s.Drafts,
		New:             s.New,
		Changed:         s.Changed,
		Unchanged:       s.Unchanged,
		PersistFailures: s.PersistFailures,
		EdgesApplied:    s.EdgesApplied,
		EdgesRemoved:    s.EdgesRemoved,
		EdgeFailures:    s.EdgeFailures,
	}
}
