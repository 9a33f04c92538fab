package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/commercehub/catalog-sync/internal/domain/importrun"
	"github.com/commercehub/catalog-sync/internal/infrastructure/scheduler"
	"github.com/commercehub/catalog-sync/internal/interfaces/http/dto"
	"github.com/commercehub/catalog-sync/internal/interfaces/http/middleware"
)

// ImportTriggerer starts an import run on demand.
type ImportTriggerer interface {
	TriggerNow(ctx context.Context) (*importrun.Run, error)
}

// ImportRunHandler exposes the import run surface: trigger a run and browse
// the run history.
type ImportRunHandler struct {
	BaseHandler
	trigger ImportTriggerer
	runs    importrun.Repository
}

// NewImportRunHandler creates a new ImportRunHandler
func NewImportRunHandler(trigger ImportTriggerer, runs importrun.Repository) *ImportRunHandler {
	return &ImportRunHandler{trigger: trigger, runs: runs}
}

// TriggerRun starts an import run and waits for it to finish. Only one run
// executes at a time; a request while one is in flight answers 409.
func (h *ImportRunHandler) TriggerRun(c *gin.Context) {
	run, err := h.trigger.TriggerNow(c.Request.Context())
	if err != nil {
		if errors.Is(err, scheduler.ErrRunInFlight) {
			h.Conflict(c, "an import run is already in progress")
			return
		}
		// the run record carries the failure detail when one was created
		if run != nil {
			h.Error(c, dto.GetHTTPStatus(dto.ErrCodeBadGateway), dto.ErrCodeBadGateway, err.Error())
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.ToImportRunResponse(run))
}

type listRunsQuery struct {
	Limit *int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ListRuns returns the most recent import runs, newest first
func (h *ImportRunHandler) ListRuns(c *gin.Context) {
	var q listRunsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		if details := middleware.ValidationDetails(err); details != nil {
			h.ValidationError(c, details)
			return
		}
		h.BadRequest(c, "limit must be an integer between 1 and 100")
		return
	}

	limit := 20
	if q.Limit != nil {
		limit = *q.Limit
	}

	runs, err := h.runs.FindRecent(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToImportRunListResponse(runs))
}

// GetRun returns one import run including its diagnostics
func (h *ImportRunHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid run ID format")
		return
	}

	run, err := h.runs.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToImportRunDetailResponse(run))
}

// RegisterRoutes registers all import run routes
func (h *ImportRunHandler) RegisterRoutes(rg *gin.RouterGroup) {
	runs := rg.Group("/import/runs")
	{
		runs.POST("", h.TriggerRun)
		runs.GET("", h.ListRuns)
		runs.GET("/:id", h.GetRun)
	}
}
