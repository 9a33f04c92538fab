package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/commercehub/catalog-sync/internal/application/pricing"
	"github.com/commercehub/catalog-sync/internal/domain/shared"
)

// PricingHandler exposes live price lookups against the source system
type PricingHandler struct {
	BaseHandler
	pricing *pricing.Service
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(service *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: service}
}

// GetLivePrice fetches the current price of a product straight from the
// source system. The optional quantity query selects the price break.
func (h *PricingHandler) GetLivePrice(c *gin.Context) {
	productID := c.Param("id")

	quantity := decimal.NewFromInt(1)
	if raw := c.Query("quantity"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
			h.BadRequest(c, "quantity must be a positive number")
			return
		}
		quantity = parsed
	}

	quote, err := h.pricing.LivePrice(c.Request.Context(), productID, quantity)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			h.HandleError(c, err)
			return
		}
		h.BadGateway(c, "failed to fetch price from source system")
		return
	}

	h.Success(c, quote)
}

// RegisterRoutes registers all pricing routes
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("/:id/live-price", h.GetLivePrice)
	}
}
