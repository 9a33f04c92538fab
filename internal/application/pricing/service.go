package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/commercehub/catalog-sync/internal/domain/shared"
)

// PriceSource answers point price queries against the source system.
type PriceSource interface {
	// GetCustomerPrice returns the current sales price for one item number at
	// the given quantity.
	GetCustomerPrice(ctx context.Context, itemNumber string, quantity decimal.Decimal) (decimal.Decimal, error)
}

// Quote is a point-in-time price answer for one product.
type Quote struct {
	ProductID    string          `json:"product_id"`
	CurrencyCode string          `json:"currency_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
	QuotedAt     time.Time       `json:"quoted_at"`
}

// Service exposes live price lookups against the source system, bypassing the
// imported snapshot. The imported list price can lag a run behind; this path
// asks the source directly.
type Service struct {
	source       PriceSource
	currencyCode string
	logger       *zap.Logger
}

// NewService creates a pricing service.
func NewService(source PriceSource, currencyCode string, logger *zap.Logger) *Service {
	return &Service{source: source, currencyCode: currencyCode, logger: logger}
}

// LivePrice fetches the current price for a product. A non-positive quantity
// is treated as one unit.
func (s *Service) LivePrice(ctx context.Context, productID string, quantity decimal.Decimal) (*Quote, error) {
	if productID == "" {
		return nil, shared.ErrInvalidInput
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		quantity = decimal.NewFromInt(1)
	}

	amount, err := s.source.GetCustomerPrice(ctx, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price for %q: %w", productID, err)
	}

	s.logger.Debug("live price fetched",
		zap.String("product_id", productID),
		zap.String("amount", amount.String()),
	)

	return &Quote{
		ProductID:    productID,
		CurrencyCode: s.currencyCode,
		Quantity:     quantity,
		Amount:       amount,
		QuotedAt:     time.Now(),
	}, nil
}
