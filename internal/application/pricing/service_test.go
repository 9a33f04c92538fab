package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commercehub/catalog-sync/internal/domain/shared"
)

type fakePriceSource struct {
	price        decimal.Decimal
	err          error
	lastItem     string
	lastQuantity decimal.Decimal
}

func (s *fakePriceSource) GetCustomerPrice(_ context.Context, itemNumber string, quantity decimal.Decimal) (decimal.Decimal, error) {
	s.lastItem = itemNumber
	s.lastQuantity = quantity
	if s.err != nil {
		return decimal.Zero, s.err
	}
	return s.price, nil
}

func TestService_LivePrice(t *testing.T) {
	source := &fakePriceSource{price: decimal.RequireFromString("129.95")}
	service := NewService(source, "USD", zap.NewNop())

	quote, err := service.LivePrice(context.Background(), "A-100", decimal.NewFromInt(3))
	require.NoError(t, err)

	assert.Equal(t, "A-100", quote.ProductID)
	assert.Equal(t, "USD", quote.CurrencyCode)
	assert.True(t, quote.Amount.Equal(decimal.RequireFromString("129.95")))
	assert.True(t, quote.Quantity.Equal(decimal.NewFromInt(3)))
	assert.False(t, quote.QuotedAt.IsZero())
	assert.Equal(t, "A-100", source.lastItem)
}

func TestService_LivePrice_DefaultsQuantityToOne(t *testing.T) {
	source := &fakePriceSource{price: decimal.NewFromInt(10)}
	service := NewService(source, "USD", zap.NewNop())

	quote, err := service.LivePrice(context.Background(), "A-100", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, quote.Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, source.lastQuantity.Equal(decimal.NewFromInt(1)))
}

func TestService_LivePrice_EmptyProductID(t *testing.T) {
	service := NewService(&fakePriceSource{}, "USD", zap.NewNop())

	_, err := service.LivePrice(context.Background(), "", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestService_LivePrice_SourceError(t *testing.T) {
	source := &fakePriceSource{err: errors.New("upstream down")}
	service := NewService(source, "USD", zap.NewNop())

	_, err := service.LivePrice(context.Background(), "A-100", decimal.NewFromInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A-100")
}
