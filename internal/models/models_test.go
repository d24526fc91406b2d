package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	sale := int64(9999)

	p := Product{Price: 14999}
	assert.Equal(t, int64(14999), p.EffectivePrice())

	p.SalePrice = &sale
	assert.Equal(t, int64(14999), p.EffectivePrice(), "sale price ignored unless on sale")

	p.OnSale = true
	assert.Equal(t, int64(9999), p.EffectivePrice())
}

func TestStockCap(t *testing.T) {
	p := Product{}
	assert.Equal(t, DefaultStockCap, p.StockCap())

	three := 3
	p.Stock = &three
	assert.Equal(t, 3, p.StockCap())

	zero := 0
	p.Stock = &zero
	assert.Equal(t, DefaultStockCap, p.StockCap())
}

func TestShippingCost(t *testing.T) {
	assert.Equal(t, int64(0), ShippingCost(ShippingFree))
	assert.Equal(t, int64(499), ShippingCost(ShippingStandard))
	assert.Equal(t, int64(999), ShippingCost(ShippingExpress))
	assert.Equal(t, int64(499), ShippingCost("overnight"))
}

func TestValidShipping(t *testing.T) {
	assert.True(t, ValidShipping(ShippingFree))
	assert.True(t, ValidShipping(ShippingStandard))
	assert.True(t, ValidShipping(ShippingExpress))
	assert.False(t, ValidShipping(""))
	assert.False(t, ValidShipping("overnight"))
}
