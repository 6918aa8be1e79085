package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartTotals(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(320000)},
			{ProductID: 2, Quantity: 1, UnitPrice: decimal.NewFromInt(85000)},
		},
	}

	assert.Equal(t, 3, cart.TotalItems())
	assert.True(t, cart.TotalAmount().Equal(decimal.NewFromInt(725000)))
}

func TestCartTotalsEmpty(t *testing.T) {
	cart := &Cart{}
	assert.Equal(t, 0, cart.TotalItems())
	assert.True(t, cart.TotalAmount().IsZero())
}

func TestFindItem(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ProductID: 7, Quantity: 1, UnitPrice: decimal.NewFromInt(1000)},
		},
	}

	item := cart.FindItem(7)
	assert.NotNil(t, item)
	assert.Equal(t, uint(7), item.ProductID)

	// 返回指针，修改应反映到购物车上
	item.Quantity = 5
	assert.Equal(t, 5, cart.Items[0].Quantity)

	assert.Nil(t, cart.FindItem(99))
}

func TestCartItemTotalPrice(t *testing.T) {
	item := &CartItem{Quantity: 3, UnitPrice: decimal.NewFromInt(42000)}
	assert.True(t, item.TotalPrice().Equal(decimal.NewFromInt(126000)))
}
