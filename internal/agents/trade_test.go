package agents

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduceAddsStockAndPaysCost(t *testing.T) {
	m := newFakeMarket([]int{2}, []float64{2})
	a := m.add(cfgAt(0, 0, 0, 100, 3, 4))
	a.costPerUnit = 2
	a.planned = 3

	a.Produce()

	assert.Equal(t, 7, a.Stock())
	assert.Equal(t, 94.0, a.Cash())
	require.Len(t, a.Ledger(), 1)
	assert.Equal(t, Record{Kind: KindProduce, Price: 2, CashBefore: 100, Quantity: 3, Group: 0}, a.Ledger()[0])
}

func TestProduceNothingPlanned(t *testing.T) {
	m := newFakeMarket([]int{2}, []float64{2})
	a := m.add(cfgAt(0, 0, 0, 100, 3, 4))
	a.costPerUnit = 2

	a.Produce()

	assert.Equal(t, 4, a.Stock())
	assert.Equal(t, 100.0, a.Cash())
	assert.Empty(t, a.Ledger())
}

func TestPurchaseMovesExactlyOnePriceAndUnit(t *testing.T) {
	m := newFakeMarket([]int{1, 1}, []float64{1, 1})
	buyer := m.add(cfgAt(0, 0, 0, 20, 2, 0))
	seller := m.add(cfgAt(1, 0, 1, 10, 5, 2))
	m.day = 3

	bought, err := buyer.ShoppingRoutine(false)
	require.NoError(t, err)
	require.True(t, bought)

	assert.Equal(t, 15.0, buyer.Cash())
	assert.Equal(t, 15.0, seller.Cash())
	assert.Equal(t, 1, seller.Stock())
	assert.Equal(t, 0, buyer.Need(1))
	assert.Equal(t, 1, buyer.Need(0))
	assert.Equal(t, []contact{{day: 3, buyer: buyer.ID, seller: seller.ID}}, m.contacts)

	require.Len(t, buyer.Ledger(), 1)
	assert.Equal(t, Record{Kind: KindBuy, Price: 5, CashBefore: 20, Quantity: 2, Group: 1}, buyer.Ledger()[0])
	require.Len(t, seller.Ledger(), 1)
	assert.Equal(t, Record{Kind: KindSell, Price: 5, CashBefore: 10, Quantity: 2, Group: 1}, seller.Ledger()[0])
}

func TestBuyAtMostOnePerCall(t *testing.T) {
	m := newFakeMarket([]int{0, 3, 2}, []float64{1, 1, 1})
	buyer := m.add(cfgAt(0, 0, 0, 100, 2, 0))
	m.add(cfgAt(1, 0, 1, 0, 5, 5))
	m.add(cfgAt(-1, 0, 2, 0, 5, 5))

	bought, err := buyer.ShoppingRoutine(false)
	require.NoError(t, err)
	require.True(t, bought)
	assert.Equal(t, Hierarchy{0, 2, 2}, buyer.Hierarchy())
	assert.Equal(t, 95.0, buyer.Cash())

	// Tie between groups 1 and 2: the lower group goes first.
	buyer.ShoppingRoutine(false)
	assert.Equal(t, Hierarchy{0, 1, 2}, buyer.Hierarchy())
}

func TestNoPurchaseWhenCashDoesNotExceedPrice(t *testing.T) {
	for _, cash := range []float64{3, 5} {
		m := newFakeMarket([]int{0, 2}, []float64{1, 1})
		buyer := m.add(cfgAt(0, 0, 0, cash, 1, 0))
		seller := m.add(cfgAt(1, 0, 1, 10, 5, 3))

		bought, err := buyer.ShoppingRoutine(false)
		require.NoError(t, err)

		assert.False(t, bought, "cash=%v", cash)
		assert.Equal(t, cash, buyer.Cash())
		assert.Equal(t, Hierarchy{0, 2}, buyer.Hierarchy())
		assert.Equal(t, 3, seller.Stock())
		assert.Empty(t, m.contacts)
	}
}

func TestAffordabilityFallsThroughToNextNeed(t *testing.T) {
	m := newFakeMarket([]int{0, 5, 1}, []float64{1, 1, 1})
	buyer := m.add(cfgAt(0, 0, 0, 4, 1, 0))
	m.add(cfgAt(1, 0, 1, 0, 9, 3))
	cheap := m.add(cfgAt(-1, 0, 2, 0, 2, 3))

	buyer.SeeSupply()
	sale, bought := buyer.BuyAsNeeded()
	require.True(t, bought)
	assert.Equal(t, cheap.ID, sale.Seller)
	assert.Equal(t, 2.0, buyer.Cash())
}

func TestSellOutOfStock(t *testing.T) {
	m := newFakeMarket([]int{1}, []float64{1})
	a := m.add(cfgAt(0, 0, 0, 10, 5, 0))

	_, err := a.Sell()
	assert.True(t, errors.Is(err, ErrOutOfStock))
	assert.Equal(t, 10.0, a.Cash())
	assert.Empty(t, a.Ledger())
}

func TestSelfSupplyBuysFromOwnStock(t *testing.T) {
	m := newFakeMarket([]int{1}, []float64{1})
	a := m.add(cfgAt(0, 0, 0, 10, 4, 2))

	bought, err := a.ShoppingRoutine(false)
	require.NoError(t, err)
	require.True(t, bought)

	assert.Equal(t, 10.0, a.Cash(), "paying yourself nets to zero")
	assert.Equal(t, 1, a.Stock())
	assert.Equal(t, 0, a.Need(0))
	kinds := []Kind{}
	for _, r := range a.Ledger() {
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []Kind{KindSell, KindBuy}, kinds)
}

func TestShoppingResetRestoresNeeds(t *testing.T) {
	m := newFakeMarket([]int{0, 2}, []float64{1, 1})
	buyer := m.add(cfgAt(0, 0, 0, 50, 1, 0))
	m.add(cfgAt(1, 0, 1, 0, 5, 3))

	_, err := buyer.ShoppingRoutine(true)
	require.NoError(t, err)

	assert.Equal(t, Hierarchy{0, 2}, buyer.Hierarchy())
	assert.Equal(t, 45.0, buyer.Cash())
}
