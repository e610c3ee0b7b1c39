package agents

import (
	"errors"
	"fmt"
)

// ErrOutOfStock is returned by Sell when the seller has nothing left.
var ErrOutOfStock = errors.New("seller out of stock")

// Produce turns the planned quantity into stock, paying the unit cost for
// each unit made.
func (a *Agent) Produce() {
	if a.planned <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	before := a.cash
	a.cash -= float64(a.planned) * a.costPerUnit
	a.stock += a.planned
	a.ledger.Append(Record{
		Kind:       KindProduce,
		Price:      a.costPerUnit,
		CashBefore: before,
		Quantity:   a.planned,
		Group:      a.Group,
	})
}

// Sale describes one unit sold.
type Sale struct {
	Seller      AgentID
	Group       Group
	Price       float64
	StockBefore int
}

// Sell hands one unit to a buyer at the current price. It is called on the
// seller by the buyer and applies as a single exclusive update: the stock
// check, the credit and the debit happen under the seller's lock.
func (a *Agent) Sell() (Sale, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stock <= 0 {
		return Sale{}, fmt.Errorf("agent %d: %w", a.ID, ErrOutOfStock)
	}
	sale := Sale{Seller: a.ID, Group: a.Group, Price: a.price, StockBefore: a.stock}

	a.ledger.Append(Record{
		Kind:       KindSell,
		Price:      a.price,
		CashBefore: a.cash,
		Quantity:   a.stock,
		Group:      a.Group,
	})
	a.cash += a.price
	a.stock--
	return sale, nil
}

// BuyAsNeeded buys at most one unit: from the supplier of the most wanted
// group the agent can afford, using the suppliers found by the last SeeSupply.
// The agent must hold strictly more cash than the price. It reports whether a
// purchase happened.
func (a *Agent) BuyAsNeeded() (Sale, bool) {
	for _, g := range a.Hierarchy().Priority() {
		if int(g) >= len(a.suppliers) || !a.suppliers[g].OK {
			continue
		}
		seller := a.market.Agent(a.suppliers[g].ID)
		if a.Cash() <= seller.Price() {
			continue
		}

		sale, err := seller.Sell()
		if err != nil {
			// Sold out since the supply scan.
			continue
		}

		a.mu.Lock()
		a.ledger.Append(Record{
			Kind:       KindBuy,
			Price:      sale.Price,
			CashBefore: a.cash,
			Quantity:   sale.StockBefore,
			Group:      g,
		})
		a.cash -= sale.Price
		a.hierarchy[g]--
		a.mu.Unlock()

		a.market.RecordContact(a.ID, seller.ID)
		return sale, true
	}
	return Sale{}, false
}
