package agents

import "fmt"

// Kind classifies a ledger record.
type Kind int8

const (
	KindSell    Kind = -1
	KindProduce Kind = 0
	KindBuy     Kind = 1
)

func (k Kind) String() string {
	switch k {
	case KindSell:
		return "sell"
	case KindProduce:
		return "produce"
	case KindBuy:
		return "buy"
	default:
		return fmt.Sprintf("kind(%d)", int8(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "sell":
		*k = KindSell
	case "produce":
		*k = KindProduce
	case "buy":
		*k = KindBuy
	default:
		return fmt.Errorf("unknown ledger kind %q", b)
	}
	return nil
}

// Record is one cash or stock affecting event.
//
// Price is the unit price for sales and purchases and the unit cost for
// production. Quantity is the number produced for production records and the
// seller's stock before the transaction otherwise.
type Record struct {
	Kind       Kind    `json:"kind"`
	Price      float64 `json:"price"`
	CashBefore float64 `json:"cash_before"`
	Quantity   int     `json:"quantity"`
	Group      Group   `json:"group"`
}

func (r Record) String() string {
	return fmt.Sprintf("%s g=%d price=%.4f cash_before=%.4f qty=%d",
		r.Kind, r.Group, r.Price, r.CashBefore, r.Quantity)
}

// Ledger is an append-only sequence of records.
type Ledger struct {
	records []Record
}

// Append adds a record to the end of the ledger.
func (l *Ledger) Append(r Record) {
	l.records = append(l.records, r)
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Records returns a copy of all records in order.
func (l *Ledger) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Tail returns a copy of the last n records.
func (l *Ledger) Tail(n int) []Record {
	if n <= 0 {
		return nil
	}
	start := max(len(l.records)-n, 0)
	out := make([]Record, len(l.records)-start)
	copy(out, l.records[start:])
	return out
}
