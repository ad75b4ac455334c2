// Package ledger defines the entities shared by the reconciliation core:
// Mint-side transactions, Amazon-side orders/shipments/returns, and the
// joined records the reconciler produces.
//
// Amounts are debit-signed throughout: charges and order line items are
// negative, refunds and returns are positive. All monetary comparisons go
// through the money package; nothing here compares floats directly.
package ledger

import "time"

// Synthetic line-item descriptions created during reconciliation.
const (
	// GiftCardDescription marks the synthetic credit line appended when a
	// gift card covered part of an order's charge.
	GiftCardDescription = "Gift Card"

	// BalanceAdjustDescription marks the synthetic line appended when the
	// allocator's greedy fallback cannot settle a transaction exactly.
	BalanceAdjustDescription = "Balance Adjust"
)

// LineItem is a single priced entry of a shipment or return.
// Immutable once created.
type LineItem struct {
	Description string
	Amount      float64
}

// Shipment is one delivery of an order. Amount is the sum of its items,
// maintained by the loader, never recomputed by the core.
type Shipment struct {
	TrackingID string
	Date       time.Time
	Amount     float64
	Items      []LineItem
}

// Clone returns a deep copy of the shipment.
func (s *Shipment) Clone() *Shipment {
	c := *s
	c.Items = append([]LineItem(nil), s.Items...)
	return &c
}

// Order is an Amazon order with one or more shipments. An order whose
// shipments have all been matched is considered fully consumed.
type Order struct {
	OrderID      string
	OrderDate    time.Time
	UsedGiftCard bool
	Shipments    []*Shipment
}

// Clone returns a deep copy of the order and its shipments.
func (o *Order) Clone() *Order {
	c := *o
	c.Shipments = make([]*Shipment, len(o.Shipments))
	for i, s := range o.Shipments {
		c.Shipments[i] = s.Clone()
	}
	return &c
}

// Total returns the sum of the order's shipment amounts. Debit-signed, so
// a purchase order totals negative.
func (o *Order) Total() float64 {
	var total float64
	for _, s := range o.Shipments {
		total += s.Amount
	}
	return total
}

// Child is a pre-existing itemization entry of a Mint transaction. An
// unsplit transaction arrives with a single synthetic child.
type Child struct {
	Description string
	Amount      float64
}

// Transaction is a dated, signed Mint ledger entry. Negative amounts are
// charges, positive amounts are credits/refunds.
type Transaction struct {
	ID       string
	Amount   float64
	Date     time.Time
	Children []Child
}

// Clone returns a deep copy of the transaction.
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.Children = append([]Child(nil), t.Children...)
	return &c
}

// ReturnRecord is an Amazon refund tied to an order. Amount is positive;
// Items carry the debit-signed line items being refunded.
type ReturnRecord struct {
	OrderID    string
	ReturnDate time.Time
	Amount     float64
	Items      []LineItem
}

// Clone returns a deep copy of the return record.
func (r *ReturnRecord) Clone() *ReturnRecord {
	c := *r
	c.Items = append([]LineItem(nil), r.Items...)
	return &c
}

// GiftCardCredit records the uncovered balance identified by a gift-card
// match. Amount is positive. Consulted, but never consumed, by the return
// matcher.
type GiftCardCredit struct {
	OrderID string
	Amount  float64
}

// JoinedItem is one allocated line of a JoinedRecord. TrackingID is empty
// for synthetic items and for items taken from a return.
type JoinedItem struct {
	TrackingID  string
	Description string
	Amount      float64
}

// JoinedRecord pairs one Mint transaction with one order (or return) and
// carries the itemized breakdown to write back. IsUnmodified is true when
// the allocated items reproduce the transaction's existing children
// exactly, so no update is needed.
type JoinedRecord struct {
	TransactionID string
	OrderID       string
	OrderDate     time.Time
	Amount        float64
	Items         []JoinedItem
	IsUnmodified  bool
}

// CloneTransactions deep-copies a transaction slice.
func CloneTransactions(txns []*Transaction) []*Transaction {
	out := make([]*Transaction, len(txns))
	for i, t := range txns {
		out[i] = t.Clone()
	}
	return out
}

// CloneOrders deep-copies an order slice.
func CloneOrders(orders []*Order) []*Order {
	out := make([]*Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}

// CloneReturns deep-copies a return slice.
func CloneReturns(returns []*ReturnRecord) []*ReturnRecord {
	out := make([]*ReturnRecord, len(returns))
	for i, r := range returns {
		out[i] = r.Clone()
	}
	return out
}
