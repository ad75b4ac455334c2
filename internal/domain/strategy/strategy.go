// Package strategy implements the match strategies that pair a candidate
// amount (the total of one or more shipments of a single order) with
// unmatched Mint transactions.
//
// The set of strategies is closed and ordered: Exact, then Combination,
// then GiftCard. The reconciler runs one strategy across all orders
// before moving to the next, so simple 1:1 matches are claimed everywhere
// before multi-transaction splits, and the gift-card heuristic (least
// certain) only sees whatever transactions remain.
package strategy

import (
	"math"
	"time"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
)

// WindowDays is the span after an order's date within which its charge is
// expected to appear on the ledger.
const WindowDays = 14

// Result is a successful match proposal. Strategies never mutate the
// working pools; the reconciler applies the result and owns all removal.
type Result struct {
	// Transactions that together settle the candidate amount.
	Transactions []*ledger.Transaction

	// ExtraItems are appended to the group's item pool before allocation:
	// either the items of an absorbed pending return, or a single
	// synthetic gift-card line.
	ExtraItems []ledger.LineItem

	// ConsumedReturn is the pending return absorbed by a gift-card match,
	// to be dropped from the pending-returns pool. Nil otherwise.
	ConsumedReturn *ledger.ReturnRecord
}

// Strategy proposes transactions that settle a candidate amount for one
// order. A nil result means no match.
type Strategy interface {
	Name() string
	Match(candidate float64, order *ledger.Order, pendingReturns []*ledger.ReturnRecord, unmatched []*ledger.Transaction) *Result
}

// inWindow reports whether txDate falls within [orderDate, orderDate+14d].
func inWindow(orderDate, txDate time.Time) bool {
	if txDate.Before(orderDate) {
		return false
	}
	return !txDate.After(orderDate.AddDate(0, 0, WindowDays))
}

// dateDistance is the absolute difference between two dates in days.
func dateDistance(a, b time.Time) float64 {
	return math.Abs(a.Sub(b).Hours() / 24)
}

// windowDebits filters unmatched transactions down to debit entries
// inside the order's date window.
func windowDebits(orderDate time.Time, unmatched []*ledger.Transaction) []*ledger.Transaction {
	var out []*ledger.Transaction
	for _, tx := range unmatched {
		if tx.Amount >= 0 {
			continue
		}
		if !inWindow(orderDate, tx.Date) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
