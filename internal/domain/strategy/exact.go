package strategy

import (
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/money"
)

// Exact matches the candidate amount against a single unmatched debit
// transaction. When several qualify, the one dated closest to the order
// wins; earlier pool position breaks ties.
type Exact struct{}

// NewExact creates the exact-match strategy.
func NewExact() *Exact {
	return &Exact{}
}

func (s *Exact) Name() string { return "exact" }

// Match returns the single best matching transaction, or nil.
func (s *Exact) Match(candidate float64, order *ledger.Order, _ []*ledger.ReturnRecord, unmatched []*ledger.Transaction) *Result {
	var best *ledger.Transaction
	var bestDistance float64 = 999999 // Lower is better

	for _, tx := range windowDebits(order.OrderDate, unmatched) {
		if !money.AmountsMatch(tx.Amount, candidate) {
			continue
		}
		if d := dateDistance(tx.Date, order.OrderDate); d < bestDistance {
			best = tx
			bestDistance = d
		}
	}

	if best == nil {
		return nil
	}
	return &Result{Transactions: []*ledger.Transaction{best}}
}
