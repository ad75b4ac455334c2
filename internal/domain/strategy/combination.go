package strategy

import (
	"sort"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/money"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/subset"
)

// Combination matches the candidate amount against two or more unmatched
// debit transactions whose amounts sum to it. Candidates are pre-sorted
// by date distance from the order, so the ascending-mask subset scan
// tries combinations weighted toward closer dates first.
type Combination struct{}

// NewCombination creates the combination strategy.
func NewCombination() *Combination {
	return &Combination{}
}

func (s *Combination) Name() string { return "combination" }

// Match returns the first qualifying subset of transactions, or nil.
func (s *Combination) Match(candidate float64, order *ledger.Order, _ []*ledger.ReturnRecord, unmatched []*ledger.Transaction) *Result {
	candidates := windowDebits(order.OrderDate, unmatched)
	if len(candidates) < 2 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return dateDistance(candidates[i].Date, order.OrderDate) < dateDistance(candidates[j].Date, order.OrderDate)
	})

	var winner []*ledger.Transaction
	subset.ForEach(candidates, func(members []*ledger.Transaction) bool {
		if len(members) < 2 {
			return true
		}
		amounts := make([]float64, len(members))
		for i, tx := range members {
			amounts[i] = tx.Amount
		}
		if !money.AmountsMatch(money.Total(amounts), candidate) {
			return true
		}
		winner = append([]*ledger.Transaction(nil), members...)
		return false
	})

	if winner == nil {
		return nil
	}
	return &Result{Transactions: winner}
}
