package strategy

import (
	"math"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/money"
)

// GiftCard matches orders flagged as gift-card funded. The ledger charge
// is smaller in magnitude than the shipment total because the card
// covered the remainder, so the strategy looks for a debit above the
// candidate on the signed scale and settles the gap with either a
// pending return or a synthetic gift-card credit line.
type GiftCard struct{}

// NewGiftCard creates the gift-card strategy.
func NewGiftCard() *GiftCard {
	return &GiftCard{}
}

func (s *GiftCard) Name() string { return "giftcard" }

// Match returns the closest qualifying transaction plus the items that
// settle the uncovered balance, or nil.
func (s *GiftCard) Match(candidate float64, order *ledger.Order, pendingReturns []*ledger.ReturnRecord, unmatched []*ledger.Transaction) *Result {
	if !order.UsedGiftCard {
		return nil
	}

	var best *ledger.Transaction
	var bestGap float64 = 999999 // Lower is better

	for _, tx := range windowDebits(order.OrderDate, unmatched) {
		if tx.Amount <= candidate {
			continue
		}
		if gap := math.Abs(tx.Amount - candidate); gap < bestGap {
			best = tx
			bestGap = gap
		}
	}

	if best == nil {
		return nil
	}

	// The uncovered delta, debit-signed. A -55.00 shipment settled by a
	// -40.00 charge leaves giftCardAmount = -15.00.
	giftCardAmount := money.RoundToCents(candidate - best.Amount)

	result := &Result{Transactions: []*ledger.Transaction{best}}

	for _, ret := range pendingReturns {
		if !money.AmountsMatch(ret.Amount, -giftCardAmount) {
			continue
		}
		// Absorb the return: its items enter the pool negated (as
		// credits) so the group can settle against the smaller charge.
		for _, item := range ret.Items {
			result.ExtraItems = append(result.ExtraItems, ledger.LineItem{
				Description: item.Description,
				Amount:      money.RoundToCents(-item.Amount),
			})
		}
		result.ConsumedReturn = ret
		return result
	}

	result.ExtraItems = []ledger.LineItem{{
		Description: ledger.GiftCardDescription,
		Amount:      -giftCardAmount,
	}}
	return result
}
