package reconciler

import (
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/allocator"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/money"
)

// matchReturns is the second pass: leftover returns are paired against
// leftover transactions of any sign, either directly by amount or net of
// a previously recorded gift-card credit.
//
// Credits are looked up by amount alone, not by order id, and stay in
// the credit pool after use, so one credit can satisfy several returns.
func (r *Reconciler) matchReturns(state *runState) {
	for i := 0; i < len(state.returns); {
		ret := state.returns[i]

		tx, credit := r.findReturnMatch(state, ret)
		if tx == nil {
			i++
			continue
		}

		items := make([]ledger.JoinedItem, 0, len(ret.Items)+1)
		for _, item := range ret.Items {
			items = append(items, ledger.JoinedItem{
				Description: item.Description,
				Amount:      -item.Amount,
			})
		}
		if credit != nil {
			items = append(items, ledger.JoinedItem{
				Description: ledger.GiftCardDescription,
				Amount:      money.RoundToCents(-credit.Amount),
			})
		}

		record := &ledger.JoinedRecord{
			TransactionID: tx.ID,
			OrderID:       ret.OrderID,
			OrderDate:     ret.ReturnDate,
			Amount:        tx.Amount,
			Items:         items,
			IsUnmodified:  allocator.IsUnmodified(items, tx.Children),
		}
		state.records = append(state.records, record)
		state.txns = removeTransaction(state.txns, tx)
		state.returns = removeReturn(state.returns, ret)

		r.logger.Debug("Joined return",
			"order_id", ret.OrderID,
			"transaction_id", tx.ID,
			"amount", tx.Amount,
			"gift_card", credit != nil,
		)
		// Pool shrank; rescan from the same index.
	}
}

// findReturnMatch scans remaining transactions for the first one whose
// amount settles the return, directly or net of some gift-card credit.
func (r *Reconciler) findReturnMatch(state *runState, ret *ledger.ReturnRecord) (*ledger.Transaction, *ledger.GiftCardCredit) {
	for _, tx := range state.txns {
		if money.AmountsMatch(tx.Amount, ret.Amount) {
			return tx, nil
		}
		for _, credit := range state.credits {
			if money.AmountsMatch(tx.Amount, money.RoundToCents(ret.Amount-credit.Amount)) {
				return tx, credit
			}
		}
	}
	return nil, nil
}
