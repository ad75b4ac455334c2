// Package allocator partitions a pool of candidate line items to one
// matched Mint transaction.
//
// Allocation is a two-step search:
//
//  1. Exact subset: scan every subset of the pool for one whose total
//     matches the transaction amount within tolerance. The scan visits
//     all subsets and keeps the last match it sees rather than stopping
//     at the first.
//  2. Greedy fallback: consume items in pool order while the balance
//     still owes, then settle any leftover with a synthetic
//     "Balance Adjust" line so the allocation sums to the transaction
//     amount exactly.
package allocator

import (
	"strings"
	"time"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/money"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/subset"
)

// Result holds one allocation: the joined record, the gift-card credit
// extracted from it (if the synthetic gift-card line was allocated), and
// the pool items left for subsequent transactions of the same group.
type Result struct {
	Record    *ledger.JoinedRecord
	GiftCard  *ledger.GiftCardCredit
	Remaining []ledger.JoinedItem
}

// Allocate partitions pool items to the transaction and builds the
// joined record for it. The input pool is not modified; unallocated
// items come back in Remaining.
func Allocate(pool []ledger.JoinedItem, tx *ledger.Transaction, orderID string, orderDate time.Time) *Result {
	allocation, remaining := exactSubset(pool, tx.Amount)
	if allocation == nil {
		allocation, remaining = greedy(pool, tx.Amount)
	}

	result := &Result{
		Record: &ledger.JoinedRecord{
			TransactionID: tx.ID,
			OrderID:       orderID,
			OrderDate:     orderDate,
			Amount:        tx.Amount,
			Items:         allocation,
			IsUnmodified:  IsUnmodified(allocation, tx.Children),
		},
		Remaining: remaining,
	}

	for _, item := range allocation {
		if item.TrackingID == "" && item.Description == ledger.GiftCardDescription {
			result.GiftCard = &ledger.GiftCardCredit{
				OrderID: orderID,
				Amount:  item.Amount,
			}
			break
		}
	}

	return result
}

// exactSubset scans all pool subsets in ascending mask order for one
// totaling the target amount, keeping the last match found. Returns
// (nil, nil) when no subset qualifies.
func exactSubset(pool []ledger.JoinedItem, target float64) (allocation, remaining []ledger.JoinedItem) {
	indices := make([]int, len(pool))
	for i := range pool {
		indices[i] = i
	}

	var winner []int
	subset.ForEach(indices, func(members []int) bool {
		amounts := make([]float64, len(members))
		for i, idx := range members {
			amounts[i] = pool[idx].Amount
		}
		if money.AmountsMatch(money.Total(amounts), target) {
			winner = append([]int(nil), members...)
		}
		return true
	})

	if winner == nil {
		return nil, nil
	}

	taken := make(map[int]bool, len(winner))
	for _, idx := range winner {
		taken[idx] = true
		allocation = append(allocation, pool[idx])
	}
	for i, item := range pool {
		if !taken[i] {
			remaining = append(remaining, item)
		}
	}
	return allocation, remaining
}

// greedy consumes pool items in order while the running balance is still
// owed, then appends a Balance Adjust line for any leftover.
func greedy(pool []ledger.JoinedItem, target float64) (allocation, remaining []ledger.JoinedItem) {
	balance := target
	i := 0
	for i < len(pool) && balance < 0 {
		allocation = append(allocation, pool[i])
		balance = money.RoundToCents(balance - pool[i].Amount)
		i++
	}
	remaining = append(remaining, pool[i:]...)

	if !money.AmountsMatch(balance, 0) {
		allocation = append(allocation, ledger.JoinedItem{
			Description: ledger.BalanceAdjustDescription,
			Amount:      balance,
		})
	}
	return allocation, remaining
}

// IsUnmodified reports whether the allocated items reproduce the
// transaction's existing children exactly: same multiset of (amount,
// trimmed description) pairs, order ignored.
func IsUnmodified(items []ledger.JoinedItem, children []ledger.Child) bool {
	if len(items) != len(children) {
		return false
	}

	used := make([]bool, len(items))
	for _, child := range children {
		found := false
		for i, item := range items {
			if used[i] {
				continue
			}
			if !money.AmountsMatch(item.Amount, child.Amount) {
				continue
			}
			if strings.TrimSpace(item.Description) != strings.TrimSpace(child.Description) {
				continue
			}
			used[i] = true
			found = true
			break
		}
		if !found {
			return false
		}
	}
	return true
}
