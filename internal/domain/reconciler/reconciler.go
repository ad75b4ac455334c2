// Package reconciler joins Mint transactions to Amazon orders and
// returns, producing itemized records suitable for writing back to Mint.
//
// A run works on private deep copies of its inputs and is fully
// deterministic: strategy priority, subset enumeration order, and
// date-distance sorting are part of the observable contract. Entities
// that match nothing are not errors; they come back in the remaining
// collections for manual review.
package reconciler

import (
	"log/slog"
	"math"
	"sort"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/allocator"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/money"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/strategy"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/subset"
)

// ItemDescriptionPrefix tags every line item flattened from a shipment
// so re-annotated Mint entries are recognizable at a glance.
const ItemDescriptionPrefix = "Amazon: "

// Result is the outcome of one reconciliation run. The remaining
// collections hold everything no strategy could place.
type Result struct {
	JoinedRecords         []*ledger.JoinedRecord
	RemainingTransactions []*ledger.Transaction
	RemainingOrders       []*ledger.Order
	RemainingReturns      []*ledger.ReturnRecord
}

// Reconciler orchestrates the match strategies over the working pools.
type Reconciler struct {
	strategies []strategy.Strategy
	logger     *slog.Logger
}

// New creates a reconciler with the fixed strategy order: exact, then
// combination, then gift card.
func New(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		strategies: []strategy.Strategy{
			strategy.NewExact(),
			strategy.NewCombination(),
			strategy.NewGiftCard(),
		},
		logger: logger,
	}
}

// runState owns the mutable working pools for one run. Entities move
// from a pool into the result exactly once; pools are rebuilt on
// removal, never spliced mid-iteration.
type runState struct {
	txns    []*ledger.Transaction
	orders  []*ledger.Order
	returns []*ledger.ReturnRecord
	records []*ledger.JoinedRecord
	credits []*ledger.GiftCardCredit
}

// Run reconciles the given transactions, orders, and returns. The
// caller's inputs are deep-copied up front and never mutated.
func (r *Reconciler) Run(transactions []*ledger.Transaction, orders []*ledger.Order, returns []*ledger.ReturnRecord) *Result {
	state := &runState{
		txns:    ledger.CloneTransactions(transactions),
		orders:  ledger.CloneOrders(orders),
		returns: ledger.CloneReturns(returns),
	}

	// Larger orders first. A small order processed early could claim a
	// large gift-card charge that belongs to a bigger order.
	sort.SliceStable(state.orders, func(i, j int) bool {
		return math.Abs(state.orders[i].Total()) > math.Abs(state.orders[j].Total())
	})

	for _, strat := range r.strategies {
		r.runStrategy(state, strat)
	}

	r.matchReturns(state)

	r.logger.Debug("Reconciliation complete",
		"joined", len(state.records),
		"remaining_transactions", len(state.txns),
		"remaining_orders", len(state.orders),
		"remaining_returns", len(state.returns),
	)

	return &Result{
		JoinedRecords:         state.records,
		RemainingTransactions: state.txns,
		RemainingOrders:       state.orders,
		RemainingReturns:      state.returns,
	}
}

// runStrategy applies one strategy to every order before the caller
// advances to the next strategy. Orders fully consumed along the way
// leave the pool immediately.
func (r *Reconciler) runStrategy(state *runState, strat strategy.Strategy) {
	for i := 0; i < len(state.orders); {
		order := state.orders[i]
		r.matchOrder(state, order, strat)
		if len(order.Shipments) == 0 {
			state.orders = removeOrder(state.orders, order)
			continue
		}
		i++
	}
}

// matchOrder repeatedly tries shipment groupings of one order against
// the strategy until nothing more matches. Groupings are taken in
// reverse mask order so whole multi-shipment charges are preferred over
// per-shipment matches.
func (r *Reconciler) matchOrder(state *runState, order *ledger.Order, strat strategy.Strategy) {
	for {
		var matchedGroup []*ledger.Shipment
		var proposal *strategy.Result

		subset.ForEachReverse(order.Shipments, func(group []*ledger.Shipment) bool {
			amounts := make([]float64, len(group))
			for i, s := range group {
				amounts[i] = s.Amount
			}
			res := strat.Match(money.Total(amounts), order, state.returns, state.txns)
			if res == nil {
				return true
			}
			matchedGroup = group
			proposal = res
			return false
		})

		if proposal == nil {
			return
		}

		r.settle(state, order, matchedGroup, proposal, strat)

		if len(order.Shipments) == 0 {
			return
		}
		// Pools changed; restart the subset search for this order.
	}
}

// settle applies a strategy result: flattens the matched shipment group
// into an item pool, allocates the pool across the matched transactions,
// and retires the consumed entities from their pools.
func (r *Reconciler) settle(state *runState, order *ledger.Order, group []*ledger.Shipment, proposal *strategy.Result, strat strategy.Strategy) {
	var pool []ledger.JoinedItem
	for _, s := range group {
		for _, item := range s.Items {
			pool = append(pool, ledger.JoinedItem{
				TrackingID:  s.TrackingID,
				Description: ItemDescriptionPrefix + item.Description,
				Amount:      item.Amount,
			})
		}
	}
	for _, item := range proposal.ExtraItems {
		pool = append(pool, ledger.JoinedItem{
			Description: item.Description,
			Amount:      item.Amount,
		})
	}

	if proposal.ConsumedReturn != nil {
		state.returns = removeReturn(state.returns, proposal.ConsumedReturn)
	}

	for _, tx := range proposal.Transactions {
		alloc := allocator.Allocate(pool, tx, order.OrderID, order.OrderDate)
		pool = alloc.Remaining

		state.records = append(state.records, alloc.Record)
		if alloc.GiftCard != nil {
			state.credits = append(state.credits, alloc.GiftCard)
		}
		state.txns = removeTransaction(state.txns, tx)

		r.logger.Debug("Joined transaction",
			"strategy", strat.Name(),
			"order_id", order.OrderID,
			"transaction_id", tx.ID,
			"amount", tx.Amount,
			"items", len(alloc.Record.Items),
			"unmodified", alloc.Record.IsUnmodified,
		)
	}

	order.Shipments = removeShipments(order.Shipments, group)
}

func removeOrder(orders []*ledger.Order, target *ledger.Order) []*ledger.Order {
	out := orders[:0]
	for _, o := range orders {
		if o != target {
			out = append(out, o)
		}
	}
	return out
}

func removeTransaction(txns []*ledger.Transaction, target *ledger.Transaction) []*ledger.Transaction {
	out := txns[:0]
	for _, t := range txns {
		if t != target {
			out = append(out, t)
		}
	}
	return out
}

func removeReturn(returns []*ledger.ReturnRecord, target *ledger.ReturnRecord) []*ledger.ReturnRecord {
	out := returns[:0]
	for _, r := range returns {
		if r != target {
			out = append(out, r)
		}
	}
	return out
}

func removeShipments(shipments []*ledger.Shipment, group []*ledger.Shipment) []*ledger.Shipment {
	matched := make(map[*ledger.Shipment]bool, len(group))
	for _, s := range group {
		matched[s] = true
	}
	out := shipments[:0]
	for _, s := range shipments {
		if !matched[s] {
			out = append(out, s)
		}
	}
	return out
}
