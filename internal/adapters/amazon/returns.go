package amazon

import (
	"fmt"
	"log/slog"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/money"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/subset"
)

// Column headers of the returns report.
const (
	colReturnDate   = "Return Date"
	colRefundAmount = "Refund Amount"
)

// LoadReturns reads a returns report and resolves each refund against
// its order. A refund's line items are recovered by searching the
// order's items for a subset totaling the refund amount. Refunds that
// reference no loaded order, or match no item subset, come back in the
// second slice with empty Items.
func (l *Loader) LoadReturns(path string, orders []*ledger.Order) ([]*ledger.ReturnRecord, []*ledger.ReturnRecord, error) {
	rows, header, err := readReport(path)
	if err != nil {
		return nil, nil, err
	}

	for _, col := range []string{colOrderID, colReturnDate, colRefundAmount} {
		if _, ok := header[col]; !ok {
			return nil, nil, fmt.Errorf("returns report missing column %q", col)
		}
	}

	byID := make(map[string]*ledger.Order, len(orders))
	for _, o := range orders {
		byID[o.OrderID] = o
	}

	var resolved, remaining []*ledger.ReturnRecord
	for i, row := range rows {
		orderID := row[header[colOrderID]]
		if orderID == "" {
			continue
		}

		returnDate, err := parseDate(row[header[colReturnDate]])
		if err != nil {
			l.logger.Warn("skipping return with bad date",
				slog.Int("row", i+2), slog.String("error", err.Error()))
			continue
		}

		amount, err := parseAmount(row[header[colRefundAmount]])
		if err != nil {
			l.logger.Warn("skipping return with bad refund amount",
				slog.Int("row", i+2), slog.String("error", err.Error()))
			continue
		}

		record := &ledger.ReturnRecord{
			OrderID:    orderID,
			ReturnDate: returnDate,
			Amount:     amount,
		}

		order, ok := byID[orderID]
		if !ok {
			l.logger.Debug("return references unknown order",
				slog.String("order_id", orderID))
			remaining = append(remaining, record)
			continue
		}

		items := resolveReturnItems(order, amount)
		if items == nil {
			l.logger.Debug("no item subset matches refund amount",
				slog.String("order_id", orderID),
				slog.Float64("amount", amount))
			remaining = append(remaining, record)
			continue
		}

		record.Items = items
		resolved = append(resolved, record)
	}

	l.logger.Debug("loaded returns",
		slog.Int("resolved", len(resolved)),
		slog.Int("remaining", len(remaining)))
	return resolved, remaining, nil
}

// resolveReturnItems finds the order items a refund covers. Items are
// debit-signed, so a subset matches when its total negates the refund
// amount.
func resolveReturnItems(order *ledger.Order, amount float64) []ledger.LineItem {
	var all []ledger.LineItem
	for _, s := range order.Shipments {
		all = append(all, s.Items...)
	}

	var match []ledger.LineItem
	subset.ForEach(all, func(items []ledger.LineItem) bool {
		amounts := make([]float64, len(items))
		for i, item := range items {
			amounts[i] = item.Amount
		}
		if money.AmountsMatch(money.Total(amounts), -amount) {
			match = append([]ledger.LineItem(nil), items...)
			return false
		}
		return true
	})
	return match
}
