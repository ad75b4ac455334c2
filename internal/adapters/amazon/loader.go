// Package amazon loads order-report CSV exports into ledger entities.
//
// The loader works off the standard order report (one row per item) and
// the returns report. Report amounts are positive; the loader flips them
// to the ledger's debit-signed convention.
package amazon

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/money"
)

// Column headers of the order report.
const (
	colOrderID     = "Order ID"
	colOrderDate   = "Order Date"
	colTitle       = "Title"
	colItemTotal   = "Item Total"
	colTracking    = "Carrier Name & Tracking Number"
	colShipDate    = "Shipment Date"
	colPaymentType = "Payment Instrument Type"
)

// Loader parses Amazon report exports.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("system", "amazon"))}
}

// LoadOrders reads an order report and groups its rows into orders and
// shipments. Rows of one order share an Order ID; rows of one shipment
// share a tracking number. Shipment amounts are the rounded sum of
// their items.
func (l *Loader) LoadOrders(path string) ([]*ledger.Order, error) {
	rows, header, err := readReport(path)
	if err != nil {
		return nil, err
	}

	required := []string{colOrderID, colOrderDate, colTitle, colItemTotal, colTracking}
	for _, col := range required {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("order report missing column %q", col)
		}
	}

	orders := make(map[string]*ledger.Order)
	shipments := make(map[string]map[string]*ledger.Shipment) // order ID -> tracking -> shipment
	var orderIDs []string                                     // Preserve report order

	for i, row := range rows {
		orderID := row[header[colOrderID]]
		if orderID == "" {
			continue
		}

		orderDate, err := parseDate(row[header[colOrderDate]])
		if err != nil {
			l.logger.Warn("skipping row with bad order date",
				slog.Int("row", i+2), slog.String("error", err.Error()))
			continue
		}

		amount, err := parseAmount(row[header[colItemTotal]])
		if err != nil {
			l.logger.Warn("skipping row with bad item total",
				slog.Int("row", i+2), slog.String("error", err.Error()))
			continue
		}

		order, ok := orders[orderID]
		if !ok {
			order = &ledger.Order{OrderID: orderID, OrderDate: orderDate}
			orders[orderID] = order
			shipments[orderID] = make(map[string]*ledger.Shipment)
			orderIDs = append(orderIDs, orderID)
		}

		if idx, ok := header[colPaymentType]; ok && usedGiftCard(row[idx]) {
			order.UsedGiftCard = true
		}

		tracking := trackingNumber(row[header[colTracking]])
		shipment, ok := shipments[orderID][tracking]
		if !ok {
			shipDate := orderDate
			if idx, ok := header[colShipDate]; ok && row[idx] != "" {
				if d, err := parseDate(row[idx]); err == nil {
					shipDate = d
				}
			}
			shipment = &ledger.Shipment{TrackingID: tracking, Date: shipDate}
			shipments[orderID][tracking] = shipment
			order.Shipments = append(order.Shipments, shipment)
		}

		shipment.Items = append(shipment.Items, ledger.LineItem{
			Description: row[header[colTitle]],
			Amount:      -amount,
		})
	}

	result := make([]*ledger.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		order := orders[id]
		for _, s := range order.Shipments {
			amounts := make([]float64, len(s.Items))
			for i, item := range s.Items {
				amounts[i] = item.Amount
			}
			s.Amount = money.Total(amounts)
		}
		result = append(result, order)
	}

	l.logger.Debug("loaded orders", slog.Int("count", len(result)))
	return result, nil
}

// readReport reads a CSV file and returns its data rows plus a header
// name to column index map.
func readReport(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse report: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("report %s is empty", path)
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}
	return records[1:], header, nil
}

// parseAmount parses a report money string like "$1,234.56".
func parseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("bad amount %q: %w", s, err)
	}
	return v, nil
}

// parseDate accepts both ISO dates and the report's US short form.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "01/02/06", "01/02/2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q", s)
}

// trackingNumber strips the carrier prefix from "USPS(9400...)" style
// values.
func trackingNumber(s string) string {
	s = strings.TrimSpace(s)
	if open := strings.IndexByte(s, '('); open >= 0 {
		if close := strings.LastIndexByte(s, ')'); close > open {
			return s[open+1 : close]
		}
	}
	return s
}

func usedGiftCard(paymentType string) bool {
	p := strings.ToLower(paymentType)
	return strings.Contains(p, "gift certificate") || strings.Contains(p, "gift card")
}
