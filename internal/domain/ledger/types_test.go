package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderClone_Isolated(t *testing.T) {
	order := &Order{
		OrderID:   "order1",
		OrderDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Shipments: []*Shipment{{
			TrackingID: "T1",
			Amount:     -50.00,
			Items:      []LineItem{{Description: "Widget", Amount: -50.00}},
		}},
	}

	clone := order.Clone()
	clone.Shipments[0].Items[0].Description = "changed"
	clone.Shipments = nil

	assert.Equal(t, "Widget", order.Shipments[0].Items[0].Description)
	assert.Len(t, order.Shipments, 1)
}

func TestOrderTotal(t *testing.T) {
	order := &Order{Shipments: []*Shipment{{Amount: -20.00}, {Amount: -30.00}}}
	assert.InDelta(t, -50.00, order.Total(), 0.001)
}

func TestTransactionClone_Isolated(t *testing.T) {
	tx := &Transaction{
		ID:       "tx1",
		Amount:   -50.00,
		Children: []Child{{Description: "old", Amount: -50.00}},
	}

	clone := tx.Clone()
	clone.Children[0].Description = "changed"

	assert.Equal(t, "old", tx.Children[0].Description)
}

func TestReturnClone_Isolated(t *testing.T) {
	ret := &ReturnRecord{
		OrderID: "order1",
		Amount:  25.00,
		Items:   []LineItem{{Description: "X", Amount: -25.00}},
	}

	clone := ret.Clone()
	clone.Items[0].Amount = 0

	assert.InDelta(t, -25.00, ret.Items[0].Amount, 0.001)
}
