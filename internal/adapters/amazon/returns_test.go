package amazon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
)

func testOrders() []*ledger.Order {
	return []*ledger.Order{
		{
			OrderID:   "111-0000001",
			OrderDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Shipments: []*ledger.Shipment{
				{
					TrackingID: "T1",
					Amount:     -25.50,
					Items: []ledger.LineItem{
						{Description: "Widget", Amount: -15.50},
						{Description: "Gadget", Amount: -10.00},
					},
				},
				{
					TrackingID: "T2",
					Amount:     -30.00,
					Items: []ledger.LineItem{
						{Description: "Gizmo", Amount: -30.00},
					},
				},
			},
		},
	}
}

func TestLoadReturns_ResolvesItemSubset(t *testing.T) {
	// Arrange
	content := `Order ID,Return Date,Refund Amount
111-0000001,2024-03-10,$25.50
`
	path := writeReport(t, "returns.csv", content)
	loader := NewLoader(nil)

	// Act
	resolved, remaining, err := loader.LoadReturns(path, testOrders())

	// Assert
	require.NoError(t, err)
	assert.Empty(t, remaining)
	require.Len(t, resolved, 1)

	ret := resolved[0]
	assert.Equal(t, "111-0000001", ret.OrderID)
	assert.InDelta(t, 25.50, ret.Amount, 0.001)
	require.Len(t, ret.Items, 2)
	assert.Equal(t, "Widget", ret.Items[0].Description)
	assert.InDelta(t, -15.50, ret.Items[0].Amount, 0.001)
}

func TestLoadReturns_SingleItemRefund(t *testing.T) {
	content := `Order ID,Return Date,Refund Amount
111-0000001,2024-03-10,$10.00
`
	path := writeReport(t, "returns.csv", content)
	loader := NewLoader(nil)

	resolved, remaining, err := loader.LoadReturns(path, testOrders())

	require.NoError(t, err)
	assert.Empty(t, remaining)
	require.Len(t, resolved, 1)
	require.Len(t, resolved[0].Items, 1)
	assert.Equal(t, "Gadget", resolved[0].Items[0].Description)
}

func TestLoadReturns_UnknownOrder(t *testing.T) {
	content := `Order ID,Return Date,Refund Amount
999-0000000,2024-03-10,$10.00
`
	path := writeReport(t, "returns.csv", content)
	loader := NewLoader(nil)

	resolved, remaining, err := loader.LoadReturns(path, testOrders())

	require.NoError(t, err)
	assert.Empty(t, resolved)
	require.Len(t, remaining, 1)
	assert.Equal(t, "999-0000000", remaining[0].OrderID)
	assert.Empty(t, remaining[0].Items)
}

func TestLoadReturns_NoMatchingSubset(t *testing.T) {
	content := `Order ID,Return Date,Refund Amount
111-0000001,2024-03-10,$12.34
`
	path := writeReport(t, "returns.csv", content)
	loader := NewLoader(nil)

	resolved, remaining, err := loader.LoadReturns(path, testOrders())

	require.NoError(t, err)
	assert.Empty(t, resolved)
	require.Len(t, remaining, 1)
}

func TestLoadReturns_MissingColumn(t *testing.T) {
	path := writeReport(t, "returns.csv", "Order ID,Refund Amount\n111,$5.00\n")
	loader := NewLoader(nil)

	_, _, err := loader.LoadReturns(path, testOrders())

	assert.Error(t, err)
}
