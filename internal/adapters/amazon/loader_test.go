package amazon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const ordersCSV = `Order Date,Order ID,Title,Item Total,Carrier Name & Tracking Number,Shipment Date,Payment Instrument Type
2024-03-01,111-0000001,Widget,$15.50,USPS(9400100001),2024-03-02,Visa
2024-03-01,111-0000001,Gadget,$10.00,USPS(9400100001),2024-03-02,Visa
2024-03-01,111-0000001,Doohickey,"$1,200.00",UPS(1Z999),2024-03-04,Visa
2024-03-05,111-0000002,Gizmo,$40.00,USPS(9400100002),2024-03-06,Gift Certificate/Card and Visa
`

func TestLoadOrders_GroupsByOrderAndShipment(t *testing.T) {
	// Arrange
	path := writeReport(t, "orders.csv", ordersCSV)
	loader := NewLoader(nil)

	// Act
	orders, err := loader.LoadOrders(path)

	// Assert
	require.NoError(t, err)
	require.Len(t, orders, 2)

	first := orders[0]
	assert.Equal(t, "111-0000001", first.OrderID)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), first.OrderDate)
	assert.False(t, first.UsedGiftCard)
	require.Len(t, first.Shipments, 2)

	usps := first.Shipments[0]
	assert.Equal(t, "9400100001", usps.TrackingID)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), usps.Date)
	require.Len(t, usps.Items, 2)
	assert.Equal(t, "Widget", usps.Items[0].Description)
	assert.InDelta(t, -15.50, usps.Items[0].Amount, 0.001)
	assert.InDelta(t, -25.50, usps.Amount, 0.001)

	ups := first.Shipments[1]
	assert.Equal(t, "1Z999", ups.TrackingID)
	assert.InDelta(t, -1200.00, ups.Amount, 0.001)

	second := orders[1]
	assert.True(t, second.UsedGiftCard)
	require.Len(t, second.Shipments, 1)
	assert.InDelta(t, -40.00, second.Shipments[0].Amount, 0.001)
}

func TestLoadOrders_MissingColumn(t *testing.T) {
	path := writeReport(t, "orders.csv", "Order Date,Order ID\n2024-03-01,111\n")
	loader := NewLoader(nil)

	_, err := loader.LoadOrders(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestLoadOrders_SkipsBadRows(t *testing.T) {
	content := `Order Date,Order ID,Title,Item Total,Carrier Name & Tracking Number
not-a-date,111-0000001,Widget,$15.50,USPS(9400100001)
2024-03-01,111-0000002,Gadget,not-money,USPS(9400100002)
2024-03-01,111-0000003,Gizmo,$10.00,USPS(9400100003)
`
	path := writeReport(t, "orders.csv", content)
	loader := NewLoader(nil)

	orders, err := loader.LoadOrders(path)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "111-0000003", orders[0].OrderID)
}

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("$1,234.56")
	require.NoError(t, err)
	assert.InDelta(t, 1234.56, v, 0.001)

	_, err = parseAmount("")
	assert.Error(t, err)
}

func TestTrackingNumber(t *testing.T) {
	assert.Equal(t, "9400100001", trackingNumber("USPS(9400100001)"))
	assert.Equal(t, "1Z999AA10123456784", trackingNumber("1Z999AA10123456784"))
}
