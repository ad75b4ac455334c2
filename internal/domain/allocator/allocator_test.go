package allocator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
)

var orderDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func makeTransaction(id string, amount float64, children ...ledger.Child) *ledger.Transaction {
	return &ledger.Transaction{
		ID:       id,
		Amount:   amount,
		Date:     orderDate,
		Children: children,
	}
}

func item(tracking, desc string, amount float64) ledger.JoinedItem {
	return ledger.JoinedItem{TrackingID: tracking, Description: desc, Amount: amount}
}

func TestAllocate_ExactSubset(t *testing.T) {
	// Arrange
	pool := []ledger.JoinedItem{
		item("T1", "Amazon: Widget", -20.00),
		item("T1", "Amazon: Gadget", -30.00),
	}
	tx := makeTransaction("tx1", -20.00)

	// Act
	result := Allocate(pool, tx, "order1", orderDate)

	// Assert
	require.Len(t, result.Record.Items, 1)
	assert.Equal(t, "Amazon: Widget", result.Record.Items[0].Description)
	require.Len(t, result.Remaining, 1)
	assert.Equal(t, "Amazon: Gadget", result.Remaining[0].Description)
}

func TestAllocate_ExactSubset_LastMatchWins(t *testing.T) {
	// Two subsets settle -20.00: {first} and {last}. The scan keeps
	// overwriting on each match, so the later mask wins.
	pool := []ledger.JoinedItem{
		item("T1", "Amazon: First", -20.00),
		item("T1", "Amazon: Middle", -5.00),
		item("T1", "Amazon: Last", -20.00),
	}
	tx := makeTransaction("tx1", -20.00)

	result := Allocate(pool, tx, "order1", orderDate)

	require.Len(t, result.Record.Items, 1)
	assert.Equal(t, "Amazon: Last", result.Record.Items[0].Description)
}

func TestAllocate_GreedyFallback_Overshoot(t *testing.T) {
	// No subset sums to -45.00. Greedy consumes in pool order until the
	// balance flips positive, then settles the overshoot.
	pool := []ledger.JoinedItem{
		item("T1", "Amazon: A", -20.00),
		item("T1", "Amazon: B", -30.00),
	}
	tx := makeTransaction("tx1", -45.00)

	result := Allocate(pool, tx, "order1", orderDate)

	require.Len(t, result.Record.Items, 3)
	assert.Equal(t, "Amazon: A", result.Record.Items[0].Description)
	assert.Equal(t, "Amazon: B", result.Record.Items[1].Description)
	assert.Equal(t, ledger.BalanceAdjustDescription, result.Record.Items[2].Description)
	assert.InDelta(t, 5.00, result.Record.Items[2].Amount, 0.001)
	assert.Empty(t, result.Remaining)
}

func TestAllocate_CreditTransaction_BalanceAdjustOnly(t *testing.T) {
	// A positive (credit) target never owes a balance, so the greedy
	// loop consumes nothing and the whole amount becomes an adjustment.
	pool := []ledger.JoinedItem{item("T1", "Amazon: A", -20.00)}
	tx := makeTransaction("tx1", 25.00)

	result := Allocate(pool, tx, "order1", orderDate)

	require.Len(t, result.Record.Items, 1)
	assert.Equal(t, ledger.BalanceAdjustDescription, result.Record.Items[0].Description)
	assert.InDelta(t, 25.00, result.Record.Items[0].Amount, 0.001)
	require.Len(t, result.Remaining, 1)
}

func TestAllocate_GreedyFallback_BalanceAdjust(t *testing.T) {
	// Pool exhausts with -10.00 still owed.
	pool := []ledger.JoinedItem{
		item("T1", "Amazon: A", -20.00),
		item("T1", "Amazon: B", -30.00),
	}
	tx := makeTransaction("tx1", -60.00)

	result := Allocate(pool, tx, "order1", orderDate)

	require.Len(t, result.Record.Items, 3)
	last := result.Record.Items[2]
	assert.Equal(t, ledger.BalanceAdjustDescription, last.Description)
	assert.InDelta(t, -10.00, last.Amount, 0.001)
	assert.Empty(t, result.Remaining)

	// Amount conservation: items sum to the transaction amount.
	var sum float64
	for _, it := range result.Record.Items {
		sum += it.Amount
	}
	assert.InDelta(t, tx.Amount, sum, 0.01)
}

func TestAllocate_RecordsGiftCardCredit(t *testing.T) {
	pool := []ledger.JoinedItem{
		item("T1", "Amazon: Widget", -55.00),
		item("", ledger.GiftCardDescription, 15.00),
	}
	tx := makeTransaction("tx1", -40.00)

	result := Allocate(pool, tx, "order1", orderDate)

	require.NotNil(t, result.GiftCard)
	assert.Equal(t, "order1", result.GiftCard.OrderID)
	assert.InDelta(t, 15.00, result.GiftCard.Amount, 0.001)
}

func TestAllocate_NoGiftCardCreditWithoutSyntheticItem(t *testing.T) {
	pool := []ledger.JoinedItem{item("T1", "Amazon: Widget", -40.00)}
	tx := makeTransaction("tx1", -40.00)

	result := Allocate(pool, tx, "order1", orderDate)

	assert.Nil(t, result.GiftCard)
}

func TestAllocate_IsUnmodified_True(t *testing.T) {
	pool := []ledger.JoinedItem{
		item("T1", "Amazon: Widget", -20.00),
		item("T1", "Amazon: Gadget", -30.00),
	}
	// Children in a different order, with surrounding whitespace.
	tx := makeTransaction("tx1", -50.00,
		ledger.Child{Description: " Amazon: Gadget ", Amount: -30.00},
		ledger.Child{Description: "Amazon: Widget", Amount: -20.00},
	)

	result := Allocate(pool, tx, "order1", orderDate)

	assert.True(t, result.Record.IsUnmodified)
}

func TestAllocate_IsUnmodified_FalseOnDifferentItems(t *testing.T) {
	pool := []ledger.JoinedItem{item("T1", "Amazon: Widget", -50.00)}
	tx := makeTransaction("tx1", -50.00,
		ledger.Child{Description: "Old description", Amount: -50.00},
	)

	result := Allocate(pool, tx, "order1", orderDate)

	assert.False(t, result.Record.IsUnmodified)
}

func TestIsUnmodified_LengthMismatch(t *testing.T) {
	items := []ledger.JoinedItem{item("T1", "A", -10)}
	children := []ledger.Child{{Description: "A", Amount: -10}, {Description: "B", Amount: -5}}

	assert.False(t, IsUnmodified(items, children))
}

func TestIsUnmodified_DuplicateAmounts(t *testing.T) {
	// Two identical children must consume two distinct items.
	items := []ledger.JoinedItem{
		item("T1", "A", -10),
		item("T1", "A", -10),
	}
	children := []ledger.Child{
		{Description: "A", Amount: -10},
		{Description: "A", Amount: -10},
	}

	assert.True(t, IsUnmodified(items, children))
}
