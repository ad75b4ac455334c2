package cli

import (
	"fmt"
	"strings"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/reconciler"
)

// PrintHeader prints the run banner.
func PrintHeader(dryRun bool) {
	fmt.Println("🔗 Mint ↔ Amazon Linker")
	fmt.Println("=" + strings.Repeat("=", 50))
	if dryRun {
		fmt.Println("🔍 DRY RUN MODE - No changes will be made")
	} else {
		fmt.Println("⚠️  PRODUCTION MODE - Will update Mint transactions!")
	}
	fmt.Println()
}

// PrintConfig prints the effective run configuration.
func PrintConfig(ordersPath, returnsPath, dbPath string, lookbackDays int) {
	fmt.Println("📅 Configuration:")
	fmt.Printf("   Orders report:  %s\n", ordersPath)
	fmt.Printf("   Returns report: %s\n", returnsPath)
	fmt.Printf("   Database:       %s\n", dbPath)
	fmt.Printf("   Lookback:       %d days\n", lookbackDays)
	fmt.Println()
}

// PrintSummary prints the reconciliation result.
func PrintSummary(result *reconciler.Result) {
	fmt.Println()
	fmt.Println("📊 Results:")
	fmt.Printf("   ✅ Joined records:          %d\n", len(result.JoinedRecords))
	fmt.Printf("   💳 Unmatched transactions:  %d\n", len(result.RemainingTransactions))
	fmt.Printf("   📦 Unmatched orders:        %d\n", len(result.RemainingOrders))
	fmt.Printf("   ↩️  Unmatched returns:       %d\n", len(result.RemainingReturns))
	fmt.Println()
}

// PrintRecord prints one joined record, with its itemization when
// verbose.
func PrintRecord(record *ledger.JoinedRecord, verbose bool) {
	marker := "✂️"
	if record.IsUnmodified {
		marker = "✓"
	}
	fmt.Printf("   %s %s → order %s  $%.2f\n",
		marker, record.TransactionID, record.OrderID, record.Amount)

	if !verbose {
		return
	}
	for _, item := range record.Items {
		fmt.Printf("      • %-40s $%.2f\n", truncate(item.Description, 40), item.Amount)
	}
}

// PrintRemaining lists what no strategy could place.
func PrintRemaining(result *reconciler.Result) {
	if len(result.RemainingTransactions) > 0 {
		fmt.Println("💳 Unmatched transactions:")
		for _, tx := range result.RemainingTransactions {
			fmt.Printf("   %s  %s  $%.2f\n",
				tx.Date.Format("2006-01-02"), tx.ID, tx.Amount)
		}
		fmt.Println()
	}
	if len(result.RemainingOrders) > 0 {
		fmt.Println("📦 Unmatched orders:")
		for _, order := range result.RemainingOrders {
			fmt.Printf("   %s  %s  $%.2f\n",
				order.OrderDate.Format("2006-01-02"), order.OrderID, order.Total())
		}
		fmt.Println()
	}
	if len(result.RemainingReturns) > 0 {
		fmt.Println("↩️  Unmatched returns:")
		for _, ret := range result.RemainingReturns {
			fmt.Printf("   %s  %s  $%.2f\n",
				ret.ReturnDate.Format("2006-01-02"), ret.OrderID, ret.Amount)
		}
		fmt.Println()
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
