package repl

import (
	"fmt"
	"strings"

	"inventory-ledger/internal/app"
	"inventory-ledger/internal/core"
)

func printProducts(result *app.ProductListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-74s\n", "PRODUCTS")
	fmt.Println(strings.Repeat("=", 78))
	if len(result.Products) == 0 {
		fmt.Println("  No products yet.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-5s %-24s %-12s %10s %10s %10s  %s\n", "ID", "NAME", "CATEGORY", "BUY", "SELL", "STOCK", "EXPIRY")
	fmt.Println(strings.Repeat("-", 78))
	for _, p := range result.Products {
		expiry := ""
		if p.ExpiryDate != nil {
			expiry = *p.ExpiryDate
		}
		fmt.Printf("  %-5d %-24s %-12s %10s %10s %10s  %s\n",
			p.ID, p.Name, p.Category,
			p.PurchasePrice.StringFixed(2), p.SellingPrice.StringFixed(2),
			p.StockQuantity.String(), expiry)
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printSales(result *app.SaleListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("  %-66s\n", "SALES")
	fmt.Println(strings.Repeat("=", 70))
	if len(result.Sales) == 0 {
		fmt.Println("  No sales recorded.")
		fmt.Println(strings.Repeat("=", 70))
		return
	}
	fmt.Printf("  %-5s %-24s %10s %12s  %s\n", "ID", "PRODUCT", "QTY", "TOTAL", "DATE")
	fmt.Println(strings.Repeat("-", 70))
	for _, s := range result.Sales {
		fmt.Printf("  %-5d %-24s %10s %12s  %s\n",
			s.ID, s.ProductName, s.Quantity.String(), s.TotalPrice.StringFixed(2), s.SaleDate)
	}
	fmt.Println(strings.Repeat("=", 70))
}

func printPurchases(result *app.PurchaseListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-74s\n", "PURCHASES")
	fmt.Println(strings.Repeat("=", 78))
	if len(result.Purchases) == 0 {
		fmt.Println("  No purchases recorded.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-5s %-22s %10s %10s  %-10s %s\n", "ID", "PRODUCT", "QTY", "COST", "DATE", "SUPPLIER")
	fmt.Println(strings.Repeat("-", 78))
	for _, p := range result.Purchases {
		fmt.Printf("  %-5d %-22s %10s %10s  %-10s %s\n",
			p.ID, p.ProductName, p.Quantity.String(), p.CostPrice.StringFixed(2), p.PurchaseDate, p.SupplierName)
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printReport(r *core.MonthlyReport) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 46))
	fmt.Printf("  PROFIT REPORT %s\n", r.Month)
	fmt.Println(strings.Repeat("=", 46))
	fmt.Printf("  %-12s %12s\n", "Revenue", r.TotalRevenue.StringFixed(2))
	fmt.Printf("  %-12s %12s\n", "Expenses", r.TotalExpenses.StringFixed(2))
	fmt.Println(strings.Repeat("-", 46))
	fmt.Printf("  %-12s %12s\n", "Profit", r.Profit.StringFixed(2))
	fmt.Println(strings.Repeat("=", 46))
}

func printReports(result *app.ReportListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 64))
	fmt.Printf("  %-60s\n", "MONTHLY REPORTS")
	fmt.Println(strings.Repeat("=", 64))
	if len(result.Reports) == 0 {
		fmt.Println("  No reports stored.")
		fmt.Println(strings.Repeat("=", 64))
		return
	}
	fmt.Printf("  %-5s %-8s %12s %12s %12s\n", "ID", "MONTH", "REVENUE", "EXPENSES", "PROFIT")
	fmt.Println(strings.Repeat("-", 64))
	for _, r := range result.Reports {
		fmt.Printf("  %-5d %-8s %12s %12s %12s\n",
			r.ID, r.Month, r.TotalRevenue.StringFixed(2), r.TotalExpenses.StringFixed(2), r.Profit.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 64))
}

func printEntry(e *core.EntryProposal) {
	fmt.Printf("\nKIND:       %s\n", strings.ToUpper(e.Kind))
	fmt.Printf("PRODUCT:    %s\n", e.ProductName)
	fmt.Printf("QUANTITY:   %s\n", e.Quantity)
	if e.Kind == "purchase" {
		fmt.Printf("UNIT COST:  %s\n", e.UnitCost)
		if e.SupplierName != "" {
			fmt.Printf("SUPPLIER:   %s\n", e.SupplierName)
		}
	}
	fmt.Printf("DATE:       %s\n", e.Date)
	fmt.Printf("REASONING:  %s\n", e.Reasoning)
	fmt.Printf("CONFIDENCE: %.2f\n", e.Confidence)
}
