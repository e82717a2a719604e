package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"inventory-ledger/internal/app"
	"inventory-ledger/internal/core"

	"github.com/shopspring/decimal"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "products", "prod":
		result, err := svc.ListProducts(ctx)
		if err != nil {
			log.Fatalf("Failed to list products: %v", err)
		}
		printProducts(result)

	case "sales":
		result, err := svc.ListSales(ctx)
		if err != nil {
			log.Fatalf("Failed to list sales: %v", err)
		}
		printSales(result)

	case "purchases":
		result, err := svc.ListPurchases(ctx)
		if err != nil {
			log.Fatalf("Failed to list purchases: %v", err)
		}
		printPurchases(result)

	case "sell":
		// sell <product-id> <quantity> [date]
		if len(args) < 3 {
			log.Fatal("Usage: app sell <product-id> <quantity> [YYYY-MM-DD]")
		}
		req := app.SaleRequest{ProductID: mustInt(args[1]), Quantity: mustDecimal(args[2])}
		if len(args) > 3 {
			req.SaleDate = args[3]
		}
		result, err := svc.RecordSale(ctx, req)
		if err != nil {
			log.Fatalf("Failed to record sale: %v", err)
		}
		fmt.Printf("Sale recorded (ID: %d, total %s)\n", result.Sale.ID, result.Sale.TotalPrice.StringFixed(2))

	case "buy":
		// buy <product-id> <quantity> <unit-cost> [date] [supplier]
		if len(args) < 4 {
			log.Fatal("Usage: app buy <product-id> <quantity> <unit-cost> [YYYY-MM-DD] [supplier]")
		}
		req := app.PurchaseRequest{
			ProductID: mustInt(args[1]),
			Quantity:  mustDecimal(args[2]),
			CostPrice: mustDecimal(args[3]),
		}
		if len(args) > 4 {
			req.PurchaseDate = args[4]
		}
		if len(args) > 5 {
			req.SupplierName = strings.Join(args[5:], " ")
		}
		result, err := svc.RecordPurchase(ctx, req)
		if err != nil {
			log.Fatalf("Failed to record purchase: %v", err)
		}
		fmt.Printf("Purchase recorded (ID: %d)\n", result.Purchase.ID)

	case "report":
		if len(args) < 2 {
			log.Fatal("Usage: app report <YYYY-MM>")
		}
		result, err := svc.GenerateReport(ctx, args[1])
		if err != nil {
			log.Fatalf("Failed to generate report: %v", err)
		}
		printReport(result.Report)

	case "reports":
		result, err := svc.ListReports(ctx)
		if err != nil {
			log.Fatalf("Failed to list reports: %v", err)
		}
		printReports(result)

	case "propose", "prop", "p":
		if len(args) < 2 {
			log.Fatal("Usage: app propose \"<event description>\"")
		}
		result, err := svc.InterpretEntry(ctx, args[1])
		if err != nil {
			log.Fatalf("Agent error: %v", err)
		}
		if result.IsClarification {
			fmt.Fprintln(os.Stderr, "AI needs clarification:", result.ClarificationMessage)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result.Entry)

	case "commit", "com", "c":
		var entry core.EntryProposal
		if err := json.NewDecoder(os.Stdin).Decode(&entry); err != nil {
			log.Fatalf("Invalid JSON: %v", err)
		}
		result, err := svc.CommitEntry(ctx, entry)
		if err != nil {
			log.Fatalf("Commit failed: %v", err)
		}
		if result.Sale != nil {
			fmt.Printf("Sale recorded (ID: %d, total %s)\n", result.Sale.ID, result.Sale.TotalPrice.StringFixed(2))
		} else {
			fmt.Printf("Purchase recorded (ID: %d)\n", result.Purchase.ID)
		}

	default:
		log.Fatalf("Unknown command: %s\nAvailable: products, sales, purchases, sell, buy, report, reports, propose, commit", args[0])
	}
}

func mustInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("Invalid id %q", s)
	}
	return n
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.Fatalf("Invalid number %q", s)
	}
	return d
}

func printProducts(result *app.ProductListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-74s\n", "PRODUCTS")
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-5s %-24s %-12s %10s %10s %10s\n", "ID", "NAME", "CATEGORY", "BUY", "SELL", "STOCK")
	fmt.Println(strings.Repeat("-", 78))
	for _, p := range result.Products {
		fmt.Printf("  %-5d %-24s %-12s %10s %10s %10s\n",
			p.ID, p.Name, p.Category,
			p.PurchasePrice.StringFixed(2), p.SellingPrice.StringFixed(2), p.StockQuantity.String())
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printSales(result *app.SaleListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("  %-66s\n", "SALES")
	fmt.Println(strings.Repeat("=", 70))
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
	fmt.Printf("MONTH:    %s\n", r.Month)
	fmt.Printf("REVENUE:  %s\n", r.TotalRevenue.StringFixed(2))
	fmt.Printf("EXPENSES: %s\n", r.TotalExpenses.StringFixed(2))
	fmt.Printf("PROFIT:   %s\n", r.Profit.StringFixed(2))
}

func printReports(result *app.ReportListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 64))
	fmt.Printf("  %-60s\n", "MONTHLY REPORTS")
	fmt.Println(strings.Repeat("=", 64))
	fmt.Printf("  %-5s %-8s %12s %12s %12s\n", "ID", "MONTH", "REVENUE", "EXPENSES", "PROFIT")
	fmt.Println(strings.Repeat("-", 64))
	for _, r := range result.Reports {
		fmt.Printf("  %-5d %-8s %12s %12s %12s\n",
			r.ID, r.Month, r.TotalRevenue.StringFixed(2), r.TotalExpenses.StringFixed(2), r.Profit.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 64))
}
