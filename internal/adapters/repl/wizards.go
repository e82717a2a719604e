package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"inventory-ledger/internal/app"

	"github.com/shopspring/decimal"
)

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	raw, _ := reader.ReadString('\n')
	return strings.TrimSpace(raw)
}

func promptDecimal(reader *bufio.Reader, label string) (decimal.Decimal, bool) {
	raw := prompt(reader, label)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Println("  Invalid number.")
		return decimal.Zero, false
	}
	return d, true
}

// handleAddProduct runs an interactive product creation session.
func handleAddProduct(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	name := prompt(reader, "Name")
	if name == "" {
		fmt.Println("Cancelled.")
		return
	}
	category := prompt(reader, "Category")
	purchasePrice, ok := promptDecimal(reader, "Purchase price")
	if !ok {
		return
	}
	sellingPrice, ok := promptDecimal(reader, "Selling price")
	if !ok {
		return
	}
	stock, ok := promptDecimal(reader, "Opening stock")
	if !ok {
		return
	}
	expiry := prompt(reader, "Expiry date (YYYY-MM-DD, blank for none)")

	result, err := svc.AddProduct(ctx, app.ProductRequest{
		Name:          name,
		Category:      category,
		PurchasePrice: purchasePrice,
		SellingPrice:  sellingPrice,
		StockQuantity: stock,
		ExpiryDate:    expiry,
	})
	if err != nil {
		fmt.Printf("[REPL] Error adding product: %v\n", err)
		return
	}
	fmt.Printf("Product added (ID: %d).\n", result.Product.ID)
}

// handleRecordSale runs an interactive sale entry session.
func handleRecordSale(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	productID, ok := pickProduct(ctx, reader, svc)
	if !ok {
		return
	}
	quantity, ok := promptDecimal(reader, "Quantity")
	if !ok {
		return
	}
	date := prompt(reader, "Sale date (YYYY-MM-DD, blank for today)")

	result, err := svc.RecordSale(ctx, app.SaleRequest{ProductID: productID, Quantity: quantity, SaleDate: date})
	if err != nil {
		fmt.Printf("[REPL] Error recording sale: %v\n", err)
		return
	}
	fmt.Printf("Sale recorded (ID: %d, total %s).\n", result.Sale.ID, result.Sale.TotalPrice.StringFixed(2))
}

// handleRecordPurchase runs an interactive purchase entry session.
func handleRecordPurchase(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	productID, ok := pickProduct(ctx, reader, svc)
	if !ok {
		return
	}
	quantity, ok := promptDecimal(reader, "Quantity")
	if !ok {
		return
	}
	cost, ok := promptDecimal(reader, "Unit cost")
	if !ok {
		return
	}
	date := prompt(reader, "Purchase date (YYYY-MM-DD, blank for today)")
	supplier := prompt(reader, "Supplier (optional)")

	result, err := svc.RecordPurchase(ctx, app.PurchaseRequest{
		ProductID:    productID,
		Quantity:     quantity,
		CostPrice:    cost,
		PurchaseDate: date,
		SupplierName: supplier,
	})
	if err != nil {
		fmt.Printf("[REPL] Error recording purchase: %v\n", err)
		return
	}
	fmt.Printf("Purchase recorded (ID: %d).\n", result.Purchase.ID)
}

// pickProduct shows the catalog and reads a product id.
func pickProduct(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) (int, bool) {
	result, err := svc.ListProducts(ctx)
	if err != nil {
		fmt.Printf("[REPL] Error listing products: %v\n", err)
		return 0, false
	}
	if len(result.Products) == 0 {
		fmt.Println("No products yet. Use /add-product first.")
		return 0, false
	}
	for _, p := range result.Products {
		fmt.Printf("  %3d  %-24s (stock: %s)\n", p.ID, p.Name, p.StockQuantity.String())
	}
	raw := prompt(reader, "Product id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Println("  Invalid product id.")
		return 0, false
	}
	return id, true
}
