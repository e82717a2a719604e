package core_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"inventory-ledger/internal/core"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) (*pgxpool.Pool, context.Context) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := core.NewSchemaService(pool).EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}
	_, err = pool.Exec(ctx, "TRUNCATE TABLE sales, purchases, reports, products RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return pool, ctx
}

// seedProduct inserts a uniquely named product and returns it.
func seedProduct(t *testing.T, ctx context.Context, products core.ProductService, stock, sellingPrice decimal.Decimal) *core.Product {
	t.Helper()
	p, err := products.AddProduct(ctx, core.ProductInput{
		Name:          fmt.Sprintf("Widget %s", uuid.NewString()[:8]),
		Category:      "test",
		PurchasePrice: decimal.NewFromFloat(2.50),
		SellingPrice:  sellingPrice,
		StockQuantity: stock,
	})
	if err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return p
}

// getStock re-reads a product and returns its current stock level.
func getStock(t *testing.T, ctx context.Context, products core.ProductService, id int) decimal.Decimal {
	t.Helper()
	p, err := products.GetProductByID(ctx, id)
	if err != nil {
		t.Fatalf("GetProductByID(%d) failed: %v", id, err)
	}
	return p.StockQuantity
}

func TestProduct_AddAndFetch(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)

	created, err := products.AddProduct(ctx, core.ProductInput{
		Name:          "Rice 5kg",
		Category:      "grains",
		PurchasePrice: decimal.NewFromFloat(3.20),
		SellingPrice:  decimal.NewFromFloat(5.00),
		StockQuantity: decimal.NewFromInt(10),
		ExpiryDate:    "2027-01-31",
	})
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("Expected a non-zero product id")
	}

	byID, err := products.GetProductByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProductByID failed: %v", err)
	}
	if byID.Name != "Rice 5kg" || !byID.StockQuantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Unexpected product: %+v", byID)
	}
	if byID.ExpiryDate == nil || *byID.ExpiryDate != "2027-01-31" {
		t.Errorf("Expected expiry 2027-01-31, got %v", byID.ExpiryDate)
	}

	byName, err := products.GetProductByName(ctx, "Rice 5kg")
	if err != nil {
		t.Fatalf("GetProductByName failed: %v", err)
	}
	if byName.ID != created.ID {
		t.Errorf("Expected id %d by name, got %d", created.ID, byName.ID)
	}
}

func TestProduct_DuplicateName(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)

	input := core.ProductInput{
		Name:          "Olive Oil 1L",
		PurchasePrice: decimal.NewFromFloat(4.00),
		SellingPrice:  decimal.NewFromFloat(7.50),
		StockQuantity: decimal.NewFromInt(3),
	}
	if _, err := products.AddProduct(ctx, input); err != nil {
		t.Fatalf("First AddProduct failed: %v", err)
	}

	_, err := products.AddProduct(ctx, input)
	if !errors.Is(err, core.ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName, got %v", err)
	}
}

func TestProduct_Update(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)

	p := seedProduct(t, ctx, products, decimal.NewFromInt(10), decimal.NewFromFloat(5.00))
	other := seedProduct(t, ctx, products, decimal.NewFromInt(1), decimal.NewFromFloat(1.00))

	updated, err := products.UpdateProduct(ctx, p.ID, core.ProductInput{
		Name:          p.Name + " (new)",
		Category:      "updated",
		PurchasePrice: decimal.NewFromFloat(2.80),
		SellingPrice:  decimal.NewFromFloat(5.50),
		StockQuantity: decimal.NewFromInt(12),
	})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if !updated.SellingPrice.Equal(decimal.NewFromFloat(5.50)) || !updated.StockQuantity.Equal(decimal.NewFromInt(12)) {
		t.Errorf("Unexpected updated product: %+v", updated)
	}

	// Renaming onto another product's name must collide.
	_, err = products.UpdateProduct(ctx, p.ID, core.ProductInput{
		Name:          other.Name,
		PurchasePrice: decimal.Zero,
		SellingPrice:  decimal.Zero,
		StockQuantity: decimal.Zero,
	})
	if !errors.Is(err, core.ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName on rename collision, got %v", err)
	}

	_, err = products.UpdateProduct(ctx, 999999, core.ProductInput{
		Name:          "ghost",
		PurchasePrice: decimal.Zero,
		SellingPrice:  decimal.Zero,
		StockQuantity: decimal.Zero,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing id, got %v", err)
	}
}

func TestProduct_ValidationRejectsBadInput(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)

	cases := []struct {
		name  string
		input core.ProductInput
	}{
		{"empty name", core.ProductInput{SellingPrice: decimal.NewFromInt(1)}},
		{"negative selling price", core.ProductInput{Name: "x", SellingPrice: decimal.NewFromInt(-1)}},
		{"negative stock", core.ProductInput{Name: "x", StockQuantity: decimal.NewFromInt(-5)}},
		{"malformed expiry", core.ProductInput{Name: "x", ExpiryDate: "31/01/2027"}},
	}
	for _, tc := range cases {
		if _, err := products.AddProduct(ctx, tc.input); err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.name)
		}
	}
}

func TestProduct_DeleteRestrictedWhileReferenced(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)
	sales := core.NewSaleService(pool)

	p := seedProduct(t, ctx, products, decimal.NewFromInt(10), decimal.NewFromFloat(5.00))
	if _, err := sales.RecordSale(ctx, p.ID, decimal.NewFromInt(2), "2026-03-01"); err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	err := products.DeleteProduct(ctx, p.ID)
	if !errors.Is(err, core.ErrProductInUse) {
		t.Errorf("Expected ErrProductInUse, got %v", err)
	}

	// After the referencing sale is gone the delete goes through.
	saleRows, err := sales.GetSales(ctx)
	if err != nil {
		t.Fatalf("GetSales failed: %v", err)
	}
	if err := sales.DeleteSale(ctx, saleRows[0].ID); err != nil {
		t.Fatalf("DeleteSale failed: %v", err)
	}
	if err := products.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct after clearing references failed: %v", err)
	}

	if _, err := products.GetProductByID(ctx, p.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := products.DeleteProduct(ctx, p.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}
