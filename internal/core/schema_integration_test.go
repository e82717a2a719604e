package core_test

import (
	"errors"
	"testing"

	"inventory-ledger/internal/core"

	"github.com/shopspring/decimal"
)

func TestSchema_EnsureIsIdempotent(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	schema := core.NewSchemaService(pool)

	// setupTestDB already ran EnsureSchema once; running it again against a
	// populated database must not touch anything.
	products := core.NewProductService(pool)
	p := seedProduct(t, ctx, products, decimal.NewFromInt(7), decimal.NewFromFloat(5.00))

	if err := schema.EnsureSchema(ctx); err != nil {
		t.Fatalf("Second EnsureSchema failed: %v", err)
	}
	if stock := getStock(t, ctx, products, p.ID); !stock.Equal(decimal.NewFromInt(7)) {
		t.Errorf("Expected seeded product to survive, got stock %s", stock)
	}
}

func TestSchema_MigrateIsNoopOnCurrentLayout(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	schema := core.NewSchemaService(pool)

	migrated, err := schema.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if len(migrated) != 0 {
		t.Errorf("Expected no tables migrated on current layout, got %v", migrated)
	}
}

func TestSchema_MigratesLegacyIntegerColumns(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	schema := core.NewSchemaService(pool)

	// Rebuild products the way an old database declared it, with an INTEGER
	// stock column, and give it data plus a non-contiguous id range.
	_, err := pool.Exec(ctx, `
		DROP TABLE products;
		CREATE TABLE products (
		    id SERIAL PRIMARY KEY,
		    name TEXT NOT NULL UNIQUE,
		    category TEXT NOT NULL DEFAULT '',
		    purchase_price NUMERIC(12,2) NOT NULL,
		    selling_price NUMERIC(12,2) NOT NULL,
		    stock_quantity INTEGER NOT NULL,
		    expiry_date TEXT
		);
		INSERT INTO products (id, name, purchase_price, selling_price, stock_quantity) VALUES
		(1, 'Legacy Rice',  3.20, 5.00, 10),
		(5, 'Legacy Beans', 1.10, 2.00, 42);
	`)
	if err != nil {
		t.Fatalf("Failed to build legacy table: %v", err)
	}

	migrated, err := schema.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if len(migrated) != 1 || migrated[0] != "products" {
		t.Errorf("Expected only products migrated, got %v", migrated)
	}

	// Rows, ids, and values survive, and the column now holds fractions.
	products := core.NewProductService(pool)
	beans, err := products.GetProductByID(ctx, 5)
	if err != nil {
		t.Fatalf("GetProductByID(5) after migration failed: %v", err)
	}
	if !beans.StockQuantity.Equal(decimal.NewFromInt(42)) {
		t.Errorf("Expected migrated stock 42, got %s", beans.StockQuantity)
	}

	if _, err := products.UpdateProduct(ctx, 5, core.ProductInput{
		Name:          beans.Name,
		PurchasePrice: beans.PurchasePrice,
		SellingPrice:  beans.SellingPrice,
		StockQuantity: decimal.NewFromFloat(42.5),
	}); err != nil {
		t.Fatalf("Fractional stock rejected after migration: %v", err)
	}

	// The rebuilt sequence continues past the copied ids.
	fresh := seedProduct(t, ctx, products, decimal.Zero, decimal.NewFromFloat(1.00))
	if fresh.ID <= 5 {
		t.Errorf("Expected new id above 5 after migration, got %d", fresh.ID)
	}

	// A second run finds nothing left to do.
	migrated, err = schema.Migrate(ctx)
	if err != nil {
		t.Fatalf("Second Migrate failed: %v", err)
	}
	if len(migrated) != 0 {
		t.Errorf("Expected second Migrate to be a no-op, got %v", migrated)
	}
}

func TestSchema_FailedMigrationLeavesTableUntouched(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	schema := core.NewSchemaService(pool)

	// A legacy INTEGER table with data, plus a leftover products_old table
	// squatting on the name the rebuild needs. The rename step fails, so the
	// whole migration transaction must roll back.
	_, err := pool.Exec(ctx, `
		DROP TABLE products;
		CREATE TABLE products (
		    id SERIAL PRIMARY KEY,
		    name TEXT NOT NULL UNIQUE,
		    category TEXT NOT NULL DEFAULT '',
		    purchase_price NUMERIC(12,2) NOT NULL,
		    selling_price NUMERIC(12,2) NOT NULL,
		    stock_quantity INTEGER NOT NULL,
		    expiry_date TEXT
		);
		INSERT INTO products (id, name, purchase_price, selling_price, stock_quantity) VALUES
		(1, 'Legacy Rice',  3.20, 5.00, 10),
		(5, 'Legacy Beans', 1.10, 2.00, 42);
		CREATE TABLE products_old (id INTEGER);
	`)
	if err != nil {
		t.Fatalf("Failed to build legacy table: %v", err)
	}

	_, err = schema.Migrate(ctx)
	if !errors.Is(err, core.ErrMigrationFailed) {
		t.Fatalf("Expected ErrMigrationFailed, got %v", err)
	}

	// The legacy table survives with its rows, values, and declared type.
	var dataType string
	err = pool.QueryRow(ctx, `
		SELECT data_type
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = 'products' AND column_name = 'stock_quantity'
	`).Scan(&dataType)
	if err != nil {
		t.Fatalf("Failed to inspect column type: %v", err)
	}
	if dataType != "integer" {
		t.Errorf("Expected stock_quantity still integer after failed migration, got %s", dataType)
	}

	var count, beansStock int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 rows to survive, got %d", count)
	}
	if err := pool.QueryRow(ctx, "SELECT stock_quantity FROM products WHERE id = 5").Scan(&beansStock); err != nil {
		t.Fatalf("Failed to read row 5: %v", err)
	}
	if beansStock != 42 {
		t.Errorf("Expected stock 42 on row 5, got %d", beansStock)
	}

	// With the blocker gone the same migration goes through.
	if _, err := pool.Exec(ctx, "DROP TABLE products_old"); err != nil {
		t.Fatalf("Failed to drop blocker table: %v", err)
	}
	migrated, err := schema.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate after clearing blocker failed: %v", err)
	}
	if len(migrated) != 1 || migrated[0] != "products" {
		t.Errorf("Expected products migrated after clearing blocker, got %v", migrated)
	}
}
