package core_test

import (
	"errors"
	"testing"

	"inventory-ledger/internal/core"

	"github.com/shopspring/decimal"
)

func TestPurchase_RecordAddsStock(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)
	purchases := core.NewPurchaseService(pool)

	p := seedProduct(t, ctx, products, decimal.NewFromInt(10), decimal.NewFromFloat(5.00))

	purchase, err := purchases.RecordPurchase(ctx, p.ID,
		decimal.NewFromInt(5), decimal.NewFromFloat(2.00), "2026-03-05", "Acme Wholesale")
	if err != nil {
		t.Fatalf("RecordPurchase failed: %v", err)
	}
	if purchase.SupplierName == nil || *purchase.SupplierName != "Acme Wholesale" {
		t.Errorf("Expected supplier Acme Wholesale, got %v", purchase.SupplierName)
	}
	if stock := getStock(t, ctx, products, p.ID); !stock.Equal(decimal.NewFromInt(15)) {
		t.Errorf("Expected stock 15 after purchase, got %s", stock)
	}
}

func TestPurchase_RecordWithoutSupplier(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)
	purchases := core.NewPurchaseService(pool)

	p := seedProduct(t, ctx, products, decimal.Zero, decimal.NewFromFloat(5.00))

	purchase, err := purchases.RecordPurchase(ctx, p.ID,
		decimal.NewFromInt(3), decimal.NewFromFloat(1.50), "2026-03-05", "")
	if err != nil {
		t.Fatalf("RecordPurchase failed: %v", err)
	}
	if purchase.SupplierName != nil {
		t.Errorf("Expected nil supplier, got %v", *purchase.SupplierName)
	}

	got, err := purchases.GetPurchaseByID(ctx, purchase.ID)
	if err != nil {
		t.Fatalf("GetPurchaseByID failed: %v", err)
	}
	if got.SupplierName != nil {
		t.Errorf("Expected nil supplier on read-back, got %v", *got.SupplierName)
	}
}

func TestPurchase_UpdateQuantity(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)
	purchases := core.NewPurchaseService(pool)

	p := seedProduct(t, ctx, products, decimal.NewFromInt(10), decimal.NewFromFloat(5.00))
	purchase, err := purchases.RecordPurchase(ctx, p.ID,
		decimal.NewFromInt(5), decimal.NewFromFloat(2.00), "2026-03-05", "")
	if err != nil {
		t.Fatalf("RecordPurchase failed: %v", err)
	}
	// Stock is now 15.

	// 5 → 8 adds the delta of 3.
	if _, err := purchases.UpdatePurchase(ctx, purchase.ID, p.ID,
		decimal.NewFromInt(8), decimal.NewFromFloat(2.00), "2026-03-05", ""); err != nil {
		t.Fatalf("UpdatePurchase failed: %v", err)
	}
	if stock := getStock(t, ctx, products, p.ID); !stock.Equal(decimal.NewFromInt(18)) {
		t.Errorf("Expected stock 18, got %s", stock)
	}

	// 8 → 2 removes 6.
	if _, err := purchases.UpdatePurchase(ctx, purchase.ID, p.ID,
		decimal.NewFromInt(2), decimal.NewFromFloat(2.00), "2026-03-05", ""); err != nil {
		t.Fatalf("Shrinking UpdatePurchase failed: %v", err)
	}
	if stock := getStock(t, ctx, products, p.ID); !stock.Equal(decimal.NewFromInt(12)) {
		t.Errorf("Expected stock 12, got %s", stock)
	}
}

func TestPurchase_UpdateRejectedWhenStockConsumed(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)
	purchases := core.NewPurchaseService(pool)
	sales := core.NewSaleService(pool)

	p := seedProduct(t, ctx, products, decimal.Zero, decimal.NewFromFloat(5.00))
	purchase, err := purchases.RecordPurchase(ctx, p.ID,
		decimal.NewFromInt(10), decimal.NewFromFloat(2.00), "2026-03-05", "")
	if err != nil {
		t.Fatalf("RecordPurchase failed: %v", err)
	}
	// Sell 8 of the 10 purchased units; only 2 remain.
	if _, err := sales.RecordSale(ctx, p.ID, decimal.NewFromInt(8), "2026-03-06"); err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	// Shrinking the purchase to 5 would need 5 units back but only 2 exist.
	_, err = purchases.UpdatePurchase(ctx, purchase.ID, p.ID,
		decimal.NewFromInt(5), decimal.NewFromFloat(2.00), "2026-03-05", "")
	if !errors.Is(err, core.ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}
	if stock := getStock(t, ctx, products, p.ID); !stock.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected stock unchanged at 2, got %s", stock)
	}
}

func TestPurchase_UpdateSwitchesProduct(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)
	purchases := core.NewPurchaseService(pool)

	first := seedProduct(t, ctx, products, decimal.NewFromInt(10), decimal.NewFromFloat(5.00))
	second := seedProduct(t, ctx, products, decimal.NewFromInt(1), decimal.NewFromFloat(3.00))

	purchase, err := purchases.RecordPurchase(ctx, first.ID,
		decimal.NewFromInt(4), decimal.NewFromFloat(2.00), "2026-03-05", "")
	if err != nil {
		t.Fatalf("RecordPurchase failed: %v", err)
	}
	// first: 14, second: 1.

	if _, err := purchases.UpdatePurchase(ctx, purchase.ID, second.ID,
		decimal.NewFromInt(6), decimal.NewFromFloat(2.50), "2026-03-05", ""); err != nil {
		t.Fatalf("UpdatePurchase with product switch failed: %v", err)
	}
	if stock := getStock(t, ctx, products, first.ID); !stock.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected first product back at 10, got %s", stock)
	}
	if stock := getStock(t, ctx, products, second.ID); !stock.Equal(decimal.NewFromInt(7)) {
		t.Errorf("Expected second product at 7, got %s", stock)
	}
}

func TestPurchase_DeleteGuardedByStock(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)
	purchases := core.NewPurchaseService(pool)
	sales := core.NewSaleService(pool)

	p := seedProduct(t, ctx, products, decimal.Zero, decimal.NewFromFloat(5.00))
	purchase, err := purchases.RecordPurchase(ctx, p.ID,
		decimal.NewFromInt(10), decimal.NewFromFloat(2.00), "2026-03-05", "")
	if err != nil {
		t.Fatalf("RecordPurchase failed: %v", err)
	}
	if _, err := sales.RecordSale(ctx, p.ID, decimal.NewFromInt(8), "2026-03-06"); err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	// Removing the purchase would take back 10 units but only 2 remain.
	err = purchases.DeletePurchase(ctx, purchase.ID)
	if !errors.Is(err, core.ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}
	if _, err := purchases.GetPurchaseByID(ctx, purchase.ID); err != nil {
		t.Errorf("Expected purchase to survive rejected delete: %v", err)
	}
}

func TestPurchase_DeleteRemovesStock(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)
	purchases := core.NewPurchaseService(pool)

	p := seedProduct(t, ctx, products, decimal.NewFromInt(10), decimal.NewFromFloat(5.00))
	purchase, err := purchases.RecordPurchase(ctx, p.ID,
		decimal.NewFromInt(5), decimal.NewFromFloat(2.00), "2026-03-05", "")
	if err != nil {
		t.Fatalf("RecordPurchase failed: %v", err)
	}

	if err := purchases.DeletePurchase(ctx, purchase.ID); err != nil {
		t.Fatalf("DeletePurchase failed: %v", err)
	}
	if stock := getStock(t, ctx, products, p.ID); !stock.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected stock back at 10, got %s", stock)
	}
	if err := purchases.DeletePurchase(ctx, purchase.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}
