package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PurchaseService records, edits, and deletes purchases. The shape mirrors
// SaleService with the opposite stock sign, plus non-negativity guards:
// purchases add stock, so shrinking or removing one can drive stock negative
// and must be checked against the locked product row first.
type PurchaseService interface {
	// RecordPurchase inserts a purchase and increments the product's stock
	// by quantity. CostPrice is the snapshotted per-unit cost.
	RecordPurchase(ctx context.Context, productID int, quantity, costPrice decimal.Decimal, purchaseDate, supplierName string) (*Purchase, error)

	// UpdatePurchase rewrites a purchase and applies the stock delta between
	// the old and new quantity, reading the previous quantity from the
	// locked purchase row. A quantity reduction is rejected with
	// ErrInsufficientStock when the product's stock cannot absorb it. If the
	// product reference changes, the old quantity is removed from the old
	// product (guarded the same way) and the new quantity added to the new
	// product, all in one transaction.
	UpdatePurchase(ctx context.Context, purchaseID, productID int, quantity, costPrice decimal.Decimal, purchaseDate, supplierName string) (*Purchase, error)

	// DeletePurchase removes a purchase and deducts the recorded quantity
	// from the product's stock. Returns ErrInsufficientStock without writing
	// when the deduction would drive stock negative, ErrNotFound for a
	// missing id.
	DeletePurchase(ctx context.Context, purchaseID int) error

	// GetPurchaseByID returns a purchase or ErrNotFound.
	GetPurchaseByID(ctx context.Context, purchaseID int) (*Purchase, error)

	// GetPurchases returns all purchases joined with product names, newest first.
	GetPurchases(ctx context.Context) ([]PurchaseRow, error)
}

type purchaseService struct {
	pool *pgxpool.Pool
}

// NewPurchaseService constructs a PurchaseService backed by the given pool.
func NewPurchaseService(pool *pgxpool.Pool) PurchaseService {
	return &purchaseService{pool: pool}
}

func validatePurchase(quantity, costPrice decimal.Decimal, purchaseDate string) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("purchase quantity must be positive, got %s", quantity)
	}
	if costPrice.IsNegative() {
		return fmt.Errorf("cost price cannot be negative, got %s", costPrice)
	}
	return validateDate(purchaseDate)
}

func supplierPtr(supplierName string) *string {
	if supplierName == "" {
		return nil
	}
	return &supplierName
}

func (s *purchaseService) RecordPurchase(ctx context.Context, productID int, quantity, costPrice decimal.Decimal, purchaseDate, supplierName string) (*Purchase, error) {
	if err := validatePurchase(quantity, costPrice, purchaseDate); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin record purchase: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := lockProductTx(ctx, tx, productID); err != nil {
		return nil, err
	}

	purchase := &Purchase{
		ProductID:    productID,
		Quantity:     quantity,
		PurchaseDate: purchaseDate,
		CostPrice:    costPrice,
		SupplierName: supplierPtr(supplierName),
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO purchases (product_id, quantity, purchase_date, cost_price, supplier_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, productID, quantity, purchaseDate, costPrice, purchase.SupplierName).Scan(&purchase.ID)
	if err != nil {
		return nil, fmt.Errorf("insert purchase: %w", err)
	}

	if err := adjustStockTx(ctx, tx, productID, quantity); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit record purchase: %w", err)
	}
	return purchase, nil
}

func (s *purchaseService) UpdatePurchase(ctx context.Context, purchaseID, productID int, quantity, costPrice decimal.Decimal, purchaseDate, supplierName string) (*Purchase, error) {
	if err := validatePurchase(quantity, costPrice, purchaseDate); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update purchase: %w", err)
	}
	defer tx.Rollback(ctx)

	var oldProductID int
	var oldQuantity decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT product_id, quantity FROM purchases WHERE id = $1 FOR UPDATE", purchaseID,
	).Scan(&oldProductID, &oldQuantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase %d: %w", purchaseID, ErrNotFound)
		}
		return nil, fmt.Errorf("load purchase %d: %w", purchaseID, err)
	}

	if productID != oldProductID {
		// Product switch: the old product loses the stock this purchase
		// contributed, the new product gains the new quantity.
		oldProduct, err := lockProductTx(ctx, tx, oldProductID)
		if err != nil {
			return nil, err
		}
		if oldProduct.StockQuantity.LessThan(oldQuantity) {
			return nil, fmt.Errorf("product %d has %s in stock, cannot remove %s: %w",
				oldProductID, oldProduct.StockQuantity, oldQuantity, ErrInsufficientStock)
		}
		if _, err := lockProductTx(ctx, tx, productID); err != nil {
			return nil, err
		}

		if err := s.writePurchaseTx(ctx, tx, purchaseID, productID, quantity, costPrice, purchaseDate, supplierName); err != nil {
			return nil, err
		}
		if err := adjustStockTx(ctx, tx, oldProductID, oldQuantity.Neg()); err != nil {
			return nil, err
		}
		if err := adjustStockTx(ctx, tx, productID, quantity); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit update purchase: %w", err)
		}
		return &Purchase{ID: purchaseID, ProductID: productID, Quantity: quantity,
			PurchaseDate: purchaseDate, CostPrice: costPrice, SupplierName: supplierPtr(supplierName)}, nil
	}

	product, err := lockProductTx(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	delta := quantity.Sub(oldQuantity)
	if delta.IsNegative() && product.StockQuantity.LessThan(delta.Abs()) {
		return nil, fmt.Errorf("product %d has %s in stock, cannot deduct %s: %w",
			productID, product.StockQuantity, delta.Abs(), ErrInsufficientStock)
	}

	if err := s.writePurchaseTx(ctx, tx, purchaseID, productID, quantity, costPrice, purchaseDate, supplierName); err != nil {
		return nil, err
	}
	if !delta.IsZero() {
		if err := adjustStockTx(ctx, tx, productID, delta); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update purchase: %w", err)
	}
	return &Purchase{ID: purchaseID, ProductID: productID, Quantity: quantity,
		PurchaseDate: purchaseDate, CostPrice: costPrice, SupplierName: supplierPtr(supplierName)}, nil
}

func (s *purchaseService) writePurchaseTx(ctx context.Context, tx pgx.Tx, purchaseID, productID int, quantity, costPrice decimal.Decimal, purchaseDate, supplierName string) error {
	_, err := tx.Exec(ctx, `
		UPDATE purchases
		SET product_id = $1, quantity = $2, purchase_date = $3, cost_price = $4, supplier_name = $5
		WHERE id = $6
	`, productID, quantity, purchaseDate, costPrice, supplierPtr(supplierName), purchaseID)
	if err != nil {
		return fmt.Errorf("update purchase %d: %w", purchaseID, err)
	}
	return nil
}

func (s *purchaseService) DeletePurchase(ctx context.Context, purchaseID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete purchase: %w", err)
	}
	defer tx.Rollback(ctx)

	var productID int
	var quantity decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT product_id, quantity FROM purchases WHERE id = $1 FOR UPDATE", purchaseID,
	).Scan(&productID, &quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("purchase %d: %w", purchaseID, ErrNotFound)
		}
		return fmt.Errorf("load purchase %d: %w", purchaseID, err)
	}

	product, err := lockProductTx(ctx, tx, productID)
	if err != nil {
		return err
	}
	// Deleting a purchase removes the stock it contributed.
	if product.StockQuantity.LessThan(quantity) {
		return fmt.Errorf("product %d has %s in stock, purchase contributed %s: %w",
			productID, product.StockQuantity, quantity, ErrInsufficientStock)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM purchases WHERE id = $1", purchaseID); err != nil {
		return fmt.Errorf("delete purchase %d: %w", purchaseID, err)
	}
	if err := adjustStockTx(ctx, tx, productID, quantity.Neg()); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete purchase: %w", err)
	}
	return nil
}

func (s *purchaseService) GetPurchaseByID(ctx context.Context, purchaseID int) (*Purchase, error) {
	p := &Purchase{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, product_id, quantity, purchase_date, cost_price, supplier_name
		FROM purchases WHERE id = $1
	`, purchaseID).Scan(&p.ID, &p.ProductID, &p.Quantity, &p.PurchaseDate, &p.CostPrice, &p.SupplierName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase %d: %w", purchaseID, ErrNotFound)
		}
		return nil, fmt.Errorf("get purchase %d: %w", purchaseID, err)
	}
	return p, nil
}

func (s *purchaseService) GetPurchases(ctx context.Context) ([]PurchaseRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pu.id, pu.product_id, p.name, pu.quantity, pu.cost_price, pu.purchase_date,
		       COALESCE(pu.supplier_name, '')
		FROM purchases pu
		JOIN products p ON p.id = pu.product_id
		ORDER BY pu.purchase_date DESC, pu.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []PurchaseRow
	for rows.Next() {
		var r PurchaseRow
		if err := rows.Scan(&r.ID, &r.ProductID, &r.ProductName, &r.Quantity, &r.CostPrice, &r.PurchaseDate, &r.SupplierName); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return purchases, nil
}
