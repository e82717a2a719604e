package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SaleService records, edits, and deletes sales. Every mutation pairs the
// sales-table write with the product stock adjustment in one transaction, so
// stock can never drift out of sync with the recorded history.
type SaleService interface {
	// RecordSale inserts a sale and decrements the product's stock by
	// quantity. The total price is quantity × the product's current selling
	// price, snapshotted on the row. Returns ErrInsufficientStock without
	// writing anything if the product's stock is short.
	RecordSale(ctx context.Context, productID int, quantity decimal.Decimal, saleDate string) (*Sale, error)

	// UpdateSale rewrites a sale and applies the stock delta between the old
	// and new quantity. The previous quantity is read from the locked sale
	// row, not supplied by the caller. If the product reference changes, the
	// old product's stock is restored by the old quantity and the new
	// quantity is deducted from the new product, both in the same
	// transaction. The total price is recomputed from the (possibly new)
	// product's current selling price.
	UpdateSale(ctx context.Context, saleID, productID int, quantity decimal.Decimal, saleDate string) (*Sale, error)

	// DeleteSale removes a sale and restores the product's stock by the
	// recorded quantity. Returns ErrNotFound for a missing id.
	DeleteSale(ctx context.Context, saleID int) error

	// GetSaleByID returns a sale or ErrNotFound.
	GetSaleByID(ctx context.Context, saleID int) (*Sale, error)

	// GetSales returns all sales joined with product names, newest first.
	GetSales(ctx context.Context) ([]SaleRow, error)
}

type saleService struct {
	pool *pgxpool.Pool
}

// NewSaleService constructs a SaleService backed by the given pool.
func NewSaleService(pool *pgxpool.Pool) SaleService {
	return &saleService{pool: pool}
}

func (s *saleService) RecordSale(ctx context.Context, productID int, quantity decimal.Decimal, saleDate string) (*Sale, error) {
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("sale quantity must be positive, got %s", quantity)
	}
	if err := validateDate(saleDate); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin record sale: %w", err)
	}
	defer tx.Rollback(ctx)

	product, err := lockProductTx(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	if product.StockQuantity.LessThan(quantity) {
		return nil, fmt.Errorf("product %d has %s in stock, need %s: %w",
			productID, product.StockQuantity, quantity, ErrInsufficientStock)
	}

	totalPrice := quantity.Mul(product.SellingPrice).Round(2)
	sale := &Sale{ProductID: productID, Quantity: quantity, SaleDate: saleDate, TotalPrice: totalPrice}
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (product_id, quantity, sale_date, total_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, productID, quantity, saleDate, totalPrice).Scan(&sale.ID)
	if err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}

	if err := adjustStockTx(ctx, tx, productID, quantity.Neg()); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit record sale: %w", err)
	}
	return sale, nil
}

func (s *saleService) UpdateSale(ctx context.Context, saleID, productID int, quantity decimal.Decimal, saleDate string) (*Sale, error) {
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("sale quantity must be positive, got %s", quantity)
	}
	if err := validateDate(saleDate); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update sale: %w", err)
	}
	defer tx.Rollback(ctx)

	var oldProductID int
	var oldQuantity decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT product_id, quantity FROM sales WHERE id = $1 FOR UPDATE", saleID,
	).Scan(&oldProductID, &oldQuantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %d: %w", saleID, ErrNotFound)
		}
		return nil, fmt.Errorf("load sale %d: %w", saleID, err)
	}

	if productID != oldProductID {
		// Product switch: give the old quantity back to the old product,
		// then take the full new quantity from the new product.
		if _, err := lockProductTx(ctx, tx, oldProductID); err != nil {
			return nil, err
		}
		product, err := lockProductTx(ctx, tx, productID)
		if err != nil {
			return nil, err
		}
		if product.StockQuantity.LessThan(quantity) {
			return nil, fmt.Errorf("product %d has %s in stock, need %s: %w",
				productID, product.StockQuantity, quantity, ErrInsufficientStock)
		}

		totalPrice := quantity.Mul(product.SellingPrice).Round(2)
		if err := s.writeSaleTx(ctx, tx, saleID, productID, quantity, saleDate, totalPrice); err != nil {
			return nil, err
		}
		if err := adjustStockTx(ctx, tx, oldProductID, oldQuantity); err != nil {
			return nil, err
		}
		if err := adjustStockTx(ctx, tx, productID, quantity.Neg()); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit update sale: %w", err)
		}
		return &Sale{ID: saleID, ProductID: productID, Quantity: quantity, SaleDate: saleDate, TotalPrice: totalPrice}, nil
	}

	product, err := lockProductTx(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	delta := quantity.Sub(oldQuantity)
	if delta.IsPositive() && product.StockQuantity.LessThan(delta) {
		return nil, fmt.Errorf("product %d has %s in stock, need %s more: %w",
			productID, product.StockQuantity, delta, ErrInsufficientStock)
	}

	totalPrice := quantity.Mul(product.SellingPrice).Round(2)
	if err := s.writeSaleTx(ctx, tx, saleID, productID, quantity, saleDate, totalPrice); err != nil {
		return nil, err
	}
	if !delta.IsZero() {
		if err := adjustStockTx(ctx, tx, productID, delta.Neg()); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update sale: %w", err)
	}
	return &Sale{ID: saleID, ProductID: productID, Quantity: quantity, SaleDate: saleDate, TotalPrice: totalPrice}, nil
}

func (s *saleService) writeSaleTx(ctx context.Context, tx pgx.Tx, saleID, productID int, quantity decimal.Decimal, saleDate string, totalPrice decimal.Decimal) error {
	_, err := tx.Exec(ctx, `
		UPDATE sales SET product_id = $1, quantity = $2, sale_date = $3, total_price = $4
		WHERE id = $5
	`, productID, quantity, saleDate, totalPrice, saleID)
	if err != nil {
		return fmt.Errorf("update sale %d: %w", saleID, err)
	}
	return nil
}

func (s *saleService) DeleteSale(ctx context.Context, saleID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete sale: %w", err)
	}
	defer tx.Rollback(ctx)

	var productID int
	var quantity decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT product_id, quantity FROM sales WHERE id = $1 FOR UPDATE", saleID,
	).Scan(&productID, &quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("sale %d: %w", saleID, ErrNotFound)
		}
		return fmt.Errorf("load sale %d: %w", saleID, err)
	}

	if _, err := lockProductTx(ctx, tx, productID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM sales WHERE id = $1", saleID); err != nil {
		return fmt.Errorf("delete sale %d: %w", saleID, err)
	}
	if err := adjustStockTx(ctx, tx, productID, quantity); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete sale: %w", err)
	}
	return nil
}

func (s *saleService) GetSaleByID(ctx context.Context, saleID int) (*Sale, error) {
	sale := &Sale{}
	err := s.pool.QueryRow(ctx,
		"SELECT id, product_id, quantity, sale_date, total_price FROM sales WHERE id = $1", saleID,
	).Scan(&sale.ID, &sale.ProductID, &sale.Quantity, &sale.SaleDate, &sale.TotalPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %d: %w", saleID, ErrNotFound)
		}
		return nil, fmt.Errorf("get sale %d: %w", saleID, err)
	}
	return sale, nil
}

func (s *saleService) GetSales(ctx context.Context) ([]SaleRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.product_id, p.name, s.quantity, s.total_price, s.sale_date
		FROM sales s
		JOIN products p ON p.id = s.product_id
		ORDER BY s.sale_date DESC, s.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []SaleRow
	for rows.Next() {
		var r SaleRow
		if err := rows.Scan(&r.ID, &r.ProductID, &r.ProductName, &r.Quantity, &r.TotalPrice, &r.SaleDate); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return sales, nil
}
