package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// productStock is a product row locked for a stock mutation.
type productStock struct {
	ID            int
	SellingPrice  decimal.Decimal
	StockQuantity decimal.Decimal
}

// lockProductTx locks a product row FOR UPDATE within the caller's
// transaction and returns its current selling price and stock.
func lockProductTx(ctx context.Context, tx pgx.Tx, productID int) (*productStock, error) {
	var ps productStock
	err := tx.QueryRow(ctx, `
		SELECT id, selling_price, stock_quantity
		FROM products
		WHERE id = $1
		FOR UPDATE
	`, productID).Scan(&ps.ID, &ps.SellingPrice, &ps.StockQuantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("lock product %d: %w", productID, err)
	}
	return &ps, nil
}

// adjustStockTx applies stock_quantity += delta in place. It performs no
// validation: callers check stock sufficiency against the locked row before
// calling, inside the same transaction.
func adjustStockTx(ctx context.Context, tx pgx.Tx, productID int, delta decimal.Decimal) error {
	tag, err := tx.Exec(ctx,
		"UPDATE products SET stock_quantity = stock_quantity + $1 WHERE id = $2",
		delta, productID,
	)
	if err != nil {
		return fmt.Errorf("adjust stock of product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	return nil
}
