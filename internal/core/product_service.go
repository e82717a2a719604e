package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductService provides catalog CRUD. It owns stock_quantity storage, but
// stock adjustments driven by sales and purchases go through the tx-scoped
// helpers in stock.go so they commit atomically with the transaction row.
type ProductService interface {
	// AddProduct inserts a new product. Returns ErrDuplicateName if a
	// product with the same name exists.
	AddProduct(ctx context.Context, input ProductInput) (*Product, error)

	// UpdateProduct replaces every field of the product. Returns
	// ErrDuplicateName if the new name collides with another product,
	// ErrNotFound if the id does not exist.
	UpdateProduct(ctx context.Context, id int, input ProductInput) (*Product, error)

	// DeleteProduct removes a product. Returns ErrProductInUse while sales
	// or purchases still reference it, ErrNotFound if the id does not exist.
	DeleteProduct(ctx context.Context, id int) error

	// GetProductByID returns a product or ErrNotFound.
	GetProductByID(ctx context.Context, id int) (*Product, error)

	// GetProductByName returns a product by its unique name or ErrNotFound.
	GetProductByName(ctx context.Context, name string) (*Product, error)

	// GetProducts returns the whole catalog ordered by name.
	GetProducts(ctx context.Context) ([]Product, error)
}

type productService struct {
	pool *pgxpool.Pool
}

// NewProductService constructs a ProductService backed by the given pool.
func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

const productColumns = "id, name, category, purchase_price, selling_price, stock_quantity, expiry_date"

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.PurchasePrice, &p.SellingPrice, &p.StockQuantity, &p.ExpiryDate)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func validateProductInput(input ProductInput) error {
	if input.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if input.PurchasePrice.IsNegative() {
		return fmt.Errorf("purchase price cannot be negative, got %s", input.PurchasePrice)
	}
	if input.SellingPrice.IsNegative() {
		return fmt.Errorf("selling price cannot be negative, got %s", input.SellingPrice)
	}
	if input.StockQuantity.IsNegative() {
		return fmt.Errorf("stock quantity cannot be negative, got %s", input.StockQuantity)
	}
	if input.ExpiryDate != "" {
		return validateDate(input.ExpiryDate)
	}
	return nil
}

func expiryPtr(input ProductInput) *string {
	if input.ExpiryDate == "" {
		return nil
	}
	e := input.ExpiryDate
	return &e
}

func (s *productService) AddProduct(ctx context.Context, input ProductInput) (*Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	p, err := scanProduct(s.pool.QueryRow(ctx, `
		INSERT INTO products (name, category, purchase_price, selling_price, stock_quantity, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productColumns,
		input.Name, input.Category, input.PurchasePrice, input.SellingPrice,
		input.StockQuantity, expiryPtr(input),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("product %q: %w", input.Name, ErrDuplicateName)
		}
		return nil, fmt.Errorf("add product %q: %w", input.Name, err)
	}
	return p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int, input ProductInput) (*Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	p, err := scanProduct(s.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $1, category = $2, purchase_price = $3, selling_price = $4,
		    stock_quantity = $5, expiry_date = $6
		WHERE id = $7
		RETURNING `+productColumns,
		input.Name, input.Category, input.PurchasePrice, input.SellingPrice,
		input.StockQuantity, expiryPtr(input), id,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("product name %q: %w", input.Name, ErrDuplicateName)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return p, nil
}

// DeleteProduct blocks deletion while transactions reference the product.
// The reference check and the delete share one transaction so a sale recorded
// in between cannot be orphaned.
func (s *productService) DeleteProduct(ctx context.Context, id int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete product: %w", err)
	}
	defer tx.Rollback(ctx)

	var refs int
	err = tx.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM sales WHERE product_id = $1)
		     + (SELECT COUNT(*) FROM purchases WHERE product_id = $1)
	`, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count references to product %d: %w", id, err)
	}
	if refs > 0 {
		return fmt.Errorf("product %d has %d recorded transactions: %w", id, refs, ErrProductInUse)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete product %d: %w", id, err)
	}
	return nil
}

func (s *productService) GetProductByID(ctx context.Context, id int) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (s *productService) GetProductByName(ctx context.Context, name string) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE name = $1", name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("get product %q: %w", name, err)
	}
	return p, nil
}

func (s *productService) GetProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}
