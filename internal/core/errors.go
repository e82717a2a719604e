package core

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for the failure modes callers are expected to branch on.
// Everything else is a wrapped storage fault.
var (
	// ErrDuplicateName is returned when a product insert or rename collides
	// with the unique constraint on products.name.
	ErrDuplicateName = errors.New("product name already exists")

	// ErrInsufficientStock is returned when a mutation would drive a
	// product's stock_quantity negative. The operation makes no write.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotFound is returned when a referenced id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrProductInUse is returned by DeleteProduct while sales or purchases
	// still reference the product.
	ErrProductInUse = errors.New("product is referenced by recorded transactions")

	// ErrMigrationFailed wraps any schema migration failure. The migration
	// transaction has been rolled back and the original table is intact.
	ErrMigrationFailed = errors.New("schema migration failed")
)

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
