package app

import (
	"context"

	"inventory-ledger/internal/core"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ListProducts returns the product catalog ordered by name.
	ListProducts(ctx context.Context) (*ProductListResult, error)

	// GetProduct returns a single product by id.
	GetProduct(ctx context.Context, id int) (*ProductResult, error)

	// AddProduct creates a new catalog entry.
	AddProduct(ctx context.Context, req ProductRequest) (*ProductResult, error)

	// UpdateProduct replaces every field of an existing product.
	UpdateProduct(ctx context.Context, id int, req ProductRequest) (*ProductResult, error)

	// DeleteProduct removes a product that no transactions reference.
	DeleteProduct(ctx context.Context, id int) error

	// ListSales returns all sales joined with product names, newest first.
	ListSales(ctx context.Context) (*SaleListResult, error)

	// RecordSale records a sale and deducts stock atomically.
	RecordSale(ctx context.Context, req SaleRequest) (*SaleResult, error)

	// UpdateSale rewrites a sale, reconciling stock for quantity and
	// product-reference changes.
	UpdateSale(ctx context.Context, saleID int, req SaleRequest) (*SaleResult, error)

	// DeleteSale removes a sale and restores the deducted stock.
	DeleteSale(ctx context.Context, saleID int) error

	// ListPurchases returns all purchases joined with product names, newest first.
	ListPurchases(ctx context.Context) (*PurchaseListResult, error)

	// RecordPurchase records a purchase and adds stock atomically.
	RecordPurchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error)

	// UpdatePurchase rewrites a purchase, guarding stock against reductions
	// it cannot absorb.
	UpdatePurchase(ctx context.Context, purchaseID int, req PurchaseRequest) (*PurchaseResult, error)

	// DeletePurchase removes a purchase and deducts the stock it contributed.
	DeletePurchase(ctx context.Context, purchaseID int) error

	// GenerateReport computes and stores the profit snapshot for a YYYY-MM month.
	GenerateReport(ctx context.Context, month string) (*ReportResult, error)

	// ListReports returns all stored monthly snapshots, newest first.
	ListReports(ctx context.Context) (*ReportListResult, error)

	// DeleteReport removes a stored snapshot without touching transactions.
	DeleteReport(ctx context.Context, id int) error

	// InterpretEntry sends a natural-language stock movement description to
	// the AI agent and returns either an entry proposal or a clarification
	// request.
	InterpretEntry(ctx context.Context, text string) (*EntryResult, error)

	// CommitEntry records a previously proposed entry after explicit user
	// confirmation, resolving the product by name.
	CommitEntry(ctx context.Context, entry core.EntryProposal) (*EntryCommitResult, error)
}
