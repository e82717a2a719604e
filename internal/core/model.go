package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. StockQuantity is the running on-hand balance,
// maintained incrementally by the sale and purchase services.
type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	ExpiryDate    *string         `json:"expiry_date,omitempty"` // YYYY-MM-DD
}

// ProductInput holds the fields for creating or fully replacing a product.
type ProductInput struct {
	Name          string
	Category      string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	StockQuantity decimal.Decimal
	ExpiryDate    string // YYYY-MM-DD, empty for none
}

// Sale is a recorded sale. TotalPrice is quantity × the product's selling
// price at recording time; it is never recomputed when the catalog price
// changes later.
type Sale struct {
	ID         int             `json:"id"`
	ProductID  int             `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	SaleDate   string          `json:"sale_date"` // YYYY-MM-DD
	TotalPrice decimal.Decimal `json:"total_price"`
}

// SaleRow is a read view of a sale joined with its product name.
type SaleRow struct {
	ID          int
	ProductID   int
	ProductName string
	Quantity    decimal.Decimal
	TotalPrice  decimal.Decimal
	SaleDate    string
}

// Purchase is a recorded purchase. CostPrice is the per-unit cost snapshotted
// at recording time.
type Purchase struct {
	ID           int             `json:"id"`
	ProductID    int             `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	PurchaseDate string          `json:"purchase_date"` // YYYY-MM-DD
	CostPrice    decimal.Decimal `json:"cost_price"`
	SupplierName *string         `json:"supplier_name,omitempty"`
}

// PurchaseRow is a read view of a purchase joined with its product name.
type PurchaseRow struct {
	ID           int
	ProductID    int
	ProductName  string
	Quantity     decimal.Decimal
	CostPrice    decimal.Decimal
	PurchaseDate string
	SupplierName string
}

// MonthlyReport is a persisted profit snapshot for one calendar month,
// keyed by Month ("YYYY-MM"). Regenerating a month overwrites the prior row.
type MonthlyReport struct {
	ID            int             `json:"id"`
	Month         string          `json:"month"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Profit        decimal.Decimal `json:"profit"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// EntryProposal is the AI-generated proposal for a single sale or purchase
// entry, parsed from a natural-language description of the event.
type EntryProposal struct {
	Kind         string  `json:"kind" jsonschema:"enum=sale,enum=purchase" jsonschema_description:"Whether the event is a sale (stock out) or a purchase (stock in)"`
	ProductName  string  `json:"product_name" jsonschema_description:"The exact product name from the provided catalog"`
	Quantity     string  `json:"quantity" jsonschema_description:"The quantity moved, as a positive decimal string (e.g. '4' or '2.5')"`
	UnitCost     string  `json:"unit_cost,omitempty" jsonschema_description:"For purchases only: the per-unit cost as a decimal string. Leave empty for sales."`
	Date         string  `json:"date" jsonschema_description:"The transaction date in YYYY-MM-DD format. Use today's date if unspecified."`
	SupplierName string  `json:"supplier_name,omitempty" jsonschema_description:"For purchases only: the supplier name, if mentioned"`
	Confidence   float64 `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning    string  `json:"reasoning" jsonschema_description:"Explanation for the proposed entry"`
}

// EntryClarification is returned by the AI when the description is ambiguous
// or missing critical information.
type EntryClarification struct {
	Message string `json:"message" jsonschema_description:"A message asking the user for the missing details (e.g. product name or quantity)"`
}

// EntryResponse wraps the AI output to handle branching between a valid
// EntryProposal or a clarification request. Exactly one branch is set.
type EntryResponse struct {
	IsClarificationRequest bool                `json:"is_clarification_request" jsonschema_description:"Set to true ONLY if you lack enough information to propose a confident entry"`
	Clarification          *EntryClarification `json:"clarification,omitempty" jsonschema_description:"Required if is_clarification_request is true"`
	Entry                  *EntryProposal      `json:"entry,omitempty" jsonschema_description:"Required if is_clarification_request is false"`
}
