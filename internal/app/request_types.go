package app

import "github.com/shopspring/decimal"

// ProductRequest is the input for creating or replacing a product.
type ProductRequest struct {
	Name          string
	Category      string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	StockQuantity decimal.Decimal
	ExpiryDate    string // YYYY-MM-DD, empty for none
}

// SaleRequest is the input for recording or rewriting a sale.
type SaleRequest struct {
	ProductID int
	Quantity  decimal.Decimal
	SaleDate  string // YYYY-MM-DD, empty means today
}

// PurchaseRequest is the input for recording or rewriting a purchase.
type PurchaseRequest struct {
	ProductID    int
	Quantity     decimal.Decimal
	CostPrice    decimal.Decimal
	PurchaseDate string // YYYY-MM-DD, empty means today
	SupplierName string
}
