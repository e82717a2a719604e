package app

import "inventory-ledger/internal/core"

// ProductResult is returned by single-product operations.
type ProductResult struct {
	Product *core.Product
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product
}

// SaleResult is returned by sale mutations.
type SaleResult struct {
	Sale *core.Sale
}

// SaleListResult is returned by ListSales.
type SaleListResult struct {
	Sales []core.SaleRow
}

// PurchaseResult is returned by purchase mutations.
type PurchaseResult struct {
	Purchase *core.Purchase
}

// PurchaseListResult is returned by ListPurchases.
type PurchaseListResult struct {
	Purchases []core.PurchaseRow
}

// ReportResult is returned by GenerateReport.
type ReportResult struct {
	Report *core.MonthlyReport
}

// ReportListResult is returned by ListReports.
type ReportListResult struct {
	Reports []core.MonthlyReport
}

// EntryResult is returned by InterpretEntry.
type EntryResult struct {
	Entry                *core.EntryProposal
	ClarificationMessage string
	IsClarification      bool
}

// EntryCommitResult is returned by CommitEntry.
type EntryCommitResult struct {
	Sale     *core.Sale
	Purchase *core.Purchase
}
