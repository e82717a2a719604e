package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventory-ledger/internal/ai"
	"inventory-ledger/internal/core"

	"github.com/shopspring/decimal"
)

type appService struct {
	products  core.ProductService
	sales     core.SaleService
	purchases core.PurchaseService
	reports   core.ReportService
	agent     *ai.Agent
}

// NewAppService constructs an appService that satisfies ApplicationService.
// agent may be nil; InterpretEntry then reports that the assistant is
// unavailable while every deterministic operation keeps working.
func NewAppService(
	products core.ProductService,
	sales core.SaleService,
	purchases core.PurchaseService,
	reports core.ReportService,
	agent *ai.Agent,
) ApplicationService {
	return &appService{
		products:  products,
		sales:     sales,
		purchases: purchases,
		reports:   reports,
		agent:     agent,
	}
}

func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.products.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) GetProduct(ctx context.Context, id int) (*ProductResult, error) {
	p, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) AddProduct(ctx context.Context, req ProductRequest) (*ProductResult, error) {
	p, err := s.products.AddProduct(ctx, core.ProductInput{
		Name:          req.Name,
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		StockQuantity: req.StockQuantity,
		ExpiryDate:    req.ExpiryDate,
	})
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) UpdateProduct(ctx context.Context, id int, req ProductRequest) (*ProductResult, error) {
	p, err := s.products.UpdateProduct(ctx, id, core.ProductInput{
		Name:          req.Name,
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		StockQuantity: req.StockQuantity,
		ExpiryDate:    req.ExpiryDate,
	})
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) DeleteProduct(ctx context.Context, id int) error {
	return s.products.DeleteProduct(ctx, id)
}

func (s *appService) ListSales(ctx context.Context) (*SaleListResult, error) {
	sales, err := s.sales.GetSales(ctx)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Sales: sales}, nil
}

func (s *appService) RecordSale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	sale, err := s.sales.RecordSale(ctx, req.ProductID, req.Quantity, orToday(req.SaleDate))
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) UpdateSale(ctx context.Context, saleID int, req SaleRequest) (*SaleResult, error) {
	sale, err := s.sales.UpdateSale(ctx, saleID, req.ProductID, req.Quantity, orToday(req.SaleDate))
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) DeleteSale(ctx context.Context, saleID int) error {
	return s.sales.DeleteSale(ctx, saleID)
}

func (s *appService) ListPurchases(ctx context.Context) (*PurchaseListResult, error) {
	purchases, err := s.purchases.GetPurchases(ctx)
	if err != nil {
		return nil, err
	}
	return &PurchaseListResult{Purchases: purchases}, nil
}

func (s *appService) RecordPurchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	purchase, err := s.purchases.RecordPurchase(ctx, req.ProductID, req.Quantity, req.CostPrice,
		orToday(req.PurchaseDate), req.SupplierName)
	if err != nil {
		return nil, err
	}
	return &PurchaseResult{Purchase: purchase}, nil
}

func (s *appService) UpdatePurchase(ctx context.Context, purchaseID int, req PurchaseRequest) (*PurchaseResult, error) {
	purchase, err := s.purchases.UpdatePurchase(ctx, purchaseID, req.ProductID, req.Quantity,
		req.CostPrice, orToday(req.PurchaseDate), req.SupplierName)
	if err != nil {
		return nil, err
	}
	return &PurchaseResult{Purchase: purchase}, nil
}

func (s *appService) DeletePurchase(ctx context.Context, purchaseID int) error {
	return s.purchases.DeletePurchase(ctx, purchaseID)
}

func (s *appService) GenerateReport(ctx context.Context, month string) (*ReportResult, error) {
	report, err := s.reports.GenerateReport(ctx, month)
	if err != nil {
		return nil, err
	}
	return &ReportResult{Report: report}, nil
}

func (s *appService) ListReports(ctx context.Context) (*ReportListResult, error) {
	reports, err := s.reports.GetReports(ctx)
	if err != nil {
		return nil, err
	}
	return &ReportListResult{Reports: reports}, nil
}

func (s *appService) DeleteReport(ctx context.Context, id int) error {
	return s.reports.DeleteReport(ctx, id)
}

// InterpretEntry builds the catalog context and routes the text through the
// agent. The proposal is returned for confirmation; nothing is written.
func (s *appService) InterpretEntry(ctx context.Context, text string) (*EntryResult, error) {
	if s.agent == nil {
		return nil, fmt.Errorf("AI assistant is not configured (set OPENAI_API_KEY)")
	}

	products, err := s.products.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("- %s | %s | %s",
			p.Name, p.StockQuantity.String(), p.SellingPrice.StringFixed(2)))
	}

	response, err := s.agent.InterpretEntry(ctx, text, strings.Join(lines, "\n"))
	if err != nil {
		return nil, err
	}
	if response.IsClarificationRequest {
		return &EntryResult{IsClarification: true, ClarificationMessage: response.Clarification.Message}, nil
	}
	return &EntryResult{Entry: response.Entry}, nil
}

// CommitEntry validates and records a confirmed proposal. Must only be called
// after explicit user approval.
func (s *appService) CommitEntry(ctx context.Context, entry core.EntryProposal) (*EntryCommitResult, error) {
	entry.Normalize()
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	product, err := s.products.GetProductByName(ctx, entry.ProductName)
	if err != nil {
		return nil, err
	}
	quantity, err := decimal.NewFromString(entry.Quantity)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity %q: %w", entry.Quantity, err)
	}

	switch entry.Kind {
	case "sale":
		sale, err := s.sales.RecordSale(ctx, product.ID, quantity, entry.Date)
		if err != nil {
			return nil, err
		}
		return &EntryCommitResult{Sale: sale}, nil
	case "purchase":
		cost, err := decimal.NewFromString(entry.UnitCost)
		if err != nil {
			return nil, fmt.Errorf("invalid unit cost %q: %w", entry.UnitCost, err)
		}
		purchase, err := s.purchases.RecordPurchase(ctx, product.ID, quantity, cost, entry.Date, entry.SupplierName)
		if err != nil {
			return nil, err
		}
		return &EntryCommitResult{Purchase: purchase}, nil
	}
	return nil, fmt.Errorf("unknown entry kind %q", entry.Kind)
}

func orToday(date string) string {
	if date == "" {
		return time.Now().Format("2006-01-02")
	}
	return date
}
