package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ReportService aggregates sales and purchases into monthly profit snapshots.
// Snapshots are projections: regenerating a month overwrites the stored row,
// and deleting one never reverses the underlying transactions.
type ReportService interface {
	// MonthlyRevenue sums total_price over all sales in the given YYYY-MM
	// month. Zero when there are none.
	MonthlyRevenue(ctx context.Context, month string) (decimal.Decimal, error)

	// MonthlyExpenses sums quantity × cost_price over all purchases in the
	// given month. Zero when there are none.
	MonthlyExpenses(ctx context.Context, month string) (decimal.Decimal, error)

	// GenerateReport computes revenue, expenses, and profit for the month
	// from one consistent read, then upserts the snapshot keyed by month.
	// Idempotent: repeated calls over unchanged data store identical values.
	GenerateReport(ctx context.Context, month string) (*MonthlyReport, error)

	// GetReports returns all stored snapshots, newest month first.
	GetReports(ctx context.Context) ([]MonthlyReport, error)

	// DeleteReport removes a stored snapshot only. Returns ErrNotFound if
	// the id does not exist.
	DeleteReport(ctx context.Context, id int) error
}

type reportService struct {
	pool *pgxpool.Pool
}

// NewReportService constructs a ReportService backed by the given pool.
func NewReportService(pool *pgxpool.Pool) ReportService {
	return &reportService{pool: pool}
}

const (
	revenueQuery  = "SELECT COALESCE(SUM(total_price), 0) FROM sales WHERE substr(sale_date, 1, 7) = $1"
	expensesQuery = "SELECT COALESCE(SUM(quantity * cost_price), 0) FROM purchases WHERE substr(purchase_date, 1, 7) = $1"
)

func (s *reportService) MonthlyRevenue(ctx context.Context, month string) (decimal.Decimal, error) {
	if err := validateMonth(month); err != nil {
		return decimal.Zero, err
	}
	var revenue decimal.Decimal
	if err := s.pool.QueryRow(ctx, revenueQuery, month).Scan(&revenue); err != nil {
		return decimal.Zero, fmt.Errorf("sum revenue for %s: %w", month, err)
	}
	return revenue, nil
}

func (s *reportService) MonthlyExpenses(ctx context.Context, month string) (decimal.Decimal, error) {
	if err := validateMonth(month); err != nil {
		return decimal.Zero, err
	}
	var expenses decimal.Decimal
	if err := s.pool.QueryRow(ctx, expensesQuery, month).Scan(&expenses); err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses for %s: %w", month, err)
	}
	return expenses.Round(2), nil
}

// GenerateReport reads both sums and writes the snapshot inside one
// transaction so the stored row reflects a single point in time.
func (s *reportService) GenerateReport(ctx context.Context, month string) (*MonthlyReport, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin generate report: %w", err)
	}
	defer tx.Rollback(ctx)

	var revenue, expenses decimal.Decimal
	if err := tx.QueryRow(ctx, revenueQuery, month).Scan(&revenue); err != nil {
		return nil, fmt.Errorf("sum revenue for %s: %w", month, err)
	}
	if err := tx.QueryRow(ctx, expensesQuery, month).Scan(&expenses); err != nil {
		return nil, fmt.Errorf("sum expenses for %s: %w", month, err)
	}
	expenses = expenses.Round(2)
	profit := revenue.Sub(expenses)

	report := &MonthlyReport{Month: month, TotalRevenue: revenue, TotalExpenses: expenses, Profit: profit}
	err = tx.QueryRow(ctx, `
		INSERT INTO reports (month, total_revenue, total_expenses, profit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (month) DO UPDATE SET
		    total_revenue = EXCLUDED.total_revenue,
		    total_expenses = EXCLUDED.total_expenses,
		    profit = EXCLUDED.profit,
		    generated_at = NOW()
		RETURNING id, generated_at
	`, month, revenue, expenses, profit).Scan(&report.ID, &report.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert report for %s: %w", month, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit generate report: %w", err)
	}
	return report, nil
}

func (s *reportService) GetReports(ctx context.Context) ([]MonthlyReport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, month, total_revenue, total_expenses, profit, generated_at
		FROM reports
		ORDER BY month DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []MonthlyReport
	for rows.Next() {
		var r MonthlyReport
		if err := rows.Scan(&r.ID, &r.Month, &r.TotalRevenue, &r.TotalExpenses, &r.Profit, &r.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

func (s *reportService) DeleteReport(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM reports WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete report %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report %d: %w", id, ErrNotFound)
	}
	return nil
}
