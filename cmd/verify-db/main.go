package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// verify-db audits the inventory database for consistency problems:
// negative stock, transactions pointing at missing products, stored
// report snapshots that no longer match the recomputed sums, and dates
// that do not parse as YYYY-MM-DD.
func main() {
	_ = godotenv.Load()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		log.Fatal("[CONNECT] DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool := connectDB(ctx, url)
	defer pool.Close()

	problems := 0
	problems += checkNegativeStock(ctx, pool)
	problems += checkOrphanedRows(ctx, pool, "sales")
	problems += checkOrphanedRows(ctx, pool, "purchases")
	problems += checkMalformedDates(ctx, pool, "sales", "sale_date")
	problems += checkMalformedDates(ctx, pool, "purchases", "purchase_date")
	problems += checkStaleReports(ctx, pool)

	if problems > 0 {
		log.Fatalf("[DONE] %d problem(s) found", problems)
	}
	log.Println("[DONE] database is consistent")
}

func connectDB(ctx context.Context, url string) *pgxpool.Pool {
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		log.Fatalf("[CONNECT] failed to create pool: %v", err)
	}
	if err := pool.Ping(connCtx); err != nil {
		log.Fatalf("[CONNECT] failed to ping database: %v", err)
	}

	log.Println("[CONNECT] success")
	return pool
}

func checkNegativeStock(ctx context.Context, pool *pgxpool.Pool) int {
	rows, err := pool.Query(ctx, "SELECT id, name, stock_quantity FROM products WHERE stock_quantity < 0")
	if err != nil {
		log.Fatalf("[STOCK] query failed: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int
		var name string
		var stock decimal.Decimal
		if err := rows.Scan(&id, &name, &stock); err != nil {
			log.Fatalf("[STOCK] scan failed: %v", err)
		}
		log.Printf("[STOCK] product %d (%s) has negative stock %s", id, name, stock.String())
		count++
	}
	if count == 0 {
		log.Println("[STOCK] ok")
	}
	return count
}

func checkOrphanedRows(ctx context.Context, pool *pgxpool.Pool, table string) int {
	query := "SELECT COUNT(*) FROM " + table + " t LEFT JOIN products p ON p.id = t.product_id WHERE p.id IS NULL"
	var count int
	if err := pool.QueryRow(ctx, query).Scan(&count); err != nil {
		log.Fatalf("[ORPHAN] query failed for %s: %v", table, err)
	}
	if count > 0 {
		log.Printf("[ORPHAN] %d row(s) in %s reference a missing product", count, table)
		return count
	}
	log.Printf("[ORPHAN] %s ok", table)
	return 0
}

func checkMalformedDates(ctx context.Context, pool *pgxpool.Pool, table, column string) int {
	query := "SELECT id, " + column + " FROM " + table
	rows, err := pool.Query(ctx, query)
	if err != nil {
		log.Fatalf("[DATE] query failed for %s: %v", table, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int
		var date string
		if err := rows.Scan(&id, &date); err != nil {
			log.Fatalf("[DATE] scan failed: %v", err)
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			log.Printf("[DATE] %s row %d has malformed %s %q", table, id, column, date)
			count++
		}
	}
	if count == 0 {
		log.Printf("[DATE] %s ok", table)
	}
	return count
}

func checkStaleReports(ctx context.Context, pool *pgxpool.Pool) int {
	rows, err := pool.Query(ctx, "SELECT id, month, total_revenue, total_expenses FROM reports ORDER BY month")
	if err != nil {
		log.Fatalf("[REPORT] query failed: %v", err)
	}
	defer rows.Close()

	type stored struct {
		id       int
		month    string
		revenue  decimal.Decimal
		expenses decimal.Decimal
	}
	var reports []stored
	for rows.Next() {
		var r stored
		if err := rows.Scan(&r.id, &r.month, &r.revenue, &r.expenses); err != nil {
			log.Fatalf("[REPORT] scan failed: %v", err)
		}
		reports = append(reports, r)
	}
	rows.Close()

	count := 0
	for _, r := range reports {
		var revenue, expenses decimal.Decimal
		err := pool.QueryRow(ctx,
			"SELECT COALESCE(SUM(total_price), 0) FROM sales WHERE substr(sale_date, 1, 7) = $1", r.month).Scan(&revenue)
		if err != nil {
			log.Fatalf("[REPORT] revenue query failed for %s: %v", r.month, err)
		}
		err = pool.QueryRow(ctx,
			"SELECT COALESCE(SUM(quantity * cost_price), 0) FROM purchases WHERE substr(purchase_date, 1, 7) = $1", r.month).Scan(&expenses)
		if err != nil {
			log.Fatalf("[REPORT] expenses query failed for %s: %v", r.month, err)
		}
		expenses = expenses.Round(2)

		if !r.revenue.Equal(revenue) || !r.expenses.Equal(expenses) {
			log.Printf("[REPORT] %s is stale: stored %s/%s, recomputed %s/%s (regenerate with: app report %s)",
				r.month, r.revenue.StringFixed(2), r.expenses.StringFixed(2),
				revenue.StringFixed(2), expenses.StringFixed(2), r.month)
			count++
		}
	}
	if count == 0 {
		log.Println("[REPORT] ok")
	}
	return count
}
