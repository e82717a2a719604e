package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaService owns the persistent table layout: idempotent creation plus
// the one-time migration of legacy integer quantity columns to NUMERIC.
type SchemaService interface {
	// EnsureSchema creates the four tables if they do not exist. Safe to run
	// on every startup.
	EnsureSchema(ctx context.Context) error

	// Migrate upgrades any quantity-bearing column still declared with an
	// integer type to the current NUMERIC layout. Each table is migrated in
	// one transaction; on failure the transaction is rolled back and the
	// original table is left untouched. Returns the names of the tables that
	// were migrated.
	Migrate(ctx context.Context) ([]string, error)
}

type schemaService struct {
	pool *pgxpool.Pool
}

// NewSchemaService constructs a SchemaService backed by the given pool.
func NewSchemaService(pool *pgxpool.Pool) SchemaService {
	return &schemaService{pool: pool}
}

// tableDDL maps each table to its current definition. Dates are stored as
// YYYY-MM-DD text; the report month key is the first 7 characters of a date.
var tableDDL = map[string]string{
	"products": `
		CREATE TABLE IF NOT EXISTS products (
		    id SERIAL PRIMARY KEY,
		    name TEXT NOT NULL UNIQUE,
		    category TEXT NOT NULL DEFAULT '',
		    purchase_price NUMERIC(12,2) NOT NULL,
		    selling_price NUMERIC(12,2) NOT NULL,
		    stock_quantity NUMERIC(14,3) NOT NULL,
		    expiry_date TEXT
		)`,
	"sales": `
		CREATE TABLE IF NOT EXISTS sales (
		    id SERIAL PRIMARY KEY,
		    product_id INTEGER NOT NULL,
		    quantity NUMERIC(14,3) NOT NULL,
		    sale_date TEXT NOT NULL,
		    total_price NUMERIC(12,2) NOT NULL
		)`,
	"purchases": `
		CREATE TABLE IF NOT EXISTS purchases (
		    id SERIAL PRIMARY KEY,
		    product_id INTEGER NOT NULL,
		    quantity NUMERIC(14,3) NOT NULL,
		    purchase_date TEXT NOT NULL,
		    cost_price NUMERIC(12,2) NOT NULL,
		    supplier_name TEXT
		)`,
	"reports": `
		CREATE TABLE IF NOT EXISTS reports (
		    id SERIAL PRIMARY KEY,
		    month TEXT NOT NULL UNIQUE,
		    total_revenue NUMERIC(12,2) NOT NULL,
		    total_expenses NUMERIC(12,2) NOT NULL,
		    profit NUMERIC(12,2) NOT NULL,
		    generated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
}

// quantityColumns lists the columns that older databases created as INTEGER
// and that must now hold fractional quantities.
var quantityColumns = []struct {
	table  string
	column string
}{
	{"products", "stock_quantity"},
	{"sales", "quantity"},
	{"purchases", "quantity"},
}

func (s *schemaService) EnsureSchema(ctx context.Context) error {
	// Fixed order so foreign data arrives predictably in fresh databases.
	for _, table := range []string{"products", "sales", "purchases", "reports"} {
		if _, err := s.pool.Exec(ctx, tableDDL[table]); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

func (s *schemaService) Migrate(ctx context.Context) ([]string, error) {
	var migrated []string
	for _, qc := range quantityColumns {
		legacy, err := s.columnIsInteger(ctx, qc.table, qc.column)
		if err != nil {
			return migrated, err
		}
		if !legacy {
			continue
		}
		if err := s.migrateColumnType(ctx, qc.table); err != nil {
			return migrated, fmt.Errorf("%w: table %s: %v", ErrMigrationFailed, qc.table, err)
		}
		migrated = append(migrated, qc.table)
	}
	return migrated, nil
}

// columnIsInteger reports whether the declared type of table.column is from
// the integer family.
func (s *schemaService) columnIsInteger(ctx context.Context, table, column string) (bool, error) {
	var dataType string
	err := s.pool.QueryRow(ctx, `
		SELECT data_type
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2
	`, table, column).Scan(&dataType)
	if err != nil {
		return false, fmt.Errorf("inspect %s.%s: %w", table, column, err)
	}
	switch dataType {
	case "integer", "bigint", "smallint":
		return true, nil
	}
	return false, nil
}

// migrateColumnType rebuilds a table under its current DDL: rename the old
// table aside, create the fresh one, copy every row, drop the old table.
// All four steps run in one transaction; any failure rolls the whole thing
// back, leaving the original table and its data intact.
func (s *schemaService) migrateColumnType(ctx context.Context, table string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback(ctx)

	oldTable := table + "_old"
	if _, err := tx.Exec(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", table, oldTable)); err != nil {
		return fmt.Errorf("rename %s: %w", table, err)
	}

	ddl := strings.Replace(tableDDL[table], "IF NOT EXISTS ", "", 1)
	if _, err := tx.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create fresh %s: %w", table, err)
	}

	// Copy by the old table's column list so the rebuild survives databases
	// that predate optional columns.
	rows, err := tx.Query(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`, oldTable)
	if err != nil {
		return fmt.Errorf("list columns of %s: %w", oldTable, err)
	}
	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("scan column name: %w", err)
		}
		columns = append(columns, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate columns of %s: %w", oldTable, err)
	}

	columnList := strings.Join(columns, ", ")
	if _, err := tx.Exec(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) SELECT %s FROM %s", table, columnList, columnList, oldTable,
	)); err != nil {
		return fmt.Errorf("copy rows into %s: %w", table, err)
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE %s", oldTable)); err != nil {
		return fmt.Errorf("drop %s: %w", oldTable, err)
	}

	// The fresh SERIAL starts at 1; advance it past the copied ids.
	if _, err := tx.Exec(ctx, fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %s",
		table, table,
	)); err != nil {
		return fmt.Errorf("advance id sequence of %s: %w", table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration of %s: %w", table, err)
	}
	return nil
}
