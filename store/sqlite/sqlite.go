/*
Package sqlite provides the SQLite-backed implementation of ledger.Store.

PURPOSE:
  Durable single-file persistence for all six ledger collections plus the
  settings singleton. The same patterns apply to PostgreSQL - only minor
  SQL dialect differences.

SCHEMA NOTES:
  - Every table uses INTEGER PRIMARY KEY AUTOINCREMENT so identifiers
    are assigned on insert and never reused.
  - Weights and money are stored as TEXT holding exact decimal strings
    and round-trip through shopspring/decimal without float drift.
  - customers.name carries a UNIQUE COLLATE NOCASE index: the database
    backs the case-insensitive uniqueness rule the ledger layer enforces.
  - settings is a singleton row with a fixed id of 1.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The deployment is single-user;
  with PostgreSQL, database-level concurrency control would handle this
  instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/udangku.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - ledger/store.go: Interface definition
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ulyafarhan/udangku/ledger"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_name
		ON customers(name COLLATE NOCASE);

	CREATE TABLE IF NOT EXISTS stock_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		supplier_name TEXT NOT NULL,
		date TEXT NOT NULL,
		gross_weight TEXT NOT NULL,
		buy_price TEXT NOT NULL,
		shrinkage_percentage TEXT NOT NULL,
		net_weight TEXT NOT NULL,
		total_cost TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_stock_entries_date ON stock_entries(date);

	CREATE TABLE IF NOT EXISTS operational_costs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		amount TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_operational_costs_date ON operational_costs(date);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL,
		customer_name TEXT NOT NULL,
		date TEXT NOT NULL,
		shrimp_type TEXT NOT NULL DEFAULT '',
		quantity TEXT NOT NULL,
		price_per_kg TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		paid_amount TEXT NOT NULL,
		remaining_debt TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_customer ON transactions(customer_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);

	CREATE TABLE IF NOT EXISTS debts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL,
		customer_name TEXT NOT NULL,
		transaction_id INTEGER NOT NULL,
		original_amount TEXT NOT NULL,
		remaining_amount TEXT NOT NULL,
		due_date TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_debts_customer ON debts(customer_id);
	CREATE INDEX IF NOT EXISTS idx_debts_transaction ON debts(transaction_id);

	CREATE TABLE IF NOT EXISTS debt_payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		debt_id INTEGER NOT NULL,
		amount TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_debt_payments_debt ON debt_payments(debt_id);

	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY,
		business_name TEXT NOT NULL DEFAULT '',
		business_address TEXT NOT NULL DEFAULT '',
		business_phone TEXT NOT NULL DEFAULT '',
		business_email TEXT NOT NULL DEFAULT '',
		default_shrinkage_percentage TEXT NOT NULL,
		default_daily_price TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'IDR',
		currency_symbol TEXT NOT NULL DEFAULT 'Rp',
		items_per_page INTEGER NOT NULL DEFAULT 10,
		debt_due_days INTEGER NOT NULL DEFAULT 30,
		enable_auto_backup BOOLEAN NOT NULL DEFAULT FALSE,
		backup_frequency TEXT NOT NULL DEFAULT 'weekly',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

// fieldParser decodes the TEXT columns of one row, remembering the first
// malformed value. A bad stored time or decimal is data corruption and must
// surface as an error, never be coerced to a zero value.
type fieldParser struct{ err error }

func (p *fieldParser) time(s string) time.Time {
	if p.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		p.err = fmt.Errorf("malformed time %q: %w", s, err)
	}
	return t
}

func (p *fieldParser) decimal(s string) decimal.Decimal {
	if p.err != nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.err = fmt.Errorf("malformed decimal %q: %w", s, err)
		return decimal.Zero
	}
	return d
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func (s *Store) CreateCustomer(ctx context.Context, c ledger.Customer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (name, phone, address, created_at) VALUES (?, ?, ?, ?)`,
		c.Name, c.Phone, c.Address, formatTime(c.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert customer: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (*ledger.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scanCustomer(s.db.QueryRowContext(ctx,
		`SELECT id, name, phone, address, created_at FROM customers WHERE id = ?`, id).Scan)
}

func (s *Store) FindCustomerByName(ctx context.Context, name string) (*ledger.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scanCustomer(s.db.QueryRowContext(ctx,
		`SELECT id, name, phone, address, created_at FROM customers WHERE name = ? COLLATE NOCASE`, name).Scan)
}

func scanCustomer(scan func(dest ...any) error) (*ledger.Customer, error) {
	var c ledger.Customer
	var createdAt string
	err := scan(&c.ID, &c.Name, &c.Phone, &c.Address, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}
	var p fieldParser
	c.CreatedAt = p.time(createdAt)
	if p.err != nil {
		return nil, fmt.Errorf("failed to decode customer %d: %w", c.ID, p.err)
	}
	return &c, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]ledger.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, phone, address, created_at FROM customers ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var out []ledger.Customer
	for rows.Next() {
		c, err := scanCustomer(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCustomer(ctx context.Context, c ledger.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, phone = ?, address = ? WHERE id = ?`,
		c.Name, c.Phone, c.Address, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

// =============================================================================
// STOCK ENTRIES
// =============================================================================

const stockEntryColumns = `id, supplier_name, date, gross_weight, buy_price,
	shrinkage_percentage, net_weight, total_cost, created_at, updated_at`

func (s *Store) CreateStockEntry(ctx context.Context, e ledger.StockEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_entries
		(supplier_name, date, gross_weight, buy_price, shrinkage_percentage,
		 net_weight, total_cost, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SupplierName, formatTime(e.Date),
		e.GrossWeight.String(), e.BuyPrice.String(), e.ShrinkagePercentage.String(),
		e.NetWeight.String(), e.TotalCost.String(),
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert stock entry: %w", err)
	}
	return res.LastInsertId()
}

func scanStockEntry(scan func(dest ...any) error) (*ledger.StockEntry, error) {
	var e ledger.StockEntry
	var date, gross, price, shrink, net, cost, createdAt, updatedAt string
	err := scan(&e.ID, &e.SupplierName, &date, &gross, &price, &shrink, &net, &cost, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan stock entry: %w", err)
	}
	var p fieldParser
	e.Date = p.time(date)
	e.GrossWeight = p.decimal(gross)
	e.BuyPrice = p.decimal(price)
	e.ShrinkagePercentage = p.decimal(shrink)
	e.NetWeight = p.decimal(net)
	e.TotalCost = p.decimal(cost)
	e.CreatedAt = p.time(createdAt)
	e.UpdatedAt = p.time(updatedAt)
	if p.err != nil {
		return nil, fmt.Errorf("failed to decode stock entry %d: %w", e.ID, p.err)
	}
	return &e, nil
}

func (s *Store) GetStockEntry(ctx context.Context, id int64) (*ledger.StockEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scanStockEntry(s.db.QueryRowContext(ctx,
		`SELECT `+stockEntryColumns+` FROM stock_entries WHERE id = ?`, id).Scan)
}

func (s *Store) ListStockEntries(ctx context.Context) ([]ledger.StockEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+stockEntryColumns+` FROM stock_entries ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock entries: %w", err)
	}
	defer rows.Close()

	var out []ledger.StockEntry
	for rows.Next() {
		e, err := scanStockEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *Store) UpdateStockEntry(ctx context.Context, e ledger.StockEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE stock_entries SET
			supplier_name = ?, date = ?, gross_weight = ?, buy_price = ?,
			shrinkage_percentage = ?, net_weight = ?, total_cost = ?, updated_at = ?
		WHERE id = ?`,
		e.SupplierName, formatTime(e.Date),
		e.GrossWeight.String(), e.BuyPrice.String(), e.ShrinkagePercentage.String(),
		e.NetWeight.String(), e.TotalCost.String(), formatTime(e.UpdatedAt),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stock entry: %w", err)
	}
	return nil
}

func (s *Store) DeleteStockEntry(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM stock_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete stock entry: %w", err)
	}
	return nil
}

// =============================================================================
// OPERATIONAL COSTS
// =============================================================================

func (s *Store) CreateOperationalCost(ctx context.Context, c ledger.OperationalCost) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO operational_costs (date, description, amount, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		formatTime(c.Date), c.Description, c.Amount.String(), c.Category,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert operational cost: %w", err)
	}
	return res.LastInsertId()
}

func scanOperationalCost(scan func(dest ...any) error) (*ledger.OperationalCost, error) {
	var c ledger.OperationalCost
	var date, amount, createdAt, updatedAt string
	err := scan(&c.ID, &date, &c.Description, &amount, &c.Category, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan operational cost: %w", err)
	}
	var p fieldParser
	c.Date = p.time(date)
	c.Amount = p.decimal(amount)
	c.CreatedAt = p.time(createdAt)
	c.UpdatedAt = p.time(updatedAt)
	if p.err != nil {
		return nil, fmt.Errorf("failed to decode operational cost %d: %w", c.ID, p.err)
	}
	return &c, nil
}

func (s *Store) GetOperationalCost(ctx context.Context, id int64) (*ledger.OperationalCost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scanOperationalCost(s.db.QueryRowContext(ctx, `
		SELECT id, date, description, amount, category, created_at, updated_at
		FROM operational_costs WHERE id = ?`, id).Scan)
}

func (s *Store) ListOperationalCosts(ctx context.Context) ([]ledger.OperationalCost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, description, amount, category, created_at, updated_at
		FROM operational_costs ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query operational costs: %w", err)
	}
	defer rows.Close()

	var out []ledger.OperationalCost
	for rows.Next() {
		c, err := scanOperationalCost(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateOperationalCost(ctx context.Context, c ledger.OperationalCost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE operational_costs SET date = ?, description = ?, amount = ?, category = ?, updated_at = ?
		WHERE id = ?`,
		formatTime(c.Date), c.Description, c.Amount.String(), c.Category,
		formatTime(c.UpdatedAt), c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update operational cost: %w", err)
	}
	return nil
}

func (s *Store) DeleteOperationalCost(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM operational_costs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete operational cost: %w", err)
	}
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

const transactionColumns = `id, customer_id, customer_name, date, shrimp_type,
	quantity, price_per_kg, total_amount, payment_method, paid_amount,
	remaining_debt, status, created_at`

func (s *Store) CreateTransaction(ctx context.Context, t ledger.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions
		(customer_id, customer_name, date, shrimp_type, quantity, price_per_kg,
		 total_amount, payment_method, paid_amount, remaining_debt, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.CustomerID, t.CustomerName, formatTime(t.Date), t.ShrimpType,
		t.Quantity.String(), t.PricePerKg.String(), t.TotalAmount.String(),
		string(t.PaymentMethod), t.PaidAmount.String(), t.RemainingDebt.String(),
		string(t.Status), formatTime(t.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}
	return res.LastInsertId()
}

func scanTransaction(scan func(dest ...any) error) (*ledger.Transaction, error) {
	var t ledger.Transaction
	var date, quantity, price, total, method, paid, remaining, status, createdAt string
	err := scan(&t.ID, &t.CustomerID, &t.CustomerName, &date, &t.ShrimpType,
		&quantity, &price, &total, &method, &paid, &remaining, &status, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	var p fieldParser
	t.Date = p.time(date)
	t.Quantity = p.decimal(quantity)
	t.PricePerKg = p.decimal(price)
	t.TotalAmount = p.decimal(total)
	t.PaymentMethod = ledger.PaymentMethod(method)
	t.PaidAmount = p.decimal(paid)
	t.RemainingDebt = p.decimal(remaining)
	t.Status = ledger.TransactionStatus(status)
	t.CreatedAt = p.time(createdAt)
	if p.err != nil {
		return nil, fmt.Errorf("failed to decode transaction %d: %w", t.ID, p.err)
	}
	return &t, nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scanTransaction(s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id).Scan)
}

func (s *Store) ListTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTransaction(ctx context.Context, t ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET
			customer_id = ?, customer_name = ?, date = ?, shrimp_type = ?,
			quantity = ?, price_per_kg = ?, total_amount = ?, payment_method = ?,
			paid_amount = ?, remaining_debt = ?, status = ?
		WHERE id = ?`,
		t.CustomerID, t.CustomerName, formatTime(t.Date), t.ShrimpType,
		t.Quantity.String(), t.PricePerKg.String(), t.TotalAmount.String(),
		string(t.PaymentMethod), t.PaidAmount.String(), t.RemainingDebt.String(),
		string(t.Status), t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// =============================================================================
// DEBTS & PAYMENTS
// =============================================================================

const debtColumns = `id, customer_id, customer_name, transaction_id,
	original_amount, remaining_amount, due_date, status, created_at, updated_at`

func (s *Store) CreateDebt(ctx context.Context, d ledger.Debt) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO debts
		(customer_id, customer_name, transaction_id, original_amount,
		 remaining_amount, due_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.CustomerID, d.CustomerName, d.TransactionID,
		d.OriginalAmount.String(), d.RemainingAmount.String(),
		formatTime(d.DueDate), string(d.Status),
		formatTime(d.CreatedAt), formatTime(d.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert debt: %w", err)
	}
	return res.LastInsertId()
}

func scanDebt(scan func(dest ...any) error) (*ledger.Debt, error) {
	var d ledger.Debt
	var original, remaining, dueDate, status, createdAt, updatedAt string
	err := scan(&d.ID, &d.CustomerID, &d.CustomerName, &d.TransactionID,
		&original, &remaining, &dueDate, &status, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan debt: %w", err)
	}
	var p fieldParser
	d.OriginalAmount = p.decimal(original)
	d.RemainingAmount = p.decimal(remaining)
	d.DueDate = p.time(dueDate)
	d.Status = ledger.DebtStatus(status)
	d.CreatedAt = p.time(createdAt)
	d.UpdatedAt = p.time(updatedAt)
	if p.err != nil {
		return nil, fmt.Errorf("failed to decode debt %d: %w", d.ID, p.err)
	}
	return &d, nil
}

func (s *Store) GetDebt(ctx context.Context, id int64) (*ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scanDebt(s.db.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = ?`, id).Scan)
}

func (s *Store) queryDebts(ctx context.Context, query string, args ...any) ([]ledger.Debt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query debts: %w", err)
	}
	defer rows.Close()

	var out []ledger.Debt
	for rows.Next() {
		d, err := scanDebt(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (s *Store) ListDebts(ctx context.Context) ([]ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryDebts(ctx, `SELECT `+debtColumns+` FROM debts ORDER BY id ASC`)
}

func (s *Store) ListDebtsByCustomer(ctx context.Context, customerID int64) ([]ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryDebts(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE customer_id = ? ORDER BY id ASC`, customerID)
}

func (s *Store) UpdateDebt(ctx context.Context, d ledger.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE debts SET remaining_amount = ?, status = ?, due_date = ?, updated_at = ?
		WHERE id = ?`,
		d.RemainingAmount.String(), string(d.Status), formatTime(d.DueDate),
		formatTime(d.UpdatedAt), d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", err)
	}
	return nil
}

func (s *Store) CreateDebtPayment(ctx context.Context, p ledger.DebtPayment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO debt_payments (debt_id, amount, payment_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.DebtID, p.Amount.String(), formatTime(p.PaymentDate), p.Notes, formatTime(p.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert debt payment: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) queryDebtPayments(ctx context.Context, query string, args ...any) ([]ledger.DebtPayment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query debt payments: %w", err)
	}
	defer rows.Close()

	var out []ledger.DebtPayment
	for rows.Next() {
		var p ledger.DebtPayment
		var amount, paymentDate, createdAt string
		if err := rows.Scan(&p.ID, &p.DebtID, &amount, &paymentDate, &p.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan debt payment: %w", err)
		}
		var fp fieldParser
		p.Amount = fp.decimal(amount)
		p.PaymentDate = fp.time(paymentDate)
		p.CreatedAt = fp.time(createdAt)
		if fp.err != nil {
			return nil, fmt.Errorf("failed to decode debt payment %d: %w", p.ID, fp.err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListDebtPayments(ctx context.Context, debtID int64) ([]ledger.DebtPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryDebtPayments(ctx, `
		SELECT id, debt_id, amount, payment_date, notes, created_at
		FROM debt_payments WHERE debt_id = ? ORDER BY id ASC`, debtID)
}

func (s *Store) ListAllDebtPayments(ctx context.Context) ([]ledger.DebtPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryDebtPayments(ctx, `
		SELECT id, debt_id, amount, payment_date, notes, created_at
		FROM debt_payments ORDER BY id ASC`)
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) GetSettings(ctx context.Context) (*ledger.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, business_name, business_address, business_phone, business_email,
		       default_shrinkage_percentage, default_daily_price, currency,
		       currency_symbol, items_per_page, debt_due_days, enable_auto_backup,
		       backup_frequency, created_at, updated_at
		FROM settings WHERE id = 1`)

	var st ledger.Settings
	var shrink, price, frequency, createdAt, updatedAt string
	err := row.Scan(&st.ID, &st.BusinessName, &st.BusinessAddress, &st.BusinessPhone,
		&st.BusinessEmail, &shrink, &price, &st.Currency, &st.CurrencySymbol,
		&st.ItemsPerPage, &st.DebtDueDays, &st.EnableAutoBackup, &frequency,
		&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan settings: %w", err)
	}
	var p fieldParser
	st.DefaultShrinkagePercentage = p.decimal(shrink)
	st.DefaultDailyPrice = p.decimal(price)
	st.BackupFrequency = ledger.BackupFrequency(frequency)
	st.CreatedAt = p.time(createdAt)
	st.UpdatedAt = p.time(updatedAt)
	if p.err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", p.err)
	}
	return &st, nil
}

func (s *Store) SaveSettings(ctx context.Context, st ledger.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveSettings(ctx, s.db, st)
}

func saveSettings(ctx context.Context, db execer, st ledger.Settings) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings
		(id, business_name, business_address, business_phone, business_email,
		 default_shrinkage_percentage, default_daily_price, currency, currency_symbol,
		 items_per_page, debt_due_days, enable_auto_backup, backup_frequency,
		 created_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			business_name = excluded.business_name,
			business_address = excluded.business_address,
			business_phone = excluded.business_phone,
			business_email = excluded.business_email,
			default_shrinkage_percentage = excluded.default_shrinkage_percentage,
			default_daily_price = excluded.default_daily_price,
			currency = excluded.currency,
			currency_symbol = excluded.currency_symbol,
			items_per_page = excluded.items_per_page,
			debt_due_days = excluded.debt_due_days,
			enable_auto_backup = excluded.enable_auto_backup,
			backup_frequency = excluded.backup_frequency,
			updated_at = excluded.updated_at`,
		st.BusinessName, st.BusinessAddress, st.BusinessPhone, st.BusinessEmail,
		st.DefaultShrinkagePercentage.String(), st.DefaultDailyPrice.String(),
		st.Currency, st.CurrencySymbol, st.ItemsPerPage, st.DebtDueDays,
		st.EnableAutoBackup, string(st.BackupFrequency),
		formatTime(st.CreatedAt), formatTime(st.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// =============================================================================
// SNAPSHOT RESTORE
// =============================================================================

// ReplaceAll clears every table and bulk-loads the snapshot rows inside a
// single database transaction, preserving ids.
func (s *Store) ReplaceAll(ctx context.Context, snap ledger.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{
		"customers", "stock_entries", "operational_costs",
		"transactions", "debts", "debt_payments", "settings",
	} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, c := range snap.Customers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO customers (id, name, phone, address, created_at) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Phone, c.Address, formatTime(c.CreatedAt),
		); err != nil {
			return fmt.Errorf("failed to load customer %d: %w", c.ID, err)
		}
	}
	for _, e := range snap.StockEntries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stock_entries
			(id, supplier_name, date, gross_weight, buy_price, shrinkage_percentage,
			 net_weight, total_cost, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.SupplierName, formatTime(e.Date),
			e.GrossWeight.String(), e.BuyPrice.String(), e.ShrinkagePercentage.String(),
			e.NetWeight.String(), e.TotalCost.String(),
			formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
		); err != nil {
			return fmt.Errorf("failed to load stock entry %d: %w", e.ID, err)
		}
	}
	for _, c := range snap.OperationalCosts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO operational_costs (id, date, description, amount, category, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, formatTime(c.Date), c.Description, c.Amount.String(), c.Category,
			formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
		); err != nil {
			return fmt.Errorf("failed to load operational cost %d: %w", c.ID, err)
		}
	}
	for _, t := range snap.Transactions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions
			(id, customer_id, customer_name, date, shrimp_type, quantity, price_per_kg,
			 total_amount, payment_method, paid_amount, remaining_debt, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.CustomerID, t.CustomerName, formatTime(t.Date), t.ShrimpType,
			t.Quantity.String(), t.PricePerKg.String(), t.TotalAmount.String(),
			string(t.PaymentMethod), t.PaidAmount.String(), t.RemainingDebt.String(),
			string(t.Status), formatTime(t.CreatedAt),
		); err != nil {
			return fmt.Errorf("failed to load transaction %d: %w", t.ID, err)
		}
	}
	for _, d := range snap.Debts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO debts
			(id, customer_id, customer_name, transaction_id, original_amount,
			 remaining_amount, due_date, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.CustomerID, d.CustomerName, d.TransactionID,
			d.OriginalAmount.String(), d.RemainingAmount.String(),
			formatTime(d.DueDate), string(d.Status),
			formatTime(d.CreatedAt), formatTime(d.UpdatedAt),
		); err != nil {
			return fmt.Errorf("failed to load debt %d: %w", d.ID, err)
		}
	}
	for _, p := range snap.DebtPayments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO debt_payments (id, debt_id, amount, payment_date, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.DebtID, p.Amount.String(), formatTime(p.PaymentDate), p.Notes, formatTime(p.CreatedAt),
		); err != nil {
			return fmt.Errorf("failed to load debt payment %d: %w", p.ID, err)
		}
	}
	if snap.Settings != nil {
		if err := saveSettings(ctx, tx, *snap.Settings); err != nil {
			return err
		}
	}

	return tx.Commit()
}
