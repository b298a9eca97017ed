/*
store.go - Persistence interface for the six ledger collections

PURPOSE:
  Defines the interface between the domain engines and the database.
  The Store is deliberately dumb: per-collection CRUD plus a handful of
  indexed lookups. All invariants (derived fields, status rules, stock
  availability) live in the engines, never in the store.

ID ASSIGNMENT:
  Every Create* call assigns the next integer identifier for its
  collection and returns it. IDs are never reused within a database.

LOOKUP SEMANTICS:
  Get* methods return (nil, nil) when the record does not exist; the
  engines translate that into a typed NotFoundError. Store errors are
  reserved for real persistence failures.

NAME LOOKUP:
  FindCustomerByName matches ignoring case. The sqlite implementation
  backs this with a COLLATE NOCASE index; the memory implementation uses
  strings.EqualFold.

SNAPSHOT IMPORT:
  ReplaceAll clears every collection and bulk-loads the snapshot rows,
  preserving their ids. Destructive by design - this is restore-from-
  backup, not merge.

IMPLEMENTATIONS:
  - store/sqlite: production store
  - store/memory: in-memory for testing/dev

SEE ALSO:
  - backup.go: Snapshot type used by ReplaceAll
*/
package ledger

import "context"

// Store handles persistence of all ledger collections.
type Store interface {
	// Customers
	CreateCustomer(ctx context.Context, c Customer) (int64, error)
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	FindCustomerByName(ctx context.Context, name string) (*Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	UpdateCustomer(ctx context.Context, c Customer) error
	DeleteCustomer(ctx context.Context, id int64) error

	// Stock entries
	CreateStockEntry(ctx context.Context, e StockEntry) (int64, error)
	GetStockEntry(ctx context.Context, id int64) (*StockEntry, error)
	ListStockEntries(ctx context.Context) ([]StockEntry, error)
	UpdateStockEntry(ctx context.Context, e StockEntry) error
	DeleteStockEntry(ctx context.Context, id int64) error

	// Operational costs
	CreateOperationalCost(ctx context.Context, c OperationalCost) (int64, error)
	GetOperationalCost(ctx context.Context, id int64) (*OperationalCost, error)
	ListOperationalCosts(ctx context.Context) ([]OperationalCost, error)
	UpdateOperationalCost(ctx context.Context, c OperationalCost) error
	DeleteOperationalCost(ctx context.Context, id int64) error

	// Transactions
	CreateTransaction(ctx context.Context, t Transaction) (int64, error)
	GetTransaction(ctx context.Context, id int64) (*Transaction, error)
	ListTransactions(ctx context.Context) ([]Transaction, error)
	UpdateTransaction(ctx context.Context, t Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error

	// Debts
	CreateDebt(ctx context.Context, d Debt) (int64, error)
	GetDebt(ctx context.Context, id int64) (*Debt, error)
	ListDebts(ctx context.Context) ([]Debt, error)
	ListDebtsByCustomer(ctx context.Context, customerID int64) ([]Debt, error)
	UpdateDebt(ctx context.Context, d Debt) error

	// Debt payments (append-only: no update, no delete)
	CreateDebtPayment(ctx context.Context, p DebtPayment) (int64, error)
	ListDebtPayments(ctx context.Context, debtID int64) ([]DebtPayment, error)
	ListAllDebtPayments(ctx context.Context) ([]DebtPayment, error)

	// Settings (singleton row)
	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, s Settings) error

	// ReplaceAll clears every collection and loads the snapshot rows,
	// preserving ids. Used by backup restore.
	ReplaceAll(ctx context.Context, snap Snapshot) error

	Close() error
}
