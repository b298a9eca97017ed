/*
Package ledger provides the accounting core for a shrimp-trading operation.

PURPOSE:
  This package contains the domain entities and the four engines that keep
  them mutually consistent: the stock ledger (intake and availability), the
  transaction engine (sales), the debt ledger (receivables and repayments),
  and the reporting engine (derived summaries).

KEY CONCEPTS IN THIS FILE (types.go):
  - Customer, StockEntry, OperationalCost, Transaction, Debt, DebtPayment:
    the persisted entities
  - PaymentMethod / TransactionStatus / DebtStatus: lifecycle enums
  - Derived-field formulas: net weight, total cost, remaining debt, status

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for all weights and money to avoid
     floating-point errors
  2. Derived fields are always recomputed from their source inputs, never
     stored independently of them
  3. Status values are pure functions of amounts, never set directly

SEE ALSO:
  - stock.go: Stock ledger (intake, availability)
  - transaction.go: Transaction engine (sales)
  - debt.go: Debt ledger (payments, amortization)
  - report.go: Reporting engine (derived summaries)
  - store.go: Persistence interface
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT METHOD & STATUS ENUMS
// =============================================================================

// PaymentMethod is how a sale is settled at transaction time.
type PaymentMethod string

const (
	// PaymentCash settles the full amount at sale time.
	PaymentCash PaymentMethod = "cash"
	// PaymentDebt defers the full amount; nothing paid up front.
	PaymentDebt PaymentMethod = "debt"
	// PaymentInstallment pays part up front and tracks the rest as debt.
	PaymentInstallment PaymentMethod = "installment"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentDebt, PaymentInstallment:
		return true
	}
	return false
}

// TransactionStatus is derived from the paid and remaining amounts.
// It is never set directly.
type TransactionStatus string

const (
	StatusPaid        TransactionStatus = "paid"
	StatusDebt        TransactionStatus = "debt"
	StatusInstallment TransactionStatus = "installment"
)

// DebtStatus tracks repayment progress of a receivable.
type DebtStatus string

const (
	DebtPending DebtStatus = "pending"
	DebtPartial DebtStatus = "partial"
	DebtPaid    DebtStatus = "paid"
)

// =============================================================================
// ENTITIES
// =============================================================================

// Customer is a buyer. Created implicitly on first transaction referencing
// an unknown name, or explicitly through the customer directory. Names are
// unique ignoring case.
type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Address   string
	CreatedAt time.Time
}

// StockEntry records one intake of shrimp from a supplier.
// NetWeight and TotalCost are derived from the three independent inputs
// (GrossWeight, ShrinkagePercentage, BuyPrice) and recomputed whenever any
// of them change.
type StockEntry struct {
	ID                  int64
	SupplierName        string
	Date                time.Time
	GrossWeight         decimal.Decimal // kg, as weighed at intake
	BuyPrice            decimal.Decimal // per kg
	ShrinkagePercentage decimal.Decimal // expected weight loss, 0..100
	NetWeight           decimal.Decimal // derived: gross * (1 - shrinkage/100)
	TotalCost           decimal.Decimal // derived: gross * buyPrice
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// OperationalCost is a free-form expense (ice, fuel, labor, ...).
type OperationalCost struct {
	ID          int64
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Transaction records one sale. TotalAmount, RemainingDebt and Status are
// derived at creation time and kept consistent by the transaction engine.
type Transaction struct {
	ID            int64
	CustomerID    int64
	CustomerName  string // denormalized for display and grouping
	Date          time.Time
	ShrimpType    string
	Quantity      decimal.Decimal // kg sold
	PricePerKg    decimal.Decimal
	TotalAmount   decimal.Decimal // derived: quantity * pricePerKg
	PaymentMethod PaymentMethod
	PaidAmount    decimal.Decimal
	RemainingDebt decimal.Decimal // derived: totalAmount - paidAmount
	Status        TransactionStatus
	CreatedAt     time.Time
}

// Debt is a receivable spawned by a transaction whose remaining debt was
// positive. OriginalAmount is a snapshot at creation and never changes;
// RemainingAmount is mutated only by payment application.
type Debt struct {
	ID              int64
	CustomerID      int64
	CustomerName    string
	TransactionID   int64
	OriginalAmount  decimal.Decimal
	RemainingAmount decimal.Decimal
	DueDate         time.Time
	Status          DebtStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DebtPayment is one repayment against a debt. Append-only: payments are
// never modified or removed once written.
type DebtPayment struct {
	ID          int64
	DebtID      int64
	Amount      decimal.Decimal
	PaymentDate time.Time
	Notes       string
	CreatedAt   time.Time
}

// =============================================================================
// DERIVED-FIELD FORMULAS
// =============================================================================

var hundred = decimal.NewFromInt(100)

// ComputeNetWeight returns gross * (1 - shrinkage/100).
func ComputeNetWeight(gross, shrinkagePct decimal.Decimal) decimal.Decimal {
	return gross.Mul(decimal.NewFromInt(1).Sub(shrinkagePct.Div(hundred)))
}

// ComputeTotalCost returns gross * buyPrice.
func ComputeTotalCost(gross, buyPrice decimal.Decimal) decimal.Decimal {
	return gross.Mul(buyPrice)
}

// StatusForAmounts derives a transaction status from remaining debt and
// paid amount. This is the canonical rule: fully covered means paid, a
// positive partial payment means installment, nothing paid means debt.
func StatusForAmounts(remainingDebt, paidAmount decimal.Decimal) TransactionStatus {
	switch {
	case remainingDebt.LessThanOrEqual(decimal.Zero):
		return StatusPaid
	case paidAmount.IsPositive():
		return StatusInstallment
	default:
		return StatusDebt
	}
}

// DebtStatusForAmounts derives a debt status after a payment has been
// applied. A remaining amount back at the original means no net payment
// has landed yet.
func DebtStatusForAmounts(newRemaining, originalAmount decimal.Decimal) DebtStatus {
	switch {
	case newRemaining.LessThanOrEqual(decimal.Zero):
		return DebtPaid
	case newRemaining.Equal(originalAmount):
		return DebtPending
	default:
		return DebtPartial
	}
}
