/*
debt.go - Debt ledger: amortizing receivables

PURPOSE:
  Tracks repayment of debts spawned by partially paid or unpaid sales.
  Payments are append-only; each application decrements the parent debt's
  remaining amount and re-derives its status.

INVARIANT:
  originalAmount - sum(payments) == remainingAmount, clamped at 0.
  Overpayment is absorbed silently: the payment row keeps its full
  amount, the remaining amount floors at zero. Rejecting overpayment as
  a validation error instead is a candidate behavior change; the silent
  clamp matches what users of the current books expect.

STATUS RULE (after applying a payment):
  newRemaining <= 0              -> paid
  newRemaining == originalAmount -> pending (no net payment yet)
  else                           -> partial
  A zero-amount payment on a fresh debt therefore leaves it pending.
*/
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DebtLedger applies payments and answers receivable queries.
type DebtLedger struct {
	store Store
	bus   *Bus
	now   func() time.Time
}

// NewDebtLedger creates a debt ledger backed by the given store.
func NewDebtLedger(store Store, bus *Bus) *DebtLedger {
	return &DebtLedger{store: store, bus: bus, now: time.Now}
}

// Debts returns all receivables.
func (l *DebtLedger) Debts(ctx context.Context) ([]Debt, error) {
	debts, err := l.store.ListDebts(ctx)
	if err != nil {
		return nil, storageErr("list debts", err)
	}
	return debts, nil
}

// DebtsByCustomer returns the receivables of one customer.
func (l *DebtLedger) DebtsByCustomer(ctx context.Context, customerID int64) ([]Debt, error) {
	debts, err := l.store.ListDebtsByCustomer(ctx, customerID)
	if err != nil {
		return nil, storageErr("list debts by customer", err)
	}
	return debts, nil
}

// Payments returns the payment history of one debt, oldest first.
func (l *DebtLedger) Payments(ctx context.Context, debtID int64) ([]DebtPayment, error) {
	debt, err := l.store.GetDebt(ctx, debtID)
	if err != nil {
		return nil, storageErr("get debt", err)
	}
	if debt == nil {
		return nil, &NotFoundError{Kind: "debt", ID: debtID}
	}
	payments, err := l.store.ListDebtPayments(ctx, debtID)
	if err != nil {
		return nil, storageErr("list debt payments", err)
	}
	return payments, nil
}

// AddDebtPaymentInput is the typed request for a repayment.
type AddDebtPaymentInput struct {
	DebtID      int64
	Amount      decimal.Decimal
	PaymentDate time.Time
	Notes       string
}

// AddDebtPayment appends the payment and updates the parent debt's
// remaining amount and status.
func (l *DebtLedger) AddDebtPayment(ctx context.Context, in AddDebtPaymentInput) (*Debt, error) {
	if in.Amount.IsNegative() {
		return nil, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	debt, err := l.store.GetDebt(ctx, in.DebtID)
	if err != nil {
		return nil, storageErr("get debt", err)
	}
	if debt == nil {
		return nil, &NotFoundError{Kind: "debt", ID: in.DebtID}
	}

	newRemaining := debt.RemainingAmount.Sub(in.Amount)
	newStatus := DebtStatusForAmounts(newRemaining, debt.OriginalAmount)

	payment := DebtPayment{
		DebtID:      in.DebtID,
		Amount:      in.Amount,
		PaymentDate: in.PaymentDate,
		Notes:       in.Notes,
		CreatedAt:   l.now(),
	}
	if _, err := l.store.CreateDebtPayment(ctx, payment); err != nil {
		return nil, storageErr("create debt payment", err)
	}

	if newRemaining.IsNegative() {
		newRemaining = decimal.Zero
	}
	debt.RemainingAmount = newRemaining
	debt.Status = newStatus
	debt.UpdatedAt = l.now()
	if err := l.store.UpdateDebt(ctx, *debt); err != nil {
		return nil, storageErr("update debt", err)
	}

	l.bus.Publish(CollectionDebtPayments, CollectionDebts)
	return debt, nil
}

// =============================================================================
// DEBT EXPORT
// =============================================================================

// DebtExport serializes all receivables and their payment history.
type DebtExport struct {
	Debts      []Debt        `json:"debts"`
	Payments   []DebtPayment `json:"payments"`
	ExportedAt time.Time     `json:"exportedAt"`
}

// Export returns every debt and payment with a timestamp.
func (l *DebtLedger) Export(ctx context.Context) (*DebtExport, error) {
	debts, err := l.store.ListDebts(ctx)
	if err != nil {
		return nil, storageErr("list debts", err)
	}
	payments, err := l.store.ListAllDebtPayments(ctx)
	if err != nil {
		return nil, storageErr("list debt payments", err)
	}
	return &DebtExport{
		Debts:      debts,
		Payments:   payments,
		ExportedAt: l.now(),
	}, nil
}
