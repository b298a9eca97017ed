/*
transaction.go - Transaction engine: validated sale recording

PURPOSE:
  Records a sale end to end: resolves (or creates) the customer, checks
  stock availability, computes the derived amounts, persists the
  transaction and, when something remains unpaid, spawns the linked debt.

ORDERING:
  All validation happens before the first write. A rejected sale leaves
  the customer, transaction and debt collections untouched. The accepting
  path performs sequential writes (customer, transaction, debt) without a
  wrapping multi-collection transaction; a failure between the transaction
  write and the debt write leaves a transaction with no tracked debt.

STATUS RULE:
  remainingDebt <= 0        -> paid
  else if paidAmount > 0    -> installment
  else                      -> debt
  The paid-amount rule is canonical; deciding on the payment method
  instead is a historical variant and is not implemented.

DELETE BEHAVIOR:
  DeleteTransaction removes only the transaction. A linked debt is left
  in place and keeps amortizing independently.

SEE ALSO:
  - stock.go: Availability check
  - debt.go: Payment application against spawned debts
*/
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionEngine validates and records sales.
type TransactionEngine struct {
	store   Store
	stock   *StockLedger
	bus     *Bus
	now     func() time.Time
	dueDays int // grace period for spawned debts
}

// NewTransactionEngine creates a transaction engine. Settings-derived
// knobs are injected here; call Reload when settings change.
func NewTransactionEngine(store Store, stock *StockLedger, bus *Bus, settings Settings) *TransactionEngine {
	return &TransactionEngine{
		store:   store,
		stock:   stock,
		bus:     bus,
		now:     time.Now,
		dueDays: settings.DebtDueDays,
	}
}

// Reload picks up changed settings.
func (e *TransactionEngine) Reload(settings Settings) {
	e.dueDays = settings.DebtDueDays
}

// AddTransactionInput is the typed request for a new sale.
type AddTransactionInput struct {
	CustomerName  string
	Date          time.Time
	ShrimpType    string
	Quantity      decimal.Decimal
	PricePerKg    decimal.Decimal
	PaymentMethod PaymentMethod
	PaidAmount    decimal.Decimal // ignored for cash; defaults to 0 otherwise
}

// AddTransaction records a sale. See the file header for the write order.
func (e *TransactionEngine) AddTransaction(ctx context.Context, in AddTransactionInput) (*Transaction, error) {
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return nil, &ValidationError{Field: "customerName", Reason: "must not be empty"}
	}
	if !in.Quantity.IsPositive() {
		return nil, &ValidationError{Field: "quantity", Reason: "must be greater than 0"}
	}
	if !in.PricePerKg.IsPositive() {
		return nil, &ValidationError{Field: "pricePerKg", Reason: "must be greater than 0"}
	}
	if !in.PaymentMethod.Valid() {
		return nil, &ValidationError{Field: "paymentMethod", Reason: "must be cash, debt or installment"}
	}

	total := in.Quantity.Mul(in.PricePerKg)

	// Cash assumes full payment; otherwise the caller-supplied amount
	// applies, defaulting to zero. Exact equality with the total is a
	// fully paid sale, not an error.
	paid := in.PaidAmount
	if in.PaymentMethod == PaymentCash {
		paid = total
	}
	if paid.IsNegative() {
		return nil, &ValidationError{Field: "paidAmount", Reason: "must not be negative"}
	}
	if paid.GreaterThan(total) {
		return nil, &ValidationError{Field: "paidAmount", Reason: "must not exceed the total amount"}
	}

	// Availability check before any write, so a rejected sale performs
	// no customer creation.
	summary, err := e.stock.Summary(ctx)
	if err != nil {
		return nil, err
	}
	if in.Quantity.GreaterThan(summary.CurrentStock) {
		return nil, &InsufficientStockError{Requested: in.Quantity, Available: summary.CurrentStock}
	}

	customer, err := e.resolveCustomer(ctx, name)
	if err != nil {
		return nil, err
	}

	remaining := total.Sub(paid)
	tx := Transaction{
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		Date:          in.Date,
		ShrimpType:    in.ShrimpType,
		Quantity:      in.Quantity,
		PricePerKg:    in.PricePerKg,
		TotalAmount:   total,
		PaymentMethod: in.PaymentMethod,
		PaidAmount:    paid,
		RemainingDebt: remaining,
		Status:        StatusForAmounts(remaining, paid),
		CreatedAt:     e.now(),
	}

	txID, err := e.store.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, storageErr("create transaction", err)
	}
	tx.ID = txID

	changed := []Collection{CollectionTransactions}
	if remaining.IsPositive() {
		debt := Debt{
			CustomerID:      customer.ID,
			CustomerName:    customer.Name,
			TransactionID:   txID,
			OriginalAmount:  remaining,
			RemainingAmount: remaining,
			DueDate:         in.Date.AddDate(0, 0, e.dueDays),
			Status:          DebtPending,
			CreatedAt:       tx.CreatedAt,
			UpdatedAt:       tx.CreatedAt,
		}
		if _, err := e.store.CreateDebt(ctx, debt); err != nil {
			// The transaction is already written; surface the failure
			// rather than faking atomicity.
			return nil, storageErr("create debt", err)
		}
		changed = append(changed, CollectionDebts)
	}

	e.bus.Publish(changed...)
	return &tx, nil
}

// resolveCustomer looks the name up ignoring case, creating the customer
// when absent. The stored spelling of an existing customer wins.
func (e *TransactionEngine) resolveCustomer(ctx context.Context, name string) (*Customer, error) {
	existing, err := e.store.FindCustomerByName(ctx, name)
	if err != nil {
		return nil, storageErr("find customer", err)
	}
	if existing != nil {
		return existing, nil
	}

	customer := Customer{Name: name, CreatedAt: e.now()}
	id, err := e.store.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, storageErr("create customer", err)
	}
	customer.ID = id
	e.bus.Publish(CollectionCustomers)
	return &customer, nil
}

// Transactions returns all sales in record order.
func (e *TransactionEngine) Transactions(ctx context.Context) ([]Transaction, error) {
	txs, err := e.store.ListTransactions(ctx)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	return txs, nil
}

// TransactionsByDateRange returns sales whose date falls in [start, end].
func (e *TransactionEngine) TransactionsByDateRange(ctx context.Context, start, end time.Time) ([]Transaction, error) {
	txs, err := e.store.ListTransactions(ctx)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	var out []Transaction
	for _, t := range txs {
		if !t.Date.Before(start) && !t.Date.After(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

// UpdateTransactionInput patches the descriptive fields of a sale and
// re-derives the dependent amounts. The customer link is not changed.
type UpdateTransactionInput struct {
	Date       *time.Time
	ShrimpType *string
	Quantity   *decimal.Decimal
	PricePerKg *decimal.Decimal
	PaidAmount *decimal.Decimal
}

// UpdateTransaction merges the patch and recomputes total, remaining debt
// and status from the merged values.
func (e *TransactionEngine) UpdateTransaction(ctx context.Context, id int64, in UpdateTransactionInput) (*Transaction, error) {
	existing, err := e.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, storageErr("get transaction", err)
	}
	if existing == nil {
		return nil, &NotFoundError{Kind: "transaction", ID: id}
	}

	tx := *existing
	if in.Date != nil {
		tx.Date = *in.Date
	}
	if in.ShrimpType != nil {
		tx.ShrimpType = *in.ShrimpType
	}
	if in.Quantity != nil {
		tx.Quantity = *in.Quantity
	}
	if in.PricePerKg != nil {
		tx.PricePerKg = *in.PricePerKg
	}
	if in.PaidAmount != nil {
		tx.PaidAmount = *in.PaidAmount
	}

	if !tx.Quantity.IsPositive() {
		return nil, &ValidationError{Field: "quantity", Reason: "must be greater than 0"}
	}
	if !tx.PricePerKg.IsPositive() {
		return nil, &ValidationError{Field: "pricePerKg", Reason: "must be greater than 0"}
	}
	tx.TotalAmount = tx.Quantity.Mul(tx.PricePerKg)
	if tx.PaidAmount.IsNegative() {
		return nil, &ValidationError{Field: "paidAmount", Reason: "must not be negative"}
	}
	if tx.PaidAmount.GreaterThan(tx.TotalAmount) {
		return nil, &ValidationError{Field: "paidAmount", Reason: "must not exceed the total amount"}
	}
	tx.RemainingDebt = tx.TotalAmount.Sub(tx.PaidAmount)
	tx.Status = StatusForAmounts(tx.RemainingDebt, tx.PaidAmount)

	if err := e.store.UpdateTransaction(ctx, tx); err != nil {
		return nil, storageErr("update transaction", err)
	}

	e.bus.Publish(CollectionTransactions)
	return &tx, nil
}

// DeleteTransaction removes the sale only. A linked debt is deliberately
// left in place; see the file header.
func (e *TransactionEngine) DeleteTransaction(ctx context.Context, id int64) error {
	existing, err := e.store.GetTransaction(ctx, id)
	if err != nil {
		return storageErr("get transaction", err)
	}
	if existing == nil {
		return &NotFoundError{Kind: "transaction", ID: id}
	}
	if err := e.store.DeleteTransaction(ctx, id); err != nil {
		return storageErr("delete transaction", err)
	}
	e.bus.Publish(CollectionTransactions)
	return nil
}
