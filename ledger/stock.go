/*
stock.go - Stock ledger: intake records and derived availability

PURPOSE:
  Records shrimp intake and derives on-hand stock. Availability is never
  stored: it is purchased-minus-sold, recomputed from the stock entry and
  transaction collections on every read.

INVARIANTS:
  - NetWeight and TotalCost are recomputed from (gross, shrinkage, price)
    on every create and update; a partial update merges over the existing
    row before recomputing.
  - CurrentStock = sum(NetWeight) - sum(Quantity). Not clamped: a negative
    value signals inconsistent data and is surfaced as-is.
  - A sale depletes stock regardless of its payment status.

SEE ALSO:
  - transaction.go: Reads Available() before accepting a sale
*/
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockSummary is the derived stock position.
type StockSummary struct {
	CurrentStock   decimal.Decimal
	TotalPurchased decimal.Decimal
	TotalSold      decimal.Decimal
}

// ComputeStock derives the stock position from the two source collections.
// Pure: no store access, no side effects.
func ComputeStock(entries []StockEntry, txs []Transaction) StockSummary {
	purchased := decimal.Zero
	for _, e := range entries {
		purchased = purchased.Add(e.NetWeight)
	}
	sold := decimal.Zero
	for _, t := range txs {
		sold = sold.Add(t.Quantity)
	}
	return StockSummary{
		CurrentStock:   purchased.Sub(sold),
		TotalPurchased: purchased,
		TotalSold:      sold,
	}
}

// =============================================================================
// STOCK LEDGER
// =============================================================================

// StockLedger manages intake records and answers availability queries.
type StockLedger struct {
	store Store
	bus   *Bus
	now   func() time.Time
}

// NewStockLedger creates a stock ledger backed by the given store.
func NewStockLedger(store Store, bus *Bus) *StockLedger {
	return &StockLedger{store: store, bus: bus, now: time.Now}
}

// Summary recomputes the stock position from current store contents.
func (l *StockLedger) Summary(ctx context.Context) (StockSummary, error) {
	entries, err := l.store.ListStockEntries(ctx)
	if err != nil {
		return StockSummary{}, storageErr("list stock entries", err)
	}
	txs, err := l.store.ListTransactions(ctx)
	if err != nil {
		return StockSummary{}, storageErr("list transactions", err)
	}
	return ComputeStock(entries, txs), nil
}

// Entries returns all intake records.
func (l *StockLedger) Entries(ctx context.Context) ([]StockEntry, error) {
	entries, err := l.store.ListStockEntries(ctx)
	if err != nil {
		return nil, storageErr("list stock entries", err)
	}
	return entries, nil
}

// AddStockEntryInput is the typed request for a new intake record.
type AddStockEntryInput struct {
	SupplierName        string
	Date                time.Time
	GrossWeight         decimal.Decimal
	BuyPrice            decimal.Decimal
	ShrinkagePercentage decimal.Decimal
}

func (in AddStockEntryInput) validate() error {
	if !in.GrossWeight.IsPositive() {
		return &ValidationError{Field: "grossWeight", Reason: "must be greater than 0"}
	}
	if !in.BuyPrice.IsPositive() {
		return &ValidationError{Field: "buyPrice", Reason: "must be greater than 0"}
	}
	if in.ShrinkagePercentage.IsNegative() {
		return &ValidationError{Field: "shrinkagePercentage", Reason: "must not be negative"}
	}
	if in.ShrinkagePercentage.GreaterThan(hundred) {
		return &ValidationError{Field: "shrinkagePercentage", Reason: "must not exceed 100"}
	}
	return nil
}

// AddStockEntry validates the input, computes the derived fields and
// persists a new intake record.
func (l *StockLedger) AddStockEntry(ctx context.Context, in AddStockEntryInput) (*StockEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := l.now()
	entry := StockEntry{
		SupplierName:        in.SupplierName,
		Date:                in.Date,
		GrossWeight:         in.GrossWeight,
		BuyPrice:            in.BuyPrice,
		ShrinkagePercentage: in.ShrinkagePercentage,
		NetWeight:           ComputeNetWeight(in.GrossWeight, in.ShrinkagePercentage),
		TotalCost:           ComputeTotalCost(in.GrossWeight, in.BuyPrice),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	id, err := l.store.CreateStockEntry(ctx, entry)
	if err != nil {
		return nil, storageErr("create stock entry", err)
	}
	entry.ID = id

	l.bus.Publish(CollectionStockEntries)
	return &entry, nil
}

// UpdateStockEntryInput is a partial patch; nil fields keep prior values.
type UpdateStockEntryInput struct {
	SupplierName        *string
	Date                *time.Time
	GrossWeight         *decimal.Decimal
	BuyPrice            *decimal.Decimal
	ShrinkagePercentage *decimal.Decimal
}

// UpdateStockEntry merges the patch over the existing row, then recomputes
// NetWeight and TotalCost from the merged inputs. The derived fields are
// never carried over independently of their sources.
func (l *StockLedger) UpdateStockEntry(ctx context.Context, id int64, in UpdateStockEntryInput) (*StockEntry, error) {
	existing, err := l.store.GetStockEntry(ctx, id)
	if err != nil {
		return nil, storageErr("get stock entry", err)
	}
	if existing == nil {
		return nil, &NotFoundError{Kind: "stock entry", ID: id}
	}

	entry := *existing
	if in.SupplierName != nil {
		entry.SupplierName = *in.SupplierName
	}
	if in.Date != nil {
		entry.Date = *in.Date
	}
	if in.GrossWeight != nil {
		entry.GrossWeight = *in.GrossWeight
	}
	if in.BuyPrice != nil {
		entry.BuyPrice = *in.BuyPrice
	}
	if in.ShrinkagePercentage != nil {
		entry.ShrinkagePercentage = *in.ShrinkagePercentage
	}

	merged := AddStockEntryInput{
		SupplierName:        entry.SupplierName,
		Date:                entry.Date,
		GrossWeight:         entry.GrossWeight,
		BuyPrice:            entry.BuyPrice,
		ShrinkagePercentage: entry.ShrinkagePercentage,
	}
	if err := merged.validate(); err != nil {
		return nil, err
	}

	entry.NetWeight = ComputeNetWeight(entry.GrossWeight, entry.ShrinkagePercentage)
	entry.TotalCost = ComputeTotalCost(entry.GrossWeight, entry.BuyPrice)
	entry.UpdatedAt = l.now()

	if err := l.store.UpdateStockEntry(ctx, entry); err != nil {
		return nil, storageErr("update stock entry", err)
	}

	l.bus.Publish(CollectionStockEntries)
	return &entry, nil
}

// DeleteStockEntry removes an intake record. Availability is derived, so
// no compensation is needed: the next Summary simply recomputes.
func (l *StockLedger) DeleteStockEntry(ctx context.Context, id int64) error {
	existing, err := l.store.GetStockEntry(ctx, id)
	if err != nil {
		return storageErr("get stock entry", err)
	}
	if existing == nil {
		return &NotFoundError{Kind: "stock entry", ID: id}
	}
	if err := l.store.DeleteStockEntry(ctx, id); err != nil {
		return storageErr("delete stock entry", err)
	}
	l.bus.Publish(CollectionStockEntries)
	return nil
}
