// cost.go - Operational cost bookkeeping. No derived fields; the
// reporting engine folds these amounts into daily expenses.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CostLedger manages operational cost records.
type CostLedger struct {
	store Store
	bus   *Bus
	now   func() time.Time
}

// NewCostLedger creates a cost ledger.
func NewCostLedger(store Store, bus *Bus) *CostLedger {
	return &CostLedger{store: store, bus: bus, now: time.Now}
}

// Costs returns all operational cost records.
func (l *CostLedger) Costs(ctx context.Context) ([]OperationalCost, error) {
	costs, err := l.store.ListOperationalCosts(ctx)
	if err != nil {
		return nil, storageErr("list operational costs", err)
	}
	return costs, nil
}

// AddCostInput is the typed request for a new cost record.
type AddCostInput struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    string
}

// AddCost validates and persists a cost record.
func (l *CostLedger) AddCost(ctx context.Context, in AddCostInput) (*OperationalCost, error) {
	if in.Description == "" {
		return nil, &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if !in.Amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}

	now := l.now()
	cost := OperationalCost{
		Date:        in.Date,
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := l.store.CreateOperationalCost(ctx, cost)
	if err != nil {
		return nil, storageErr("create operational cost", err)
	}
	cost.ID = id

	l.bus.Publish(CollectionOperationalCosts)
	return &cost, nil
}

// UpdateCostInput is a partial patch; nil fields keep prior values.
type UpdateCostInput struct {
	Date        *time.Time
	Description *string
	Amount      *decimal.Decimal
	Category    *string
}

// UpdateCost applies the patch.
func (l *CostLedger) UpdateCost(ctx context.Context, id int64, in UpdateCostInput) (*OperationalCost, error) {
	existing, err := l.store.GetOperationalCost(ctx, id)
	if err != nil {
		return nil, storageErr("get operational cost", err)
	}
	if existing == nil {
		return nil, &NotFoundError{Kind: "operational cost", ID: id}
	}

	cost := *existing
	if in.Date != nil {
		cost.Date = *in.Date
	}
	if in.Description != nil {
		if *in.Description == "" {
			return nil, &ValidationError{Field: "description", Reason: "must not be empty"}
		}
		cost.Description = *in.Description
	}
	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return nil, &ValidationError{Field: "amount", Reason: "must be greater than 0"}
		}
		cost.Amount = *in.Amount
	}
	if in.Category != nil {
		cost.Category = *in.Category
	}
	cost.UpdatedAt = l.now()

	if err := l.store.UpdateOperationalCost(ctx, cost); err != nil {
		return nil, storageErr("update operational cost", err)
	}

	l.bus.Publish(CollectionOperationalCosts)
	return &cost, nil
}

// DeleteCost removes a cost record.
func (l *CostLedger) DeleteCost(ctx context.Context, id int64) error {
	existing, err := l.store.GetOperationalCost(ctx, id)
	if err != nil {
		return storageErr("get operational cost", err)
	}
	if existing == nil {
		return &NotFoundError{Kind: "operational cost", ID: id}
	}
	if err := l.store.DeleteOperationalCost(ctx, id); err != nil {
		return storageErr("delete operational cost", err)
	}
	l.bus.Publish(CollectionOperationalCosts)
	return nil
}
