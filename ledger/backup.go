/*
backup.go - Full-database snapshot export and restore

PURPOSE:
  Serializes all six collections into a versioned snapshot for backup,
  and restores from one. Restore is destructive: each collection is
  cleared before the snapshot rows are bulk-loaded with their original
  ids. This is deliberate - the snapshot is the complete replacement
  state, not a merge source.

VERSIONING:
  SnapshotVersion tags the export format. Import rejects snapshots with
  an unknown version tag instead of guessing.
*/
package ledger

import (
	"context"
	"time"
)

// SnapshotVersion is the current export format tag.
const SnapshotVersion = "1"

// Snapshot is the full-database interchange format.
type Snapshot struct {
	Version          string            `json:"version"`
	ExportedAt       time.Time         `json:"exportedAt"`
	Customers        []Customer        `json:"customers"`
	StockEntries     []StockEntry      `json:"stockEntries"`
	OperationalCosts []OperationalCost `json:"operationalCosts"`
	Transactions     []Transaction     `json:"transactions"`
	Debts            []Debt            `json:"debts"`
	DebtPayments     []DebtPayment     `json:"debtPayments"`
	Settings         *Settings         `json:"settings,omitempty"`
}

// Backup exports and restores snapshots.
type Backup struct {
	store Store
	bus   *Bus
	now   func() time.Time
}

// NewBackup creates a backup service.
func NewBackup(store Store, bus *Bus) *Backup {
	return &Backup{store: store, bus: bus, now: time.Now}
}

// Export serializes every collection with a timestamp and version tag.
func (b *Backup) Export(ctx context.Context) (*Snapshot, error) {
	customers, err := b.store.ListCustomers(ctx)
	if err != nil {
		return nil, storageErr("list customers", err)
	}
	entries, err := b.store.ListStockEntries(ctx)
	if err != nil {
		return nil, storageErr("list stock entries", err)
	}
	costs, err := b.store.ListOperationalCosts(ctx)
	if err != nil {
		return nil, storageErr("list operational costs", err)
	}
	txs, err := b.store.ListTransactions(ctx)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	debts, err := b.store.ListDebts(ctx)
	if err != nil {
		return nil, storageErr("list debts", err)
	}
	payments, err := b.store.ListAllDebtPayments(ctx)
	if err != nil {
		return nil, storageErr("list debt payments", err)
	}
	settings, err := b.store.GetSettings(ctx)
	if err != nil {
		return nil, storageErr("get settings", err)
	}

	return &Snapshot{
		Version:          SnapshotVersion,
		ExportedAt:       b.now(),
		Customers:        customers,
		StockEntries:     entries,
		OperationalCosts: costs,
		Transactions:     txs,
		Debts:            debts,
		DebtPayments:     payments,
		Settings:         settings,
	}, nil
}

// Import restores a snapshot, clearing every collection first.
func (b *Backup) Import(ctx context.Context, snap Snapshot) error {
	if snap.Version != SnapshotVersion {
		return &ValidationError{Field: "version", Reason: "unsupported snapshot version"}
	}
	if err := b.store.ReplaceAll(ctx, snap); err != nil {
		return storageErr("replace all", err)
	}
	b.bus.Publish(
		CollectionCustomers,
		CollectionStockEntries,
		CollectionOperationalCosts,
		CollectionTransactions,
		CollectionDebts,
		CollectionDebtPayments,
		CollectionSettings,
	)
	return nil
}
