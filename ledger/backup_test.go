package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulyafarhan/udangku/ledger"
	"github.com/ulyafarhan/udangku/store/memory"
)

// seedBooks records a small but complete data set through the engines.
func seedBooks(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()

	addStock(t, env, 100, 20000, 2)
	_, err := env.tx.AddTransaction(ctx, saleInput("Budi", 10, 25000, ledger.PaymentInstallment, 100000))
	require.NoError(t, err)

	debts, err := env.debts.Debts(ctx)
	require.NoError(t, err)
	require.Len(t, debts, 1)
	_, err = env.debts.AddDebtPayment(ctx, payment(debts[0].ID, 50000))
	require.NoError(t, err)
}

func TestBackupExport_CoversAllCollections(t *testing.T) {
	env := newTestEnv(t)
	seedBooks(t, env)

	backup := ledger.NewBackup(env.store, env.bus)
	snap, err := backup.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ledger.SnapshotVersion, snap.Version)
	assert.False(t, snap.ExportedAt.IsZero())
	assert.Len(t, snap.Customers, 1)
	assert.Len(t, snap.StockEntries, 1)
	assert.Len(t, snap.Transactions, 1)
	assert.Len(t, snap.Debts, 1)
	assert.Len(t, snap.DebtPayments, 1)
}

func TestBackupImport_RoundTripPreservesIDs(t *testing.T) {
	// GIVEN: A snapshot exported from one store
	// WHEN: Importing into a fresh store
	// THEN: Every record comes back with its original id

	env := newTestEnv(t)
	seedBooks(t, env)
	ctx := context.Background()

	snap, err := ledger.NewBackup(env.store, env.bus).Export(ctx)
	require.NoError(t, err)

	fresh := memory.New()
	freshBus := ledger.NewBus()
	require.NoError(t, ledger.NewBackup(fresh, freshBus).Import(ctx, *snap))

	txs, err := fresh.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, snap.Transactions[0].ID, txs[0].ID)
	assert.True(t, txs[0].RemainingDebt.Equal(snap.Transactions[0].RemainingDebt))

	debts, err := fresh.ListDebts(ctx)
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, snap.Debts[0].ID, debts[0].ID)
}

func TestBackupImport_IsDestructive(t *testing.T) {
	// Import replaces state entirely; pre-existing records are dropped.
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.store.CreateCustomer(ctx, ledger.Customer{Name: "Doomed"})
	require.NoError(t, err)

	backup := ledger.NewBackup(env.store, env.bus)
	err = backup.Import(ctx, ledger.Snapshot{
		Version:    ledger.SnapshotVersion,
		ExportedAt: time.Now(),
	})
	require.NoError(t, err)

	customers, err := env.store.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestBackupImport_RejectsUnknownVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.store.CreateCustomer(ctx, ledger.Customer{Name: "Kept"})
	require.NoError(t, err)

	backup := ledger.NewBackup(env.store, env.bus)
	err = backup.Import(ctx, ledger.Snapshot{Version: "99"})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	customers, err := env.store.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1, "rejected import must not touch the store")
}

func TestBackupImport_PublishesEveryCollection(t *testing.T) {
	env := newTestEnv(t)

	seen := make(map[ledger.Collection]bool)
	unsubscribe := env.bus.Subscribe(func(c ledger.Collection) { seen[c] = true })
	defer unsubscribe()

	backup := ledger.NewBackup(env.store, env.bus)
	require.NoError(t, backup.Import(context.Background(), ledger.Snapshot{
		Version: ledger.SnapshotVersion,
	}))

	assert.Len(t, seen, 7, "all seven collections notified after restore")
}
