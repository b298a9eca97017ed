package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulyafarhan/udangku/ledger"
)

func newDirectory(t *testing.T) (*testEnv, *ledger.CustomerDirectory) {
	t.Helper()
	env := newTestEnv(t)
	return env, ledger.NewCustomerDirectory(env.store, env.bus)
}

func TestAddCustomer_RejectsDuplicateIgnoringCase(t *testing.T) {
	_, dir := newDirectory(t)
	ctx := context.Background()

	_, err := dir.AddCustomer(ctx, ledger.AddCustomerInput{Name: "Budi"})
	require.NoError(t, err)

	_, err = dir.AddCustomer(ctx, ledger.AddCustomerInput{Name: "BUDI"})
	assert.ErrorIs(t, err, ledger.ErrDuplicateName)
}

func TestAddCustomer_TrimsName(t *testing.T) {
	_, dir := newDirectory(t)

	c, err := dir.AddCustomer(context.Background(), ledger.AddCustomerInput{Name: "  Siti  "})
	require.NoError(t, err)
	assert.Equal(t, "Siti", c.Name)
}

func TestUpdateCustomer_RenameCollision(t *testing.T) {
	_, dir := newDirectory(t)
	ctx := context.Background()

	_, err := dir.AddCustomer(ctx, ledger.AddCustomerInput{Name: "Budi"})
	require.NoError(t, err)
	siti, err := dir.AddCustomer(ctx, ledger.AddCustomerInput{Name: "Siti"})
	require.NoError(t, err)

	name := "budi"
	_, err = dir.UpdateCustomer(ctx, siti.ID, ledger.UpdateCustomerInput{Name: &name})
	assert.ErrorIs(t, err, ledger.ErrDuplicateName)
}

func TestUpdateCustomer_RenameToOwnNameAllowed(t *testing.T) {
	// Changing only the casing of your own name is not a collision.
	_, dir := newDirectory(t)
	ctx := context.Background()

	budi, err := dir.AddCustomer(ctx, ledger.AddCustomerInput{Name: "Budi"})
	require.NoError(t, err)

	name := "BUDI"
	updated, err := dir.UpdateCustomer(ctx, budi.ID, ledger.UpdateCustomerInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "BUDI", updated.Name)
}

func TestDeleteCustomer_KeepsTransactionsAndDebts(t *testing.T) {
	// Sales and debts carry the denormalized name, so removing the
	// customer record does not orphan the books.
	env, dir := newDirectory(t)
	ctx := context.Background()
	addStock(t, env, 100, 20000, 0)

	tx, err := env.tx.AddTransaction(ctx, saleInput("Budi", 5, 25000, ledger.PaymentDebt, 0))
	require.NoError(t, err)

	require.NoError(t, dir.DeleteCustomer(ctx, tx.CustomerID))

	txs, err := env.tx.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Budi", txs[0].CustomerName)

	debts, err := env.debts.Debts(ctx)
	require.NoError(t, err)
	assert.Len(t, debts, 1)
}

func TestCustomerStats(t *testing.T) {
	env, dir := newDirectory(t)
	ctx := context.Background()
	addStock(t, env, 100, 20000, 0)

	first, err := env.tx.AddTransaction(ctx, saleInput("Budi", 4, 25000, ledger.PaymentCash, 0))
	require.NoError(t, err)
	_, err = env.tx.AddTransaction(ctx, saleInput("Budi", 2, 25000, ledger.PaymentDebt, 0))
	require.NoError(t, err)
	_, err = env.tx.AddTransaction(ctx, saleInput("Siti", 1, 25000, ledger.PaymentCash, 0))
	require.NoError(t, err)

	stats, err := dir.Stats(ctx, first.CustomerID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalTransactions)
	assert.True(t, stats.TotalSpent.Equal(dec(150000)))
	assert.True(t, stats.TotalDebt.Equal(dec(50000)))
}

func TestCustomerStats_MissingCustomer(t *testing.T) {
	_, dir := newDirectory(t)
	_, err := dir.Stats(context.Background(), 404)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
