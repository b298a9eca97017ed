package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulyafarhan/udangku/ledger"
	"github.com/ulyafarhan/udangku/store/memory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Shared by the other _test.go files in this package.

type testEnv struct {
	store *memory.Store
	bus   *ledger.Bus
	stock *ledger.StockLedger
	tx    *ledger.TransactionEngine
	debts *ledger.DebtLedger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()
	bus := ledger.NewBus()
	stock := ledger.NewStockLedger(store, bus)
	return &testEnv{
		store: store,
		bus:   bus,
		stock: stock,
		tx:    ledger.NewTransactionEngine(store, stock, bus, ledger.DefaultSettings(time.Now())),
		debts: ledger.NewDebtLedger(store, bus),
	}
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// addStock records an intake and fails the test on error.
func addStock(t *testing.T, env *testEnv, gross, price, shrinkage float64) *ledger.StockEntry {
	t.Helper()
	entry, err := env.stock.AddStockEntry(context.Background(), ledger.AddStockEntryInput{
		SupplierName:        "Supplier A",
		Date:                day(2026, time.August, 1),
		GrossWeight:         dec(gross),
		BuyPrice:            dec(price),
		ShrinkagePercentage: dec(shrinkage),
	})
	require.NoError(t, err)
	return entry
}

// =============================================================================
// DERIVED FIELD TESTS
// =============================================================================

func TestComputeNetWeight_AppliesShrinkage(t *testing.T) {
	// GIVEN: 100 kg gross at 2% shrinkage
	// THEN: 98 kg net, exactly

	net := ledger.ComputeNetWeight(dec(100), dec(2))
	assert.True(t, net.Equal(dec(98)), "expected 98, got %s", net)
}

func TestComputeTotalCost_GrossTimesPrice(t *testing.T) {
	// GIVEN: 100 kg gross at 20,000 per kg
	// THEN: Total cost 2,000,000 - cost is paid on the gross weight,
	// shrinkage is the buyer's loss

	cost := ledger.ComputeTotalCost(dec(100), dec(20000))
	assert.True(t, cost.Equal(dec(2000000)), "expected 2000000, got %s", cost)
}

func TestAddStockEntry_PersistsDerivedFields(t *testing.T) {
	env := newTestEnv(t)

	entry := addStock(t, env, 100, 20000, 2)

	assert.True(t, entry.NetWeight.Equal(dec(98)))
	assert.True(t, entry.TotalCost.Equal(dec(2000000)))
	assert.NotZero(t, entry.ID)

	stored, err := env.store.GetStockEntry(context.Background(), entry.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.NetWeight.Equal(dec(98)))
}

func TestAddStockEntry_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input ledger.AddStockEntryInput
	}{
		{"zero gross weight", ledger.AddStockEntryInput{GrossWeight: dec(0), BuyPrice: dec(100), ShrinkagePercentage: dec(2)}},
		{"negative gross weight", ledger.AddStockEntryInput{GrossWeight: dec(-5), BuyPrice: dec(100), ShrinkagePercentage: dec(2)}},
		{"zero price", ledger.AddStockEntryInput{GrossWeight: dec(10), BuyPrice: dec(0), ShrinkagePercentage: dec(2)}},
		{"negative shrinkage", ledger.AddStockEntryInput{GrossWeight: dec(10), BuyPrice: dec(100), ShrinkagePercentage: dec(-1)}},
		{"shrinkage over 100", ledger.AddStockEntryInput{GrossWeight: dec(10), BuyPrice: dec(100), ShrinkagePercentage: dec(101)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.stock.AddStockEntry(ctx, tc.input)
			assert.ErrorIs(t, err, ledger.ErrValidation)
		})
	}

	// Nothing was written
	entries, err := env.stock.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAddStockEntry_FullShrinkageAllowed(t *testing.T) {
	// 100% shrinkage is a valid edge: the whole load spoiled.
	env := newTestEnv(t)

	entry := addStock(t, env, 50, 10000, 100)
	assert.True(t, entry.NetWeight.IsZero(), "expected zero net weight, got %s", entry.NetWeight)
	assert.True(t, entry.TotalCost.Equal(dec(500000)), "cost is still owed on the gross weight")
}

func TestUpdateStockEntry_RecomputesDerivedFields(t *testing.T) {
	// GIVEN: An intake of 100 kg at 2% shrinkage
	// WHEN: Patching only the gross weight to 200 kg
	// THEN: Net weight and total cost are recomputed from the merged row

	env := newTestEnv(t)
	ctx := context.Background()
	entry := addStock(t, env, 100, 20000, 2)

	newGross := dec(200)
	updated, err := env.stock.UpdateStockEntry(ctx, entry.ID, ledger.UpdateStockEntryInput{
		GrossWeight: &newGross,
	})
	require.NoError(t, err)

	assert.True(t, updated.NetWeight.Equal(dec(196)), "expected 196, got %s", updated.NetWeight)
	assert.True(t, updated.TotalCost.Equal(dec(4000000)))
	assert.True(t, updated.ShrinkagePercentage.Equal(dec(2)), "untouched fields keep prior values")
}

func TestUpdateStockEntry_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.stock.UpdateStockEntry(context.Background(), 42, ledger.UpdateStockEntryInput{})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

// =============================================================================
// STOCK POSITION TESTS
// =============================================================================

func TestComputeStock_PurchasedMinusSold(t *testing.T) {
	entries := []ledger.StockEntry{
		{NetWeight: dec(98)},
		{NetWeight: dec(49)},
	}
	txs := []ledger.Transaction{
		{Quantity: dec(30)},
		{Quantity: dec(20)},
	}

	s := ledger.ComputeStock(entries, txs)
	assert.True(t, s.TotalPurchased.Equal(dec(147)))
	assert.True(t, s.TotalSold.Equal(dec(50)))
	assert.True(t, s.CurrentStock.Equal(dec(97)))
}

func TestComputeStock_NegativeSurfacedAsIs(t *testing.T) {
	// Inconsistent books (sold more than purchased) are not clamped.
	s := ledger.ComputeStock(
		[]ledger.StockEntry{{NetWeight: dec(10)}},
		[]ledger.Transaction{{Quantity: dec(15)}},
	)
	assert.True(t, s.CurrentStock.Equal(dec(-5)))
}

func TestDeleteStockEntry_RecomputesOnNextRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := addStock(t, env, 100, 20000, 2)
	addStock(t, env, 50, 20000, 2)

	require.NoError(t, env.stock.DeleteStockEntry(ctx, a.ID))

	summary, err := env.stock.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.CurrentStock.Equal(dec(49)))
}

func TestDeleteStockEntry_NotFound(t *testing.T) {
	env := newTestEnv(t)
	err := env.stock.DeleteStockEntry(context.Background(), 7)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
