package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulyafarhan/udangku/ledger"
	"github.com/ulyafarhan/udangku/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func utcDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func TestSQLite_CustomerRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateCustomer(ctx, ledger.Customer{
		Name:      "Budi",
		Phone:     "0812",
		Address:   "Makassar",
		CreatedAt: utcDay(2026, time.August, 1),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	got, err := store.GetCustomer(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Budi", got.Name)
	assert.Equal(t, "0812", got.Phone)
	assert.Equal(t, utcDay(2026, time.August, 1), got.CreatedAt)
}

func TestSQLite_GetMissingReturnsNilNil(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c, err := store.GetCustomer(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, c)

	tx, err := store.GetTransaction(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, tx)

	d, err := store.GetDebt(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, d)

	s, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSQLite_FindCustomerByName_IgnoresCase(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateCustomer(ctx, ledger.Customer{Name: "Budi", CreatedAt: time.Now()})
	require.NoError(t, err)

	got, err := store.FindCustomerByName(ctx, "bUdI")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Budi", got.Name)

	missing, err := store.FindCustomerByName(ctx, "Siti")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLite_DuplicateCustomerNameRejectedByIndex(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateCustomer(ctx, ledger.Customer{Name: "Budi", CreatedAt: time.Now()})
	require.NoError(t, err)

	_, err = store.CreateCustomer(ctx, ledger.Customer{Name: "BUDI", CreatedAt: time.Now()})
	assert.Error(t, err, "unique index collates case-insensitively")
}

// =============================================================================
// DECIMAL FIDELITY
// =============================================================================

func TestSQLite_StockEntryDecimalFidelity(t *testing.T) {
	// Decimal strings must round-trip without float drift.
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateStockEntry(ctx, ledger.StockEntry{
		SupplierName:        "Supplier A",
		Date:                utcDay(2026, time.August, 1),
		GrossWeight:         dec("100.125"),
		BuyPrice:            dec("20000.50"),
		ShrinkagePercentage: dec("2.5"),
		NetWeight:           dec("97.621875"),
		TotalCost:           dec("2003550.0625"),
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	})
	require.NoError(t, err)

	got, err := store.GetStockEntry(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.GrossWeight.Equal(dec("100.125")))
	assert.True(t, got.NetWeight.Equal(dec("97.621875")))
	assert.True(t, got.TotalCost.Equal(dec("2003550.0625")))
}

func TestSQLite_MalformedStoredValueSurfacesError(t *testing.T) {
	// A corrupted column must fail the read, not silently decode to zero.
	path := filepath.Join(t.TempDir(), "books.db")
	store, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	id, err := store.CreateStockEntry(ctx, ledger.StockEntry{
		SupplierName:        "Supplier A",
		Date:                utcDay(2026, time.August, 1),
		GrossWeight:         dec("100"),
		BuyPrice:            dec("20000"),
		ShrinkagePercentage: dec("2"),
		NetWeight:           dec("98"),
		TotalCost:           dec("2000000"),
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	})
	require.NoError(t, err)

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	_, err = raw.Exec(`UPDATE stock_entries SET gross_weight = 'garbage' WHERE id = ?`, id)
	require.NoError(t, err)

	_, err = store.GetStockEntry(ctx, id)
	assert.ErrorContains(t, err, "malformed decimal")

	_, err = store.CreateCustomer(ctx, ledger.Customer{Name: "Budi", CreatedAt: time.Now()})
	require.NoError(t, err)
	_, err = raw.Exec(`UPDATE customers SET created_at = 'yesterday'`)
	require.NoError(t, err)
	_, err = store.ListCustomers(ctx)
	assert.ErrorContains(t, err, "malformed time")
}

// =============================================================================
// TRANSACTIONS & DEBTS
// =============================================================================

func TestSQLite_TransactionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateTransaction(ctx, ledger.Transaction{
		CustomerID:    1,
		CustomerName:  "Budi",
		Date:          utcDay(2026, time.August, 10),
		ShrimpType:    "vannamei",
		Quantity:      dec("10"),
		PricePerKg:    dec("25000"),
		TotalAmount:   dec("250000"),
		PaymentMethod: ledger.PaymentInstallment,
		PaidAmount:    dec("100000"),
		RemainingDebt: dec("150000"),
		Status:        ledger.StatusInstallment,
		CreatedAt:     time.Now(),
	})
	require.NoError(t, err)

	got, err := store.GetTransaction(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ledger.PaymentInstallment, got.PaymentMethod)
	assert.Equal(t, ledger.StatusInstallment, got.Status)
	assert.True(t, got.RemainingDebt.Equal(dec("150000")))
}

func TestSQLite_ListTransactions_RecordOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := store.CreateTransaction(ctx, ledger.Transaction{
			CustomerName: name,
			Date:         utcDay(2026, time.August, 10),
			Quantity:     dec("1"), PricePerKg: dec("1"), TotalAmount: dec("1"),
			PaymentMethod: ledger.PaymentCash,
			PaidAmount:    dec("1"), RemainingDebt: dec("0"),
			Status:    ledger.StatusPaid,
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	txs, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "A", txs[0].CustomerName)
	assert.Equal(t, "C", txs[2].CustomerName)
}

func TestSQLite_DebtsByCustomerAndPayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mkDebt := func(customerID int64) int64 {
		id, err := store.CreateDebt(ctx, ledger.Debt{
			CustomerID:      customerID,
			CustomerName:    "X",
			TransactionID:   1,
			OriginalAmount:  dec("1000"),
			RemainingAmount: dec("1000"),
			DueDate:         utcDay(2026, time.September, 10),
			Status:          ledger.DebtPending,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		})
		require.NoError(t, err)
		return id
	}
	d1 := mkDebt(1)
	mkDebt(2)
	mkDebt(1)

	byCustomer, err := store.ListDebtsByCustomer(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byCustomer, 2)

	_, err = store.CreateDebtPayment(ctx, ledger.DebtPayment{
		DebtID: d1, Amount: dec("400"),
		PaymentDate: utcDay(2026, time.August, 20),
		Notes:       "cash", CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	payments, err := store.ListDebtPayments(ctx, d1)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, payments[0].Amount.Equal(dec("400")))

	all, err := store.ListAllDebtPayments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLite_UpdateDebt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateDebt(ctx, ledger.Debt{
		CustomerID: 1, CustomerName: "Budi", TransactionID: 1,
		OriginalAmount:  dec("1000"),
		RemainingAmount: dec("1000"),
		DueDate:         utcDay(2026, time.September, 10),
		Status:          ledger.DebtPending,
		CreatedAt:       time.Now(), UpdatedAt: time.Now(),
	})
	require.NoError(t, err)

	got, err := store.GetDebt(ctx, id)
	require.NoError(t, err)
	got.RemainingAmount = dec("600")
	got.Status = ledger.DebtPartial
	require.NoError(t, store.UpdateDebt(ctx, *got))

	reread, err := store.GetDebt(ctx, id)
	require.NoError(t, err)
	assert.True(t, reread.RemainingAmount.Equal(dec("600")))
	assert.Equal(t, ledger.DebtPartial, reread.Status)
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSQLite_SettingsUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := ledger.DefaultSettings(time.Now())
	require.NoError(t, store.SaveSettings(ctx, first))

	got, err := store.GetSettings(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.DefaultShrinkagePercentage.Equal(dec("2")))

	got.BusinessName = "Tambak Jaya"
	got.DebtDueDays = 14
	require.NoError(t, store.SaveSettings(ctx, *got))

	reread, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Tambak Jaya", reread.BusinessName)
	assert.Equal(t, 14, reread.DebtDueDays)
}

// =============================================================================
// SNAPSHOT RESTORE
// =============================================================================

func TestSQLite_ReplaceAll_PreservesIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateCustomer(ctx, ledger.Customer{Name: "Doomed", CreatedAt: time.Now()})
	require.NoError(t, err)

	settings := ledger.DefaultSettings(time.Now())
	snap := ledger.Snapshot{
		Version:    ledger.SnapshotVersion,
		ExportedAt: time.Now(),
		Customers: []ledger.Customer{
			{ID: 7, Name: "Budi", CreatedAt: utcDay(2026, time.August, 1)},
		},
		Transactions: []ledger.Transaction{
			{
				ID: 11, CustomerID: 7, CustomerName: "Budi",
				Date:     utcDay(2026, time.August, 10),
				Quantity: dec("10"), PricePerKg: dec("25000"), TotalAmount: dec("250000"),
				PaymentMethod: ledger.PaymentCash,
				PaidAmount:    dec("250000"), RemainingDebt: dec("0"),
				Status:    ledger.StatusPaid,
				CreatedAt: time.Now(),
			},
		},
		Settings: &settings,
	}
	require.NoError(t, store.ReplaceAll(ctx, snap))

	customers, err := store.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.EqualValues(t, 7, customers[0].ID)
	assert.Equal(t, "Budi", customers[0].Name)

	tx, err := store.GetTransaction(ctx, 11)
	require.NoError(t, err)
	require.NotNil(t, tx)

	restored, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.NotNil(t, restored)
}
