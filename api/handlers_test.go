/*
handlers_test.go - HTTP-level tests for the REST API

Exercises the full request path: chi router, JSON decoding, engine
delegation, and domain-error-to-status mapping, backed by the in-memory
store.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulyafarhan/udangku/api"
	"github.com/ulyafarhan/udangku/ledger"
	"github.com/ulyafarhan/udangku/store/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.New()
	bus := ledger.NewBus()

	stock := ledger.NewStockLedger(store, bus)
	settings := ledger.DefaultSettings(time.Now())
	tx := ledger.NewTransactionEngine(store, stock, bus, settings)

	h := api.NewHandler(api.Engines{
		Stock:        stock,
		Transactions: tx,
		Debts:        ledger.NewDebtLedger(store, bus),
		Customers:    ledger.NewCustomerDirectory(store, bus),
		Costs:        ledger.NewCostLedger(store, bus),
		Settings:     ledger.NewSettingsService(store, bus),
		Reports:      ledger.NewReports(store),
		Backup:       ledger.NewBackup(store, bus),
	}, nil)

	server := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, server *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func seedStock(t *testing.T, server *httptest.Server, gross float64) {
	t.Helper()
	resp := doJSON(t, server, http.MethodPost, "/api/stock", map[string]any{
		"supplier_name":        "Supplier A",
		"date":                 "2026-08-01",
		"gross_weight":         gross,
		"buy_price":            20000,
		"shrinkage_percentage": 0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// =============================================================================
// STOCK
// =============================================================================

func TestAPI_StockIntakeAndSummary(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/api/stock", map[string]any{
		"supplier_name":        "Supplier A",
		"date":                 "2026-08-01",
		"gross_weight":         100,
		"buy_price":            20000,
		"shrinkage_percentage": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[map[string]any](t, resp)
	assert.InDelta(t, 98.0, created["net_weight"], 0.0001)
	assert.InDelta(t, 2000000.0, created["total_cost"], 0.0001)

	resp = doJSON(t, server, http.MethodGet, "/api/stock/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[map[string]any](t, resp)
	assert.InDelta(t, 98.0, summary["current_stock"], 0.0001)
}

func TestAPI_StockValidationReturns400(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/api/stock", map[string]any{
		"supplier_name":        "",
		"date":                 "2026-08-01",
		"gross_weight":         100,
		"buy_price":            20000,
		"shrinkage_percentage": 2,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_StockBadDateReturns400(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/api/stock", map[string]any{
		"supplier_name":        "Supplier A",
		"date":                 "01-08-2026",
		"gross_weight":         100,
		"buy_price":            20000,
		"shrinkage_percentage": 2,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DeleteMissingStockReturns404(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodDelete, "/api/stock/404", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestAPI_CreateTransaction_CashSale(t *testing.T) {
	server := newTestServer(t)
	seedStock(t, server, 100)

	resp := doJSON(t, server, http.MethodPost, "/api/transactions", map[string]any{
		"customer_name":  "Budi",
		"date":           "2026-08-10",
		"shrimp_type":    "vannamei",
		"quantity":       10,
		"price_per_kg":   25000,
		"payment_method": "cash",
		"paid_amount":    0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	tx := decode[map[string]any](t, resp)
	assert.Equal(t, "paid", tx["status"])
	assert.InDelta(t, 250000.0, tx["total_amount"], 0.0001)
	assert.InDelta(t, 0.0, tx["remaining_debt"], 0.0001)

	// No receivable for a cash sale.
	resp = doJSON(t, server, http.MethodGet, "/api/debts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]map[string]any](t, resp))
}

func TestAPI_CreateTransaction_InstallmentOpensDebt(t *testing.T) {
	server := newTestServer(t)
	seedStock(t, server, 100)

	resp := doJSON(t, server, http.MethodPost, "/api/transactions", map[string]any{
		"customer_name":  "Budi",
		"date":           "2026-08-10",
		"quantity":       10,
		"price_per_kg":   25000,
		"payment_method": "installment",
		"paid_amount":    100000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, server, http.MethodGet, "/api/debts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	debts := decode[[]map[string]any](t, resp)
	require.Len(t, debts, 1)
	assert.InDelta(t, 150000.0, debts[0]["remaining_amount"], 0.0001)
	assert.Equal(t, "pending", debts[0]["status"])
}

func TestAPI_InsufficientStockReturns409(t *testing.T) {
	server := newTestServer(t)
	seedStock(t, server, 5)

	resp := doJSON(t, server, http.MethodPost, "/api/transactions", map[string]any{
		"customer_name":  "Budi",
		"date":           "2026-08-10",
		"quantity":       10,
		"price_per_kg":   25000,
		"payment_method": "cash",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_ListTransactionsByDateRange(t *testing.T) {
	server := newTestServer(t)
	seedStock(t, server, 100)

	for _, date := range []string{"2026-08-05", "2026-08-10", "2026-08-15"} {
		resp := doJSON(t, server, http.MethodPost, "/api/transactions", map[string]any{
			"customer_name":  "Budi",
			"date":           date,
			"quantity":       1,
			"price_per_kg":   25000,
			"payment_method": "cash",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, server, http.MethodGet, "/api/transactions?start=2026-08-05&end=2026-08-10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]map[string]any](t, resp), 2, "range endpoints are inclusive")
}

// =============================================================================
// DEBT PAYMENTS
// =============================================================================

func TestAPI_DebtPaymentFlow(t *testing.T) {
	server := newTestServer(t)
	seedStock(t, server, 100)

	resp := doJSON(t, server, http.MethodPost, "/api/transactions", map[string]any{
		"customer_name":  "Budi",
		"date":           "2026-08-10",
		"quantity":       10,
		"price_per_kg":   25000,
		"payment_method": "debt",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, server, http.MethodGet, "/api/debts", nil)
	debts := decode[[]map[string]any](t, resp)
	require.Len(t, debts, 1)
	debtID := int64(debts[0]["id"].(float64))

	resp = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/debts/%d/payments", debtID), map[string]any{
		"amount":       100000,
		"payment_date": "2026-08-20",
		"notes":        "first installment",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	updated := decode[map[string]any](t, resp)
	assert.InDelta(t, 150000.0, updated["remaining_amount"], 0.0001)
	assert.Equal(t, "partial", updated["status"])

	resp = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/debts/%d/payments", debtID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]map[string]any](t, resp), 1)
}

func TestAPI_DebtPaymentOnMissingDebtReturns404(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/api/debts/404/payments", map[string]any{
		"amount":       100,
		"payment_date": "2026-08-20",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func TestAPI_DuplicateCustomerReturns409(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/api/customers", map[string]any{"name": "Budi"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, server, http.MethodPost, "/api/customers", map[string]any{"name": "BUDI"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_CustomerStats(t *testing.T) {
	server := newTestServer(t)
	seedStock(t, server, 100)

	resp := doJSON(t, server, http.MethodPost, "/api/transactions", map[string]any{
		"customer_name":  "Budi",
		"date":           "2026-08-10",
		"quantity":       4,
		"price_per_kg":   25000,
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tx := decode[map[string]any](t, resp)
	customerID := int64(tx["customer_id"].(float64))

	resp = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/customers/%d/stats", customerID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[map[string]any](t, resp)
	assert.InDelta(t, 100000.0, stats["total_spent"], 0.0001)
	assert.EqualValues(t, 1, stats["total_transactions"])
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestAPI_SettingsSeedAndPatch(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	settings := decode[map[string]any](t, resp)
	assert.InDelta(t, 2.0, settings["default_shrinkage_percentage"], 0.0001)
	assert.Equal(t, "weekly", settings["backup_frequency"])

	resp = doJSON(t, server, http.MethodPut, "/api/settings", map[string]any{
		"business_name": "Tambak Jaya",
		"debt_due_days": 14,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[map[string]any](t, resp)
	assert.Equal(t, "Tambak Jaya", updated["business_name"])
	assert.EqualValues(t, 14, updated["debt_due_days"])
}

func TestAPI_SettingsRejectBadFrequency(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodPut, "/api/settings", map[string]any{
		"backup_frequency": "hourly",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// REPORTS
// =============================================================================

func TestAPI_DailySalesSeriesIsDense(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodGet, "/api/reports/daily-sales", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	series := decode[[]map[string]any](t, resp)
	assert.Len(t, series, 31, "trailing 30 days plus today, zero-filled")
}

func TestAPI_PaymentMethodsFixedOrder(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodGet, "/api/reports/payment-methods", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[[]map[string]any](t, resp)
	require.Len(t, stats, 3)
	assert.Equal(t, "cash", stats[0]["method"])
	assert.Equal(t, "debt", stats[1]["method"])
	assert.Equal(t, "installment", stats[2]["method"])
}

// =============================================================================
// BACKUP
// =============================================================================

func TestAPI_BackupExportImportRoundTrip(t *testing.T) {
	server := newTestServer(t)
	seedStock(t, server, 100)

	resp := doJSON(t, server, http.MethodPost, "/api/transactions", map[string]any{
		"customer_name":  "Budi",
		"date":           "2026-08-10",
		"quantity":       10,
		"price_per_kg":   25000,
		"payment_method": "debt",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, server, http.MethodGet, "/api/backup/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	snap := decode[ledger.Snapshot](t, resp)
	assert.Len(t, snap.Transactions, 1)

	// Restore onto a fresh server.
	other := newTestServer(t)
	resp = doJSON(t, other, http.MethodPost, "/api/backup/import", snap)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, other, http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	restored := decode[[]map[string]any](t, resp)
	require.Len(t, restored, 1)
	assert.Equal(t, "Budi", restored[0]["customer_name"])
}

func TestAPI_BackupImportBadVersionReturns400(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/api/backup/import", map[string]any{
		"version": "99",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
