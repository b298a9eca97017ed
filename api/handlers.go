/*
handlers.go - HTTP API handlers for the shrimp trading ledger

PURPOSE:
  Exposes the ledger engines via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Stock:
    GET    /api/stock                   List intake records
    GET    /api/stock/summary           Derived stock position
    POST   /api/stock                   Record an intake
    PUT    /api/stock/{id}              Patch an intake
    DELETE /api/stock/{id}              Remove an intake

  Transactions:
    GET    /api/transactions            List sales (optional ?start&end)
    POST   /api/transactions            Record a sale
    PUT    /api/transactions/{id}       Patch a sale
    DELETE /api/transactions/{id}       Remove a sale (debt kept)

  Debts:
    GET    /api/debts                   List receivables (optional ?customer_id)
    GET    /api/debts/export            Export debts with payment history
    GET    /api/debts/{id}/payments     Payment history of one debt
    POST   /api/debts/{id}/payments     Apply a repayment

  Customers:
    GET    /api/customers               List customers
    POST   /api/customers               Create customer
    GET    /api/customers/{id}/stats    Spending statistics
    PUT    /api/customers/{id}          Patch customer
    DELETE /api/customers/{id}          Remove customer

  Costs:
    GET    /api/costs                   List operational costs
    POST   /api/costs                   Record a cost
    PUT    /api/costs/{id}              Patch a cost
    DELETE /api/costs/{id}              Remove a cost

  Settings:
    GET    /api/settings                Read (seeds defaults on first run)
    PUT    /api/settings                Patch

  Reports:
    GET    /api/reports/dashboard
    GET    /api/reports/daily-sales
    GET    /api/reports/monthly-summary
    GET    /api/reports/payment-methods
    GET    /api/reports/top-customers
    GET    /api/reports/stock-vs-sales

  Backup:
    GET    /api/backup/export           Full snapshot download
    POST   /api/backup/import           Destructive snapshot restore

ERROR HANDLING:
  Domain errors are mapped to HTTP status via errors.Is:
  - 400: Validation errors, invalid input shape
  - 404: Referenced record missing
  - 409: Business-rule rejection (duplicate name, insufficient stock)
  - 500: Storage and other internal errors

SECURITY NOTE:
  Single-user deployment, no authentication. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ulyafarhan/udangku/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Engines bundles the domain services the handlers delegate to.
type Engines struct {
	Stock        *ledger.StockLedger
	Transactions *ledger.TransactionEngine
	Debts        *ledger.DebtLedger
	Customers    *ledger.CustomerDirectory
	Costs        *ledger.CostLedger
	Settings     *ledger.SettingsService
	Reports      *ledger.Reports
	Backup       *ledger.Backup
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engines
	log *zap.Logger
}

// NewHandler creates a handler over the given engines.
func NewHandler(e Engines, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Engines: e, log: log}
}

// =============================================================================
// STOCK HANDLERS
// =============================================================================

// ListStockEntries returns all intake records.
func (h *Handler) ListStockEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Stock.Entries(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list stock entries", err)
		return
	}

	dtos := make([]StockEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toStockEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStockSummary returns the derived stock position.
func (h *Handler) GetStockSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Stock.Summary(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to compute stock summary", err)
		return
	}
	writeJSON(w, http.StatusOK, StockSummaryDTO{
		CurrentStock:   f64(summary.CurrentStock),
		TotalPurchased: f64(summary.TotalPurchased),
		TotalSold:      f64(summary.TotalSold),
	})
}

// CreateStockEntry records an intake.
func (h *Handler) CreateStockEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateStockEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	entry, err := h.Stock.AddStockEntry(r.Context(), ledger.AddStockEntryInput{
		SupplierName:        req.SupplierName,
		Date:                date,
		GrossWeight:         decimal.NewFromFloat(req.GrossWeight),
		BuyPrice:            decimal.NewFromFloat(req.BuyPrice),
		ShrinkagePercentage: decimal.NewFromFloat(req.ShrinkagePercentage),
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create stock entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStockEntryDTO(*entry))
}

// UpdateStockEntry patches an intake record.
func (h *Handler) UpdateStockEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateStockEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := ledger.UpdateStockEntryInput{
		SupplierName:        req.SupplierName,
		GrossWeight:         decimalPtr(req.GrossWeight),
		BuyPrice:            decimalPtr(req.BuyPrice),
		ShrinkagePercentage: decimalPtr(req.ShrinkagePercentage),
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		in.Date = &date
	}

	entry, err := h.Stock.UpdateStockEntry(r.Context(), id, in)
	if err != nil {
		h.writeDomainError(w, "Failed to update stock entry", err)
		return
	}
	writeJSON(w, http.StatusOK, toStockEntryDTO(*entry))
}

// DeleteStockEntry removes an intake record.
func (h *Handler) DeleteStockEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Stock.DeleteStockEntry(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete stock entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ListTransactions returns all sales, optionally limited to a date range
// via ?start=YYYY-MM-DD&end=YYYY-MM-DD (inclusive).
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	startStr, endStr := r.URL.Query().Get("start"), r.URL.Query().Get("end")

	var (
		txs []ledger.Transaction
		err error
	)
	if startStr != "" || endStr != "" {
		start, perr := time.Parse(dateLayout, startStr)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", perr)
			return
		}
		end, perr := time.Parse(dateLayout, endStr)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid end date (use YYYY-MM-DD)", perr)
			return
		}
		txs, err = h.Transactions.TransactionsByDateRange(r.Context(), start, end)
	} else {
		txs, err = h.Transactions.Transactions(r.Context())
	}
	if err != nil {
		h.writeDomainError(w, "Failed to list transactions", err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTOs(txs))
}

// CreateTransaction records a sale.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	tx, err := h.Transactions.AddTransaction(r.Context(), ledger.AddTransactionInput{
		CustomerName:  req.CustomerName,
		Date:          date,
		ShrimpType:    req.ShrimpType,
		Quantity:      decimal.NewFromFloat(req.Quantity),
		PricePerKg:    decimal.NewFromFloat(req.PricePerKg),
		PaymentMethod: ledger.PaymentMethod(req.PaymentMethod),
		PaidAmount:    decimal.NewFromFloat(req.PaidAmount),
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create transaction", err)
		return
	}

	h.log.Info("sale recorded",
		zap.Int64("transaction_id", tx.ID),
		zap.String("customer", tx.CustomerName),
		zap.String("status", string(tx.Status)))
	writeJSON(w, http.StatusCreated, toTransactionDTO(*tx))
}

// UpdateTransaction patches a sale.
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := ledger.UpdateTransactionInput{
		ShrimpType: req.ShrimpType,
		Quantity:   decimalPtr(req.Quantity),
		PricePerKg: decimalPtr(req.PricePerKg),
		PaidAmount: decimalPtr(req.PaidAmount),
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		in.Date = &date
	}

	tx, err := h.Transactions.UpdateTransaction(r.Context(), id, in)
	if err != nil {
		h.writeDomainError(w, "Failed to update transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(*tx))
}

// DeleteTransaction removes a sale. A linked debt is kept.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Transactions.DeleteTransaction(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete transaction", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DEBT HANDLERS
// =============================================================================

// ListDebts returns receivables, optionally for one customer
// via ?customer_id=N.
func (h *Handler) ListDebts(w http.ResponseWriter, r *http.Request) {
	var (
		debts []ledger.Debt
		err   error
	)
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		customerID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid customer_id", perr)
			return
		}
		debts, err = h.Debts.DebtsByCustomer(r.Context(), customerID)
	} else {
		debts, err = h.Debts.Debts(r.Context())
	}
	if err != nil {
		h.writeDomainError(w, "Failed to list debts", err)
		return
	}

	dtos := make([]DebtDTO, len(debts))
	for i, d := range debts {
		dtos[i] = toDebtDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListDebtPayments returns the payment history of one debt.
func (h *Handler) ListDebtPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	payments, err := h.Debts.Payments(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to list debt payments", err)
		return
	}

	dtos := make([]DebtPaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toDebtPaymentDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateDebtPayment applies a repayment to a debt and returns the
// updated debt.
func (h *Handler) CreateDebtPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req CreateDebtPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	paymentDate, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment_date format (use YYYY-MM-DD)", err)
		return
	}

	debt, err := h.Debts.AddDebtPayment(r.Context(), ledger.AddDebtPaymentInput{
		DebtID:      id,
		Amount:      decimal.NewFromFloat(req.Amount),
		PaymentDate: paymentDate,
		Notes:       req.Notes,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to apply debt payment", err)
		return
	}

	h.log.Info("debt payment applied",
		zap.Int64("debt_id", debt.ID),
		zap.Float64("amount", req.Amount),
		zap.String("status", string(debt.Status)))
	writeJSON(w, http.StatusCreated, toDebtDTO(*debt))
}

// ExportDebts returns every debt with its payment history.
func (h *Handler) ExportDebts(w http.ResponseWriter, r *http.Request) {
	export, err := h.Debts.Export(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to export debts", err)
		return
	}
	writeJSON(w, http.StatusOK, export)
}

// =============================================================================
// CUSTOMER HANDLERS
// =============================================================================

// ListCustomers returns all customers.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Customers.Customers(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list customers", err)
		return
	}

	dtos := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = toCustomerDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCustomer creates a customer explicitly.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	customer, err := h.Customers.AddCustomer(r.Context(), ledger.AddCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerDTO(*customer))
}

// GetCustomerStats returns a customer's spending statistics.
func (h *Handler) GetCustomerStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	stats, err := h.Customers.Stats(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to compute customer stats", err)
		return
	}
	writeJSON(w, http.StatusOK, CustomerStatsDTO{
		TotalTransactions: stats.TotalTransactions,
		TotalSpent:        f64(stats.TotalSpent),
		TotalDebt:         f64(stats.TotalDebt),
	})
}

// UpdateCustomer patches a customer.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	customer, err := h.Customers.UpdateCustomer(r.Context(), id, ledger.UpdateCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to update customer", err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerDTO(*customer))
}

// DeleteCustomer removes a customer; their sales and debts are kept.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Customers.DeleteCustomer(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// OPERATIONAL COST HANDLERS
// =============================================================================

// ListCosts returns all cost records.
func (h *Handler) ListCosts(w http.ResponseWriter, r *http.Request) {
	costs, err := h.Costs.Costs(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list costs", err)
		return
	}

	dtos := make([]OperationalCostDTO, len(costs))
	for i, c := range costs {
		dtos[i] = toOperationalCostDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCost records an operational cost.
func (h *Handler) CreateCost(w http.ResponseWriter, r *http.Request) {
	var req CreateOperationalCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	cost, err := h.Costs.AddCost(r.Context(), ledger.AddCostInput{
		Date:        date,
		Description: req.Description,
		Amount:      decimal.NewFromFloat(req.Amount),
		Category:    req.Category,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create cost", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOperationalCostDTO(*cost))
}

// UpdateCost patches a cost record.
func (h *Handler) UpdateCost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateOperationalCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := ledger.UpdateCostInput{
		Description: req.Description,
		Amount:      decimalPtr(req.Amount),
		Category:    req.Category,
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		in.Date = &date
	}

	cost, err := h.Costs.UpdateCost(r.Context(), id, in)
	if err != nil {
		h.writeDomainError(w, "Failed to update cost", err)
		return
	}
	writeJSON(w, http.StatusOK, toOperationalCostDTO(*cost))
}

// DeleteCost removes a cost record.
func (h *Handler) DeleteCost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Costs.DeleteCost(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete cost", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings reads the singleton settings record, seeding defaults on
// first run.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to get settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

// UpdateSettings patches the settings record. Engines holding
// settings-derived knobs are reloaded synchronously.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := ledger.UpdateSettingsInput{
		BusinessName:               req.BusinessName,
		BusinessAddress:            req.BusinessAddress,
		BusinessPhone:              req.BusinessPhone,
		BusinessEmail:              req.BusinessEmail,
		DefaultShrinkagePercentage: decimalPtr(req.DefaultShrinkagePercentage),
		DefaultDailyPrice:          decimalPtr(req.DefaultDailyPrice),
		Currency:                   req.Currency,
		CurrencySymbol:             req.CurrencySymbol,
		ItemsPerPage:               req.ItemsPerPage,
		DebtDueDays:                req.DebtDueDays,
		EnableAutoBackup:           req.EnableAutoBackup,
	}
	if req.BackupFrequency != nil {
		freq := ledger.BackupFrequency(*req.BackupFrequency)
		in.BackupFrequency = &freq
	}

	settings, err := h.Settings.Update(r.Context(), in)
	if err != nil {
		h.writeDomainError(w, "Failed to update settings", err)
		return
	}
	h.Transactions.Reload(settings)
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetDashboard returns the at-a-glance business state.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	m, err := h.Reports.Dashboard(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to compute dashboard", err)
		return
	}

	dto := DashboardDTO{
		TodayRevenue:   f64(m.TodayRevenue),
		TodayExpenses:  f64(m.TodayExpenses),
		TodayProfit:    f64(m.TodayProfit),
		CurrentStock:   f64(m.CurrentStock),
		TotalCustomers: m.TotalCustomers,
		TotalDebt:      f64(m.TotalDebt),
		Recent:         make([]RecentTransactionDTO, len(m.Recent)),
	}
	for i, t := range m.Recent {
		dto.Recent[i] = RecentTransactionDTO{
			ID:           t.ID,
			CustomerName: t.CustomerName,
			TotalAmount:  f64(t.TotalAmount),
			Status:       string(t.Status),
			CreatedAt:    t.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetDailySales returns the dense daily revenue series.
func (h *Handler) GetDailySales(w http.ResponseWriter, r *http.Request) {
	series, err := h.Reports.DailySales(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to compute daily sales", err)
		return
	}

	dtos := make([]DailySalesPointDTO, len(series))
	for i, p := range series {
		dtos[i] = DailySalesPointDTO{Date: p.Date.Format(dateLayout), Sales: f64(p.Sales)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetMonthlySummary returns the windowed totals.
func (h *Handler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Reports.Summary(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to compute summary", err)
		return
	}
	writeJSON(w, http.StatusOK, MonthlySummaryDTO{
		TotalSales:            f64(s.TotalSales),
		TotalPurchases:        f64(s.TotalPurchases),
		TotalOperationalCosts: f64(s.TotalOperationalCosts),
		NetProfit:             f64(s.NetProfit),
		TotalTransactions:     s.TotalTransactions,
		TotalStockEntries:     s.TotalStockEntries,
	})
}

// GetPaymentMethods returns the revenue split by payment method.
func (h *Handler) GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Reports.PaymentMethodDistribution(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to compute payment distribution", err)
		return
	}

	dtos := make([]PaymentMethodStatDTO, len(stats))
	for i, s := range stats {
		dtos[i] = PaymentMethodStatDTO{
			Method:     string(s.Method),
			Amount:     f64(s.Amount),
			Count:      s.Count,
			Percentage: s.Percentage,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTopCustomers returns the five largest customers by windowed revenue.
func (h *Handler) GetTopCustomers(w http.ResponseWriter, r *http.Request) {
	ranks, err := h.Reports.TopCustomers(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to compute top customers", err)
		return
	}

	dtos := make([]CustomerRankDTO, len(ranks))
	for i, c := range ranks {
		dtos[i] = CustomerRankDTO{Name: c.Name, Amount: f64(c.Amount)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStockVsSales returns the daily intake-versus-sold comparison.
func (h *Handler) GetStockVsSales(w http.ResponseWriter, r *http.Request) {
	points, err := h.Reports.StockVsSales(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to compute stock vs sales", err)
		return
	}

	dtos := make([]StockVsSalesPointDTO, len(points))
	for i, p := range points {
		dtos[i] = StockVsSalesPointDTO{
			Date:         p.Date.Format(dateLayout),
			QuantitySold: f64(p.QuantitySold),
			NetWeightIn:  f64(p.NetWeightIn),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// BACKUP HANDLERS
// =============================================================================

// ExportBackup serializes the full database as a downloadable snapshot.
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Backup.Export(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to export backup", err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="udangku-backup.json"`)
	writeJSON(w, http.StatusOK, snap)
}

// ImportBackup restores a snapshot, replacing all current data.
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	var snap ledger.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid snapshot body", err)
		return
	}

	if err := h.Backup.Import(r.Context(), snap); err != nil {
		h.writeDomainError(w, "Failed to import backup", err)
		return
	}

	h.log.Warn("database restored from snapshot",
		zap.String("snapshot_version", snap.Version),
		zap.Time("exported_at", snap.ExportedAt))
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// =============================================================================
// HELPERS
// =============================================================================

// pathID parses the {id} URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id", err)
		return 0, false
	}
	return id, true
}

func decimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

// writeDomainError maps a domain error onto an HTTP status.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		writeError(w, http.StatusBadRequest, message, err)
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, ledger.ErrDuplicateName), errors.Is(err, ledger.ErrInsufficientStock):
		writeError(w, http.StatusConflict, message, err)
	default:
		h.log.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
