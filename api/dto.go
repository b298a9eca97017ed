/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NUMBERS:
  Weights and money cross the wire as float64. Internally everything is
  decimal; the conversion happens only at the JSON boundary, so rounding
  drift never re-enters the books.

DATES:
  Business dates (sale date, intake date, due date) use YYYY-MM-DD.
  Record timestamps use RFC3339.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/types.go: The domain entities behind them
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ulyafarhan/udangku/ledger"
)

const dateLayout = "2006-01-02"

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CustomerDTO represents a customer in API responses.
type CustomerDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateCustomerRequest is the request to create a customer.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateCustomerRequest is a partial customer patch.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// CustomerStatsDTO is the per-customer spending summary.
type CustomerStatsDTO struct {
	TotalTransactions int     `json:"total_transactions"`
	TotalSpent        float64 `json:"total_spent"`
	TotalDebt         float64 `json:"total_debt"`
}

// StockEntryDTO represents an intake record in API responses.
type StockEntryDTO struct {
	ID                  int64   `json:"id"`
	SupplierName        string  `json:"supplier_name"`
	Date                string  `json:"date"`
	GrossWeight         float64 `json:"gross_weight"`
	BuyPrice            float64 `json:"buy_price"`
	ShrinkagePercentage float64 `json:"shrinkage_percentage"`
	NetWeight           float64 `json:"net_weight"`
	TotalCost           float64 `json:"total_cost"`
	CreatedAt           string  `json:"created_at,omitempty"`
}

// CreateStockEntryRequest is the request to record an intake.
type CreateStockEntryRequest struct {
	SupplierName        string  `json:"supplier_name"`
	Date                string  `json:"date"`
	GrossWeight         float64 `json:"gross_weight"`
	BuyPrice            float64 `json:"buy_price"`
	ShrinkagePercentage float64 `json:"shrinkage_percentage"`
}

// UpdateStockEntryRequest is a partial intake patch.
type UpdateStockEntryRequest struct {
	SupplierName        *string  `json:"supplier_name,omitempty"`
	Date                *string  `json:"date,omitempty"`
	GrossWeight         *float64 `json:"gross_weight,omitempty"`
	BuyPrice            *float64 `json:"buy_price,omitempty"`
	ShrinkagePercentage *float64 `json:"shrinkage_percentage,omitempty"`
}

// StockSummaryDTO is the derived stock position.
type StockSummaryDTO struct {
	CurrentStock   float64 `json:"current_stock"`
	TotalPurchased float64 `json:"total_purchased"`
	TotalSold      float64 `json:"total_sold"`
}

// TransactionDTO represents a sale in API responses.
type TransactionDTO struct {
	ID            int64   `json:"id"`
	CustomerID    int64   `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	Date          string  `json:"date"`
	ShrimpType    string  `json:"shrimp_type,omitempty"`
	Quantity      float64 `json:"quantity"`
	PricePerKg    float64 `json:"price_per_kg"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentMethod string  `json:"payment_method"`
	PaidAmount    float64 `json:"paid_amount"`
	RemainingDebt float64 `json:"remaining_debt"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// CreateTransactionRequest is the request to record a sale.
type CreateTransactionRequest struct {
	CustomerName  string  `json:"customer_name"`
	Date          string  `json:"date"`
	ShrimpType    string  `json:"shrimp_type"`
	Quantity      float64 `json:"quantity"`
	PricePerKg    float64 `json:"price_per_kg"`
	PaymentMethod string  `json:"payment_method"`
	PaidAmount    float64 `json:"paid_amount"`
}

// UpdateTransactionRequest is a partial sale patch.
type UpdateTransactionRequest struct {
	Date       *string  `json:"date,omitempty"`
	ShrimpType *string  `json:"shrimp_type,omitempty"`
	Quantity   *float64 `json:"quantity,omitempty"`
	PricePerKg *float64 `json:"price_per_kg,omitempty"`
	PaidAmount *float64 `json:"paid_amount,omitempty"`
}

// DebtDTO represents a receivable in API responses.
type DebtDTO struct {
	ID              int64   `json:"id"`
	CustomerID      int64   `json:"customer_id"`
	CustomerName    string  `json:"customer_name"`
	TransactionID   int64   `json:"transaction_id"`
	OriginalAmount  float64 `json:"original_amount"`
	RemainingAmount float64 `json:"remaining_amount"`
	DueDate         string  `json:"due_date"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at,omitempty"`
}

// DebtPaymentDTO represents one repayment in API responses.
type DebtPaymentDTO struct {
	ID          int64   `json:"id"`
	DebtID      int64   `json:"debt_id"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
	Notes       string  `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// CreateDebtPaymentRequest is the request to apply a repayment.
type CreateDebtPaymentRequest struct {
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
	Notes       string  `json:"notes"`
}

// OperationalCostDTO represents a cost record in API responses.
type OperationalCostDTO struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// CreateOperationalCostRequest is the request to record a cost.
type CreateOperationalCostRequest struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
}

// UpdateOperationalCostRequest is a partial cost patch.
type UpdateOperationalCostRequest struct {
	Date        *string  `json:"date,omitempty"`
	Description *string  `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// SettingsDTO represents the singleton settings record.
type SettingsDTO struct {
	BusinessName               string  `json:"business_name"`
	BusinessAddress            string  `json:"business_address,omitempty"`
	BusinessPhone              string  `json:"business_phone,omitempty"`
	BusinessEmail              string  `json:"business_email,omitempty"`
	DefaultShrinkagePercentage float64 `json:"default_shrinkage_percentage"`
	DefaultDailyPrice          float64 `json:"default_daily_price"`
	Currency                   string  `json:"currency"`
	CurrencySymbol             string  `json:"currency_symbol"`
	ItemsPerPage               int     `json:"items_per_page"`
	DebtDueDays                int     `json:"debt_due_days"`
	EnableAutoBackup           bool    `json:"enable_auto_backup"`
	BackupFrequency            string  `json:"backup_frequency"`
}

// UpdateSettingsRequest is a partial settings patch.
type UpdateSettingsRequest struct {
	BusinessName               *string  `json:"business_name,omitempty"`
	BusinessAddress            *string  `json:"business_address,omitempty"`
	BusinessPhone              *string  `json:"business_phone,omitempty"`
	BusinessEmail              *string  `json:"business_email,omitempty"`
	DefaultShrinkagePercentage *float64 `json:"default_shrinkage_percentage,omitempty"`
	DefaultDailyPrice          *float64 `json:"default_daily_price,omitempty"`
	Currency                   *string  `json:"currency,omitempty"`
	CurrencySymbol             *string  `json:"currency_symbol,omitempty"`
	ItemsPerPage               *int     `json:"items_per_page,omitempty"`
	DebtDueDays                *int     `json:"debt_due_days,omitempty"`
	EnableAutoBackup           *bool    `json:"enable_auto_backup,omitempty"`
	BackupFrequency            *string  `json:"backup_frequency,omitempty"`
}

// =============================================================================
// REPORT TYPES
// =============================================================================

// DashboardDTO is the at-a-glance business state.
type DashboardDTO struct {
	TodayRevenue   float64                `json:"today_revenue"`
	TodayExpenses  float64                `json:"today_expenses"`
	TodayProfit    float64                `json:"today_profit"`
	CurrentStock   float64                `json:"current_stock"`
	TotalCustomers int                    `json:"total_customers"`
	TotalDebt      float64                `json:"total_debt"`
	Recent         []RecentTransactionDTO `json:"recent_transactions"`
}

// RecentTransactionDTO is a trimmed sale view for the dashboard feed.
type RecentTransactionDTO struct {
	ID           int64   `json:"id"`
	CustomerName string  `json:"customer_name"`
	TotalAmount  float64 `json:"total_amount"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
}

// DailySalesPointDTO is one day's revenue in the report window.
type DailySalesPointDTO struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

// MonthlySummaryDTO aggregates the report window.
type MonthlySummaryDTO struct {
	TotalSales            float64 `json:"total_sales"`
	TotalPurchases        float64 `json:"total_purchases"`
	TotalOperationalCosts float64 `json:"total_operational_costs"`
	NetProfit             float64 `json:"net_profit"`
	TotalTransactions     int     `json:"total_transactions"`
	TotalStockEntries     int     `json:"total_stock_entries"`
}

// PaymentMethodStatDTO is one payment method's share of revenue.
type PaymentMethodStatDTO struct {
	Method     string  `json:"method"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
	Percentage int64   `json:"percentage"`
}

// CustomerRankDTO is one customer's windowed revenue.
type CustomerRankDTO struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// StockVsSalesPointDTO compares one day's intake against its sales.
type StockVsSalesPointDTO struct {
	Date         string  `json:"date"`
	QuantitySold float64 `json:"quantity_sold"`
	NetWeightIn  float64 `json:"net_weight_in"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func f64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toCustomerDTO(c ledger.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toStockEntryDTO(e ledger.StockEntry) StockEntryDTO {
	return StockEntryDTO{
		ID:                  e.ID,
		SupplierName:        e.SupplierName,
		Date:                e.Date.Format(dateLayout),
		GrossWeight:         f64(e.GrossWeight),
		BuyPrice:            f64(e.BuyPrice),
		ShrinkagePercentage: f64(e.ShrinkagePercentage),
		NetWeight:           f64(e.NetWeight),
		TotalCost:           f64(e.TotalCost),
		CreatedAt:           e.CreatedAt.Format(time.RFC3339),
	}
}

func toTransactionDTO(t ledger.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:            t.ID,
		CustomerID:    t.CustomerID,
		CustomerName:  t.CustomerName,
		Date:          t.Date.Format(dateLayout),
		ShrimpType:    t.ShrimpType,
		Quantity:      f64(t.Quantity),
		PricePerKg:    f64(t.PricePerKg),
		TotalAmount:   f64(t.TotalAmount),
		PaymentMethod: string(t.PaymentMethod),
		PaidAmount:    f64(t.PaidAmount),
		RemainingDebt: f64(t.RemainingDebt),
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
}

func toTransactionDTOs(txs []ledger.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, len(txs))
	for i, t := range txs {
		dtos[i] = toTransactionDTO(t)
	}
	return dtos
}

func toDebtDTO(d ledger.Debt) DebtDTO {
	return DebtDTO{
		ID:              d.ID,
		CustomerID:      d.CustomerID,
		CustomerName:    d.CustomerName,
		TransactionID:   d.TransactionID,
		OriginalAmount:  f64(d.OriginalAmount),
		RemainingAmount: f64(d.RemainingAmount),
		DueDate:         d.DueDate.Format(dateLayout),
		Status:          string(d.Status),
		CreatedAt:       d.CreatedAt.Format(time.RFC3339),
	}
}

func toDebtPaymentDTO(p ledger.DebtPayment) DebtPaymentDTO {
	return DebtPaymentDTO{
		ID:          p.ID,
		DebtID:      p.DebtID,
		Amount:      f64(p.Amount),
		PaymentDate: p.PaymentDate.Format(dateLayout),
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func toOperationalCostDTO(c ledger.OperationalCost) OperationalCostDTO {
	return OperationalCostDTO{
		ID:          c.ID,
		Date:        c.Date.Format(dateLayout),
		Description: c.Description,
		Amount:      f64(c.Amount),
		Category:    c.Category,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

func toSettingsDTO(s ledger.Settings) SettingsDTO {
	return SettingsDTO{
		BusinessName:               s.BusinessName,
		BusinessAddress:            s.BusinessAddress,
		BusinessPhone:              s.BusinessPhone,
		BusinessEmail:              s.BusinessEmail,
		DefaultShrinkagePercentage: f64(s.DefaultShrinkagePercentage),
		DefaultDailyPrice:          f64(s.DefaultDailyPrice),
		Currency:                   s.Currency,
		CurrencySymbol:             s.CurrencySymbol,
		ItemsPerPage:               s.ItemsPerPage,
		DebtDueDays:                s.DebtDueDays,
		EnableAutoBackup:           s.EnableAutoBackup,
		BackupFrequency:            string(s.BackupFrequency),
	}
}
