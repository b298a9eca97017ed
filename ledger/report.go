/*
report.go - Reporting engine: derived summaries over the four ledgers

PURPOSE:
  Every report is a pure scan over current store contents - nothing is
  materialized or cached, so reports can never drift from the ledgers.
  At this data volume (one trader's books) a full re-scan per request is
  cheap; incremental counters would only pay off at a much larger scale.

WINDOWS:
  "Today" metrics use the half-open range [startOfDay, endOfDay) of the
  injected clock. Periodic reports use a fixed trailing window of the
  last 30 days. Total receivables are never time-bounded.

CLOCK:
  The engine takes its notion of "now" from an injected func so tests can
  pin the calendar.
*/
package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ReportWindowDays is the trailing window for periodic reports.
const ReportWindowDays = 30

// Reports derives summaries from the ledgers.
type Reports struct {
	store Store
	now   func() time.Time
}

// NewReports creates a reporting engine with the real clock.
func NewReports(store Store) *Reports {
	return &Reports{store: store, now: time.Now}
}

// NewReportsAt creates a reporting engine with a pinned clock, for tests
// and reproducible exports.
func NewReportsAt(store Store, now func() time.Time) *Reports {
	return &Reports{store: store, now: now}
}

// =============================================================================
// DASHBOARD
// =============================================================================

// RecentTransaction is a trimmed view for the dashboard feed.
type RecentTransaction struct {
	ID           int64
	CustomerName string
	TotalAmount  decimal.Decimal
	Status       TransactionStatus
	CreatedAt    time.Time
}

// DashboardMetrics is the at-a-glance state of the business.
type DashboardMetrics struct {
	TodayRevenue   decimal.Decimal
	TodayExpenses  decimal.Decimal
	TodayProfit    decimal.Decimal // revenue - expenses, can be negative
	CurrentStock   decimal.Decimal
	TotalCustomers int
	TotalDebt      decimal.Decimal // remaining debt across ALL transactions
	Recent         []RecentTransaction
}

// Dashboard computes today's metrics and the overall aggregates.
// Purchase cost counts as an expense on the day it was recorded, not
// amortized over the stock's lifetime.
func (r *Reports) Dashboard(ctx context.Context) (DashboardMetrics, error) {
	txs, err := r.store.ListTransactions(ctx)
	if err != nil {
		return DashboardMetrics{}, storageErr("list transactions", err)
	}
	costs, err := r.store.ListOperationalCosts(ctx)
	if err != nil {
		return DashboardMetrics{}, storageErr("list operational costs", err)
	}
	entries, err := r.store.ListStockEntries(ctx)
	if err != nil {
		return DashboardMetrics{}, storageErr("list stock entries", err)
	}
	customers, err := r.store.ListCustomers(ctx)
	if err != nil {
		return DashboardMetrics{}, storageErr("list customers", err)
	}

	now := r.now()
	dayStart, dayEnd := StartOfDay(now), EndOfDay(now)
	inToday := func(t time.Time) bool { return !t.Before(dayStart) && t.Before(dayEnd) }

	m := DashboardMetrics{
		TodayRevenue:   decimal.Zero,
		TodayExpenses:  decimal.Zero,
		TotalDebt:      decimal.Zero,
		TotalCustomers: len(customers),
	}

	for _, t := range txs {
		if inToday(t.Date) {
			m.TodayRevenue = m.TodayRevenue.Add(t.TotalAmount)
		}
		m.TotalDebt = m.TotalDebt.Add(t.RemainingDebt)
	}
	for _, c := range costs {
		if inToday(c.Date) {
			m.TodayExpenses = m.TodayExpenses.Add(c.Amount)
		}
	}
	for _, e := range entries {
		if inToday(e.Date) {
			m.TodayExpenses = m.TodayExpenses.Add(e.TotalCost)
		}
	}
	m.TodayProfit = m.TodayRevenue.Sub(m.TodayExpenses)
	m.CurrentStock = ComputeStock(entries, txs).CurrentStock

	recent := append([]Transaction(nil), txs...)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > 3 {
		recent = recent[:3]
	}
	for _, t := range recent {
		m.Recent = append(m.Recent, RecentTransaction{
			ID:           t.ID,
			CustomerName: t.CustomerName,
			TotalAmount:  t.TotalAmount,
			Status:       t.Status,
			CreatedAt:    t.CreatedAt,
		})
	}

	return m, nil
}

// =============================================================================
// PERIODIC REPORTS (trailing 30-day window)
// =============================================================================

// DailySalesPoint is one day's revenue in the report window.
type DailySalesPoint struct {
	Date  time.Time
	Sales decimal.Decimal
}

// DailySales returns a dense series over the window: every calendar day
// appears, quiet days report 0.
func (r *Reports) DailySales(ctx context.Context) ([]DailySalesPoint, error) {
	txs, err := r.store.ListTransactions(ctx)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}

	w := TrailingWindow(r.now(), ReportWindowDays)
	byDay := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if !w.Contains(t.Date) {
			continue
		}
		k := DayKey(t.Date)
		byDay[k] = byDay[k].Add(t.TotalAmount)
	}

	var series []DailySalesPoint
	for _, day := range w.Days() {
		sales, ok := byDay[DayKey(day)]
		if !ok {
			sales = decimal.Zero
		}
		series = append(series, DailySalesPoint{Date: day, Sales: sales})
	}
	return series, nil
}

// MonthlySummary aggregates the report window.
type MonthlySummary struct {
	TotalSales            decimal.Decimal
	TotalPurchases        decimal.Decimal
	TotalOperationalCosts decimal.Decimal
	NetProfit             decimal.Decimal // sales - purchases - costs
	TotalTransactions     int
	TotalStockEntries     int
}

// Summary computes the windowed totals and net profit.
func (r *Reports) Summary(ctx context.Context) (MonthlySummary, error) {
	txs, err := r.store.ListTransactions(ctx)
	if err != nil {
		return MonthlySummary{}, storageErr("list transactions", err)
	}
	entries, err := r.store.ListStockEntries(ctx)
	if err != nil {
		return MonthlySummary{}, storageErr("list stock entries", err)
	}
	costs, err := r.store.ListOperationalCosts(ctx)
	if err != nil {
		return MonthlySummary{}, storageErr("list operational costs", err)
	}

	w := TrailingWindow(r.now(), ReportWindowDays)
	s := MonthlySummary{
		TotalSales:            decimal.Zero,
		TotalPurchases:        decimal.Zero,
		TotalOperationalCosts: decimal.Zero,
	}
	for _, t := range txs {
		if w.Contains(t.Date) {
			s.TotalSales = s.TotalSales.Add(t.TotalAmount)
			s.TotalTransactions++
		}
	}
	for _, e := range entries {
		if w.Contains(e.Date) {
			s.TotalPurchases = s.TotalPurchases.Add(e.TotalCost)
			s.TotalStockEntries++
		}
	}
	for _, c := range costs {
		if w.Contains(c.Date) {
			s.TotalOperationalCosts = s.TotalOperationalCosts.Add(c.Amount)
		}
	}
	s.NetProfit = s.TotalSales.Sub(s.TotalPurchases).Sub(s.TotalOperationalCosts)
	return s, nil
}

// PaymentMethodStat is one payment method's share of windowed revenue.
type PaymentMethodStat struct {
	Method     PaymentMethod
	Amount     decimal.Decimal
	Count      int
	Percentage int64 // whole percent of total across all methods
}

// PaymentMethodDistribution groups windowed sales by payment method.
// Percentages are rounded to the nearest whole percent; when no revenue
// exists every group reports 0 instead of dividing by zero.
func (r *Reports) PaymentMethodDistribution(ctx context.Context) ([]PaymentMethodStat, error) {
	txs, err := r.store.ListTransactions(ctx)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}

	w := TrailingWindow(r.now(), ReportWindowDays)
	methods := []PaymentMethod{PaymentCash, PaymentDebt, PaymentInstallment}
	amounts := make(map[PaymentMethod]decimal.Decimal, len(methods))
	counts := make(map[PaymentMethod]int, len(methods))
	total := decimal.Zero

	for _, t := range txs {
		if !w.Contains(t.Date) {
			continue
		}
		amounts[t.PaymentMethod] = amounts[t.PaymentMethod].Add(t.TotalAmount)
		counts[t.PaymentMethod]++
		total = total.Add(t.TotalAmount)
	}

	stats := make([]PaymentMethodStat, 0, len(methods))
	for _, m := range methods {
		amount := amounts[m]
		var pct int64
		if !total.IsZero() {
			pct = amount.Div(total).Mul(hundred).Round(0).IntPart()
		}
		stats = append(stats, PaymentMethodStat{
			Method:     m,
			Amount:     amount,
			Count:      counts[m],
			Percentage: pct,
		})
	}
	return stats, nil
}

// CustomerRank is one customer's windowed revenue.
type CustomerRank struct {
	Name   string
	Amount decimal.Decimal
}

// TopCustomers groups windowed sales by customer name and returns the
// five largest, ties broken by first encounter order.
func (r *Reports) TopCustomers(ctx context.Context) ([]CustomerRank, error) {
	txs, err := r.store.ListTransactions(ctx)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}

	w := TrailingWindow(r.now(), ReportWindowDays)
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, t := range txs {
		if !w.Contains(t.Date) {
			continue
		}
		if _, seen := totals[t.CustomerName]; !seen {
			order = append(order, t.CustomerName)
		}
		totals[t.CustomerName] = totals[t.CustomerName].Add(t.TotalAmount)
	}

	ranks := make([]CustomerRank, 0, len(order))
	for _, name := range order {
		ranks = append(ranks, CustomerRank{Name: name, Amount: totals[name]})
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Amount.GreaterThan(ranks[j].Amount) })
	if len(ranks) > 5 {
		ranks = ranks[:5]
	}
	return ranks, nil
}

// StockVsSalesPoint compares one day's intake against its sales volume.
type StockVsSalesPoint struct {
	Date         time.Time
	QuantitySold decimal.Decimal // kg sold that day
	NetWeightIn  decimal.Decimal // kg of net intake that day
}

// StockVsSales returns, for each day in the window with activity, the
// sold quantity against the net weight purchased.
func (r *Reports) StockVsSales(ctx context.Context) ([]StockVsSalesPoint, error) {
	txs, err := r.store.ListTransactions(ctx)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	entries, err := r.store.ListStockEntries(ctx)
	if err != nil {
		return nil, storageErr("list stock entries", err)
	}

	w := TrailingWindow(r.now(), ReportWindowDays)
	type daily struct {
		date         time.Time
		sold, bought decimal.Decimal
	}
	byDay := make(map[string]*daily)
	day := func(t time.Time) *daily {
		k := DayKey(t)
		d, ok := byDay[k]
		if !ok {
			d = &daily{date: StartOfDay(t), sold: decimal.Zero, bought: decimal.Zero}
			byDay[k] = d
		}
		return d
	}

	for _, t := range txs {
		if w.Contains(t.Date) {
			d := day(t.Date)
			d.sold = d.sold.Add(t.Quantity)
		}
	}
	for _, e := range entries {
		if w.Contains(e.Date) {
			d := day(e.Date)
			d.bought = d.bought.Add(e.NetWeight)
		}
	}

	points := make([]StockVsSalesPoint, 0, len(byDay))
	for _, d := range byDay {
		points = append(points, StockVsSalesPoint{
			Date:         d.date,
			QuantitySold: d.sold,
			NetWeightIn:  d.bought,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}
