// Package memory provides an in-memory ledger.Store for testing and dev.
//
// Rows live in per-collection maps keyed by id; ids are assigned from a
// per-collection counter so records keep their encounter order when
// listed. List methods return copies sorted by id - callers can mutate
// the results freely.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ulyafarhan/udangku/ledger"
)

// Store is an in-memory implementation of ledger.Store.
type Store struct {
	mu sync.RWMutex

	customers map[int64]ledger.Customer
	entries   map[int64]ledger.StockEntry
	costs     map[int64]ledger.OperationalCost
	txs       map[int64]ledger.Transaction
	debts     map[int64]ledger.Debt
	payments  map[int64]ledger.DebtPayment
	settings  *ledger.Settings

	nextID map[ledger.Collection]int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		customers: make(map[int64]ledger.Customer),
		entries:   make(map[int64]ledger.StockEntry),
		costs:     make(map[int64]ledger.OperationalCost),
		txs:       make(map[int64]ledger.Transaction),
		debts:     make(map[int64]ledger.Debt),
		payments:  make(map[int64]ledger.DebtPayment),
		nextID:    make(map[ledger.Collection]int64),
	}
}

func (s *Store) allocate(c ledger.Collection) int64 {
	s.nextID[c]++
	return s.nextID[c]
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func (s *Store) CreateCustomer(_ context.Context, c ledger.Customer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocate(ledger.CollectionCustomers)
	c.ID = id
	s.customers[id] = c
	return id, nil
}

func (s *Store) GetCustomer(_ context.Context, id int64) (*ledger.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.customers[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *Store) FindCustomerByName(_ context.Context, name string) (*ledger.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range sortedKeys(s.customers) {
		c := s.customers[id]
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) ListCustomers(_ context.Context) ([]ledger.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Customer, 0, len(s.customers))
	for _, id := range sortedKeys(s.customers) {
		out = append(out, s.customers[id])
	}
	return out, nil
}

func (s *Store) UpdateCustomer(_ context.Context, c ledger.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
	return nil
}

func (s *Store) DeleteCustomer(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.customers, id)
	return nil
}

// =============================================================================
// STOCK ENTRIES
// =============================================================================

func (s *Store) CreateStockEntry(_ context.Context, e ledger.StockEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocate(ledger.CollectionStockEntries)
	e.ID = id
	s.entries[id] = e
	return id, nil
}

func (s *Store) GetStockEntry(_ context.Context, id int64) (*ledger.StockEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *Store) ListStockEntries(_ context.Context) ([]ledger.StockEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.StockEntry, 0, len(s.entries))
	for _, id := range sortedKeys(s.entries) {
		out = append(out, s.entries[id])
	}
	return out, nil
}

func (s *Store) UpdateStockEntry(_ context.Context, e ledger.StockEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = e
	return nil
}

func (s *Store) DeleteStockEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// =============================================================================
// OPERATIONAL COSTS
// =============================================================================

func (s *Store) CreateOperationalCost(_ context.Context, c ledger.OperationalCost) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocate(ledger.CollectionOperationalCosts)
	c.ID = id
	s.costs[id] = c
	return id, nil
}

func (s *Store) GetOperationalCost(_ context.Context, id int64) (*ledger.OperationalCost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.costs[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *Store) ListOperationalCosts(_ context.Context) ([]ledger.OperationalCost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.OperationalCost, 0, len(s.costs))
	for _, id := range sortedKeys(s.costs) {
		out = append(out, s.costs[id])
	}
	return out, nil
}

func (s *Store) UpdateOperationalCost(_ context.Context, c ledger.OperationalCost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costs[c.ID] = c
	return nil
}

func (s *Store) DeleteOperationalCost(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.costs, id)
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *Store) CreateTransaction(_ context.Context, t ledger.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocate(ledger.CollectionTransactions)
	t.ID = id
	s.txs[id] = t
	return id, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (*ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.txs[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (s *Store) ListTransactions(_ context.Context) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Transaction, 0, len(s.txs))
	for _, id := range sortedKeys(s.txs) {
		out = append(out, s.txs[id])
	}
	return out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[t.ID] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.txs, id)
	return nil
}

// =============================================================================
// DEBTS & PAYMENTS
// =============================================================================

func (s *Store) CreateDebt(_ context.Context, d ledger.Debt) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocate(ledger.CollectionDebts)
	d.ID = id
	s.debts[id] = d
	return id, nil
}

func (s *Store) GetDebt(_ context.Context, id int64) (*ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.debts[id]; ok {
		return &d, nil
	}
	return nil, nil
}

func (s *Store) ListDebts(_ context.Context) ([]ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Debt, 0, len(s.debts))
	for _, id := range sortedKeys(s.debts) {
		out = append(out, s.debts[id])
	}
	return out, nil
}

func (s *Store) ListDebtsByCustomer(_ context.Context, customerID int64) ([]ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ledger.Debt
	for _, id := range sortedKeys(s.debts) {
		if d := s.debts[id]; d.CustomerID == customerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) UpdateDebt(_ context.Context, d ledger.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debts[d.ID] = d
	return nil
}

func (s *Store) CreateDebtPayment(_ context.Context, p ledger.DebtPayment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocate(ledger.CollectionDebtPayments)
	p.ID = id
	s.payments[id] = p
	return id, nil
}

func (s *Store) ListDebtPayments(_ context.Context, debtID int64) ([]ledger.DebtPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ledger.DebtPayment
	for _, id := range sortedKeys(s.payments) {
		if p := s.payments[id]; p.DebtID == debtID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) ListAllDebtPayments(_ context.Context) ([]ledger.DebtPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.DebtPayment, 0, len(s.payments))
	for _, id := range sortedKeys(s.payments) {
		out = append(out, s.payments[id])
	}
	return out, nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) GetSettings(_ context.Context) (*ledger.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, nil
	}
	copied := *s.settings
	return &copied, nil
}

func (s *Store) SaveSettings(_ context.Context, settings ledger.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if settings.ID == 0 {
		settings.ID = 1
	}
	s.settings = &settings
	return nil
}

// =============================================================================
// SNAPSHOT RESTORE
// =============================================================================

// ReplaceAll clears every collection and loads the snapshot rows,
// preserving ids. The id counters continue past the highest imported id.
func (s *Store) ReplaceAll(_ context.Context, snap ledger.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customers = make(map[int64]ledger.Customer)
	s.entries = make(map[int64]ledger.StockEntry)
	s.costs = make(map[int64]ledger.OperationalCost)
	s.txs = make(map[int64]ledger.Transaction)
	s.debts = make(map[int64]ledger.Debt)
	s.payments = make(map[int64]ledger.DebtPayment)
	s.settings = nil
	s.nextID = make(map[ledger.Collection]int64)

	bump := func(c ledger.Collection, id int64) {
		if id > s.nextID[c] {
			s.nextID[c] = id
		}
	}

	for _, c := range snap.Customers {
		s.customers[c.ID] = c
		bump(ledger.CollectionCustomers, c.ID)
	}
	for _, e := range snap.StockEntries {
		s.entries[e.ID] = e
		bump(ledger.CollectionStockEntries, e.ID)
	}
	for _, c := range snap.OperationalCosts {
		s.costs[c.ID] = c
		bump(ledger.CollectionOperationalCosts, c.ID)
	}
	for _, t := range snap.Transactions {
		s.txs[t.ID] = t
		bump(ledger.CollectionTransactions, t.ID)
	}
	for _, d := range snap.Debts {
		s.debts[d.ID] = d
		bump(ledger.CollectionDebts, d.ID)
	}
	for _, p := range snap.DebtPayments {
		s.payments[p.ID] = p
		bump(ledger.CollectionDebtPayments, p.ID)
	}
	if snap.Settings != nil {
		copied := *snap.Settings
		s.settings = &copied
	}
	return nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }
