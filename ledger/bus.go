/*
bus.go - Change notification for ledger consumers

PURPOSE:
  The UI layer re-derives its views whenever the underlying collections
  change. Instead of implicit reactive queries, the engines publish an
  explicit event after every successful write, and consumers pull fresh
  aggregates on notification.

DELIVERY:
  Synchronous and cooperative. Publish runs every matching callback on the
  caller's goroutine before returning; callbacks must not block. There is
  no replay and no payload - the event only says "collection X changed",
  subscribers re-query for the data they need.

USAGE:
  unsubscribe := bus.Subscribe(func(c ledger.Collection) {
      refreshDashboard()
  }, ledger.CollectionTransactions, ledger.CollectionStockEntries)
  defer unsubscribe()
*/
package ledger

import "sync"

// Collection names one of the persisted record sets.
type Collection string

const (
	CollectionCustomers        Collection = "customers"
	CollectionStockEntries     Collection = "stock_entries"
	CollectionOperationalCosts Collection = "operational_costs"
	CollectionTransactions     Collection = "transactions"
	CollectionDebts            Collection = "debts"
	CollectionDebtPayments     Collection = "debt_payments"
	CollectionSettings         Collection = "settings"
)

// Bus fans out collection-change notifications to subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscription
}

type subscription struct {
	fn          func(Collection)
	collections map[Collection]bool // empty means all collections
}

// NewBus creates an empty notification bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]*subscription)}
}

// Subscribe registers fn to run after any write to the given collections.
// With no collections, fn fires for every write. The returned function
// removes the subscription; calling it more than once is safe.
func (b *Bus) Subscribe(fn func(Collection), collections ...Collection) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscription{fn: fn, collections: make(map[Collection]bool)}
	for _, c := range collections {
		sub.collections[c] = true
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = sub

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish notifies subscribers that the given collections changed.
// Engines call this once per completed write sequence.
func (b *Bus) Publish(collections ...Collection) {
	b.mu.RLock()
	subs := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, c := range collections {
		for _, s := range subs {
			if len(s.collections) == 0 || s.collections[c] {
				s.fn(c)
			}
		}
	}
}
