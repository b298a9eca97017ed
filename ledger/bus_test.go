package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ulyafarhan/udangku/ledger"
)

func TestBus_FiltersByCollection(t *testing.T) {
	bus := ledger.NewBus()

	var got []ledger.Collection
	unsubscribe := bus.Subscribe(func(c ledger.Collection) {
		got = append(got, c)
	}, ledger.CollectionDebts)
	defer unsubscribe()

	bus.Publish(ledger.CollectionTransactions)
	bus.Publish(ledger.CollectionDebts)
	bus.Publish(ledger.CollectionDebts, ledger.CollectionCustomers)

	assert.Equal(t, []ledger.Collection{ledger.CollectionDebts, ledger.CollectionDebts}, got)
}

func TestBus_EmptySubscriptionReceivesAll(t *testing.T) {
	bus := ledger.NewBus()

	var count int
	defer bus.Subscribe(func(ledger.Collection) { count++ })()

	bus.Publish(ledger.CollectionTransactions, ledger.CollectionDebts)
	bus.Publish(ledger.CollectionSettings)

	assert.Equal(t, 3, count, "one callback per published collection")
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	bus := ledger.NewBus()

	var count int
	unsubscribe := bus.Subscribe(func(ledger.Collection) { count++ })

	bus.Publish(ledger.CollectionDebts)
	unsubscribe()
	unsubscribe() // second call is a no-op
	bus.Publish(ledger.CollectionDebts)

	assert.Equal(t, 1, count)
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := ledger.NewBus()

	var a, b int
	defer bus.Subscribe(func(ledger.Collection) { a++ }, ledger.CollectionStockEntries)()
	defer bus.Subscribe(func(ledger.Collection) { b++ }, ledger.CollectionStockEntries, ledger.CollectionTransactions)()

	bus.Publish(ledger.CollectionStockEntries)
	bus.Publish(ledger.CollectionTransactions)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}
