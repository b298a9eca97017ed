/*
customer.go - Customer directory

PURPOSE:
  Explicit customer management alongside the implicit creation done by the
  transaction engine. Enforces the case-insensitive name uniqueness the
  store only indexes, and derives per-customer spending statistics.
*/
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CustomerDirectory manages customers and their derived statistics.
type CustomerDirectory struct {
	store Store
	bus   *Bus
	now   func() time.Time
}

// NewCustomerDirectory creates a customer directory.
func NewCustomerDirectory(store Store, bus *Bus) *CustomerDirectory {
	return &CustomerDirectory{store: store, bus: bus, now: time.Now}
}

// Customers returns all customers.
func (d *CustomerDirectory) Customers(ctx context.Context) ([]Customer, error) {
	customers, err := d.store.ListCustomers(ctx)
	if err != nil {
		return nil, storageErr("list customers", err)
	}
	return customers, nil
}

// AddCustomerInput is the typed request for explicit creation.
type AddCustomerInput struct {
	Name    string
	Phone   string
	Address string
}

// AddCustomer creates a customer, rejecting names already in use
// (ignoring case).
func (d *CustomerDirectory) AddCustomer(ctx context.Context, in AddCustomerInput) (*Customer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	existing, err := d.store.FindCustomerByName(ctx, name)
	if err != nil {
		return nil, storageErr("find customer", err)
	}
	if existing != nil {
		return nil, &DuplicateNameError{Name: name}
	}

	customer := Customer{
		Name:      name,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: d.now(),
	}
	id, err := d.store.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, storageErr("create customer", err)
	}
	customer.ID = id

	d.bus.Publish(CollectionCustomers)
	return &customer, nil
}

// UpdateCustomerInput is a partial patch; nil fields keep prior values.
type UpdateCustomerInput struct {
	Name    *string
	Phone   *string
	Address *string
}

// UpdateCustomer applies the patch. A rename is checked against every
// other customer's name, ignoring case.
func (d *CustomerDirectory) UpdateCustomer(ctx context.Context, id int64, in UpdateCustomerInput) (*Customer, error) {
	existing, err := d.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, storageErr("get customer", err)
	}
	if existing == nil {
		return nil, &NotFoundError{Kind: "customer", ID: id}
	}

	customer := *existing
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
		}
		other, err := d.store.FindCustomerByName(ctx, name)
		if err != nil {
			return nil, storageErr("find customer", err)
		}
		if other != nil && other.ID != id {
			return nil, &DuplicateNameError{Name: name}
		}
		customer.Name = name
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Address != nil {
		customer.Address = *in.Address
	}

	if err := d.store.UpdateCustomer(ctx, customer); err != nil {
		return nil, storageErr("update customer", err)
	}

	d.bus.Publish(CollectionCustomers)
	return &customer, nil
}

// DeleteCustomer removes a customer. Transactions and debts referencing
// it are kept; they carry the denormalized name.
func (d *CustomerDirectory) DeleteCustomer(ctx context.Context, id int64) error {
	existing, err := d.store.GetCustomer(ctx, id)
	if err != nil {
		return storageErr("get customer", err)
	}
	if existing == nil {
		return &NotFoundError{Kind: "customer", ID: id}
	}
	if err := d.store.DeleteCustomer(ctx, id); err != nil {
		return storageErr("delete customer", err)
	}
	d.bus.Publish(CollectionCustomers)
	return nil
}

// CustomerStats is derived from the customer's transactions.
type CustomerStats struct {
	TotalTransactions int
	TotalSpent        decimal.Decimal
	TotalDebt         decimal.Decimal // outstanding across all their sales
}

// Stats scans the transaction collection for one customer.
func (d *CustomerDirectory) Stats(ctx context.Context, customerID int64) (CustomerStats, error) {
	customer, err := d.store.GetCustomer(ctx, customerID)
	if err != nil {
		return CustomerStats{}, storageErr("get customer", err)
	}
	if customer == nil {
		return CustomerStats{}, &NotFoundError{Kind: "customer", ID: customerID}
	}

	txs, err := d.store.ListTransactions(ctx)
	if err != nil {
		return CustomerStats{}, storageErr("list transactions", err)
	}

	stats := CustomerStats{TotalSpent: decimal.Zero, TotalDebt: decimal.Zero}
	for _, t := range txs {
		if t.CustomerID != customerID {
			continue
		}
		stats.TotalTransactions++
		stats.TotalSpent = stats.TotalSpent.Add(t.TotalAmount)
		stats.TotalDebt = stats.TotalDebt.Add(t.RemainingDebt)
	}
	return stats, nil
}
