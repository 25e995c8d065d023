package outbound

import (
	"context"

	"customer_service/internal/core/domain"
)

// StoreTarget is the uniform CRUD contract over one physical store. Both the
// remote Postgres target and the local snapshot target implement it; field
// naming differences between the stores are normalized inside each adapter,
// so callers only ever see domain types.
type StoreTarget interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	InsertCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, patch domain.CustomerPatch) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersForCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	InsertOrder(ctx context.Context, o domain.Order) (domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	DeleteOrdersForCustomer(ctx context.Context, customerID string) error
}

// Backend is the dual-target persistence layer the service talks to. It
// routes each call to the remote or the local target and handles the one-way
// downgrade; callers never choose a target themselves.
//
// Deleting a customer cascades to that customer's orders. Write operations
// that fail on the remote target are retried once against the local target
// before the error is returned.
type Backend interface {
	StoreTarget
}
