package inbound

import (
	"context"

	"customer_service/internal/core/domain"
)

// CustomerUseCase is the application facade consumed by the presentation
// adapters (HTTP UI, order feed). Reads that cannot reach the backend degrade
// to cached data instead of returning errors.
type CustomerUseCase interface {
	Initialize(ctx context.Context) error

	Customers() []domain.Customer
	SearchCustomers(term string) []domain.Customer
	CustomerByID(id string) (domain.Customer, bool)
	AddCustomer(ctx context.Context, draft domain.CustomerDraft) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	CustomerOrders(ctx context.Context, customerID string) []domain.Order
	TotalPurchases(ctx context.Context, customerID string) int
	AddOrder(ctx context.Context, draft domain.OrderDraft) (domain.Order, error)
	DeleteOrder(ctx context.Context, orderID string) (bool, error)
}
