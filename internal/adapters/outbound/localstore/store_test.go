package localstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"customer_service/internal/adapters/outbound/localstore"
	"customer_service/internal/core/domain"
)

func newStore(t *testing.T) (*localstore.Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := localstore.New(dir)
	require.NoError(t, err)
	return s, dir
}

func customer(id, phone string) domain.Customer {
	return domain.Customer{ID: id, FullName: "Người " + id, PhoneNumber: phone}
}

func order(customerID, product string, qty, price int) domain.Order {
	return domain.Order{
		CustomerID: customerID,
		Date:       time.Date(2024, 10, 25, 0, 0, 0, 0, time.UTC),
		Product:    product,
		Quantity:   qty,
		UnitPrice:  price,
		Total:      qty * price,
	}
}

func TestEmptyStoreListsNothing(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	customers, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	require.Empty(t, customers)

	orders, err := s.ListOrders(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestCustomerRoundTripSurvivesReopen(t *testing.T) {
	s, dir := newStore(t)
	ctx := context.Background()

	saved, err := s.InsertCustomer(ctx, customer("KH001", "0901234567"))
	require.NoError(t, err)
	require.False(t, saved.CreatedAt.IsZero(), "store must stamp created_at")

	reopened, err := localstore.New(dir)
	require.NoError(t, err)

	customers, err := reopened.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.Equal(t, "KH001", customers[0].ID)
	require.Equal(t, "Người KH001", customers[0].FullName)
}

func TestInsertCustomerDuplicate(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.InsertCustomer(ctx, customer("KH001", "0901234567"))
	require.NoError(t, err)

	_, err = s.InsertCustomer(ctx, customer("KH001", "0999999999"))
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	_, err = s.InsertCustomer(ctx, customer("KH002", "0901234567"))
	require.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestUpdateCustomerPatchesOnlyGivenFields(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.InsertCustomer(ctx, customer("KH001", "0901234567"))
	require.NoError(t, err)

	name := "Đổi Tên"
	updated, err := s.UpdateCustomer(ctx, "KH001", domain.CustomerPatch{FullName: &name})
	require.NoError(t, err)
	require.Equal(t, "Đổi Tên", updated.FullName)
	require.Equal(t, "0901234567", updated.PhoneNumber)

	_, err = s.UpdateCustomer(ctx, "KH404", domain.CustomerPatch{FullName: &name})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListCustomersNewestFirst(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	old := customer("KH001", "0901234567")
	old.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := customer("KH002", "0912345678")
	newer.CreatedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.InsertCustomer(ctx, old)
	require.NoError(t, err)
	_, err = s.InsertCustomer(ctx, newer)
	require.NoError(t, err)

	customers, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"KH002", "KH001"}, []string{customers[0].ID, customers[1].ID})
}

func TestInsertOrderAssignsDurableID(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	first, err := s.InsertOrder(ctx, order("KH001", "Gạo ST25", 2, 2500))
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := s.InsertOrder(ctx, order("KH001", "Dầu ăn", 1, 4500))
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestDeleteOrderByIDNotPosition(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	a, err := s.InsertOrder(ctx, order("KH001", "Gạo ST25", 2, 2500))
	require.NoError(t, err)
	b, err := s.InsertOrder(ctx, order("KH001", "Dầu ăn", 1, 4500))
	require.NoError(t, err)
	c, err := s.InsertOrder(ctx, order("KH002", "Mì tôm", 5, 450))
	require.NoError(t, err)

	// Remove the middle order; the survivors keep their identity.
	require.NoError(t, s.DeleteOrder(ctx, b.ID))

	orders, err := s.ListOrders(ctx)
	require.NoError(t, err)
	ids := make(map[string]bool, len(orders))
	for _, o := range orders {
		ids[o.ID] = true
	}
	require.True(t, ids[a.ID])
	require.True(t, ids[c.ID])
	require.False(t, ids[b.ID])

	require.ErrorIs(t, s.DeleteOrder(ctx, b.ID), domain.ErrNotFound)
}

func TestListOrdersForCustomerFilters(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.InsertOrder(ctx, order("KH001", "Gạo ST25", 2, 2500))
	require.NoError(t, err)
	_, err = s.InsertOrder(ctx, order("KH002", "Mì tôm", 5, 450))
	require.NoError(t, err)

	orders, err := s.ListOrdersForCustomer(ctx, "KH001")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "Gạo ST25", orders[0].Product)
	require.Equal(t, 5000, orders[0].Total)
}

func TestDeleteOrdersForCustomer(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.InsertOrder(ctx, order("KH001", "Gạo ST25", 2, 2500))
	require.NoError(t, err)
	_, err = s.InsertOrder(ctx, order("KH001", "Dầu ăn", 1, 4500))
	require.NoError(t, err)
	_, err = s.InsertOrder(ctx, order("KH002", "Mì tôm", 5, 450))
	require.NoError(t, err)

	require.NoError(t, s.DeleteOrdersForCustomer(ctx, "KH001"))

	orders, err := s.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "KH002", orders[0].CustomerID)

	// Deleting for a customer with no orders is a no-op, not an error.
	require.NoError(t, s.DeleteOrdersForCustomer(ctx, "KH404"))
}

func TestDeleteCustomer(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.InsertCustomer(ctx, customer("KH001", "0901234567"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteCustomer(ctx, "KH001"))
	require.ErrorIs(t, s.DeleteCustomer(ctx, "KH001"), domain.ErrNotFound)
}
