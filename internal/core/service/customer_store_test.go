package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"customer_service/internal/adapters/outbound/fallback"
	"customer_service/internal/adapters/outbound/localstore"
	"customer_service/internal/core/domain"
	"customer_service/internal/core/service"
	"customer_service/internal/ports/outbound"
)

// newSeededStore runs a store over a real backend (local target only, temp
// dir) and installs the sample data.
func newSeededStore(t *testing.T) (*service.CustomerStore, outbound.Backend) {
	t.Helper()
	local, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	backend := fallback.New(context.Background(), nil, local)
	store := service.NewCustomerStore(backend)
	require.NoError(t, store.Initialize(context.Background()))
	return store, backend
}

func TestInitializeSeedsEmptyBackend(t *testing.T) {
	store, backend := newSeededStore(t)

	customers := store.Customers()
	require.Len(t, customers, 3)

	orders, err := backend.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 6)

	c, ok := store.CustomerByID("KH001")
	require.True(t, ok)
	require.Equal(t, "Nguyễn Văn An", c.FullName)
	require.Equal(t, "0901234567", c.PhoneNumber)
}

func TestInitializeSkipsReseed(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	local, err := localstore.New(dir)
	require.NoError(t, err)
	first := service.NewCustomerStore(fallback.New(ctx, nil, local))
	require.NoError(t, first.Initialize(ctx))

	// Same data dir, fresh session: nothing must be duplicated.
	local2, err := localstore.New(dir)
	require.NoError(t, err)
	backend2 := fallback.New(ctx, nil, local2)
	second := service.NewCustomerStore(backend2)
	require.NoError(t, second.Initialize(ctx))

	require.Len(t, second.Customers(), 3)
	orders, err := backend2.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 6)
}

func TestGenerateCustomerIDSeedsFromExisting(t *testing.T) {
	store, _ := newSeededStore(t)
	// Samples occupy KH001..KH003.
	require.Equal(t, "KH004", store.GenerateCustomerID())
	require.Equal(t, "KH005", store.GenerateCustomerID())
}

func TestAddCustomerRegeneratesCollidingID(t *testing.T) {
	store, _ := newSeededStore(t)

	c, err := store.AddCustomer(context.Background(), domain.CustomerDraft{
		ID:          "KH001", // taken by a sample customer
		FullName:    "Phạm Thị Dung",
		PhoneNumber: "0934567890",
	})
	require.NoError(t, err)
	require.Equal(t, "KH004", c.ID, "collision must yield the next unused suffix")

	ids := map[string]int{}
	for _, ex := range store.Customers() {
		ids[ex.ID]++
	}
	for id, n := range ids {
		require.Equal(t, 1, n, "duplicate id %s in mirror", id)
	}
}

func TestAddCustomerAssignsIDWhenAbsent(t *testing.T) {
	store, _ := newSeededStore(t)

	c, err := store.AddCustomer(context.Background(), domain.CustomerDraft{
		FullName:    "Phạm Thị Dung",
		PhoneNumber: "0934567890",
	})
	require.NoError(t, err)
	require.Equal(t, "KH004", c.ID)
}

func TestAddCustomerRejectsDuplicatePhone(t *testing.T) {
	store, _ := newSeededStore(t)

	_, err := store.AddCustomer(context.Background(), domain.CustomerDraft{
		FullName:    "Ai Đó",
		PhoneNumber: "0901234567", // KH001's phone
	})
	require.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestAddCustomerRejectsBadPhone(t *testing.T) {
	store, _ := newSeededStore(t)

	_, err := store.AddCustomer(context.Background(), domain.CustomerDraft{
		FullName:    "Ai Đó",
		PhoneNumber: "12345",
	})
	require.ErrorIs(t, err, domain.ErrInvalidDraft)
}

func TestSearchCustomersCaseInsensitive(t *testing.T) {
	store, _ := newSeededStore(t)

	for _, term := range []string{"an", "AN", "An"} {
		hits := store.SearchCustomers(term)
		require.Len(t, hits, 1, "term %q", term)
		require.Equal(t, "Nguyễn Văn An", hits[0].FullName)
	}

	require.Len(t, store.SearchCustomers(""), 3, "empty term returns the whole mirror")
	require.Empty(t, store.SearchCustomers("zzz"))
}

func TestAddOrderRoundTrip(t *testing.T) {
	store, _ := newSeededStore(t)
	ctx := context.Background()

	o, err := store.AddOrder(ctx, domain.OrderDraft{
		CustomerID: "KH001",
		Product:    "Gạo ST25",
		Quantity:   2,
		UnitPrice:  2500,
	})
	require.NoError(t, err)
	require.Equal(t, 5000, o.Total)
	require.NotEmpty(t, o.ID)
	require.False(t, o.Date.IsZero(), "date defaults to today")

	found := false
	for _, got := range store.CustomerOrders(ctx, "KH001") {
		if got.ID == o.ID {
			found = true
		}
	}
	require.True(t, found, "fresh order must appear in the re-fetched list")
}

func TestAddOrderUnknownCustomer(t *testing.T) {
	store, _ := newSeededStore(t)

	_, err := store.AddOrder(context.Background(), domain.OrderDraft{
		CustomerID: "KH404",
		Product:    "Gạo ST25",
		Quantity:   1,
		UnitPrice:  1000,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTotalPurchasesEqualsOrderSum(t *testing.T) {
	store, _ := newSeededStore(t)
	ctx := context.Background()

	for _, id := range []string{"KH001", "KH002", "KH003"} {
		want := 0
		for _, o := range store.CustomerOrders(ctx, id) {
			want += o.Total
		}
		require.Equal(t, want, store.TotalPurchases(ctx, id))
	}

	// Sample data totals are fixed.
	require.Equal(t, 14900, store.TotalPurchases(ctx, "KH001"))
	require.Equal(t, 5750, store.TotalPurchases(ctx, "KH002"))
	require.Equal(t, 5600, store.TotalPurchases(ctx, "KH003"))
}

func TestTotalTracksAddAndDelete(t *testing.T) {
	store, _ := newSeededStore(t)
	ctx := context.Background()

	before := store.TotalPurchases(ctx, "KH002")

	o, err := store.AddOrder(ctx, domain.OrderDraft{
		CustomerID: "KH002", Product: "Trứng gà", Quantity: 10, UnitPrice: 300,
	})
	require.NoError(t, err)
	require.Equal(t, before+3000, store.TotalPurchases(ctx, "KH002"))

	removed, err := store.DeleteOrder(ctx, o.ID)
	require.NoError(t, err)
	require.True(t, removed)
	require.Equal(t, before, store.TotalPurchases(ctx, "KH002"))
}

func TestDeleteOrderReportsMirrorRemoval(t *testing.T) {
	store, _ := newSeededStore(t)
	ctx := context.Background()

	removed, err := store.DeleteOrder(ctx, "never-existed")
	require.NoError(t, err)
	require.False(t, removed)
}

func TestDeleteCustomerCascades(t *testing.T) {
	store, backend := newSeededStore(t)
	ctx := context.Background()

	require.NoError(t, store.DeleteCustomer(ctx, "KH001"))

	_, ok := store.CustomerByID("KH001")
	require.False(t, ok)
	require.Len(t, store.Customers(), 2)

	orders, err := backend.ListOrders(ctx)
	require.NoError(t, err)
	for _, o := range orders {
		require.NotEqual(t, "KH001", o.CustomerID)
	}
	require.Len(t, orders, 3, "KH001's three sample orders are gone")
}

// degradedBackend serves loads but refuses per-customer order fetches, to
// drive the stale-mirror fallback path.
type degradedBackend struct {
	outbound.Backend
	failFetch bool
}

func (d *degradedBackend) ListOrdersForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	if d.failFetch {
		return nil, errors.New("boom")
	}
	return d.Backend.ListOrdersForCustomer(ctx, customerID)
}

func TestCustomerOrdersFallsBackToMirror(t *testing.T) {
	ctx := context.Background()
	local, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	deg := &degradedBackend{Backend: fallback.New(ctx, nil, local)}

	store := service.NewCustomerStore(deg)
	require.NoError(t, store.Initialize(ctx))

	fresh := store.CustomerOrders(ctx, "KH001")
	require.Len(t, fresh, 3)

	deg.failFetch = true
	stale := store.CustomerOrders(ctx, "KH001")
	require.Len(t, stale, 3, "backend failure must fall back to the cached orders")
	require.Equal(t, 14900, store.TotalPurchases(ctx, "KH001"))
}
