// Package service holds the application facade: the in-memory mirror of
// customers and orders plus the operations the presentation adapters consume.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"customer_service/internal/core/domain"
	"customer_service/internal/ports/inbound"
	"customer_service/internal/ports/outbound"
)

// CustomerStore owns the mirror. The mirror is a cache: it serves search and
// listing, but any read whose accuracy matters (per-customer orders, totals)
// re-fetches from the backend and only falls back to the mirror when the
// backend cannot answer. Between a target switch the mirror can lag the
// authoritative store.
type CustomerStore struct {
	backend outbound.Backend
	logger  *log.Entry

	mu        sync.RWMutex
	customers []domain.Customer
	orders    []domain.Order
	nextSeq   int
}

func NewCustomerStore(backend outbound.Backend) *CustomerStore {
	return &CustomerStore{
		backend: backend,
		logger:  log.WithField("component", "store"),
		nextSeq: 1,
	}
}

// Initialize seeds sample data when the backend holds no customers, then
// loads both collections into the mirror. Load failures degrade to an empty
// mirror rather than failing startup.
func (s *CustomerStore) Initialize(ctx context.Context) error {
	existing, err := s.backend.ListCustomers(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("initial customer load failed")
	}

	if err == nil && len(existing) == 0 {
		if err := s.seedSampleData(ctx); err != nil {
			return fmt.Errorf("seed sample data: %w", err)
		}
	}

	s.reload(ctx)
	return nil
}

// reload replaces the mirror with the backend's current view.
func (s *CustomerStore) reload(ctx context.Context) {
	customers, err := s.backend.ListCustomers(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("customer reload failed, keeping mirror")
		customers = nil
	}
	orders, err := s.backend.ListOrders(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("order reload failed, keeping mirror")
		orders = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if customers != nil {
		s.customers = customers
	}
	if orders != nil {
		s.orders = orders
	}

	// Seed the id counter from the highest numeric suffix present.
	maxSeq := 0
	for _, c := range s.customers {
		if n, ok := domain.CustomerIDSeq(c.ID); ok && n > maxSeq {
			maxSeq = n
		}
	}
	s.nextSeq = maxSeq + 1
}

// GenerateCustomerID returns the next free "KH###" id against the mirror.
func (s *CustomerStore) GenerateCustomerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateIDLocked()
}

func (s *CustomerStore) generateIDLocked() string {
	for {
		id := domain.FormatCustomerID(s.nextSeq)
		s.nextSeq++
		if !s.hasCustomerLocked(id) {
			return id
		}
	}
}

func (s *CustomerStore) hasCustomerLocked(id string) bool {
	for _, c := range s.customers {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *CustomerStore) Customers() []domain.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// SearchCustomers is a case-insensitive substring match on the full name,
// served from the mirror only. An empty term returns the whole mirror.
func (s *CustomerStore) SearchCustomers(term string) []domain.Customer {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.Customers()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Customer
	for _, c := range s.customers {
		if strings.Contains(strings.ToLower(c.FullName), term) {
			out = append(out, c)
		}
	}
	return out
}

func (s *CustomerStore) CustomerByID(id string) (domain.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// AddCustomer validates the draft, resolves the id (assigning or regenerating
// on collision), persists and appends to the mirror.
func (s *CustomerStore) AddCustomer(ctx context.Context, draft domain.CustomerDraft) (domain.Customer, error) {
	if err := draft.Validate(); err != nil {
		return domain.Customer{}, err
	}

	s.mu.Lock()
	for _, c := range s.customers {
		if c.PhoneNumber == draft.PhoneNumber {
			s.mu.Unlock()
			return domain.Customer{}, fmt.Errorf("phone %s: %w", draft.PhoneNumber, domain.ErrDuplicateKey)
		}
	}
	id := draft.ID
	if id == "" || s.hasCustomerLocked(id) {
		id = s.generateIDLocked()
	}
	s.mu.Unlock()

	saved, err := s.backend.InsertCustomer(ctx, domain.Customer{
		ID:          id,
		FullName:    draft.FullName,
		PhoneNumber: draft.PhoneNumber,
	})
	if err != nil {
		return domain.Customer{}, fmt.Errorf("add customer: %w", err)
	}

	s.mu.Lock()
	s.customers = append([]domain.Customer{saved}, s.customers...)
	s.mu.Unlock()
	return saved, nil
}

// DeleteCustomer removes the customer and its orders from the backend
// (cascade lives there) and prunes the mirror.
func (s *CustomerStore) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.backend.DeleteCustomer(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.customers[:0]
	for _, c := range s.customers {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.customers = kept

	keptOrders := s.orders[:0]
	for _, o := range s.orders {
		if o.CustomerID != id {
			keptOrders = append(keptOrders, o)
		}
	}
	s.orders = keptOrders
	return nil
}

// CustomerOrders re-fetches from the backend; when that fails it filters the
// stale mirror instead. The degraded result is logged, never an error.
func (s *CustomerStore) CustomerOrders(ctx context.Context, customerID string) []domain.Order {
	orders, err := s.backend.ListOrdersForCustomer(ctx, customerID)
	if err == nil {
		return orders
	}
	s.logger.WithError(err).WithField("customer_id", customerID).
		Warn("order fetch failed, serving cached orders")

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out
}

// TotalPurchases sums order totals over CustomerOrders, inheriting its
// degraded-accuracy behavior.
func (s *CustomerStore) TotalPurchases(ctx context.Context, customerID string) int {
	total := 0
	for _, o := range s.CustomerOrders(ctx, customerID) {
		total += o.Total
	}
	return total
}

// AddOrder computes the fixed total, defaults the date to today, checks the
// customer exists, persists and appends to the mirror.
func (s *CustomerStore) AddOrder(ctx context.Context, draft domain.OrderDraft) (domain.Order, error) {
	if err := draft.Validate(); err != nil {
		return domain.Order{}, err
	}
	if _, ok := s.CustomerByID(draft.CustomerID); !ok {
		return domain.Order{}, fmt.Errorf("customer %s: %w", draft.CustomerID, domain.ErrNotFound)
	}

	date := draft.Date
	if date.IsZero() {
		date = today()
	}

	saved, err := s.backend.InsertOrder(ctx, domain.Order{
		CustomerID: draft.CustomerID,
		Date:       date,
		Product:    draft.Product,
		Quantity:   draft.Quantity,
		UnitPrice:  draft.UnitPrice,
		Total:      draft.Quantity * draft.UnitPrice,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("add order: %w", err)
	}

	s.mu.Lock()
	s.orders = append(s.orders, saved)
	s.mu.Unlock()
	return saved, nil
}

// DeleteOrder persists the delete and reports whether the order was present
// in the mirror. A backend not-found is not an error: the goal state holds.
func (s *CustomerStore) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	if err := s.backend.DeleteOrder(ctx, orderID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("delete order: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.orders {
		if o.ID == orderID {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ inbound.CustomerUseCase = (*CustomerStore)(nil)
