// Package localstore is the fallback storage target: one JSON blob per
// collection on local disk, mirroring the layout of a browser localStorage
// dump. Every mutation rewrites the whole collection file; writes go to a
// temp file first and are swapped in with rename so a crash mid-write cannot
// corrupt the previous snapshot.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"customer_service/internal/core/domain"
	"customer_service/internal/ports/outbound"
)

const (
	customersFile = "customers.json"
	ordersFile    = "orders.json"
)

// customerRecord is the persisted (snake_case) shape of a customer.
type customerRecord struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// orderRecord is the persisted shape of an order. Records always carry a
// durable id; deletion addresses that id, never an array position.
type orderRecord struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Date       string    `json:"date"`
	Product    string    `json:"product"`
	Quantity   int       `json:"quantity"`
	UnitPrice  int       `json:"unit_price"`
	Total      int       `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}

type Store struct {
	dir string
	mu  sync.Mutex
}

// New opens (or creates) the store directory.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadCustomers()
	if err != nil {
		return nil, err
	}

	out := make([]domain.Customer, 0, len(recs))
	for _, r := range recs {
		out = append(out, customerFromRecord(r))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) InsertCustomer(_ context.Context, c domain.Customer) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadCustomers()
	if err != nil {
		return domain.Customer{}, err
	}

	for _, r := range recs {
		if r.ID == c.ID {
			return domain.Customer{}, fmt.Errorf("customer %s: %w", c.ID, domain.ErrDuplicateKey)
		}
		if r.PhoneNumber == c.PhoneNumber {
			return domain.Customer{}, fmt.Errorf("phone %s: %w", c.PhoneNumber, domain.ErrDuplicateKey)
		}
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	recs = append(recs, customerToRecord(c))
	if err := s.saveJSON(customersFile, recs); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (s *Store) UpdateCustomer(_ context.Context, id string, patch domain.CustomerPatch) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadCustomers()
	if err != nil {
		return domain.Customer{}, err
	}

	for i := range recs {
		if recs[i].ID != id {
			continue
		}
		if patch.FullName != nil {
			recs[i].FullName = *patch.FullName
		}
		if patch.PhoneNumber != nil {
			recs[i].PhoneNumber = *patch.PhoneNumber
		}
		if err := s.saveJSON(customersFile, recs); err != nil {
			return domain.Customer{}, err
		}
		return customerFromRecord(recs[i]), nil
	}
	return domain.Customer{}, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
}

func (s *Store) DeleteCustomer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadCustomers()
	if err != nil {
		return err
	}

	kept := recs[:0]
	found := false
	for _, r := range recs {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	return s.saveJSON(customersFile, kept)
}

func (s *Store) ListOrders(_ context.Context) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listOrdersLocked(func(orderRecord) bool { return true })
}

func (s *Store) ListOrdersForCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listOrdersLocked(func(r orderRecord) bool { return r.CustomerID == customerID })
}

func (s *Store) InsertOrder(_ context.Context, o domain.Order) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadOrders()
	if err != nil {
		return domain.Order{}, err
	}

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	recs = append(recs, orderToRecord(o))
	if err := s.saveJSON(ordersFile, recs); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (s *Store) DeleteOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadOrders()
	if err != nil {
		return err
	}

	kept := recs[:0]
	found := false
	for _, r := range recs {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return s.saveJSON(ordersFile, kept)
}

func (s *Store) DeleteOrdersForCustomer(_ context.Context, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadOrders()
	if err != nil {
		return err
	}

	kept := recs[:0]
	for _, r := range recs {
		if r.CustomerID != customerID {
			kept = append(kept, r)
		}
	}
	return s.saveJSON(ordersFile, kept)
}

func (s *Store) listOrdersLocked(keep func(orderRecord) bool) ([]domain.Order, error) {
	recs, err := s.loadOrders()
	if err != nil {
		return nil, err
	}

	out := make([]domain.Order, 0, len(recs))
	for _, r := range recs {
		if !keep(r) {
			continue
		}
		o, err := orderFromRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) loadCustomers() ([]customerRecord, error) {
	var recs []customerRecord
	if err := s.loadJSON(customersFile, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *Store) loadOrders() ([]orderRecord, error) {
	var recs []orderRecord
	if err := s.loadJSON(ordersFile, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// loadJSON reads one collection blob. A missing file is an empty collection.
func (s *Store) loadJSON(name string, v any) error {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// saveJSON overwrites one collection blob atomically (tmp + rename).
func (s *Store) saveJSON(name string, v any) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func customerToRecord(c domain.Customer) customerRecord {
	return customerRecord{
		ID:          c.ID,
		FullName:    c.FullName,
		PhoneNumber: c.PhoneNumber,
		CreatedAt:   c.CreatedAt,
	}
}

func customerFromRecord(r customerRecord) domain.Customer {
	return domain.Customer{
		ID:          r.ID,
		FullName:    r.FullName,
		PhoneNumber: r.PhoneNumber,
		CreatedAt:   r.CreatedAt,
	}
}

func orderToRecord(o domain.Order) orderRecord {
	return orderRecord{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Date:       o.Date.Format(domain.DateLayout),
		Product:    o.Product,
		Quantity:   o.Quantity,
		UnitPrice:  o.UnitPrice,
		Total:      o.Total,
		CreatedAt:  o.CreatedAt,
	}
}

func orderFromRecord(r orderRecord) (domain.Order, error) {
	date, err := time.Parse(domain.DateLayout, r.Date)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %s: bad date %q: %w", r.ID, r.Date, err)
	}
	return domain.Order{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Date:       date,
		Product:    r.Product,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		Total:      r.Total,
		CreatedAt:  r.CreatedAt,
	}, nil
}

var _ outbound.StoreTarget = (*Store)(nil)
