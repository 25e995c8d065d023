// Package fallback implements the persistence backend: a pair of
// interchangeable storage targets behind one CRUD surface, with a one-way
// downgrade from the remote database to the local snapshot store.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"customer_service/internal/core/domain"
	"customer_service/internal/ports/outbound"
)

// RemoteTarget is a storage target that can also answer a lightweight
// connectivity probe (a bounded page read of the customers collection).
type RemoteTarget interface {
	outbound.StoreTarget
	Probe(ctx context.Context) error
}

// Backend routes every persistence call to the remote or the local target.
//
// Failure handling follows one rule set everywhere: a domain-level outcome
// from the remote target (duplicate key, not found) is returned as-is and
// does not demote, because the remote store answered. Any other remote error
// demotes the session; reads then surface the wrapped error for the caller
// to degrade on, writes are retried once against the local target.
type Backend struct {
	remote RemoteTarget // nil when not configured
	local  outbound.StoreTarget
	policy *policy
	logger *log.Entry
}

// New builds the backend and runs the startup probe. A nil remote target or
// a failed probe starts the session in fallback state.
func New(ctx context.Context, remote RemoteTarget, local outbound.StoreTarget) *Backend {
	logger := log.WithField("component", "backend")
	b := &Backend{
		remote: remote,
		local:  local,
		policy: newPolicy(StateRemote, logger),
		logger: logger,
	}

	if remote == nil {
		b.policy.demote("startup", errors.New("remote target not configured"))
		return b
	}
	if err := remote.Probe(ctx); err != nil {
		b.policy.demote("probe", err)
		return b
	}
	logger.Info("remote target probe ok")
	return b
}

// State reports which target currently answers calls.
func (b *Backend) State() State {
	return b.policy.current()
}

func (b *Backend) useRemote() bool {
	return b.policy.current() == StateRemote && b.remote != nil
}

// remoteFailed decides whether a remote error is a connectivity failure.
// Domain outcomes mean the store answered; routing must not change on them.
func remoteFailed(err error) bool {
	return !errors.Is(err, domain.ErrDuplicateKey) && !errors.Is(err, domain.ErrNotFound)
}

func (b *Backend) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	if b.useRemote() {
		out, err := b.remote.ListCustomers(ctx)
		if err == nil {
			return out, nil
		}
		b.policy.demote("list customers", err)
		return nil, fmt.Errorf("%w: list customers: %v", domain.ErrUnavailable, err)
	}
	return b.local.ListCustomers(ctx)
}

func (b *Backend) InsertCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	c = stampCustomer(c)
	if b.useRemote() {
		out, err := b.remote.InsertCustomer(ctx, c)
		if err == nil || !remoteFailed(err) {
			return out, err
		}
		b.policy.demote("insert customer", err)
		// One automatic retry against the local target before propagating.
		return b.local.InsertCustomer(ctx, c)
	}
	return b.local.InsertCustomer(ctx, c)
}

func (b *Backend) UpdateCustomer(ctx context.Context, id string, patch domain.CustomerPatch) (domain.Customer, error) {
	if b.useRemote() {
		out, err := b.remote.UpdateCustomer(ctx, id, patch)
		if err == nil || !remoteFailed(err) {
			return out, err
		}
		b.policy.demote("update customer", err)
		return domain.Customer{}, fmt.Errorf("%w: update customer %s: %v", domain.ErrUnavailable, id, err)
	}
	// Local target: a missing id is a quiet not-found.
	return b.local.UpdateCustomer(ctx, id, patch)
}

// DeleteCustomer removes the customer and every order referencing it. Orders
// go first so a partial failure never leaves orphaned orders behind; the
// remote schema cascades on its own but is not relied upon.
func (b *Backend) DeleteCustomer(ctx context.Context, id string) error {
	if b.useRemote() {
		err := b.deleteCustomerVia(ctx, b.remote, id)
		if err == nil || !remoteFailed(err) {
			return err
		}
		b.policy.demote("delete customer", err)
		return b.deleteCustomerVia(ctx, b.local, id)
	}
	return b.deleteCustomerVia(ctx, b.local, id)
}

func (b *Backend) deleteCustomerVia(ctx context.Context, t outbound.StoreTarget, id string) error {
	if err := t.DeleteOrdersForCustomer(ctx, id); err != nil {
		return err
	}
	return t.DeleteCustomer(ctx, id)
}

func (b *Backend) ListOrders(ctx context.Context) ([]domain.Order, error) {
	if b.useRemote() {
		out, err := b.remote.ListOrders(ctx)
		if err == nil {
			return out, nil
		}
		b.policy.demote("list orders", err)
		return nil, fmt.Errorf("%w: list orders: %v", domain.ErrUnavailable, err)
	}
	return b.local.ListOrders(ctx)
}

func (b *Backend) ListOrdersForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	if b.useRemote() {
		out, err := b.remote.ListOrdersForCustomer(ctx, customerID)
		if err == nil {
			return out, nil
		}
		b.policy.demote("list customer orders", err)
		return nil, fmt.Errorf("%w: list orders for %s: %v", domain.ErrUnavailable, customerID, err)
	}
	return b.local.ListOrdersForCustomer(ctx, customerID)
}

func (b *Backend) InsertOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	o = stampOrder(o)
	if b.useRemote() {
		out, err := b.remote.InsertOrder(ctx, o)
		if err == nil || !remoteFailed(err) {
			return out, err
		}
		b.policy.demote("insert order", err)
		return b.local.InsertOrder(ctx, o)
	}
	return b.local.InsertOrder(ctx, o)
}

func (b *Backend) DeleteOrder(ctx context.Context, id string) error {
	if b.useRemote() {
		err := b.remote.DeleteOrder(ctx, id)
		if err == nil || !remoteFailed(err) {
			return err
		}
		b.policy.demote("delete order", err)
		return b.local.DeleteOrder(ctx, id)
	}
	return b.local.DeleteOrder(ctx, id)
}

func (b *Backend) DeleteOrdersForCustomer(ctx context.Context, customerID string) error {
	if b.useRemote() {
		err := b.remote.DeleteOrdersForCustomer(ctx, customerID)
		if err == nil || !remoteFailed(err) {
			return err
		}
		b.policy.demote("delete customer orders", err)
		return b.local.DeleteOrdersForCustomer(ctx, customerID)
	}
	return b.local.DeleteOrdersForCustomer(ctx, customerID)
}

// stampCustomer assigns a creation timestamp when the target won't.
func stampCustomer(c domain.Customer) domain.Customer {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return c
}

func stampOrder(o domain.Order) domain.Order {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	return o
}

var _ outbound.Backend = (*Backend)(nil)
