package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"customer_service/internal/core/domain"
	"customer_service/internal/ports/outbound"
)

// uniqueViolation is the SQLSTATE for a unique-constraint breach.
const uniqueViolation = "23505"

// Repository is the remote storage target. Column names are the external
// snake_case layout; rows are mapped to domain structs at scan time and
// nothing above this package sees the SQL shape.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Probe is the startup connectivity check: a bounded page read against the
// customers table. It fails both when the database is unreachable and when
// the schema has not been applied yet.
func (r *Repository) Probe(ctx context.Context) error {
	rows, err := r.pool.Query(ctx, `SELECT id FROM customers ORDER BY created_at DESC LIMIT 1`)
	if err != nil {
		return fmt.Errorf("probe customers: %w", err)
	}
	rows.Close()
	return rows.Err()
}

func (r *Repository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, full_name, phone_number, created_at
		FROM customers
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.FullName, &c.PhoneNumber, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("customers rows: %w", err)
	}
	return out, nil
}

func (r *Repository) InsertCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customers (id, full_name, phone_number)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, c.ID, c.FullName, c.PhoneNumber).Scan(&c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Customer{}, fmt.Errorf("customer %s: %w", c.ID, domain.ErrDuplicateKey)
		}
		return domain.Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return c, nil
}

func (r *Repository) UpdateCustomer(ctx context.Context, id string, patch domain.CustomerPatch) (domain.Customer, error) {
	var c domain.Customer
	err := r.pool.QueryRow(ctx, `
		UPDATE customers SET
			full_name = COALESCE($2, full_name),
			phone_number = COALESCE($3, phone_number),
			updated_at = now()
		WHERE id = $1
		RETURNING id, full_name, phone_number, created_at
	`, id, patch.FullName, patch.PhoneNumber).Scan(&c.ID, &c.FullName, &c.PhoneNumber, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Customer{}, fmt.Errorf("customer %s: %w", id, domain.ErrDuplicateKey)
		}
		// Includes the no-rows case: an update against a missing id is a
		// store-level failure on the remote target, not a quiet miss.
		return domain.Customer{}, fmt.Errorf("update customer %s: %w", id, err)
	}
	return c, nil
}

func (r *Repository) DeleteCustomer(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, customer_id, date, product, quantity, unit_price, total, created_at
		FROM orders
		ORDER BY date DESC, created_at DESC
	`)
}

func (r *Repository) ListOrdersForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, customer_id, date, product, quantity, unit_price, total, created_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY date DESC, created_at DESC
	`, customerID)
}

func (r *Repository) InsertOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO orders (customer_id, date, product, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, o.CustomerID, o.Date, o.Product, o.Quantity, o.UnitPrice, o.Total).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

func (r *Repository) DeleteOrder(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repository) DeleteOrdersForCustomer(ctx context.Context, customerID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE customer_id = $1`, customerID); err != nil {
		return fmt.Errorf("delete orders for %s: %w", customerID, err)
	}
	return nil
}

func (r *Repository) queryOrders(ctx context.Context, sql string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Date, &o.Product, &o.Quantity, &o.UnitPrice, &o.Total, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders rows: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ outbound.StoreTarget = (*Repository)(nil)
