package domain

import "time"

// DateLayout is the calendar-date format used on the wire and in the local
// store ("2024-10-25").
const DateLayout = "2006-01-02"

// Order is a single purchase recorded against a customer. Total is fixed at
// creation time as Quantity*UnitPrice and never recomputed on read.
type Order struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Date       time.Time `json:"date"`
	Product    string    `json:"product"`
	Quantity   int       `json:"quantity"`
	UnitPrice  int       `json:"unit_price"`
	Total      int       `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderDraft is the caller-supplied input for a new order. Date may be zero,
// in which case the store uses the creation day.
type OrderDraft struct {
	CustomerID string    `json:"customer_id" validate:"required"`
	Date       time.Time `json:"date"`
	Product    string    `json:"product" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,gt=0"`
	UnitPrice  int       `json:"unit_price" validate:"gte=0"`
}
