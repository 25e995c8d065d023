package kafkain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"customer_service/internal/core/domain"
)

// feedOrder is the wire shape of the order feed: the external snake_case
// layout, date as "YYYY-MM-DD" and optional.
type feedOrder struct {
	CustomerID string `json:"customer_id"`
	Date       string `json:"date"`
	Product    string `json:"product"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int    `json:"unit_price"`
}

// DecodeOrderDraft strictly parses and validates one feed message.
func DecodeOrderDraft(b []byte) (domain.OrderDraft, error) {
	var f feedOrder

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return domain.OrderDraft{}, fmt.Errorf("json decode: %w", err)
	}

	draft := domain.OrderDraft{
		CustomerID: f.CustomerID,
		Product:    f.Product,
		Quantity:   f.Quantity,
		UnitPrice:  f.UnitPrice,
	}
	if f.Date != "" {
		d, err := time.Parse(domain.DateLayout, f.Date)
		if err != nil {
			return domain.OrderDraft{}, fmt.Errorf("bad date %q: %w", f.Date, err)
		}
		draft.Date = d
	}

	if err := draft.Validate(); err != nil {
		return domain.OrderDraft{}, err
	}
	return draft, nil
}
