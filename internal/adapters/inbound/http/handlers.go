package httpin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"customer_service/internal/core/domain"
	"customer_service/internal/ports/inbound"
)

// Handlers is the JSON API surface. Field names on the wire follow the
// external snake_case layout.
type Handlers struct {
	uc inbound.CustomerUseCase
}

func NewHandlers(uc inbound.CustomerUseCase) *Handlers {
	return &Handlers{uc: uc}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.health)
	mux.HandleFunc("/api/customers", h.customers)
	mux.HandleFunc("/api/customers/", h.customerSub)
	mux.HandleFunc("/api/orders", h.orders)
	mux.HandleFunc("/api/orders/", h.orderByID)
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type customerView struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	PhoneNumber    string `json:"phone_number"`
	TotalPurchases int    `json:"total_purchases"`
}

type orderView struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Date       string `json:"date"`
	Product    string `json:"product"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int    `json:"unit_price"`
	Total      int    `json:"total"`
}

func (h *Handlers) customers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		term := r.URL.Query().Get("q")
		customers := h.uc.SearchCustomers(term)
		out := make([]customerView, 0, len(customers))
		for _, c := range customers {
			out = append(out, customerView{
				ID:             c.ID,
				FullName:       c.FullName,
				PhoneNumber:    c.PhoneNumber,
				TotalPurchases: h.uc.TotalPurchases(r.Context(), c.ID),
			})
		}
		writeJSON(w, out, http.StatusOK)

	case http.MethodPost:
		var draft domain.CustomerDraft
		if err := decodeJSON(r, &draft); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c, err := h.uc.AddCustomer(r.Context(), draft)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, customerView{ID: c.ID, FullName: c.FullName, PhoneNumber: c.PhoneNumber}, http.StatusCreated)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// customerSub handles /api/customers/{id} and /api/customers/{id}/orders.
func (h *Handlers) customerSub(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/customers/")
	id, sub, _ := strings.Cut(rest, "/")
	id = strings.TrimSpace(id)
	if id == "" {
		http.Error(w, "missing customer id", http.StatusBadRequest)
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodDelete:
		if err := h.uc.DeleteCustomer(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case sub == "orders" && r.Method == http.MethodGet:
		if _, ok := h.uc.CustomerByID(id); !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		orders := h.uc.CustomerOrders(r.Context(), id)
		out := make([]orderView, 0, len(orders))
		total := 0
		for _, o := range orders {
			out = append(out, orderToView(o))
			total += o.Total
		}
		writeJSON(w, struct {
			Orders         []orderView `json:"orders"`
			TotalPurchases int         `json:"total_purchases"`
		}{Orders: out, TotalPurchases: total}, http.StatusOK)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type orderRequest struct {
	CustomerID string `json:"customer_id"`
	Date       string `json:"date"`
	Product    string `json:"product"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int    `json:"unit_price"`
}

func (h *Handlers) orders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft := domain.OrderDraft{
		CustomerID: req.CustomerID,
		Product:    req.Product,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
	}
	if req.Date != "" {
		d, err := time.Parse(domain.DateLayout, req.Date)
		if err != nil {
			http.Error(w, "bad date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		draft.Date = d
	}

	o, err := h.uc.AddOrder(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, orderToView(o), http.StatusCreated)
}

func (h *Handlers) orderByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/api/orders/"))
	if id == "" {
		http.Error(w, "missing order id", http.StatusBadRequest)
		return
	}

	removed, err := h.uc.DeleteOrder(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, struct {
		Removed bool `json:"removed"`
	}{Removed: removed}, http.StatusOK)
}

func orderToView(o domain.Order) orderView {
	return orderView{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Date:       o.Date.Format(domain.DateLayout),
		Product:    o.Product,
		Quantity:   o.Quantity,
		UnitPrice:  o.UnitPrice,
		Total:      o.Total,
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidDraft):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrDuplicateKey):
		http.Error(w, "duplicate", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
