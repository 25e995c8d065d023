package httpin

import (
	"net/http"

	"customer_service/internal/ports/inbound"
)

func NewMux(h *Handlers, uc inbound.CustomerUseCase) *http.ServeMux {
	mux := http.NewServeMux()

	h.Register(mux)

	ui := NewUI(uc)
	mux.HandleFunc("/", ui.Index)
	mux.HandleFunc("/ui/customers", ui.SearchCustomers)
	mux.HandleFunc("/ui/customers/select", ui.SelectCustomer)
	mux.HandleFunc("/ui/customers/add", ui.AddCustomer)
	mux.HandleFunc("/ui/customers/delete", ui.DeleteCustomer)
	mux.HandleFunc("/ui/orders/add", ui.AddOrder)
	mux.HandleFunc("/ui/orders/delete", ui.DeleteOrder)

	return mux
}
