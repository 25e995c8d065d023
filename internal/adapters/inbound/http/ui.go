package httpin

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"customer_service/internal/core/domain"
	"customer_service/internal/ports/inbound"
	"customer_service/internal/web"
)

// UI renders the operator screen: server-side fragments patched over SSE.
// Currency and date formatting live here, not in the core.
type UI struct {
	uc   inbound.CustomerUseCase
	tmpl *template.Template
}

func NewUI(uc inbound.CustomerUseCase) *UI {
	t := template.Must(template.ParseFS(web.MustFS(), "index.html"))
	return &UI{uc: uc, tmpl: t}
}

type uiSignals struct {
	Search      string `json:"search"`
	SelectedID  string `json:"selected_id"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Product     string `json:"product"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	OrderID     string `json:"order_id"`
}

type customerRow struct {
	ID          string
	FullName    string
	PhoneNumber string
	Total       string
}

type customerRowsVM struct {
	Rows []customerRow
}

type orderRow struct {
	ID        string
	Date      string
	Product   string
	Quantity  int
	UnitPrice string
	Total     string
}

type orderPanelVM struct {
	HasSelection bool
	CustomerID   string
	CustomerName string
	Orders       []orderRow
	Total        string
}

type statusVM struct {
	Kind    string
	Message string
}

type indexVM struct {
	Rows  customerRowsVM
	Panel orderPanelVM
}

func (u *UI) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	vm := indexVM{
		Rows:  u.customerRows(r, ""),
		Panel: orderPanelVM{},
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := u.tmpl.Execute(w, vm); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// SearchCustomers re-renders the customer table for the current search term.
func (u *UI) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	signals := &uiSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil {
		u.patchStatus(sse, "error", "Yêu cầu không hợp lệ")
		return
	}
	u.patchFragment(sse, "customer_rows", u.customerRows(r, signals.Search))
}

// SelectCustomer renders the order history panel for the chosen customer.
func (u *UI) SelectCustomer(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	signals := &uiSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil || signals.SelectedID == "" {
		u.patchStatus(sse, "error", "Yêu cầu không hợp lệ")
		return
	}
	u.patchFragment(sse, "order_panel", u.orderPanel(r, signals.SelectedID))
}

func (u *UI) AddCustomer(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	signals := &uiSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil {
		u.patchStatus(sse, "error", "Yêu cầu không hợp lệ")
		return
	}

	_, err := u.uc.AddCustomer(r.Context(), domain.CustomerDraft{
		FullName:    signals.FullName,
		PhoneNumber: signals.PhoneNumber,
	})
	if err != nil {
		u.patchStatus(sse, "error", addCustomerErrorMessage(err))
		return
	}

	u.patchFragment(sse, "customer_rows", u.customerRows(r, signals.Search))
	u.patchStatus(sse, "success", "Đã thêm khách hàng thành công!")
}

func (u *UI) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	signals := &uiSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil || signals.SelectedID == "" {
		u.patchStatus(sse, "error", "Yêu cầu không hợp lệ")
		return
	}

	if err := u.uc.DeleteCustomer(r.Context(), signals.SelectedID); err != nil {
		u.patchStatus(sse, "error", "Lỗi xóa khách hàng. Vui lòng thử lại.")
		return
	}

	u.patchFragment(sse, "customer_rows", u.customerRows(r, signals.Search))
	u.patchFragment(sse, "order_panel", orderPanelVM{})
	u.patchStatus(sse, "success", "Đã xóa khách hàng thành công!")
}

func (u *UI) AddOrder(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	signals := &uiSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil || signals.SelectedID == "" {
		u.patchStatus(sse, "error", "Yêu cầu không hợp lệ")
		return
	}

	// Form-level validation: the core expects parsed, positive integers.
	qty, err := strconv.Atoi(strings.TrimSpace(signals.Quantity))
	if err != nil || qty <= 0 {
		u.patchStatus(sse, "error", "Vui lòng nhập số lượng hợp lệ")
		return
	}
	price, err := strconv.Atoi(strings.TrimSpace(signals.UnitPrice))
	if err != nil || price <= 0 {
		u.patchStatus(sse, "error", "Vui lòng nhập đơn giá hợp lệ")
		return
	}

	_, err = u.uc.AddOrder(r.Context(), domain.OrderDraft{
		CustomerID: signals.SelectedID,
		Product:    signals.Product,
		Quantity:   qty,
		UnitPrice:  price,
	})
	if err != nil {
		u.patchStatus(sse, "error", "Lỗi thêm đơn hàng. Vui lòng thử lại.")
		return
	}

	u.patchFragment(sse, "order_panel", u.orderPanel(r, signals.SelectedID))
	u.patchFragment(sse, "customer_rows", u.customerRows(r, signals.Search))
	u.patchStatus(sse, "success", "Đã thêm đơn hàng thành công!")
}

func (u *UI) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	signals := &uiSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil || signals.OrderID == "" {
		u.patchStatus(sse, "error", "Yêu cầu không hợp lệ")
		return
	}

	if _, err := u.uc.DeleteOrder(r.Context(), signals.OrderID); err != nil {
		u.patchStatus(sse, "error", "Lỗi xóa đơn hàng. Vui lòng thử lại.")
		return
	}

	if signals.SelectedID != "" {
		u.patchFragment(sse, "order_panel", u.orderPanel(r, signals.SelectedID))
	}
	u.patchFragment(sse, "customer_rows", u.customerRows(r, signals.Search))
	u.patchStatus(sse, "success", "Đã xóa đơn hàng thành công!")
}

func (u *UI) customerRows(r *http.Request, term string) customerRowsVM {
	customers := u.uc.SearchCustomers(term)
	vm := customerRowsVM{Rows: make([]customerRow, 0, len(customers))}
	for _, c := range customers {
		vm.Rows = append(vm.Rows, customerRow{
			ID:          c.ID,
			FullName:    c.FullName,
			PhoneNumber: c.PhoneNumber,
			Total:       formatVND(u.uc.TotalPurchases(r.Context(), c.ID)),
		})
	}
	return vm
}

func (u *UI) orderPanel(r *http.Request, customerID string) orderPanelVM {
	c, ok := u.uc.CustomerByID(customerID)
	if !ok {
		return orderPanelVM{}
	}

	orders := u.uc.CustomerOrders(r.Context(), customerID)
	vm := orderPanelVM{
		HasSelection: true,
		CustomerID:   c.ID,
		CustomerName: c.FullName,
		Orders:       make([]orderRow, 0, len(orders)),
	}
	total := 0
	for _, o := range orders {
		total += o.Total
		vm.Orders = append(vm.Orders, orderRow{
			ID:        o.ID,
			Date:      formatDate(o.Date),
			Product:   o.Product,
			Quantity:  o.Quantity,
			UnitPrice: formatVND(o.UnitPrice),
			Total:     formatVND(o.Total),
		})
	}
	vm.Total = formatVND(total)
	return vm
}

func (u *UI) patchFragment(sse *datastar.ServerSentEventGenerator, name string, data any) {
	var buf bytes.Buffer
	if err := u.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		u.patchStatus(sse, "error", "Lỗi hiển thị")
		return
	}
	_ = sse.PatchElements(buf.String())
}

func (u *UI) patchStatus(sse *datastar.ServerSentEventGenerator, kind, msg string) {
	var buf bytes.Buffer
	if err := u.tmpl.ExecuteTemplate(&buf, "status", statusVM{Kind: kind, Message: msg}); err != nil {
		return
	}
	_ = sse.PatchElements(buf.String())
}

func addCustomerErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidDraft):
		return "Số điện thoại không hợp lệ. Vui lòng nhập số điện thoại 10-11 chữ số."
	case errors.Is(err, domain.ErrDuplicateKey):
		return "Khách hàng với số điện thoại hoặc mã khách hàng này đã tồn tại."
	default:
		return "Lỗi thêm khách hàng. Vui lòng thử lại."
	}
}

// formatVND groups digits in threes and appends the đồng sign, e.g.
// 5000 -> "5.000 ₫".
func formatVND(amount int) string {
	s := strconv.Itoa(amount)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	return out + " ₫"
}

// formatDate renders vi-VN style day-first dates.
func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
