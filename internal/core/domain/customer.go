package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CustomerIDPrefix is shared by every customer id: "KH" + zero-padded sequence.
const CustomerIDPrefix = "KH"

type Customer struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// CustomerDraft is the caller-supplied input for a new customer. ID may be
// left empty; the store assigns the next free sequence id.
type CustomerDraft struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
}

// CustomerPatch carries partial updates; nil fields are left untouched.
type CustomerPatch struct {
	FullName    *string
	PhoneNumber *string
}

// FormatCustomerID renders a sequence number as a customer id, e.g. 7 -> "KH007".
// The padding is a floor, not a cap: sequence 1000 renders as "KH1000".
func FormatCustomerID(seq int) string {
	return fmt.Sprintf("%s%03d", CustomerIDPrefix, seq)
}

// CustomerIDSeq extracts the numeric suffix of a customer id.
func CustomerIDSeq(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, CustomerIDPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
