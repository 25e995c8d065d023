package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phoneRe = regexp.MustCompile(`^[0-9]{10,11}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 10-11 digit phone numbers, no separators.
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate normalizes and checks a customer draft. Leading/trailing space is
// trimmed before the rules run.
func (d *CustomerDraft) Validate() error {
	d.ID = strings.TrimSpace(d.ID)
	d.FullName = strings.TrimSpace(d.FullName)
	d.PhoneNumber = strings.TrimSpace(d.PhoneNumber)

	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: customer: %v", ErrInvalidDraft, err)
	}
	return nil
}

// Validate normalizes and checks an order draft.
func (d *OrderDraft) Validate() error {
	d.CustomerID = strings.TrimSpace(d.CustomerID)
	d.Product = strings.TrimSpace(d.Product)

	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: order: %v", ErrInvalidDraft, err)
	}
	return nil
}
