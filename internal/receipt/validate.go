package receipt

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern is the accepted shape of totals and prices: dollars and
// exactly two cents digits, no sign or exponent.
var amountPattern = regexp.MustCompile(`^\d+\.\d{2}$`)

// MaxAmount is the largest accepted total or price; its cents fit in an int32.
var MaxAmount = decimal.New(math.MaxInt32, -2)

// FieldError describes one rejected receipt field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that made a receipt unacceptable.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid receipt: " + strings.Join(parts, "; ")
}

// Validate checks that every field the point rules read can be parsed, so a
// receipt that is accepted can always be scored. It returns a *ValidationError
// or nil.
func Validate(receipt Receipt) error {
	var fields []FieldError
	add := func(field, msg string) {
		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	if strings.TrimSpace(receipt.Retailer) == "" {
		add("retailer", "must not be empty")
	}
	checkAmount := func(field, value string) {
		d, err := parseAmount(field, value)
		switch {
		case err != nil:
			add(field, fmt.Sprintf("%q is not a decimal amount", value))
		case d.IsNegative():
			add(field, "must not be negative")
		case !amountPattern.MatchString(value):
			add(field, fmt.Sprintf("%q must have the form 0.00", value))
		case d.GreaterThan(MaxAmount):
			add(field, "must not exceed "+MaxAmount.StringFixed(2))
		}
	}
	checkAmount("total", receipt.Total)
	if _, err := parseDate(receipt.PurchaseDate); err != nil {
		add("purchaseDate", fmt.Sprintf("%q is not a date in YYYY-MM-DD form", receipt.PurchaseDate))
	}
	if _, err := parseTime(receipt.PurchaseTime); err != nil {
		add("purchaseTime", fmt.Sprintf("%q is not a 24-hour time in HH:MM form", receipt.PurchaseTime))
	}
	for i, item := range receipt.Items {
		checkAmount(itemField(i, "price"), item.Price)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
