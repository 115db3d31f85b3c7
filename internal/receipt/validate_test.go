package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(targetReceipt()))
	assert.NoError(t, Validate(cornerMarketReceipt()))
}

func TestValidate_CollectsAllFields(t *testing.T) {
	r := Receipt{
		Retailer:     "  ",
		PurchaseDate: "2022-13-01",
		PurchaseTime: "25:00",
		Total:        "-1.00",
		Items: []ReceiptItem{
			{ShortDescription: "ok", Price: "1.00"},
			{ShortDescription: "bad", Price: "1,00"},
		},
	}
	err := Validate(r)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	var fields []string
	for _, f := range ve.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"retailer", "total", "purchaseDate", "purchaseTime", "items[1].price"}, fields)
	assert.Contains(t, err.Error(), "total: must not be negative")
}

func TestValidate_EmptyItemsAllowed(t *testing.T) {
	r := targetReceipt()
	r.Items = nil
	assert.NoError(t, Validate(r))
}

func TestValidate_ValidReceiptAlwaysScores(t *testing.T) {
	r := cornerMarketReceipt()
	r.Items = append(r.Items, ReceiptItem{ShortDescription: "abc", Price: "3.33"})
	require.NoError(t, Validate(r))
	_, err := Points(r)
	assert.NoError(t, err)
}

func TestValidate_AmountLimits(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"cents", "12.25", true},
		{"zero", "0.00", true},
		{"ceiling", "21474836.47", true},
		{"above ceiling", "21474836.48", false},
		{"huge", "50000000000000000000.00", false},
		{"huge integer", "50000000000000000000", false},
		{"no cents", "9", false},
		{"one cent digit", "9.0", false},
		{"three cent digits", "9.001", false},
		{"exponent", "1e-20000000", false},
		{"exponent with cents shape", "1.00e2", false},
		{"plus sign", "+1.00", false},
		{"padded", " 1.00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := targetReceipt()
			total.Total = tt.value
			price := targetReceipt()
			price.Items[1].Price = tt.value

			if tt.ok {
				assert.NoError(t, Validate(total))
				assert.NoError(t, Validate(price))
				return
			}

			var ve *ValidationError
			require.ErrorAs(t, Validate(total), &ve)
			assert.Equal(t, "total", ve.Fields[0].Field)
			require.ErrorAs(t, Validate(price), &ve)
			assert.Equal(t, "items[1].price", ve.Fields[0].Field)
		})
	}
}
