package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"receipt-processor/internal/receipt"
)

func TestErrorCodeAssigner(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("get: %w", receipt.ErrNotFound), http.StatusNotFound},
		{"validation", &receipt.ValidationError{Fields: []receipt.FieldError{{Field: "total"}}}, http.StatusBadRequest},
		// a stored receipt that fails to parse is a server fault
		{"parse", &receipt.ParseError{Field: "total", Value: "x", Err: errors.New("bad")}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errorCodeAssigner(tt.err), tt.name)
	}
}
