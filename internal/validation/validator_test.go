package validation

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string  `json:"name" validate:"required,max=10"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Date     string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   sample
		wantErr string
	}{
		{name: "valid", input: sample{Name: "milk", Quantity: 1, Date: "2025-01-02"}},
		{name: "missing name", input: sample{}, wantErr: "name is required"},
		{name: "too long", input: sample{Name: "abcdefghijk"}, wantErr: "name must be at most 10"},
		{name: "bad email", input: sample{Name: "x", Email: "nope"}, wantErr: "email must be a valid email"},
		{name: "negative quantity", input: sample{Name: "x", Quantity: -1}, wantErr: "quantity must be >= 0"},
		{name: "bad date", input: sample{Name: "x", Date: "02/01/2025"}, wantErr: "date must match 2006-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var fe *fiber.Error
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, fiber.StatusBadRequest, fe.Code)
			assert.Contains(t, fe.Message, tt.wantErr)
		})
	}
}
