package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prod   Product
		fields map[string]string
	}{
		{
			name: "valid",
			prod: Product{Name: "Lamp", Price: 19.99, CategoryID: "c1"},
		},
		{
			name: "free product is fine",
			prod: Product{Name: "Sticker", Price: 0, CategoryID: "c1"},
		},
		{
			name:   "short name",
			prod:   Product{Name: "ab", Price: 1, CategoryID: "c1"},
			fields: map[string]string{"name": "Name must be at least 3 characters long"},
		},
		{
			name:   "long name",
			prod:   Product{Name: strings.Repeat("x", 51), Price: 1, CategoryID: "c1"},
			fields: map[string]string{"name": "Name must be at most 50 characters long"},
		},
		{
			name:   "not a number",
			prod:   Product{Name: "Lamp", Price: math.NaN(), CategoryID: "c1"},
			fields: map[string]string{"price": "Price must be a number"},
		},
		{
			name:   "infinite",
			prod:   Product{Name: "Lamp", Price: math.Inf(1), CategoryID: "c1"},
			fields: map[string]string{"price": "Price must be a number"},
		},
		{
			name: "everything wrong",
			prod: Product{Name: "  ", Price: -1},
			fields: map[string]string{
				"name":     "Name is required",
				"price":    "Price must be a positive number",
				"category": "Category is required",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.prod.Validate()
			if tt.fields == nil {
				require.NoError(t, err)
				return
			}
			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.fields, ve.Fields)
		})
	}
}

func TestAsValidationError_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("create product: %w", &ValidationError{Fields: map[string]string{"name": "x"}})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "x", ve.Fields["name"])

	_, ok = AsValidationError(errors.New("boom"))
	assert.False(t, ok)
}

func TestCategory_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, (&Category{Name: "Lighting"}).Validate())

	ve, ok := AsValidationError((&Category{}).Validate())
	require.True(t, ok)
	assert.Equal(t, "Name is required", ve.Fields["name"])
}
