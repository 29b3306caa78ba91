package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string           `json:"categoryName" validate:"required,notblank,max=5"`
	Note  *string          `json:"description" validate:"omitempty,max=3"`
	Price *decimal.Decimal `json:"price" validate:"required,price"`
	Count *int             `json:"inventoryCount" validate:"required,min=0"`
	Page  int              `query:"page" validate:"min=0"`
}

func ptr[T any](v T) *T {
	return &v
}

func validSample() sample {
	return sample{
		Name:  "Books",
		Price: ptr(decimal.RequireFromString("9.99")),
		Count: ptr(0),
	}
}

func TestStruct_Valid(t *testing.T) {
	require.NoError(t, Struct(validSample()))
}

func TestStruct_FirstErrorUsesWireNames(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*sample)
		want   string
	}{
		{
			name:   "missing name",
			mutate: func(s *sample) { s.Name = "" },
			want:   "categoryName: is required",
		},
		{
			name:   "blank name",
			mutate: func(s *sample) { s.Name = "   " },
			want:   "categoryName: must not be blank",
		},
		{
			name:   "long name",
			mutate: func(s *sample) { s.Name = "Bookshelf" },
			want:   "categoryName: must not exceed 5 characters",
		},
		{
			name:   "long description",
			mutate: func(s *sample) { s.Note = ptr("long") },
			want:   "description: must not exceed 3 characters",
		},
		{
			name:   "missing price",
			mutate: func(s *sample) { s.Price = nil },
			want:   "price: is required",
		},
		{
			name:   "zero price",
			mutate: func(s *sample) { s.Price = ptr(decimal.Zero) },
			want:   "price: must be greater than 0 with at most 2 decimal places",
		},
		{
			name:   "three decimals",
			mutate: func(s *sample) { s.Price = ptr(decimal.RequireFromString("1.005")) },
			want:   "price: must be greater than 0 with at most 2 decimal places",
		},
		{
			name:   "negative count",
			mutate: func(s *sample) { s.Count = ptr(-1) },
			want:   "inventoryCount: must be greater than or equal to 0",
		},
		{
			name:   "negative page",
			mutate: func(s *sample) { s.Page = -1 },
			want:   "page: must be greater than or equal to 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSample()
			tt.mutate(&s)

			err := Struct(s)

			require.Error(t, err)
			require.Equal(t, tt.want, First(err))
		})
	}
}

func TestStruct_CollectsAllErrors(t *testing.T) {
	err := Struct(sample{})

	var errs Errors
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 3)
	require.Equal(t, "categoryName", errs[0].Field)
}

func TestPriceUpperBound(t *testing.T) {
	s := validSample()
	s.Price = ptr(decimal.RequireFromString("99999999.99"))
	require.NoError(t, Struct(s))

	s.Price = ptr(decimal.RequireFromString("100000000"))
	require.Error(t, Struct(s))
}

func TestFirst_NonValidationError(t *testing.T) {
	require.Equal(t, "boom", First(errors.New("boom")))
}
