package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	Name      string              `validate:"required,min=3,max=30"`
	Price     decimal.Decimal     `validate:"gte=0"`
	SalePrice decimal.NullDecimal `validate:"omitempty,gte=0"`
	Quantity  int                 `validate:"gte=0"`
}

func TestValidateStructAcceptsValidInput(t *testing.T) {
	errs := ValidateStruct(&priced{
		Name:      "Desk Lamp",
		Price:     decimal.RequireFromString("19.99"),
		SalePrice: decimal.NullDecimal{Decimal: decimal.RequireFromString("14.50"), Valid: true},
		Quantity:  4,
	})
	assert.Empty(t, errs)
}

func TestValidateStructAllowsMissingSalePrice(t *testing.T) {
	errs := ValidateStruct(&priced{Name: "Mug", Price: decimal.NewFromInt(5)})
	assert.Empty(t, errs)
}

func TestValidateStructRejectsNegativePrice(t *testing.T) {
	errs := ValidateStruct(&priced{Name: "Mug", Price: decimal.NewFromInt(-1)})
	require.Len(t, errs, 1)
	assert.Equal(t, "priced.Price", errs[0].FailedField)
	assert.Equal(t, "gte", errs[0].Tag)
	assert.Equal(t, "Validation failed: Field 'priced.Price' failed on tag 'gte'", Message(errs))
}

func TestValidateStructRejectsShortName(t *testing.T) {
	errs := ValidateStruct(&priced{Name: "ab", Price: decimal.NewFromInt(1)})
	require.Len(t, errs, 1)
	assert.Equal(t, "min", errs[0].Tag)
}

func TestValidateStructRejectsNegativeSalePrice(t *testing.T) {
	errs := ValidateStruct(&priced{
		Name:      "Mug",
		Price:     decimal.NewFromInt(1),
		SalePrice: decimal.NullDecimal{Decimal: decimal.NewFromInt(-2), Valid: true},
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "priced.SalePrice", errs[0].FailedField)
}
