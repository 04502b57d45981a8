package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type priced struct {
	Price    decimal.Decimal  `validate:"price"`
	MaxPrice *decimal.Decimal `validate:"omitempty,price"`
}

func TestPrice(t *testing.T) {
	v := New()
	negative := decimal.RequireFromString("-0.01")
	zero := decimal.Zero

	assert.NoError(t, v.Struct(priced{Price: decimal.RequireFromString("109.95")}))
	assert.NoError(t, v.Struct(priced{Price: zero, MaxPrice: &zero}))
	assert.Error(t, v.Struct(priced{Price: negative}))
	assert.Error(t, v.Struct(priced{Price: zero, MaxPrice: &negative}))
}
