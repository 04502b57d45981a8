package request

import (
	"github.com/shopspring/decimal"
)

// FindProducts is the query of the products view.
type FindProducts struct {
	Category string           `json:"category"`
	MinPrice *decimal.Decimal `json:"minPrice" validate:"omitempty,price"`
	MaxPrice *decimal.Decimal `json:"maxPrice" validate:"omitempty,price"`
	Sort     string           `json:"sort"     validate:"omitempty,oneof=price-asc price-desc rating name-asc name-desc"`
}

type Search struct {
	Query string `json:"q" validate:"required,max=200"`
}
