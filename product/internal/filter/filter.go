// Package filter derives the product list shown by a view from the full
// catalog: category, then inclusive price range, then a stable sort.
package filter

import (
	"fmt"

	"github.com/shopspring/decimal"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/product/pkg/response"
)

type SortKey string

const (
	SortNone      SortKey = ""
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

var sortKeys = []SortKey{SortNone, SortPriceAsc, SortPriceDesc, SortRating, SortNameAsc, SortNameDesc}

func ParseSortKey(s string) (SortKey, error) {
	for _, k := range sortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return SortNone, fmt.Errorf("%w: %q", inErrors.ErrUnknownSortKey, s)
}

type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// DefaultPriceRange is used when a view does not narrow the price.
var DefaultPriceRange = PriceRange{Min: decimal.Zero, Max: decimal.NewFromInt(1000)}

func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

type State struct {
	Category   string     `json:"category"`
	PriceRange PriceRange `json:"priceRange"`
	Sort       SortKey    `json:"sort"`
}

func NewState() State {
	return State{PriceRange: DefaultPriceRange}
}

// Apply returns the products selected by s. The input slice is left untouched
// and an empty result is not an error.
func Apply(products []response.Product, s State) []response.Product {
	result := make([]response.Product, 0, len(products))
	for _, p := range products {
		if s.Category != "" && p.Category != s.Category {
			continue
		}
		if !s.PriceRange.Contains(p.Price) {
			continue
		}
		result = append(result, p)
	}
	Sort(result, s.Sort)
	return result
}
