package filter

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Alturino/storefront/product/pkg/response"
)

// Sort orders products in place by key. Equal elements keep their order.
func Sort(products []response.Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b response.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b response.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortRating:
		slices.SortStableFunc(products, func(a, b response.Product) int {
			return cmp.Compare(b.Rating.Rate, a.Rating.Rate)
		})
	case SortNameAsc:
		compare := titleComparer()
		slices.SortStableFunc(products, func(a, b response.Product) int {
			return compare(a.Title, b.Title)
		})
	case SortNameDesc:
		compare := titleComparer()
		slices.SortStableFunc(products, func(a, b response.Product) int {
			return compare(b.Title, a.Title)
		})
	}
}

// titleComparer compares titles the way a reader expects in an English
// locale. A collator keeps scratch buffers, so each sort gets its own.
func titleComparer() func(a, b string) int {
	collator := collate.New(language.English)
	return func(a, b string) int {
		if c := collator.CompareString(a, b); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	}
}
