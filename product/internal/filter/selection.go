package filter

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/Alturino/storefront/product/pkg/response"
)

// Featured returns the n best rated products.
func Featured(products []response.Product, n int) []response.Product {
	sorted := slices.Clone(products)
	Sort(sorted, SortRating)
	return head(sorted, n)
}

// Related returns up to n other products of the same category, in catalog order.
func Related(products []response.Product, product response.Product, n int) []response.Product {
	related := []response.Product{}
	for _, p := range products {
		if len(related) >= n {
			break
		}
		if p.Category == product.Category && p.ID != product.ID {
			related = append(related, p)
		}
	}
	return related
}

// NewArrivals picks n products at random. The choice is decorative only.
func NewArrivals(products []response.Product, n int, r *rand.Rand) []response.Product {
	shuffled := slices.Clone(products)
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return head(shuffled, n)
}

// Search matches query against titles, ignoring case.
func Search(products []response.Product, query string) []response.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	result := []response.Product{}
	if query == "" {
		return result
	}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), query) {
			result = append(result, p)
		}
	}
	return result
}

func ByCategory(products []response.Product, category string) []response.Product {
	result := []response.Product{}
	for _, p := range products {
		if p.Category == category {
			result = append(result, p)
		}
	}
	return result
}

// Categories lists each category once, in order of first appearance.
func Categories(products []response.Product) []string {
	seen := map[string]struct{}{}
	categories := []string{}
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

func head(products []response.Product, n int) []response.Product {
	n = max(n, 0)
	if n < len(products) {
		return products[:n]
	}
	return products
}
