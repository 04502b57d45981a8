package filter

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/product/pkg/response"
)

func product(id int, price int64, category string) response.Product {
	return response.Product{ID: id, Price: decimal.NewFromInt(price), Category: category}
}

func ids(products []response.Product) []int {
	result := make([]int, len(products))
	for i, p := range products {
		result[i] = p.ID
	}
	return result
}

func randomProducts(n int) []response.Product {
	categories := []string{"electronics", "jewelery", "men's clothing", "women's clothing"}
	products := make([]response.Product, n)
	for i := range n {
		products[i] = response.Product{
			ID:       i + 1,
			Title:    gofakeit.ProductName(),
			Price:    decimal.NewFromFloat(gofakeit.Price(1, 1200)).Round(2),
			Category: categories[gofakeit.Number(0, len(categories)-1)],
			Rating:   response.Rating{Rate: gofakeit.Float64Range(0, 5), Count: gofakeit.Number(0, 500)},
		}
	}
	return products
}

func TestApplyCategoryThenPriceAscending(t *testing.T) {
	products := []response.Product{
		product(1, 10, "a"),
		product(2, 20, "b"),
		product(3, 15, "a"),
	}

	s := NewState()
	s.Category = "a"
	s.Sort = SortPriceAsc

	assert.Equal(t, []int{1, 3}, ids(Apply(products, s)))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	products := randomProducts(30)
	original := slices.Clone(products)

	s := NewState()
	s.Sort = SortPriceDesc
	_ = Apply(products, s)

	assert.Empty(t, cmp.Diff(ids(original), ids(products)))
}

func TestApplyPriceRangeIsInclusive(t *testing.T) {
	products := []response.Product{
		product(1, 9, "a"),
		product(2, 10, "a"),
		product(3, 20, "a"),
		product(4, 21, "a"),
	}

	s := NewState()
	s.PriceRange = PriceRange{Min: decimal.NewFromInt(10), Max: decimal.NewFromInt(20)}

	assert.Equal(t, []int{2, 3}, ids(Apply(products, s)))
}

func TestApplyEmptyResult(t *testing.T) {
	s := NewState()
	s.Category = "garden"

	result := Apply(randomProducts(10), s)
	assert.NotNil(t, result)
	assert.Empty(t, result)

	s = NewState()
	s.PriceRange = PriceRange{Min: decimal.NewFromInt(50), Max: decimal.NewFromInt(10)}
	assert.Empty(t, Apply(randomProducts(10), s))
}

func TestApplyWithoutCategoryMatchesPriceRestriction(t *testing.T) {
	products := randomProducts(50)
	priceRange := PriceRange{Min: decimal.NewFromInt(100), Max: decimal.NewFromInt(600)}

	byCategory := State{Category: products[0].Category, PriceRange: priceRange}
	_ = Apply(products, byCategory)

	withoutCategory := Apply(products, State{PriceRange: priceRange})

	expected := []response.Product{}
	for _, p := range products {
		if priceRange.Contains(p.Price) {
			expected = append(expected, p)
		}
	}
	assert.Equal(t, ids(expected), ids(withoutCategory))
}

func TestSortPriceAscendingReversedIsDescending(t *testing.T) {
	products := make([]response.Product, 0, 40)
	for i, price := range rand.Perm(40) {
		products = append(products, product(i+1, int64(price), "a"))
	}

	asc := Apply(products, State{PriceRange: DefaultPriceRange, Sort: SortPriceAsc})
	desc := Apply(products, State{PriceRange: DefaultPriceRange, Sort: SortPriceDesc})

	slices.Reverse(asc)
	assert.Equal(t, ids(desc), ids(asc))
}

func TestSortIsStable(t *testing.T) {
	products := []response.Product{
		product(1, 10, "a"),
		product(2, 5, "a"),
		product(3, 10, "a"),
		product(4, 5, "a"),
	}
	products[0].Rating.Rate = 4
	products[1].Rating.Rate = 4
	products[2].Rating.Rate = 4.5
	products[3].Rating.Rate = 4

	tests := []struct {
		key      SortKey
		expected []int
	}{
		{key: SortNone, expected: []int{1, 2, 3, 4}},
		{key: SortPriceAsc, expected: []int{2, 4, 1, 3}},
		{key: SortPriceDesc, expected: []int{1, 3, 2, 4}},
		{key: SortRating, expected: []int{3, 1, 2, 4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			result := Apply(products, State{PriceRange: DefaultPriceRange, Sort: tt.key})
			assert.Equal(t, tt.expected, ids(result))
		})
	}
}

func TestSortByName(t *testing.T) {
	products := []response.Product{
		{ID: 1, Title: "banana"},
		{ID: 2, Title: "Apple"},
		{ID: 3, Title: "cherry"},
		{ID: 4, Title: "apple"},
	}

	asc := slices.Clone(products)
	Sort(asc, SortNameAsc)
	assert.Equal(t, []int{4, 2, 1, 3}, ids(asc))

	desc := slices.Clone(products)
	Sort(desc, SortNameDesc)
	assert.Equal(t, []int{3, 1, 2, 4}, ids(desc))
}

func TestParseSortKey(t *testing.T) {
	for _, k := range sortKeys {
		got, err := ParseSortKey(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseSortKey("popularity")
	assert.True(t, errors.Is(err, inErrors.ErrUnknownSortKey))
}
