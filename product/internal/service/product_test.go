package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/product/internal/filter"
	"github.com/Alturino/storefront/product/pkg/response"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeCatalog struct {
	products      []response.Product
	err           error
	categoriesErr error
}

func (f fakeCatalog) ListProducts(context.Context) ([]response.Product, error) {
	return f.products, f.err
}

func (f fakeCatalog) ListCategories(context.Context) ([]string, error) {
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	return filter.Categories(f.products), f.err
}

func (f fakeCatalog) GetProduct(_ context.Context, id int) (response.Product, error) {
	if f.err != nil {
		return response.Product{}, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return response.Product{}, inErrors.ErrProductNotFound
}

var products = []response.Product{
	{ID: 1, Title: "Mens Cotton Jacket", Price: decimal.NewFromFloat(55.99), Category: "men's clothing", Rating: response.Rating{Rate: 4.7}},
	{ID: 2, Title: "Mens Casual Slim Fit", Price: decimal.NewFromFloat(15.99), Category: "men's clothing", Rating: response.Rating{Rate: 2.1}},
	{ID: 3, Title: "Solid Gold Petite Micropave", Price: decimal.NewFromInt(168), Category: "jewelery", Rating: response.Rating{Rate: 3.9}},
	{ID: 4, Title: "WD 2TB Elements Portable External Hard Drive", Price: decimal.NewFromInt(64), Category: "electronics", Rating: response.Rating{Rate: 3.3}},
	{ID: 5, Title: "Samsung 49-Inch CHG90 Monitor", Price: decimal.NewFromFloat(999.99), Category: "electronics", Rating: response.Rating{Rate: 2.2}},
	{ID: 6, Title: "Rain Jacket Women Windbreaker", Price: decimal.NewFromFloat(39.99), Category: "women's clothing", Rating: response.Rating{Rate: 3.8}},
}

func newService(f fakeCatalog) *ProductService {
	return NewProductService(f, rand.New(rand.NewPCG(1, 1)))
}

func TestFindProducts(t *testing.T) {
	svc := newService(fakeCatalog{products: products})

	state := filter.NewState()
	state.Category = "electronics"
	state.Sort = filter.SortPriceDesc

	result, err := svc.FindProducts(context.Background(), state)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, 5, result[0].ID)
	assert.Equal(t, 4, result[1].ID)
}

func TestFindProductsPropagatesFetchFailure(t *testing.T) {
	fetchErr := errors.New("timeout")
	svc := newService(fakeCatalog{err: fetchErr})

	_, err := svc.FindProducts(context.Background(), filter.NewState())
	assert.ErrorIs(t, err, fetchErr)
}

func TestFindProductDetail(t *testing.T) {
	svc := newService(fakeCatalog{products: products})

	detail, err := svc.FindProductDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Product.ID)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, 2, detail.Related[0].ID)

	_, err = svc.FindProductDetail(context.Background(), 42)
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestHome(t *testing.T) {
	svc := newService(fakeCatalog{products: products})

	home, err := svc.Home(context.Background())
	require.NoError(t, err)

	require.Len(t, home.Featured, FeaturedCount)
	assert.Equal(t, 1, home.Featured[0].ID)
	assert.Equal(t, 3, home.Featured[1].ID)
	assert.Len(t, home.NewArrivals, NewArrivalsCount)
	assert.Equal(t, []string{"men's clothing", "jewelery", "electronics", "women's clothing"}, home.Categories)
}

func TestHomeFailsWhenCategoriesFail(t *testing.T) {
	categoriesErr := errors.New("categories unavailable")
	svc := newService(fakeCatalog{products: products, categoriesErr: categoriesErr})

	_, err := svc.Home(context.Background())
	assert.ErrorIs(t, err, categoriesErr)
}

func TestHomeAbandonedByCaller(t *testing.T) {
	svc := newService(fakeCatalog{products: products})
	c, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Home(c)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchAndCategory(t *testing.T) {
	svc := newService(fakeCatalog{products: products})

	found, err := svc.Search(context.Background(), "jacket")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	jewelery, err := svc.FindProductsByCategory(context.Background(), "jewelery")
	require.NoError(t, err)
	require.Len(t, jewelery, 1)
	assert.Equal(t, 3, jewelery[0].ID)
}
