package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/storefront/internal/load"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/product/internal/filter"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/pkg/catalog"
	"github.com/Alturino/storefront/product/pkg/response"
)

const (
	FeaturedCount    = 4
	NewArrivalsCount = 4
	RelatedCount     = 4
)

type ProductService struct {
	catalog catalog.Catalog

	mu   sync.Mutex
	rand *rand.Rand
}

func NewProductService(catalog catalog.Catalog, r *rand.Rand) *ProductService {
	return &ProductService{catalog: catalog, rand: r}
}

func (svc *ProductService) Catalog() catalog.Catalog {
	return svc.catalog
}

func (svc *ProductService) FindProducts(
	c context.Context,
	state filter.State,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProducts").
		Any(log.KeyFilter, state).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "listing products").Logger()
	logger.Trace().Msg("listing products")
	products, err := svc.catalog.ListProducts(c)
	if err != nil {
		err = fmt.Errorf("failed listing products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	result := filter.Apply(products, state)
	span.SetAttributes(attribute.Int("count", len(result)))
	logger.Info().Int("count", len(result)).Msg("filtered products")

	return result, nil
}

func (svc *ProductService) FindProductsByCategory(
	c context.Context,
	category string,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductsByCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductsByCategory").
		Str(log.KeyCategory, category).
		Logger()

	products, err := svc.catalog.ListProducts(c)
	if err != nil {
		err = fmt.Errorf("failed listing products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return filter.ByCategory(products, category), nil
}

func (svc *ProductService) Search(c context.Context, query string) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService Search")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService Search").
		Str("query", query).
		Logger()

	products, err := svc.catalog.ListProducts(c)
	if err != nil {
		err = fmt.Errorf("failed listing products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return filter.Search(products, query), nil
}

// FindProductDetail returns the product and other products of its category.
// An unknown id yields catalog.ErrProductNotFound.
func (svc *ProductService) FindProductDetail(
	c context.Context,
	id int,
) (response.ProductDetail, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductDetail")
	defer span.End()
	span.SetAttributes(attribute.Int(log.KeyProductID, id))

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductDetail").
		Int(log.KeyProductID, id).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Trace().Msg("finding product")
	product, err := svc.catalog.GetProduct(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.ProductDetail{}, err
	}
	logger.Trace().Msg("found product")

	logger = logger.With().Str(log.KeyProcess, "finding related products").Logger()
	products, err := svc.catalog.ListProducts(c)
	if err != nil {
		err = fmt.Errorf("failed listing related products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.ProductDetail{}, err
	}

	return response.ProductDetail{
		Product: product,
		Related: filter.Related(products, product, RelatedCount),
	}, nil
}

// Home loads products and categories concurrently. Both loads are abandoned
// if c ends first.
func (svc *ProductService) Home(c context.Context) (response.Home, error) {
	c, span := otel.Tracer.Start(c, "ProductService Home")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService Home").
		Logger()

	productsTask := load.Start(c, svc.catalog.ListProducts)
	defer productsTask.Close()
	categoriesTask := load.Start(c, svc.catalog.ListCategories)
	defer categoriesTask.Close()

	logger = logger.With().Str(log.KeyProcess, "loading products").Logger()
	products, err := productsTask.Wait(c)
	if err != nil {
		err = fmt.Errorf("failed loading products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Home{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "loading categories").Logger()
	categories, err := categoriesTask.Wait(c)
	if err != nil {
		err = fmt.Errorf("failed loading categories with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Home{}, err
	}

	svc.mu.Lock()
	arrivals := filter.NewArrivals(products, NewArrivalsCount, svc.rand)
	svc.mu.Unlock()

	logger.Info().Msg("loaded home")
	return response.Home{
		Featured:    filter.Featured(products, FeaturedCount),
		NewArrivals: arrivals,
		Categories:  categories,
	}, nil
}
