package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/product/internal/filter"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/internal/service"
	"github.com/Alturino/storefront/product/pkg/request"
)

const messageNoMatches = "no products match your filters"

type ProductController struct {
	service  *service.ProductService
	validate *validator.Validate
}

func AttachProductController(router *mux.Router, service *service.ProductService) {
	controller := ProductController{
		service:  service,
		validate: validate.New(),
	}

	catalogRouter := router.PathPrefix("/catalog").Subrouter()
	catalogRouter.HandleFunc("/products", controller.ListCatalogProducts).Methods(http.MethodGet)
	catalogRouter.HandleFunc("/products/{productId}", controller.GetCatalogProduct).Methods(http.MethodGet)
	catalogRouter.HandleFunc("/categories", controller.ListCategories).Methods(http.MethodGet)

	router.HandleFunc("/home", controller.Home).Methods(http.MethodGet)
	router.HandleFunc("/search", controller.Search).Methods(http.MethodGet)
	router.HandleFunc("/products", controller.FindProducts).Methods(http.MethodGet)
	router.HandleFunc("/products/{productId}", controller.FindProductDetail).Methods(http.MethodGet)
	router.HandleFunc("/categories", controller.ListCategories).Methods(http.MethodGet)
	router.HandleFunc("/categories/{category}", controller.FindProductsByCategory).Methods(http.MethodGet)
}

func (ctrl ProductController) ListCatalogProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController ListCatalogProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController ListCatalogProducts").
		Str(log.KeyProcess, "listing products").
		Logger()

	c = logger.WithContext(c)
	products, err := ctrl.service.Catalog().ListProducts(c)
	if err != nil {
		err = fmt.Errorf("failed listing products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadGateway, err)
		return
	}
	logger.Info().Int("count", len(products)).Msg("listed products")

	inHttp.WriteSuccess(c, w, "products found", map[string]interface{}{"products": products})
}

func (ctrl ProductController) ListCategories(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController ListCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController ListCategories").
		Str(log.KeyProcess, "listing categories").
		Logger()

	c = logger.WithContext(c)
	categories, err := ctrl.service.Catalog().ListCategories(c)
	if err != nil {
		err = fmt.Errorf("failed listing categories with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadGateway, err)
		return
	}
	logger.Info().Msg("listed categories")

	inHttp.WriteSuccess(c, w, "categories found", map[string]interface{}{"categories": categories})
}

func (ctrl ProductController) GetCatalogProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController GetCatalogProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController GetCatalogProduct").
		Logger()

	id, err := productID(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}
	logger = logger.With().Int(log.KeyProductID, id).Logger()

	c = logger.WithContext(c)
	product, err := ctrl.service.Catalog().GetProduct(c, id)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCodeOf(err), err)
		return
	}
	logger.Info().Msg("found product")

	inHttp.WriteSuccess(
		c,
		w,
		fmt.Sprintf("product id=%d found", id),
		map[string]interface{}{"product": product},
	)
}

func (ctrl ProductController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProducts").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing filter").Logger()
	logger.Trace().Msg("parsing filter")
	state, err := ctrl.parseFilter(r)
	if err != nil {
		err = fmt.Errorf("failed parsing filter with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}
	logger = logger.With().Any(log.KeyFilter, state).Logger()
	logger.Trace().Msg("parsed filter")

	logger = logger.With().Str(log.KeyProcess, "finding products").Logger()
	c = logger.WithContext(c)
	products, err := ctrl.service.FindProducts(c, state)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadGateway, err)
		return
	}
	logger.Info().Int("count", len(products)).Msg("found products")

	message := "products found"
	if len(products) == 0 {
		message = messageNoMatches
	}
	inHttp.WriteSuccess(c, w, message, map[string]interface{}{
		"products": products,
		"count":    len(products),
		"filter":   state,
	})
}

func (ctrl ProductController) FindProductDetail(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductDetail")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProductDetail").
		Logger()

	id, err := productID(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}
	logger = logger.With().Int(log.KeyProductID, id).Logger()

	c = logger.WithContext(c)
	detail, err := ctrl.service.FindProductDetail(c, id)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCodeOf(err), err)
		return
	}
	logger.Info().Msg("found product detail")

	inHttp.WriteSuccess(c, w, fmt.Sprintf("product id=%d found", id), map[string]interface{}{
		"product": detail.Product,
		"related": detail.Related,
	})
}

func (ctrl ProductController) FindProductsByCategory(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductsByCategory")
	defer span.End()

	category := mux.Vars(r)["category"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProductsByCategory").
		Str(log.KeyCategory, category).
		Logger()

	c = logger.WithContext(c)
	products, err := ctrl.service.FindProductsByCategory(c, category)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadGateway, err)
		return
	}
	logger.Info().Int("count", len(products)).Msg("found products of category")

	inHttp.WriteSuccess(c, w, "products found", map[string]interface{}{
		"category": category,
		"products": products,
	})
}

func (ctrl ProductController) Search(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController Search")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController Search").
		Logger()

	req := request.Search{Query: r.URL.Query().Get("q")}
	if err := ctrl.validate.StructCtx(c, req); err != nil {
		err = fmt.Errorf("failed validating search query with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}

	c = logger.WithContext(c)
	products, err := ctrl.service.Search(c, req.Query)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadGateway, err)
		return
	}
	logger.Info().Int("count", len(products)).Msg("searched products")

	inHttp.WriteSuccess(c, w, "products found", map[string]interface{}{
		"query":    req.Query,
		"products": products,
	})
}

func (ctrl ProductController) Home(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController Home")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController Home").
		Logger()

	c = logger.WithContext(c)
	home, err := ctrl.service.Home(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadGateway, err)
		return
	}
	logger.Info().Msg("loaded home")

	inHttp.WriteSuccess(c, w, "home loaded", map[string]interface{}{
		"featured":    home.Featured,
		"newArrivals": home.NewArrivals,
		"categories":  home.Categories,
	})
}

func (ctrl ProductController) parseFilter(r *http.Request) (filter.State, error) {
	query := r.URL.Query()
	req := request.FindProducts{
		Category: query.Get("category"),
		Sort:     query.Get("sort"),
	}
	for name, target := range map[string]**decimal.Decimal{
		"minPrice": &req.MinPrice,
		"maxPrice": &req.MaxPrice,
	} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return filter.State{}, fmt.Errorf("invalid %s=%q with error=%w", name, raw, err)
		}
		*target = &d
	}
	if err := ctrl.validate.StructCtx(r.Context(), req); err != nil {
		return filter.State{}, err
	}

	state := filter.NewState()
	state.Category = req.Category
	if req.MinPrice != nil {
		state.PriceRange.Min = *req.MinPrice
	}
	if req.MaxPrice != nil {
		state.PriceRange.Max = *req.MaxPrice
	}
	sortKey, err := filter.ParseSortKey(req.Sort)
	if err != nil {
		return filter.State{}, err
	}
	state.Sort = sortKey
	return state, nil
}

func productID(r *http.Request) (int, error) {
	raw := mux.Vars(r)["productId"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid productId=%q with error=%w", raw, err)
	}
	return id, nil
}

func statusCodeOf(err error) int {
	if errors.Is(err, inErrors.ErrProductNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
