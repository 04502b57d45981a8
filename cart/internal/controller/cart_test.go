package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/cart/internal/metric"
	"github.com/Alturino/storefront/cart/internal/service"
	"github.com/Alturino/storefront/cart/internal/store"
	"github.com/Alturino/storefront/cart/pkg/response"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
)

const secret = "cart-secret"

type stubCatalog struct {
	err error
}

func (s stubCatalog) ListProducts(context.Context) ([]productResponse.Product, error) {
	return nil, errors.New("not used")
}

func (s stubCatalog) ListCategories(context.Context) ([]string, error) {
	return nil, errors.New("not used")
}

func (s stubCatalog) GetProduct(_ context.Context, id int) (productResponse.Product, error) {
	if s.err != nil {
		return productResponse.Product{}, s.err
	}
	switch id {
	case 1:
		return productResponse.Product{ID: 1, Title: "Fjallraven Backpack", Price: decimal.RequireFromString("109.95"), Category: "men's clothing"}, nil
	case 2:
		return productResponse.Product{ID: 2, Title: "Mens Casual T-Shirt", Price: decimal.RequireFromString("22.3"), Category: "men's clothing"}, nil
	}
	return productResponse.Product{}, inErrors.ErrProductNotFound
}

type envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       struct {
		Cart    response.Cart    `json:"cart"`
		Summary response.Summary `json:"summary"`
	} `json:"data"`
}

type harness struct {
	router *mux.Router
	metric *metric.Cart
	token  string
}

func newHarness(t *testing.T, cat stubCatalog) *harness {
	t.Helper()
	m := metric.NewCart(prometheus.NewRegistry())
	router := mux.NewRouter()
	AttachCartController(router, service.NewCartService(store.NewSessions(time.Hour), cat, m), secret)
	return &harness{router: router, metric: m}
}

func (h *harness) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if h.token != "" {
		req.Header.Set(inHttp.KeyHeaderAuth, "Bearer "+h.token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	if token := rec.Header().Get(inHttp.KeyHeaderSessionToken); token != "" {
		h.token = token
	}
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestCartFlow(t *testing.T) {
	h := newHarness(t, stubCatalog{})

	rec, env := h.do(t, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, h.token)
	assert.Empty(t, env.Data.Cart.Lines)

	h.do(t, http.MethodPost, "/cart/items", `{"productId":1,"quantity":2}`)
	_, env = h.do(t, http.MethodPost, "/cart/items", `{"productId":1,"quantity":3}`)
	require.Len(t, env.Data.Cart.Lines, 1)
	assert.Equal(t, 5, env.Data.Cart.TotalItems)

	_, env = h.do(t, http.MethodPost, "/cart/items", `{"productId":2}`)
	require.Len(t, env.Data.Cart.Lines, 2)
	assert.Equal(t, 1, env.Data.Cart.Lines[1].Quantity)

	rec, env = h.do(t, http.MethodPut, "/cart/items/1", `{"quantity":"0"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.Data.Cart.Lines[0].Quantity)

	rec, env = h.do(t, http.MethodPut, "/cart/items/2", `{"quantity":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.Data.Cart.Lines[1].Quantity)

	rec, env = h.do(t, http.MethodGet, "/cart/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decimal.RequireFromString("132.25").Equal(env.Data.Summary.Subtotal))
	assert.True(t, decimal.RequireFromString("13.23").Equal(env.Data.Summary.Tax))
	assert.True(t, decimal.RequireFromString("145.48").Equal(env.Data.Summary.Total))

	rec, env = h.do(t, http.MethodDelete, "/cart/items/99", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data.Cart.Lines, 2)

	_, env = h.do(t, http.MethodDelete, "/cart/items/1", "")
	require.Len(t, env.Data.Cart.Lines, 1)
	assert.Equal(t, 2, env.Data.Cart.Lines[0].ProductID)
	assert.True(t, decimal.RequireFromString("22.3").Equal(env.Data.Cart.TotalPrice))

	assert.InDelta(t, 3, testutil.ToFloat64(h.metric.Operations.WithLabelValues(metric.OperationAdd)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(h.metric.Operations.WithLabelValues(metric.OperationUpdate)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(h.metric.Sessions), 0)
}

func TestCartQuantityIsBounded(t *testing.T) {
	h := newHarness(t, stubCatalog{})

	h.do(t, http.MethodPost, "/cart/items", `{"productId":1,"quantity":"9223372036854775807"}`)
	rec, env := h.do(t, http.MethodPost, "/cart/items", `{"productId":1,"quantity":"9223372036854775807"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.Data.Cart.Lines, 1)
	assert.Equal(t, store.MaxQuantity, env.Data.Cart.Lines[0].Quantity)
	assert.Equal(t, store.MaxQuantity, env.Data.Cart.TotalItems)
	assert.True(t, env.Data.Cart.TotalPrice.IsPositive())

	_, env = h.do(t, http.MethodPut, "/cart/items/1", `{"quantity":1e300}`)
	assert.Equal(t, store.MaxQuantity, env.Data.Cart.Lines[0].Quantity)
}

func TestCartErrors(t *testing.T) {
	t.Run("unknown product", func(t *testing.T) {
		h := newHarness(t, stubCatalog{})
		rec, env := h.do(t, http.MethodPost, "/cart/items", `{"productId":404,"quantity":1}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, env.Message, inErrors.ErrProductNotFound.Error())

		_, env = h.do(t, http.MethodGet, "/cart", "")
		assert.Empty(t, env.Data.Cart.Lines)
	})

	t.Run("catalog failure", func(t *testing.T) {
		h := newHarness(t, stubCatalog{err: inErrors.ErrUpstream})
		rec, env := h.do(t, http.MethodPost, "/cart/items", `{"productId":1,"quantity":1}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, env.Message, inErrors.ErrUpstream.Error())
	})

	t.Run("missing product id", func(t *testing.T) {
		h := newHarness(t, stubCatalog{})
		rec, _ := h.do(t, http.MethodPost, "/cart/items", `{"quantity":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update of product not in cart", func(t *testing.T) {
		h := newHarness(t, stubCatalog{})
		rec, _ := h.do(t, http.MethodPut, "/cart/items/1", `{"quantity":2}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid session", func(t *testing.T) {
		h := newHarness(t, stubCatalog{})
		h.token = "forged"
		rec, _ := h.do(t, http.MethodGet, "/cart", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAnonymousReadsDoNotKeepCarts(t *testing.T) {
	h := newHarness(t, stubCatalog{})
	for range 10 {
		h.token = ""
		rec, _ := h.do(t, http.MethodGet, "/cart", "")
		require.Equal(t, http.StatusOK, rec.Code)
		rec, _ = h.do(t, http.MethodGet, "/cart/summary", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.InDelta(t, 0, testutil.ToFloat64(h.metric.Sessions), 0)
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newHarness(t, stubCatalog{})
	h.do(t, http.MethodPost, "/cart/items", `{"productId":1,"quantity":1}`)
	first := h.token

	h.token = ""
	_, env := h.do(t, http.MethodGet, "/cart", "")
	assert.NotEqual(t, first, h.token)
	assert.Empty(t, env.Data.Cart.Lines)
}

func readEvent(t *testing.T, reader *bufio.Reader) response.Badge {
	t.Helper()
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			var badge response.Badge
			require.NoError(t, json.Unmarshal([]byte(data), &badge))
			return badge
		}
	}
}

func TestEvents(t *testing.T) {
	h := newHarness(t, stubCatalog{})
	server := httptest.NewServer(h.router)
	defer server.Close()

	h.do(t, http.MethodGet, "/cart", "")

	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(c, http.MethodGet, server.URL+"/cart/events?token="+h.token, nil)
	require.NoError(t, err)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, inHttp.ValueHeaderEventStream, resp.Header.Get(inHttp.KeyHeaderContentType))

	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, 0, readEvent(t, reader).TotalItems)

	h.do(t, http.MethodPost, "/cart/items", `{"productId":2,"quantity":4}`)
	badge := readEvent(t, reader)
	assert.Equal(t, 4, badge.TotalItems)
	assert.True(t, decimal.RequireFromString("89.2").Equal(badge.TotalPrice))
	assert.InDelta(t, 1, testutil.ToFloat64(h.metric.Streams), 0)

	cancel()
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(h.metric.Streams) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
