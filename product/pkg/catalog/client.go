package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/product/pkg/response"
)

const (
	PathProducts   = "/catalog/products"
	PathCategories = "/catalog/categories"
)

// Client reads the catalog API of the product-service. Failed calls are
// returned to the caller as is; nothing is retried or remembered.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, inHttp.NewClient(timeout))
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type envelope[T any] struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       T      `json:"data"`
}

func (cl *Client) ListProducts(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "catalog Client ListProducts")
	defer span.End()

	body := envelope[struct {
		Products []response.Product `json:"products"`
	}]{}
	if err := cl.get(c, PathProducts, &body, nil); err != nil {
		otel.RecordError(err, span)
		return nil, err
	}
	return body.Data.Products, nil
}

func (cl *Client) ListCategories(c context.Context) ([]string, error) {
	c, span := otel.Tracer.Start(c, "catalog Client ListCategories")
	defer span.End()

	body := envelope[struct {
		Categories []string `json:"categories"`
	}]{}
	if err := cl.get(c, PathCategories, &body, nil); err != nil {
		otel.RecordError(err, span)
		return nil, err
	}
	return body.Data.Categories, nil
}

func (cl *Client) GetProduct(c context.Context, id int) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "catalog Client GetProduct")
	defer span.End()
	span.SetAttributes(attribute.Int(log.KeyProductID, id))

	body := envelope[struct {
		Product response.Product `json:"product"`
	}]{}
	if err := cl.get(c, PathProducts+"/"+strconv.Itoa(id), &body, ErrProductNotFound); err != nil {
		otel.RecordError(err, span)
		return response.Product{}, err
	}
	return body.Data.Product, nil
}

// get decodes the envelope of path into out. A 404 is reported as notFound
// when it is set and as inErrors.ErrUpstream otherwise.
func (cl *Client) get(c context.Context, path string, out any, notFound error) error {
	url := cl.baseURL + path
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "catalog Client").
		Str(log.KeyEndpoint, url).
		Logger()

	req, err := http.NewRequestWithContext(c, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("failed creating request to %s with error=%w", url, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set("Accept", inHttp.ValueHeaderApplicationJson)
	inHttp.PropagateRequestID(c, req)

	logger.Trace().Msg("requesting catalog")
	resp, err := cl.http.Do(req)
	if err != nil {
		err = fmt.Errorf("failed requesting %s with error=%w", url, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && notFound != nil:
		_, _ = io.Copy(io.Discard, resp.Body)
		logger.Info().Msg("catalog entry not found")
		return notFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		err = fmt.Errorf("%w: %s responded with statusCode=%d", inErrors.ErrUpstream, url, resp.StatusCode)
		logger.Error().Int(log.KeyStatusCode, resp.StatusCode).Err(err).Msg(err.Error())
		return err
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		err = fmt.Errorf("failed decoding response of %s with error=%w", url, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("requested catalog")
	return nil
}
