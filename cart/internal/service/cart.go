package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/storefront/cart/internal/metric"
	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/internal/store"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/product/pkg/catalog"
)

type CartService struct {
	sessions *store.Sessions
	catalog  catalog.Catalog
	metric   *metric.Cart
}

func NewCartService(
	sessions *store.Sessions,
	catalog catalog.Catalog,
	metric *metric.Cart,
) *CartService {
	return &CartService{sessions: sessions, catalog: catalog, metric: metric}
}

func (svc *CartService) store(sessionID string) *store.Store {
	s := svc.sessions.Get(sessionID)
	svc.metric.Sessions.Set(float64(svc.sessions.Len()))
	return s
}

// lookup returns the session's Store, or an empty one that is not kept when
// the session has no cart yet.
func (svc *CartService) lookup(sessionID string) *store.Store {
	if s, ok := svc.sessions.Lookup(sessionID); ok {
		return s
	}
	return store.New()
}

// EvictIdleSessions sweeps idle sessions every interval until c is done.
func (svc *CartService) EvictIdleSessions(c context.Context, interval time.Duration) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService EvictIdleSessions").
		Str(log.KeyProcess, "evicting idle sessions").
		Logger()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("stopped evicting idle sessions")
			return
		case now := <-ticker.C:
			evicted := svc.sessions.Sweep(now)
			svc.metric.Sessions.Set(float64(svc.sessions.Len()))
			if evicted > 0 {
				logger.Info().Int("evicted", evicted).Msg("evicted idle sessions")
			}
		}
	}
}

func (svc *CartService) FindCart(c context.Context, sessionID string) response.Cart {
	_, span := otel.Tracer.Start(c, "CartService FindCart")
	defer span.End()

	s := svc.lookup(sessionID)
	return s.Snapshot().Response()
}

func (svc *CartService) Summary(c context.Context, sessionID string) response.Summary {
	_, span := otel.Tracer.Start(c, "CartService Summary")
	defer span.End()

	s := svc.lookup(sessionID)
	return s.Summary().Response()
}

// AddItem resolves the product through the catalog and adds it to the cart.
// The cart is left untouched when the product cannot be resolved.
func (svc *CartService) AddItem(
	c context.Context,
	sessionID string,
	req request.AddItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()
	span.SetAttributes(
		attribute.Int(log.KeyProductID, req.ProductID),
		attribute.Int(log.KeyQuantity, int(req.Quantity)),
	)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Int(log.KeyProductID, req.ProductID).
		Int(log.KeyQuantity, int(req.Quantity)).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "resolving product").Logger()
	logger.Trace().Msg("resolving product")
	c = logger.WithContext(c)
	product, err := svc.catalog.GetProduct(c, req.ProductID)
	if err != nil {
		err = fmt.Errorf("failed resolving productId=%d with error=%w", req.ProductID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Trace().Msg("resolved product")

	s := svc.store(sessionID)
	s.AddToCart(product, int(req.Quantity))
	svc.metric.Operations.WithLabelValues(metric.OperationAdd).Inc()
	logger.Info().Msg("added product to cart")

	return s.Snapshot().Response(), nil
}

// UpdateItem sets the quantity of a line already in the cart.
func (svc *CartService) UpdateItem(
	c context.Context,
	sessionID string,
	productID int,
	req request.UpdateItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateItem").
		Int(log.KeyProductID, productID).
		Int(log.KeyQuantity, int(req.Quantity)).
		Logger()

	s := svc.lookup(sessionID)
	if !s.UpdateQuantity(productID, int(req.Quantity)) {
		err := fmt.Errorf("failed updating productId=%d with error=%w", productID, inErrors.ErrLineNotFound)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	svc.metric.Operations.WithLabelValues(metric.OperationUpdate).Inc()
	logger.Info().Msg("updated quantity")

	return s.Snapshot().Response(), nil
}

// RemoveItem removes a line. Removing a product that is not in the cart
// succeeds without changing anything.
func (svc *CartService) RemoveItem(
	c context.Context,
	sessionID string,
	productID int,
) response.Cart {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Int(log.KeyProductID, productID).
		Logger()

	s := svc.lookup(sessionID)
	s.RemoveFromCart(productID)
	svc.metric.Operations.WithLabelValues(metric.OperationRemove).Inc()
	logger.Info().Msg("removed product from cart")

	return s.Snapshot().Response()
}

// Watch sends the badge of the session's cart to fn now and after every
// change, until the returned func is called.
func (svc *CartService) Watch(
	c context.Context,
	sessionID string,
	fn func(response.Badge),
) (stop func()) {
	_, span := otel.Tracer.Start(c, "CartService Watch")
	defer span.End()

	s := svc.store(sessionID)
	unsubscribe := s.Subscribe(func(snapshot store.Snapshot) { fn(snapshot.Badge()) })
	fn(s.Snapshot().Badge())
	svc.metric.Streams.Inc()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			svc.metric.Streams.Dec()
		})
	}
}
