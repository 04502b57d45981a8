package http

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/storefront/internal/log"
)

// NewClient returns an instrumented client for calls to other services.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	}
}

// PropagateRequestID copies the request id of c onto an outgoing request.
func PropagateRequestID(c context.Context, req *http.Request) {
	if id := log.RequestIDFromContext(c); id != "" {
		req.Header.Set(KeyHeaderRequestID, id)
	}
}
