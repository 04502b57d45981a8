package log

const (
	KeyAppName    = "app"
	KeyCacheKey   = "cacheKey"
	KeyCategory   = "category"
	KeyConfig     = "config"
	KeyDbURL      = "dbUrl"
	KeyEndpoint   = "endpoint"
	KeyFilter     = "filter"
	KeyProcess    = "process"
	KeyProductID  = "productId"
	KeyProducts   = "products"
	KeyProduct    = "product"
	KeyProjectID  = "projectId"
	KeyQuantity   = "quantity"
	KeySessionID  = "sessionId"
	KeySpanID     = "spanId"
	KeyStatusCode = "statusCode"
	KeyTag        = "tag"
	KeyTraceID    = "traceId"

	KeyRequest       = "request"
	KeyRequestBody   = "requestBody"
	KeyRequestHeader = "requestHeader"
	KeyRequestHost   = "host"
	KeyRequestID     = "requestId"
	KeyRequestIP     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
)
