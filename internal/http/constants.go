package http

const (
	KeyHeaderContentType  = "Content-Type"
	KeyHeaderRequestID    = "X-Request-Id"
	KeyHeaderSessionToken = "X-Session-Token"
	KeyHeaderAuth         = "Authorization"

	ValueHeaderApplicationJson = "application/json"
	ValueHeaderEventStream     = "text/event-stream"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)
