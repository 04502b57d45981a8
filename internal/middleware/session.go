package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/session"
)

// Session resolves the cart session of a request from its bearer token, or
// the token query parameter when no header is sent. A
// request without a token starts a new session whose token is returned in the
// X-Session-Token header.
func Session(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := otel.Tracer.Start(r.Context(), "middleware Session")
			defer span.End()

			logger := zerolog.Ctx(c).With().Str(log.KeyTag, "middleware Session").Logger()

			authorization := r.Header.Get(inHttp.KeyHeaderAuth)
			token, found := strings.CutPrefix(authorization, "Bearer ")
			if !found {
				token, _ = strings.CutPrefix(authorization, "bearer ")
			}
			if token == "" {
				// EventSource cannot set headers.
				token = r.URL.Query().Get("token")
			}

			var (
				id  string
				err error
			)
			if token == "" {
				logger = logger.With().Str(log.KeyProcess, "issuing session").Logger()
				id, token, err = session.Issue(secret, time.Now())
				if err != nil {
					err = fmt.Errorf("failed issuing session with error=%w", err)
					otel.RecordError(err, span)
					logger.Error().Err(err).Msg(err.Error())
					inHttp.WriteFailed(c, w, http.StatusInternalServerError, err)
					return
				}
				w.Header().Set(inHttp.KeyHeaderSessionToken, token)
				logger.Info().Str(log.KeySessionID, id).Msg("issued session")
			} else {
				logger = logger.With().Str(log.KeyProcess, "verifying session").Logger()
				id, err = session.Verify(secret, token)
				if err != nil {
					otel.RecordError(err, span)
					logger.Error().Err(err).Msg(err.Error())
					inHttp.WriteFailed(c, w, http.StatusUnauthorized, err)
					return
				}
				logger.Trace().Str(log.KeySessionID, id).Msg("verified session")
			}

			logger = logger.With().Str(log.KeySessionID, id).Logger()
			c = logger.WithContext(session.AttachToContext(c, id))
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
