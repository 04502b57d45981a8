package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/portfolio/internal/otel"
	"github.com/Alturino/storefront/portfolio/pkg/request"
)

// Sender posts contact form submissions to a remote endpoint, once.
type Sender struct {
	endpoint string
	http     *http.Client
}

func NewSender(endpoint string, timeout time.Duration) *Sender {
	return NewSenderWithHTTP(endpoint, inHttp.NewClient(timeout))
}

func NewSenderWithHTTP(endpoint string, httpClient *http.Client) *Sender {
	return &Sender{endpoint: endpoint, http: httpClient}
}

func (s *Sender) Send(c context.Context, form request.ContactForm) error {
	c, span := otel.Tracer.Start(c, "contact Sender Send")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "contact Sender Send").
		Str(log.KeyEndpoint, s.endpoint).
		Logger()

	body, err := json.Marshal(form)
	if err != nil {
		err = fmt.Errorf("failed encoding contact form with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	req, err := http.NewRequestWithContext(c, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		err = fmt.Errorf("failed creating request to %s with error=%w", s.endpoint, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set(inHttp.KeyHeaderContentType, inHttp.ValueHeaderApplicationJson)
	inHttp.PropagateRequestID(c, req)

	logger = logger.With().Str(log.KeyProcess, "sending contact form").Logger()
	logger.Trace().Msg("sending contact form")
	resp, err := s.http.Do(req)
	if err != nil {
		err = fmt.Errorf("failed sending contact form with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = fmt.Errorf("contact endpoint answered statusCode=%d with error=%w", resp.StatusCode, inErrors.ErrUpstream)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Int(log.KeyStatusCode, resp.StatusCode).Msg(err.Error())
		return err
	}
	logger.Info().Msg("sent contact form")

	return nil
}
