package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/internal/service"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/middleware"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/internal/session"
)

const eventHeartbeat = 15 * time.Second

type CartController struct {
	service  *service.CartService
	validate *validator.Validate
}

func AttachCartController(router *mux.Router, service *service.CartService, secret string) {
	controller := CartController{
		service:  service,
		validate: validate.New(),
	}

	cartRouter := router.PathPrefix("/cart").Subrouter()
	cartRouter.Use(middleware.Session(secret))
	cartRouter.HandleFunc("", controller.FindCart).Methods(http.MethodGet)
	cartRouter.HandleFunc("/summary", controller.Summary).Methods(http.MethodGet)
	cartRouter.HandleFunc("/events", controller.Events).Methods(http.MethodGet)
	cartRouter.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	cartRouter.HandleFunc("/items/{productId}", controller.UpdateItem).Methods(http.MethodPut)
	cartRouter.HandleFunc("/items/{productId}", controller.RemoveItem).Methods(http.MethodDelete)
}

func (ctrl CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindCart")
	defer span.End()

	sessionID, ok := session.FromContext(c)
	if !ok {
		inHttp.WriteFailed(c, w, http.StatusUnauthorized, inErrors.ErrEmptySession)
		return
	}

	cart := ctrl.service.FindCart(c, sessionID)
	inHttp.WriteSuccess(c, w, "cart found", map[string]interface{}{"cart": cart})
}

func (ctrl CartController) Summary(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Summary")
	defer span.End()

	sessionID, ok := session.FromContext(c)
	if !ok {
		inHttp.WriteFailed(c, w, http.StatusUnauthorized, inErrors.ErrEmptySession)
		return
	}

	summary := ctrl.service.Summary(c, sessionID)
	inHttp.WriteSuccess(c, w, "summary found", map[string]interface{}{"summary": summary})
}

func (ctrl CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddItem").
		Logger()

	sessionID, ok := session.FromContext(c)
	if !ok {
		inHttp.WriteFailed(c, w, http.StatusUnauthorized, inErrors.ErrEmptySession)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Trace().Msg("decoding requestbody")
	reqBody := request.AddItem{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Trace().Msg("decoded requestbody")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	if err := ctrl.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "adding item").Logger()
	c = logger.WithContext(c)
	cart, err := ctrl.service.AddItem(c, sessionID, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusBadGateway
		if errors.Is(err, inErrors.ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		inHttp.WriteFailed(c, w, statusCode, err)
		return
	}
	logger.Info().Msg("added item")

	inHttp.WriteSuccess(c, w, "added to cart", map[string]interface{}{"cart": cart})
}

func (ctrl CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateItem").
		Logger()

	sessionID, ok := session.FromContext(c)
	if !ok {
		inHttp.WriteFailed(c, w, http.StatusUnauthorized, inErrors.ErrEmptySession)
		return
	}

	productID, err := productID(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}

	reqBody := request.UpdateItem{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}

	c = logger.WithContext(c)
	cart, err := ctrl.service.UpdateItem(c, sessionID, productID, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusNotFound, err)
		return
	}

	inHttp.WriteSuccess(c, w, "quantity updated", map[string]interface{}{"cart": cart})
}

func (ctrl CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveItem").
		Logger()

	sessionID, ok := session.FromContext(c)
	if !ok {
		inHttp.WriteFailed(c, w, http.StatusUnauthorized, inErrors.ErrEmptySession)
		return
	}

	productID, err := productID(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}

	c = logger.WithContext(c)
	cart := ctrl.service.RemoveItem(c, sessionID, productID)
	inHttp.WriteSuccess(c, w, "removed from cart", map[string]interface{}{"cart": cart})
}

// Events streams the cart badge as server-sent events until the client goes
// away. Badges older than one already sent are skipped.
func (ctrl CartController) Events(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Events")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController Events").
		Logger()

	sessionID, ok := session.FromContext(c)
	if !ok {
		inHttp.WriteFailed(c, w, http.StatusUnauthorized, inErrors.ErrEmptySession)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		err := errors.New("streaming unsupported")
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusInternalServerError, err)
		return
	}

	var (
		mu     sync.Mutex
		latest response.Badge
		seen   bool
	)
	signal := make(chan struct{}, 1)
	stop := ctrl.service.Watch(c, sessionID, func(badge response.Badge) {
		mu.Lock()
		if !seen || badge.Version > latest.Version {
			latest, seen = badge, true
		}
		mu.Unlock()
		select {
		case signal <- struct{}{}:
		default:
		}
	})
	defer stop()

	w.Header().Set(inHttp.KeyHeaderContentType, inHttp.ValueHeaderEventStream)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	logger.Info().Msg("opened event stream")

	heartbeat := time.NewTicker(eventHeartbeat)
	defer heartbeat.Stop()

	var sent uint64
	first := true
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("closed event stream")
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-signal:
			mu.Lock()
			badge := latest
			mu.Unlock()
			if !first && badge.Version <= sent {
				continue
			}
			data, err := json.Marshal(badge)
			if err != nil {
				inOtel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				return
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: cart\ndata: %s\n\n", badge.Version, data); err != nil {
				return
			}
			flusher.Flush()
			sent, first = badge.Version, false
		}
	}
}

func productID(r *http.Request) (int, error) {
	raw := mux.Vars(r)["productId"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid productId=%q with error=%w", raw, err)
	}
	return id, nil
}
