package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/portfolio/internal/otel"
	"github.com/Alturino/storefront/portfolio/internal/service"
	"github.com/Alturino/storefront/portfolio/pkg/request"
)

type PortfolioController struct {
	service  *service.PortfolioService
	validate *validator.Validate
}

func AttachPortfolioController(router *mux.Router, service *service.PortfolioService) {
	controller := PortfolioController{
		service:  service,
		validate: validate.New(),
	}

	router.HandleFunc("/projects", controller.FindProjects).Methods(http.MethodGet)
	router.HandleFunc("/projects/{projectId}", controller.FindProject).Methods(http.MethodGet)
	router.HandleFunc("/contact", controller.SendContact).Methods(http.MethodPost)
}

func (ctrl PortfolioController) FindProjects(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "PortfolioController FindProjects")
	defer span.End()

	tag := r.URL.Query().Get("tag")
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PortfolioController FindProjects").
		Str("filter", tag).
		Logger()

	c = logger.WithContext(c)
	projects, err := ctrl.service.FindProjects(c, tag)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadGateway, errors.New(service.MessageFetchFailed))
		return
	}
	if tag == "" {
		tag = service.TagAll
	}

	inHttp.WriteSuccess(c, w, "projects found", map[string]interface{}{
		"projects": projects,
		"filters":  service.Filters,
		"tag":      tag,
	})
}

func (ctrl PortfolioController) FindProject(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "PortfolioController FindProject")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PortfolioController FindProject").
		Logger()

	raw := mux.Vars(r)["projectId"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		err = fmt.Errorf("invalid projectId=%q with error=%w", raw, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}

	c = logger.WithContext(c)
	project, err := ctrl.service.FindProject(c, id)
	if errors.Is(err, inErrors.ErrProjectNotFound) {
		inHttp.WriteFailed(c, w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadGateway, errors.New(service.MessageFetchFailed))
		return
	}

	inHttp.WriteSuccess(c, w, fmt.Sprintf("project id=%d found", id), map[string]interface{}{
		"project": project,
	})
}

func (ctrl PortfolioController) SendContact(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "PortfolioController SendContact")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PortfolioController SendContact").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	form := request.ContactForm{}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	if err := ctrl.validate.StructCtx(c, form); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "sending contact form").Logger()
	c = logger.WithContext(c)
	status := ctrl.service.SendContact(c, form)
	if !status.Success {
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     inHttp.StatusFailed,
			"statusCode": http.StatusBadGateway,
			"message":    status.Message,
			"data":       map[string]interface{}{"contact": status},
		})
		return
	}

	inHttp.WriteSuccess(c, w, status.Message, map[string]interface{}{"contact": status})
}
