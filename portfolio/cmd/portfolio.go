package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Alturino/storefront/internal/common/constants"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/server"
	"github.com/Alturino/storefront/portfolio/internal/contact"
	"github.com/Alturino/storefront/portfolio/internal/controller"
	"github.com/Alturino/storefront/portfolio/internal/otel"
	"github.com/Alturino/storefront/portfolio/internal/repository"
	"github.com/Alturino/storefront/portfolio/internal/service"
)

func RunPortfolioService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunPortfolioService")
	defer span.End()

	logger := log.InitLogger(fmt.Sprintf("/var/log/%s.log", constants.AppPortfolioService)).
		With().
		Str(log.KeyAppName, constants.AppPortfolioService).
		Str(log.KeyTag, "main RunPortfolioService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.AppPortfolioService)
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.AppPortfolioService, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized otel sdk")
	defer func() {
		logger.Info().Msg("shutting down otel")
		c, cancel := context.WithTimeout(context.WithoutCancel(c), 5*time.Second)
		defer cancel()
		if err := inOtel.ShutdownOtel(c, shutdownFuncs); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	db, err := infra.NewDatabaseClient(c, cfg.Database)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized database")
	defer func() {
		logger.Info().Msg("shutting down database connection")
		db.Close()
		logger.Info().Msg("shutdown database connection")
	}()

	logger = logger.With().
		Str(log.KeyProcess, "initializing portfolioService").
		Str(log.KeyEndpoint, cfg.Contact.Endpoint).
		Logger()
	logger.Info().Msg("initializing portfolioService")
	portfolioService := service.NewPortfolioService(
		repository.NewProjectRepository(db),
		contact.NewSender(cfg.Contact.Endpoint, cfg.Contact.Timeout),
	)
	logger.Info().Msg("initialized portfolioService")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	router := server.NewRouter(constants.AppPortfolioService)
	controller.AttachPortfolioController(router, portfolioService)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "serving").Logger()
	c = logger.WithContext(c)
	if err := server.Serve(c, cfg.Application, router); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("server completely shutdown")
}
