package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/storefront/internal/load"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/portfolio/internal/otel"
	"github.com/Alturino/storefront/portfolio/pkg/request"
	"github.com/Alturino/storefront/portfolio/pkg/response"
)

const (
	TagAll = "All"

	MessageContactSent   = "Your message has been sent successfully! I will get back to you soon."
	MessageContactFailed = "There was an error sending your message. Please try again later."
	MessageFetchFailed   = "Failed to fetch projects. Please try again later."
)

// Filters are the tags offered by the projects filter bar.
var Filters = []string{TagAll, "Frontend", "Full Stack", "Mobile", "API"}

type ProjectSource interface {
	ListProjects(c context.Context) ([]response.Project, error)
	GetProject(c context.Context, id int) (response.Project, error)
}

type ContactSender interface {
	Send(c context.Context, form request.ContactForm) error
}

type PortfolioService struct {
	projects ProjectSource
	sender   ContactSender
}

func NewPortfolioService(projects ProjectSource, sender ContactSender) *PortfolioService {
	return &PortfolioService{projects: projects, sender: sender}
}

// FindProjects returns the projects carrying tag. An empty tag or TagAll
// matches every project. The load is abandoned if c ends first.
func (svc *PortfolioService) FindProjects(c context.Context, tag string) ([]response.Project, error) {
	c, span := otel.Tracer.Start(c, "PortfolioService FindProjects")
	defer span.End()
	span.SetAttributes(attribute.String("tag", tag))

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PortfolioService FindProjects").
		Str("filter", tag).
		Logger()

	task := load.Start(c, svc.projects.ListProjects)
	defer task.Close()

	logger = logger.With().Str(log.KeyProcess, "loading projects").Logger()
	projects, err := task.Wait(c)
	if err != nil {
		err = fmt.Errorf("failed loading projects with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	if tag == "" || tag == TagAll {
		return projects, nil
	}
	filtered := []response.Project{}
	for _, p := range projects {
		if p.HasTag(tag) {
			filtered = append(filtered, p)
		}
	}
	logger.Trace().Int("count", len(filtered)).Msg("filtered projects")
	return filtered, nil
}

func (svc *PortfolioService) FindProject(c context.Context, id int) (response.Project, error) {
	c, span := otel.Tracer.Start(c, "PortfolioService FindProject")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PortfolioService FindProject").
		Int(log.KeyProjectID, id).
		Logger()

	project, err := svc.projects.GetProject(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding project with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Project{}, err
	}
	return project, nil
}

// SendContact forwards the form once. A failed send is reported through the
// returned status, never retried.
func (svc *PortfolioService) SendContact(c context.Context, form request.ContactForm) response.ContactStatus {
	c, span := otel.Tracer.Start(c, "PortfolioService SendContact")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PortfolioService SendContact").
		Logger()

	if err := svc.sender.Send(c, form); err != nil {
		err = fmt.Errorf("failed sending contact form with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.ContactStatus{Success: false, Message: MessageContactFailed}
	}
	logger.Info().Msg("sent contact form")
	return response.ContactStatus{Success: true, Message: MessageContactSent}
}
