package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	inRepository "github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/portfolio/internal/otel"
	"github.com/Alturino/storefront/portfolio/pkg/response"
)

const (
	findProjects = `-- name: FindProjects :many
SELECT id, title, description, image, tags, demo_url, repo_url
FROM projects
ORDER BY id`

	findProjectByID = `-- name: FindProjectByID :one
SELECT id, title, description, image, tags, demo_url, repo_url
FROM projects
WHERE id = $1`
)

type projectRow struct {
	ID          int32    `db:"id"`
	Title       string   `db:"title"`
	Description string   `db:"description"`
	Image       string   `db:"image"`
	Tags        []string `db:"tags"`
	DemoURL     *string  `db:"demo_url"`
	RepoURL     *string  `db:"repo_url"`
}

func (p projectRow) Response() response.Project {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return response.Project{
		ID:          int(p.ID),
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Tags:        tags,
		DemoURL:     p.DemoURL,
		RepoURL:     p.RepoURL,
	}
}

type ProjectRepository struct {
	db inRepository.DBTX
}

func NewProjectRepository(db inRepository.DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) ListProjects(c context.Context) ([]response.Project, error) {
	c, span := otel.Tracer.Start(c, "ProjectRepository ListProjects")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProjectRepository ListProjects").
		Str(log.KeyProcess, "finding projects in database").
		Logger()

	rows, err := r.db.Query(c, findProjects)
	if err != nil {
		err = fmt.Errorf("failed finding projects in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	projects, err := pgx.CollectRows(rows, pgx.RowToStructByName[projectRow])
	if err != nil {
		err = fmt.Errorf("failed collecting projects with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Int("count", len(projects)).Msg("found projects in database")

	result := make([]response.Project, len(projects))
	for i, p := range projects {
		result[i] = p.Response()
	}
	return result, nil
}

func (r *ProjectRepository) GetProject(c context.Context, id int) (response.Project, error) {
	c, span := otel.Tracer.Start(c, "ProjectRepository GetProject")
	defer span.End()
	span.SetAttributes(attribute.Int(log.KeyProjectID, id))

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProjectRepository GetProject").
		Str(log.KeyProcess, "finding project in database").
		Int(log.KeyProjectID, id).
		Logger()

	rows, err := r.db.Query(c, findProjectByID, id)
	if err != nil {
		err = fmt.Errorf("failed finding project in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Project{}, err
	}

	project, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[projectRow])
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Info().Msg("project not found in database")
		return response.Project{}, inErrors.ErrProjectNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed collecting project with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Project{}, err
	}
	logger.Trace().Msg("found project in database")

	return project.Response(), nil
}
