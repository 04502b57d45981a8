package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	inRepository "github.com/Alturino/storefront/internal/repository"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/pkg/response"
)

const (
	findProducts = `-- name: FindProducts :many
SELECT id, title, description, price, category, image, rating_rate, rating_count
FROM products
ORDER BY id`

	findProductByID = `-- name: FindProductByID :one
SELECT id, title, description, price, category, image, rating_rate, rating_count
FROM products
WHERE id = $1`

	findCategories = `-- name: FindCategories :many
SELECT category
FROM products
GROUP BY category
ORDER BY MIN(id)`
)

type productRow struct {
	ID          int32
	Title       string
	Description string
	Price       pgtype.Numeric
	Category    string
	Image       string
	RatingRate  float64
	RatingCount int32
}

func (p productRow) Response() response.Product {
	return response.Product{
		ID:          int(p.ID),
		Title:       p.Title,
		Description: p.Description,
		Price:       decimal.NewFromBigInt(p.Price.Int, p.Price.Exp),
		Category:    p.Category,
		Image:       p.Image,
		Rating:      response.Rating{Rate: p.RatingRate, Count: int(p.RatingCount)},
	}
}

func scanProduct(row pgx.Row) (response.Product, error) {
	p := productRow{}
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.Image,
		&p.RatingRate,
		&p.RatingCount,
	)
	if err != nil {
		return response.Product{}, err
	}
	return p.Response(), nil
}

// ProductRepository serves the catalog from PostgreSQL.
type ProductRepository struct {
	db inRepository.DBTX
}

func NewProductRepository(db inRepository.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) ListProducts(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductRepository ListProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductRepository ListProducts").
		Str(log.KeyProcess, "finding products in database").
		Logger()

	logger.Trace().Msg("finding products in database")
	rows, err := r.db.Query(c, findProducts)
	if err != nil {
		err = fmt.Errorf("failed finding products in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	defer rows.Close()

	products := []response.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			err = fmt.Errorf("failed scanning product with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("failed iterating products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Int("count", len(products)).Msg("found products in database")

	return products, nil
}

func (r *ProductRepository) ListCategories(c context.Context) ([]string, error) {
	c, span := otel.Tracer.Start(c, "ProductRepository ListCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductRepository ListCategories").
		Str(log.KeyProcess, "finding categories in database").
		Logger()

	rows, err := r.db.Query(c, findCategories)
	if err != nil {
		err = fmt.Errorf("failed finding categories in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		err = fmt.Errorf("failed collecting categories with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Strs("categories", categories).Msg("found categories in database")

	return categories, nil
}

func (r *ProductRepository) GetProduct(c context.Context, id int) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductRepository GetProduct")
	defer span.End()
	span.SetAttributes(attribute.Int(log.KeyProductID, id))

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductRepository GetProduct").
		Str(log.KeyProcess, "finding product in database").
		Int(log.KeyProductID, id).
		Logger()

	product, err := scanProduct(r.db.QueryRow(c, findProductByID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Info().Msg("product not found in database")
		return response.Product{}, inErrors.ErrProductNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed finding product in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Trace().Msg("found product in database")

	return product, nil
}
