// Package catalog is the read side of the product data: product lists,
// category names and single products by id.
package catalog

import (
	"context"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/product/pkg/response"
)

// ErrProductNotFound is the absent result of GetProduct.
var ErrProductNotFound = inErrors.ErrProductNotFound

type Catalog interface {
	ListProducts(c context.Context) ([]response.Product, error)
	// ListCategories returns each category name once.
	ListCategories(c context.Context) ([]string, error)
	GetProduct(c context.Context, id int) (response.Product, error)
}
