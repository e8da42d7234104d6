package ports

import (
	"context"
	"salesapi/internal/types"
)

// ProductStore holds product records.
type ProductStore interface {
	CreateProduct(ctx context.Context, p types.Product) (types.Product, error)

	// GetProduct MUST return types.ErrNotFound if the product does not exist.
	GetProduct(ctx context.Context, id string) (types.Product, error)

	// ListProducts returns all products in insertion order.
	ListProducts(ctx context.Context) ([]types.Product, error)

	// ClearAll purges all product records. Used in tests only.
	ClearAll(ctx context.Context) error
}
