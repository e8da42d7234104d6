package ports

import (
	"context"
	"salesapi/internal/types"
)

// SaleStore is an append-only log of sales. It does not check references;
// callers go through the registrar for that.
type SaleStore interface {
	AppendSale(ctx context.Context, s types.Sale) (types.Sale, error)

	// ListSales returns all sales in insertion order.
	ListSales(ctx context.Context) ([]types.Sale, error)

	// ClearAll purges all sale records. Used in tests only.
	ClearAll(ctx context.Context) error
}

// Stores bundles the three stores of one backend.
type Stores struct {
	Clients  ClientStore
	Products ProductStore
	Sales    SaleStore
}

// ClearAll purges every store in the bundle.
func (s Stores) ClearAll(ctx context.Context) error {
	if err := s.Clients.ClearAll(ctx); err != nil {
		return err
	}
	if err := s.Products.ClearAll(ctx); err != nil {
		return err
	}
	return s.Sales.ClearAll(ctx)
}
