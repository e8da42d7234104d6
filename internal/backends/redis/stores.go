package redis

import (
	"context"

	"salesapi/internal/types"

	"github.com/redis/go-redis/v9"
)

type ClientStore struct {
	r records[types.Client]
}

func NewClientStore(cli *redis.Client) *ClientStore {
	return &ClientStore{r: records[types.Client]{cli: cli, kind: types.KindClient}}
}

func (s *ClientStore) CreateClient(ctx context.Context, c types.Client) (types.Client, error) {
	c.ID = types.NewID()
	if err := s.r.put(ctx, c.ID, c); err != nil {
		return types.Client{}, err
	}
	return c, nil
}

func (s *ClientStore) GetClient(ctx context.Context, id string) (types.Client, error) {
	return s.r.get(ctx, id)
}

func (s *ClientStore) ListClients(ctx context.Context) ([]types.Client, error) {
	return s.r.list(ctx)
}

func (s *ClientStore) ClearAll(ctx context.Context) error {
	return s.r.clear(ctx)
}

type ProductStore struct {
	r records[types.Product]
}

func NewProductStore(cli *redis.Client) *ProductStore {
	return &ProductStore{r: records[types.Product]{cli: cli, kind: types.KindProduct}}
}

func (s *ProductStore) CreateProduct(ctx context.Context, p types.Product) (types.Product, error) {
	p.ID = types.NewID()
	if err := s.r.put(ctx, p.ID, p); err != nil {
		return types.Product{}, err
	}
	return p, nil
}

func (s *ProductStore) GetProduct(ctx context.Context, id string) (types.Product, error) {
	return s.r.get(ctx, id)
}

func (s *ProductStore) ListProducts(ctx context.Context) ([]types.Product, error) {
	return s.r.list(ctx)
}

func (s *ProductStore) ClearAll(ctx context.Context) error {
	return s.r.clear(ctx)
}

type SaleStore struct {
	r records[types.Sale]
}

func NewSaleStore(cli *redis.Client) *SaleStore {
	return &SaleStore{r: records[types.Sale]{cli: cli, kind: types.KindSale}}
}

func (s *SaleStore) AppendSale(ctx context.Context, sale types.Sale) (types.Sale, error) {
	sale.ID = types.NewID()
	if err := s.r.put(ctx, sale.ID, sale); err != nil {
		return types.Sale{}, err
	}
	return sale, nil
}

func (s *SaleStore) ListSales(ctx context.Context) ([]types.Sale, error) {
	return s.r.list(ctx)
}

func (s *SaleStore) ClearAll(ctx context.Context) error {
	return s.r.clear(ctx)
}
