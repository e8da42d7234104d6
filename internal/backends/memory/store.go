// Package memory keeps records in process memory. It is the default backend
// and the one the API tests run against.
package memory

import (
	"context"
	"sync"

	"salesapi/internal/types"
)

// table is an insertion-ordered map guarded by a RWMutex.
type table[V any] struct {
	mu    sync.RWMutex
	order []string
	m     map[string]V
}

func newTable[V any]() *table[V] {
	return &table[V]{m: make(map[string]V)}
}

func (t *table[V]) put(id string, v V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.m[id]; !ok {
		t.order = append(t.order, id)
	}
	t.m[id] = v
}

func (t *table[V]) get(id string) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.m[id]
	return v, ok
}

func (t *table[V]) list() []V {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]V, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.m[id])
	}
	return out
}

func (t *table[V]) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.order = nil
	t.m = make(map[string]V)
}

type ClientStore struct{ t *table[types.Client] }

func NewClientStore() *ClientStore {
	return &ClientStore{t: newTable[types.Client]()}
}

func (s *ClientStore) CreateClient(_ context.Context, c types.Client) (types.Client, error) {
	c.ID = types.NewID()
	s.t.put(c.ID, c)
	return c, nil
}

func (s *ClientStore) GetClient(_ context.Context, id string) (types.Client, error) {
	c, ok := s.t.get(id)
	if !ok {
		return types.Client{}, types.ErrNotFound
	}
	return c, nil
}

func (s *ClientStore) ListClients(context.Context) ([]types.Client, error) {
	return s.t.list(), nil
}

func (s *ClientStore) ClearAll(context.Context) error {
	s.t.clear()
	return nil
}

type ProductStore struct{ t *table[types.Product] }

func NewProductStore() *ProductStore {
	return &ProductStore{t: newTable[types.Product]()}
}

func (s *ProductStore) CreateProduct(_ context.Context, p types.Product) (types.Product, error) {
	p.ID = types.NewID()
	s.t.put(p.ID, p)
	return p, nil
}

func (s *ProductStore) GetProduct(_ context.Context, id string) (types.Product, error) {
	p, ok := s.t.get(id)
	if !ok {
		return types.Product{}, types.ErrNotFound
	}
	return p, nil
}

func (s *ProductStore) ListProducts(context.Context) ([]types.Product, error) {
	return s.t.list(), nil
}

func (s *ProductStore) ClearAll(context.Context) error {
	s.t.clear()
	return nil
}

type SaleStore struct{ t *table[types.Sale] }

func NewSaleStore() *SaleStore {
	return &SaleStore{t: newTable[types.Sale]()}
}

func (s *SaleStore) AppendSale(_ context.Context, sale types.Sale) (types.Sale, error) {
	sale.ID = types.NewID()
	s.t.put(sale.ID, sale)
	return sale, nil
}

func (s *SaleStore) ListSales(context.Context) ([]types.Sale, error) {
	return s.t.list(), nil
}

func (s *SaleStore) ClearAll(context.Context) error {
	s.t.clear()
	return nil
}
