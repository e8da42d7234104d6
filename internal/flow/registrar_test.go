package flow

import (
	"context"
	"errors"
	"time"

	"salesapi/internal/types"

	"github.com/goccy/go-json"
)

func (s *UnitTestSuite) seed() (types.Client, types.Product) {
	ctx := context.Background()
	c, err := s.stores.Clients.CreateClient(ctx, types.Client{Name: "Cliente Venta"})
	s.Require().NoError(err)
	p, err := s.stores.Products.CreateProduct(ctx, types.Product{Name: "Mouse", Price: 25.0})
	s.Require().NoError(err)
	return c, p
}

func (s *UnitTestSuite) TestRecordSale() {
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	SetTimeNowFn(func() time.Time { return now })
	c, p := s.seed()

	sale, err := s.registrar.RecordSale(ctx, SaleRequest{ClientID: c.ID, ProductID: p.ID, Quantity: 3})
	s.NoError(err)
	s.NotEmpty(sale.ID)
	s.Equal(3, sale.Quantity)

	sales, err := s.stores.Sales.ListSales(ctx)
	s.NoError(err)
	s.Equal([]types.Sale{sale}, sales)

	s.Equal(1, s.publisher.Count())
	var ev types.SaleEvent
	s.NoError(json.Unmarshal(s.publisher.payloads[0], &ev))
	s.Equal(types.EventSaleRecorded, ev.Type)
	s.Equal(sale, ev.Sale)
	s.True(now.Equal(ev.RecordedAt))
}

func (s *UnitTestSuite) TestRecordSaleInvalidReferences() {
	ctx := context.Background()
	c, p := s.seed()

	cases := []SaleRequest{
		{ClientID: "no-existe", ProductID: "no-existe", Quantity: 1},
		{ClientID: c.ID, ProductID: "no-existe", Quantity: 1},
		{ClientID: "no-existe", ProductID: p.ID, Quantity: 1},
		// IDs of the wrong kind do not resolve
		{ClientID: p.ID, ProductID: c.ID, Quantity: 1},
	}
	for _, req := range cases {
		_, err := s.registrar.RecordSale(ctx, req)
		s.True(errors.Is(err, types.ErrInvalidReference), "request %+v", req)
	}

	sales, err := s.stores.Sales.ListSales(ctx)
	s.NoError(err)
	s.Empty(sales)
	s.Equal(0, s.publisher.Count())
}

func (s *UnitTestSuite) TestRecordSaleQuantityDoesNotAffectReferenceCheck() {
	ctx := context.Background()
	c, p := s.seed()

	cases := []SaleRequest{
		{ClientID: "no-existe", ProductID: "no-existe", Quantity: 0},
		{ClientID: "no-existe", ProductID: p.ID, Quantity: -2},
		{ClientID: "", ProductID: p.ID, Quantity: 1},
		{ClientID: c.ID, ProductID: "", Quantity: 1},
	}
	for _, req := range cases {
		_, err := s.registrar.RecordSale(ctx, req)
		s.True(errors.Is(err, types.ErrInvalidReference), "request %+v", req)
	}

	sale, err := s.registrar.RecordSale(ctx, SaleRequest{ClientID: c.ID, ProductID: p.ID, Quantity: 0})
	s.NoError(err)
	s.Equal(0, sale.Quantity)

	sales, err := s.stores.Sales.ListSales(ctx)
	s.NoError(err)
	s.Equal([]types.Sale{sale}, sales)
	s.Equal(1, s.publisher.Count())
}

type ctxCheckingPublisher struct {
	err error
}

func (p *ctxCheckingPublisher) PublishRaw(ctx context.Context, _ string, _ []byte) error {
	p.err = ctx.Err()
	return p.err
}

func (s *UnitTestSuite) TestPublishOutlivesCancelledRequest() {
	c, p := s.seed()
	pub := &ctxCheckingPublisher{}
	r := NewRegistrar(s.stores, pub, "sales")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.RecordSale(ctx, SaleRequest{ClientID: c.ID, ProductID: p.ID, Quantity: 1})
	s.NoError(err)
	s.NoError(pub.err)
}

func (s *UnitTestSuite) TestPublishFailureKeepsSale() {
	ctx := context.Background()
	c, p := s.seed()
	s.publisher.err = errors.New("broker down")

	_, err := s.registrar.RecordSale(ctx, SaleRequest{ClientID: c.ID, ProductID: p.ID, Quantity: 2})
	s.NoError(err)

	sales, err := s.stores.Sales.ListSales(ctx)
	s.NoError(err)
	s.Len(sales, 1)
}

func (s *UnitTestSuite) TestReferenceLookupsAreCached() {
	ctx := context.Background()
	c, p := s.seed()
	_, err := s.registrar.RecordSale(ctx, SaleRequest{ClientID: c.ID, ProductID: p.ID, Quantity: 1})
	s.NoError(err)

	// Wiping the stores behind the registrar's back: cached references still resolve.
	s.NoError(s.stores.Clients.ClearAll(ctx))
	_, err = s.registrar.RecordSale(ctx, SaleRequest{ClientID: c.ID, ProductID: p.ID, Quantity: 1})
	s.NoError(err)

	s.registrar.InvalidateCache()
	_, err = s.registrar.RecordSale(ctx, SaleRequest{ClientID: c.ID, ProductID: p.ID, Quantity: 1})
	s.True(errors.Is(err, types.ErrInvalidReference))
}

type failingClients struct{}

func (failingClients) CreateClient(context.Context, types.Client) (types.Client, error) {
	return types.Client{}, errors.New("unused")
}
func (failingClients) GetClient(context.Context, string) (types.Client, error) {
	return types.Client{}, errors.New("connection refused")
}
func (failingClients) ListClients(context.Context) ([]types.Client, error) { return nil, nil }
func (failingClients) ClearAll(context.Context) error                      { return nil }

func (s *UnitTestSuite) TestBackendErrorIsNotInvalidReference() {
	ctx := context.Background()
	_, p := s.seed()
	stores := s.stores
	stores.Clients = failingClients{}
	r := NewRegistrar(stores, s.publisher, "")

	_, err := r.RecordSale(ctx, SaleRequest{ClientID: "c", ProductID: p.ID, Quantity: 1})
	s.True(errors.Is(err, types.ErrDataStoreAccess))
	s.False(errors.Is(err, types.ErrInvalidReference))
}
