package flow

import (
	"context"
	"errors"
	"time"

	"salesapi/internal/ports"
	"salesapi/internal/types"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

// refCacheTTL bounds how long a positive reference lookup is reused.
// Records are immutable and never deleted, so a hit cannot go stale.
const refCacheTTL = 5 * time.Minute

// SaleRequest is the input of RecordSale.
type SaleRequest struct {
	ClientID  string `json:"client_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Registrar validates sale requests against the client and product stores
// and appends accepted sales.
type Registrar struct {
	stores ports.Stores
	pub    ports.Publisher
	topic  string

	known *TTL[string, struct{}]
}

func NewRegistrar(stores ports.Stores, pub ports.Publisher, topic string) *Registrar {
	return &Registrar{
		stores: stores,
		pub:    pub,
		topic:  topic,
		known:  NewTTL[string, struct{}](),
	}
}

// RecordSale stores the sale if both referenced records exist. Unknown
// references return types.ErrInvalidReference and nothing is written.
func (r *Registrar) RecordSale(ctx context.Context, req SaleRequest) (types.Sale, error) {
	sale := types.Sale{
		ClientID:  req.ClientID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	clientOK, err := r.exists(ctx, types.KindClient, sale.ClientID)
	if err != nil {
		return types.Sale{}, err
	}
	productOK, err := r.exists(ctx, types.KindProduct, sale.ProductID)
	if err != nil {
		return types.Sale{}, err
	}
	if !clientOK || !productOK {
		log.WithFields(log.Fields{
			"client_id":  sale.ClientID,
			"product_id": sale.ProductID,
			"client_ok":  clientOK,
			"product_ok": productOK,
		}).Info("sale rejected")
		return types.Sale{}, types.ErrInvalidReference
	}

	stored, err := r.stores.Sales.AppendSale(ctx, sale)
	if err != nil {
		return types.Sale{}, err
	}
	r.publish(ctx, stored)
	return stored, nil
}

// exists reports whether the record of the given kind is present. Only
// backend failures are returned as errors. An empty id never resolves.
func (r *Registrar) exists(ctx context.Context, kind, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	key := kind + "#" + id
	if _, ok := r.known.Get(key); ok {
		return true, nil
	}
	var err error
	switch kind {
	case types.KindClient:
		_, err = r.stores.Clients.GetClient(ctx, id)
	case types.KindProduct:
		_, err = r.stores.Products.GetProduct(ctx, id)
	}
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		if !errors.Is(err, types.ErrDataStoreAccess) {
			err = types.Err(types.ErrDataStoreAccess, err, "lookup %s %s", kind, id)
		}
		return false, err
	}
	r.known.Set(key, struct{}{}, refCacheTTL)
	return true, nil
}

// publish emits the sale.recorded event. The sale is already committed, so a
// failure here is only logged.
func (r *Registrar) publish(ctx context.Context, sale types.Sale) {
	if r.pub == nil {
		return
	}
	// the sale is stored; a caller hanging up must not cancel its event
	ctx = context.WithoutCancel(ctx)
	b, err := json.Marshal(types.SaleEvent{
		Type:       types.EventSaleRecorded,
		Sale:       sale,
		RecordedAt: timeNow().UTC(),
	})
	if err != nil {
		log.WithError(err).Error("failed to marshal sale event")
		return
	}
	if err := r.pub.PublishRaw(ctx, r.topic, b); err != nil {
		log.WithError(err).WithField("sale_id", sale.ID).Error("failed to publish sale event")
	}
}

// InvalidateCache forgets every cached reference lookup.
func (r *Registrar) InvalidateCache() {
	r.known.Purge()
}
