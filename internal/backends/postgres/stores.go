// Package postgres implements the stores on PostgreSQL through sqlx.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"salesapi/internal/types"

	"github.com/jmoiron/sqlx"
)

func lookupErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	}
	return types.Err(types.ErrDataStoreAccess, err, "")
}

type ClientStore struct {
	db *sqlx.DB
}

func NewClientStore(db *sqlx.DB) *ClientStore {
	return &ClientStore{db: db}
}

func (s *ClientStore) CreateClient(ctx context.Context, c types.Client) (types.Client, error) {
	c.ID = types.NewID()
	_, err := s.db.ExecContext(ctx, `INSERT INTO clients (id, name) VALUES ($1, $2)`, c.ID, c.Name)
	if err != nil {
		return types.Client{}, types.Err(types.ErrDataStoreAccess, err, "")
	}
	return c, nil
}

func (s *ClientStore) GetClient(ctx context.Context, id string) (types.Client, error) {
	var c types.Client
	if err := s.db.GetContext(ctx, &c, `SELECT id, name FROM clients WHERE id = $1`, id); err != nil {
		return types.Client{}, lookupErr(err)
	}
	return c, nil
}

func (s *ClientStore) ListClients(ctx context.Context) ([]types.Client, error) {
	out := []types.Client{}
	if err := s.db.SelectContext(ctx, &out, `SELECT id, name FROM clients ORDER BY seq`); err != nil {
		return nil, types.Err(types.ErrDataStoreAccess, err, "")
	}
	return out, nil
}

func (s *ClientStore) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `TRUNCATE clients`)
	return err
}

type ProductStore struct {
	db *sqlx.DB
}

func NewProductStore(db *sqlx.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) CreateProduct(ctx context.Context, p types.Product) (types.Product, error) {
	p.ID = types.NewID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, price) VALUES ($1, $2, $3)`, p.ID, p.Name, p.Price)
	if err != nil {
		return types.Product{}, types.Err(types.ErrDataStoreAccess, err, "")
	}
	return p, nil
}

func (s *ProductStore) GetProduct(ctx context.Context, id string) (types.Product, error) {
	var p types.Product
	if err := s.db.GetContext(ctx, &p, `SELECT id, name, price FROM products WHERE id = $1`, id); err != nil {
		return types.Product{}, lookupErr(err)
	}
	return p, nil
}

func (s *ProductStore) ListProducts(ctx context.Context) ([]types.Product, error) {
	out := []types.Product{}
	if err := s.db.SelectContext(ctx, &out, `SELECT id, name, price FROM products ORDER BY seq`); err != nil {
		return nil, types.Err(types.ErrDataStoreAccess, err, "")
	}
	return out, nil
}

func (s *ProductStore) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `TRUNCATE products`)
	return err
}

type SaleStore struct {
	db *sqlx.DB
}

func NewSaleStore(db *sqlx.DB) *SaleStore {
	return &SaleStore{db: db}
}

func (s *SaleStore) AppendSale(ctx context.Context, sale types.Sale) (types.Sale, error) {
	sale.ID = types.NewID()
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO sales (id, client_id, product_id, quantity) VALUES (:id, :client_id, :product_id, :quantity)`,
		sale)
	if err != nil {
		return types.Sale{}, types.Err(types.ErrDataStoreAccess, err, "")
	}
	return sale, nil
}

func (s *SaleStore) ListSales(ctx context.Context) ([]types.Sale, error) {
	out := []types.Sale{}
	err := s.db.SelectContext(ctx, &out, `SELECT id, client_id, product_id, quantity FROM sales ORDER BY seq`)
	if err != nil {
		return nil, types.Err(types.ErrDataStoreAccess, err, "")
	}
	return out, nil
}

func (s *SaleStore) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `TRUNCATE sales`)
	return err
}
