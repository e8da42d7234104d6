// Package cmds holds operator commands shared by the server binary and tests.
package cmds

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"salesapi/internal/ports"
	"salesapi/internal/types"

	"github.com/goccy/go-yaml"
	log "github.com/sirupsen/logrus"
)

// SeedFile is the YAML layout accepted by Seed.
type SeedFile struct {
	Clients []struct {
		Name string `yaml:"name"`
	} `yaml:"clients"`
	Products []struct {
		Name  string  `yaml:"name"`
		Price float64 `yaml:"price"`
	} `yaml:"products"`
}

// ErrInvalidSeed is returned when a seed entry lacks a name or has a negative price.
var ErrInvalidSeed = errors.New("invalid seed entry")

// Seed loads clients and products from the YAML file at path into the stores.
// The whole file is checked before anything is written.
func Seed(ctx context.Context, stores ports.Stores, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var f SeedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse seed file %s: %w", path, err)
	}

	clients := make([]types.Client, 0, len(f.Clients))
	for i, c := range f.Clients {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("clients[%d]: %w: name is empty", i, ErrInvalidSeed)
		}
		clients = append(clients, types.Client{Name: c.Name})
	}
	products := make([]types.Product, 0, len(f.Products))
	for i, p := range f.Products {
		switch {
		case strings.TrimSpace(p.Name) == "":
			return fmt.Errorf("products[%d]: %w: name is empty", i, ErrInvalidSeed)
		case p.Price < 0:
			return fmt.Errorf("products[%d]: %w: price %v is negative", i, ErrInvalidSeed, p.Price)
		}
		products = append(products, types.Product{Name: p.Name, Price: p.Price})
	}

	for _, c := range clients {
		if _, err := stores.Clients.CreateClient(ctx, c); err != nil {
			return err
		}
	}
	for _, p := range products {
		if _, err := stores.Products.CreateProduct(ctx, p); err != nil {
			return err
		}
	}
	log.WithFields(log.Fields{
		"clients":  len(clients),
		"products": len(products),
		"file":     path,
	}).Info("seed loaded")
	return nil
}
