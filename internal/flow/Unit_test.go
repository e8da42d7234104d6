package flow

import (
	"context"
	"sync"
	"testing"

	"salesapi/internal/backends/memory"
	"salesapi/internal/ports"

	"github.com/stretchr/testify/suite"
)

type UnitTestSuite struct {
	suite.Suite

	stores    ports.Stores
	publisher *TestPublish
	registrar *Registrar
}

// TestPublish records every published payload.
type TestPublish struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (p *TestPublish) PublishRaw(_ context.Context, _ string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return p.err
}

func (p *TestPublish) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

func (s *UnitTestSuite) SetupTest() {
	RestoreTimeNow()
	s.stores = ports.Stores{
		Clients:  memory.NewClientStore(),
		Products: memory.NewProductStore(),
		Sales:    memory.NewSaleStore(),
	}
	s.publisher = &TestPublish{}
	s.registrar = NewRegistrar(s.stores, s.publisher, "arn:aws:sns:us-east-1:000000000000:sales")
}

func TestUnitTestSuite(t *testing.T) {
	suite.Run(t, new(UnitTestSuite))
}
