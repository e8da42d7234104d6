package ports

import (
	"context"
	"salesapi/internal/types"
)

// ClientStore holds client records.
type ClientStore interface {
	// CreateClient assigns a new ID, stores the client and returns it.
	CreateClient(ctx context.Context, c types.Client) (types.Client, error)

	// GetClient MUST return types.ErrNotFound if the client does not exist.
	GetClient(ctx context.Context, id string) (types.Client, error)

	// ListClients returns all clients in insertion order.
	ListClients(ctx context.Context) ([]types.Client, error)

	// ClearAll purges all client records. Used in tests only.
	ClearAll(ctx context.Context) error
}
