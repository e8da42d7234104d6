package types

import "github.com/google/uuid"

const (
	KindClient  = "CLIENT"
	KindProduct = "PRODUCT"
	KindSale    = "SALE"
)

// Client is a named entity eligible to be referenced by a sale.
// Clients are immutable once created.
type Client struct {
	ID   string `json:"id" dynamodbav:"id" db:"id"`
	Name string `json:"name" dynamodbav:"name" db:"name"`
}

// Product is a named, priced entity eligible to be referenced by a sale.
type Product struct {
	ID    string  `json:"id" dynamodbav:"id" db:"id"`
	Name  string  `json:"name" dynamodbav:"name" db:"name"`
	Price float64 `json:"price" dynamodbav:"price" db:"price"`
}

// Sale links a client and a product with a quantity. Both references are
// checked when the sale is recorded and never revisited afterwards. Quantity
// is stored as given.
type Sale struct {
	ID        string `json:"id" dynamodbav:"id" db:"id"`
	ClientID  string `json:"client_id" dynamodbav:"client_id" db:"client_id"`
	ProductID string `json:"product_id" dynamodbav:"product_id" db:"product_id"`
	Quantity  int    `json:"quantity" dynamodbav:"quantity" db:"quantity"`
}

// NewID returns a time ordered identifier. Backends without an explicit
// insertion sequence rely on IDs sorting in creation order.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
