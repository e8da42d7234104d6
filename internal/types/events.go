package types

import "time"

const EventSaleRecorded = "sale.recorded"

// SaleEvent is the payload published after a sale has been stored.
type SaleEvent struct {
	Type       string    `json:"type"`
	Sale       Sale      `json:"sale"`
	RecordedAt time.Time `json:"recorded_at"`
}
