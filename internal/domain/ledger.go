package domain

import "time"

type Product struct {
	ID      uint     `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Candidate is a (product, display name) pair considered during fuzzy
// resolution. Display names for stock candidates include the memory capacity
// when tracked, e.g. "reno 11f 5g 128".
type Candidate struct {
	ProductID   uint
	DisplayName string
}

type SaleEvent struct {
	OccurredAt      time.Time `json:"occurred_at"`
	Day             string    `json:"day"`
	Person          string    `json:"person"`
	Network         string    `json:"network"`
	ProductID       uint      `json:"product_id"`
	MemoryGB        int       `json:"memory_gb"`
	Qty             int       `json:"qty"`
	SourceMessageID string    `json:"source_message_id"`
}

type ShipmentEvent struct {
	OccurredAt time.Time `json:"occurred_at"`
	Day        string    `json:"day"`
	Network    string    `json:"network"`
	ProductID  uint      `json:"product_id"`
	MemoryGB   int       `json:"memory_gb"`
	Qty        int       `json:"qty"`
}

// SnapshotRow is one row of a full stock snapshot for a network.
type SnapshotRow struct {
	ProductID uint
	MemoryGB  int
	Qty       int
}

// StockRow is a read-side stock row with the product name resolved.
type StockRow struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	MemoryGB  int    `json:"memory_gb"`
	Qty       int    `json:"qty"`
}

type NetworkMeta struct {
	Network     string `json:"network"`
	City        string `json:"city,omitempty"`
	Address     string `json:"address,omitempty"`
	Initialized bool   `json:"initialized"`
}

// NetworkSales is a per-network aggregate for a reporting period. Plan and
// Projected are only populated for month-scoped reports.
type NetworkSales struct {
	Network   string `json:"network"`
	Qty       int    `json:"qty"`
	Plan      int    `json:"plan,omitempty"`
	Projected int    `json:"projected,omitempty"`
}

// Prompt reason kinds tracked by the throttle.
const (
	PromptNegativeStock = "negative"
)
