package dao

import "time"

type Product struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique;not null"`

	Aliases []ProductAlias `gorm:"foreignKey:ProductID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ProductAlias struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"index;not null"`
	Alias     string `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
}

func (ProductAlias) TableName() string {
	return "product_aliases"
}

// NetworkStock is one per-network stock cell. MemoryGB 0 means the capacity is
// not tracked for the product. Qty is signed: a negative value means a sale was
// reported faster than stock was reconciled, and is kept as-is.
type NetworkStock struct {
	Network   string `gorm:"primaryKey"`
	ProductID uint   `gorm:"primaryKey;autoIncrement:false"`
	MemoryGB  int    `gorm:"primaryKey;autoIncrement:false"`
	Qty       int    `gorm:"not null"`

	UpdatedAt time.Time `gorm:"not null"`
}

func (NetworkStock) TableName() string {
	return "network_stocks"
}

type Sale struct {
	ID uint `gorm:"primaryKey"`

	OccurredAt      time.Time `gorm:"not null"`
	Day             string    `gorm:"size:10;not null;index;index:idx_sales_network_day"`
	Person          string    `gorm:"not null;index"`
	Network         string    `gorm:"not null;index:idx_sales_network_day"`
	ProductID       uint      `gorm:"not null"`
	MemoryGB        int       `gorm:"not null"`
	Qty             int       `gorm:"not null"`
	SourceMessageID string
}

type Shipment struct {
	ID uint `gorm:"primaryKey"`

	OccurredAt time.Time `gorm:"not null"`
	Day        string    `gorm:"size:10;not null;index"`
	Network    string    `gorm:"not null;index"`
	ProductID  uint      `gorm:"not null"`
	MemoryGB   int       `gorm:"not null"`
	Qty        int       `gorm:"not null"`
}

type NetworkMeta struct {
	Network     string `gorm:"primaryKey"`
	City        string
	Address     string
	Initialized bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (NetworkMeta) TableName() string {
	return "network_meta"
}

// PromptFlag presence means "already prompted this network today for this
// reason"; the composite key makes check-and-mark a single INSERT.
type PromptFlag struct {
	Network string `gorm:"primaryKey"`
	Day     string `gorm:"primaryKey;size:10"`
	Kind    string `gorm:"primaryKey"`

	CreatedAt time.Time `gorm:"not null"`
}

type ProcessedMessage struct {
	SourceMessageID string `gorm:"primaryKey"`

	ProcessedAt time.Time `gorm:"not null"`
}

type MonthlyPlan struct {
	Network   string `gorm:"primaryKey"`
	YearMonth string `gorm:"primaryKey;size:7"` // "YYYY-MM"
	Plan      int    `gorm:"not null"`
}

func (MonthlyPlan) TableName() string {
	return "plans_monthly"
}

type PersonLastSale struct {
	Person  string `gorm:"primaryKey"`
	Network string `gorm:"not null;index"`

	LastSaleAt time.Time `gorm:"not null"`
}

func (PersonLastSale) TableName() string {
	return "people_last_sale"
}
