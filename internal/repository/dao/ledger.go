package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProductExists   = errors.New("product already exists")
	ErrProductNotFound = errors.New("product not found")
)

type LedgerDAO struct {
	db *gorm.DB
}

func NewLedgerDAO(db *gorm.DB) *LedgerDAO {
	return &LedgerDAO{
		db: db,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// MarkMessageProcessed records a source message id and reports whether it had
// been seen before. The check-and-mark is a single INSERT; the primary key
// makes it atomic under concurrent redeliveries.
func (d *LedgerDAO) MarkMessageProcessed(ctx context.Context, sourceMessageID string, at time.Time) (bool, error) {
	result := d.db.WithContext(ctx).Create(&ProcessedMessage{
		SourceMessageID: sourceMessageID,
		ProcessedAt:     at,
	})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return true, nil
		}

		return false, result.Error
	}

	return false, nil
}

// PromptNeededToday marks (network, day, kind) as prompted and reports whether
// the prompt should be sent. Same INSERT-or-conflict shape as
// MarkMessageProcessed: true exactly once per key.
func (d *LedgerDAO) PromptNeededToday(ctx context.Context, network, day, kind string) (bool, error) {
	result := d.db.WithContext(ctx).Create(&PromptFlag{
		Network: network,
		Day:     day,
		Kind:    kind,
	})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return false, nil
		}

		return false, result.Error
	}

	return true, nil
}

func (d *LedgerDAO) ClearPromptFlags(ctx context.Context, network, day string) error {
	result := d.db.WithContext(ctx).
		Where("network = ? AND day = ?", network, day).
		Delete(&PromptFlag{})

	return result.Error
}

func (d *LedgerDAO) InsertSale(ctx context.Context, sale Sale) error {
	result := d.db.WithContext(ctx).Create(&sale)

	return result.Error
}

func (d *LedgerDAO) InsertShipment(ctx context.Context, shipment Shipment) error {
	result := d.db.WithContext(ctx).Create(&shipment)

	return result.Error
}

// AddStockDelta applies a signed delta to one stock cell and returns the new
// quantity. The row is locked for the duration so concurrent deltas on the
// same cell serialize; the result may be negative and is never clamped.
func (d *LedgerDAO) AddStockDelta(ctx context.Context, network string, productID uint, memoryGB, delta int) (int, error) {
	var newQty int

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row NetworkStock
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("network = ? AND product_id = ? AND memory_gb = ?", network, productID, memoryGB).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = NetworkStock{
				Network:   network,
				ProductID: productID,
				MemoryGB:  memoryGB,
				Qty:       delta,
			}
			if err = tx.Create(&row).Error; err != nil {
				return err
			}
			newQty = row.Qty

			return nil
		}
		if err != nil {
			return err
		}

		newQty = row.Qty + delta
		result := tx.Model(&NetworkStock{}).
			Where("network = ? AND product_id = ? AND memory_gb = ?", network, productID, memoryGB).
			Update("qty", newQty)

		return result.Error
	})
	if err != nil {
		return 0, fmt.Errorf("tx -> %w", err)
	}

	return newQty, nil
}

// ReplaceStockSnapshot atomically replaces a network's stock rows, marks the
// network initialized and clears its prompt flags for the day. A reader
// observes the old row set or the new one, never a mix.
func (d *LedgerDAO) ReplaceStockSnapshot(ctx context.Context, network, day string, rows []NetworkStock) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("network = ?", network).Delete(&NetworkStock{}).Error; err != nil {
			return err
		}

		for _, row := range rows {
			row.Network = network
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		if err := upsertInitialized(tx, network, true); err != nil {
			return err
		}

		result := tx.Where("network = ? AND day = ?", network, day).Delete(&PromptFlag{})

		return result.Error
	})
}

func upsertInitialized(tx *gorm.DB, network string, value bool) error {
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "network"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"initialized": value}),
	}).Create(&NetworkMeta{
		Network:     network,
		Initialized: value,
	})

	return result.Error
}

func (d *LedgerDAO) SetNetworkInitialized(ctx context.Context, network string, value bool) error {
	return upsertInitialized(d.db.WithContext(ctx), network, value)
}

// IsNetworkInitialized reports whether the network has ever submitted a full
// snapshot. A network with no meta row at all is simply uninitialized.
func (d *LedgerDAO) IsNetworkInitialized(ctx context.Context, network string) (bool, error) {
	var meta NetworkMeta

	result := d.db.WithContext(ctx).First(&meta, "network = ?", network)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, result.Error
	}

	return meta.Initialized, nil
}

// EnsureNetwork upserts network meta without touching the initialized flag.
// Empty city/address never overwrite previously known values.
func (d *LedgerDAO) EnsureNetwork(ctx context.Context, network, city, address string) error {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "network"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"city":    gorm.Expr("COALESCE(NULLIF(EXCLUDED.city, ''), network_meta.city)"),
			"address": gorm.Expr("COALESCE(NULLIF(EXCLUDED.address, ''), network_meta.address)"),
		}),
	}).Create(&NetworkMeta{
		Network: network,
		City:    city,
		Address: address,
	})

	return result.Error
}

// CandidateRow backs fuzzy-matching candidate sets. Rows are returned in a
// stable order so the resolver's tie-break is deterministic.
type CandidateRow struct {
	ProductID uint
	Name      string
	MemoryGB  int
}

func (d *LedgerDAO) GetStockCandidates(ctx context.Context, network string) ([]CandidateRow, error) {
	var rows []CandidateRow

	result := d.db.WithContext(ctx).
		Table("network_stocks s").
		Select("s.product_id, p.name, s.memory_gb").
		Joins("JOIN products p ON p.id = s.product_id").
		Where("s.network = ?", network).
		Order("p.name, s.memory_gb").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

// GetCatalogCandidates returns every canonical product name followed by every
// alias, both in insertion order.
func (d *LedgerDAO) GetCatalogCandidates(ctx context.Context) ([]CandidateRow, error) {
	var rows []CandidateRow

	result := d.db.WithContext(ctx).
		Model(&Product{}).
		Select("id as product_id, name").
		Order("id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	var aliases []CandidateRow
	result = d.db.WithContext(ctx).
		Model(&ProductAlias{}).
		Select("product_id, alias as name").
		Order("product_id, id").
		Scan(&aliases)
	if result.Error != nil {
		return nil, result.Error
	}

	return append(rows, aliases...), nil
}

type NetworkTotal struct {
	Network string
	Qty     int
}

// SalesTotalsByNetwork sums sale quantities per network over [fromDay, toDay).
// Days are "YYYY-MM-DD" strings, so lexicographic range comparison is correct.
func (d *LedgerDAO) SalesTotalsByNetwork(ctx context.Context, fromDay, toDay, network string) ([]NetworkTotal, error) {
	query := d.db.WithContext(ctx).
		Model(&Sale{}).
		Select("network, COALESCE(SUM(qty), 0) as qty").
		Where("day >= ? AND day < ?", fromDay, toDay).
		Group("network").
		Order("network")
	if network != "" {
		query = query.Where("network = ?", network)
	}

	var rows []NetworkTotal
	result := query.Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

type StockTableRow struct {
	ProductID uint
	Name      string
	MemoryGB  int
	Qty       int
}

func (d *LedgerDAO) StockTable(ctx context.Context, network string) ([]StockTableRow, error) {
	var rows []StockTableRow

	result := d.db.WithContext(ctx).
		Table("network_stocks s").
		Select("s.product_id, p.name, s.memory_gb, s.qty").
		Joins("JOIN products p ON p.id = s.product_id").
		Where("s.network = ?", network).
		Order("p.name, s.memory_gb").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

func (d *LedgerDAO) UpsertMonthlyPlan(ctx context.Context, network, yearMonth string, plan int) error {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "network"}, {Name: "year_month"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"plan": plan}),
	}).Create(&MonthlyPlan{
		Network:   network,
		YearMonth: yearMonth,
		Plan:      plan,
	})

	return result.Error
}

func (d *LedgerDAO) GetMonthlyPlans(ctx context.Context, yearMonth string) ([]MonthlyPlan, error) {
	var plans []MonthlyPlan

	result := d.db.WithContext(ctx).
		Where("year_month = ?", yearMonth).
		Order("network").
		Find(&plans)
	if result.Error != nil {
		return nil, result.Error
	}

	return plans, nil
}

func (d *LedgerDAO) TouchLastSale(ctx context.Context, person, network string, at time.Time) error {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "person"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"network":      network,
			"last_sale_at": at,
		}),
	}).Create(&PersonLastSale{
		Person:     person,
		Network:    network,
		LastSaleAt: at,
	})

	return result.Error
}

// StaleSellers returns everyone whose last recorded sale is at or before the
// edge, grouped by the caller.
func (d *LedgerDAO) StaleSellers(ctx context.Context, edge time.Time) ([]PersonLastSale, error) {
	var rows []PersonLastSale

	result := d.db.WithContext(ctx).
		Where("last_sale_at <= ?", edge).
		Order("network, person").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

func (d *LedgerDAO) InsertProduct(ctx context.Context, product Product) (Product, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&product).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return Product{}, ErrProductExists
		}

		return Product{}, err
	}

	return product, nil
}

func (d *LedgerDAO) InsertAlias(ctx context.Context, productID uint, alias string) error {
	var product Product
	result := d.db.WithContext(ctx).First(&product, productID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}

		return result.Error
	}

	result = d.db.WithContext(ctx).Create(&ProductAlias{
		ProductID: productID,
		Alias:     alias,
	})

	return result.Error
}
