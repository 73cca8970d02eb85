package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/nurbek2810/stockchat-api/internal/domain"
	"github.com/nurbek2810/stockchat-api/internal/repository/dao"
)

var (
	ErrProductExists   = dao.ErrProductExists
	ErrProductNotFound = dao.ErrProductNotFound
)

type LedgerDAO interface {
	MarkMessageProcessed(ctx context.Context, sourceMessageID string, at time.Time) (bool, error)
	PromptNeededToday(ctx context.Context, network, day, kind string) (bool, error)
	ClearPromptFlags(ctx context.Context, network, day string) error
	InsertSale(ctx context.Context, sale dao.Sale) error
	InsertShipment(ctx context.Context, shipment dao.Shipment) error
	AddStockDelta(ctx context.Context, network string, productID uint, memoryGB, delta int) (int, error)
	ReplaceStockSnapshot(ctx context.Context, network, day string, rows []dao.NetworkStock) error
	SetNetworkInitialized(ctx context.Context, network string, value bool) error
	IsNetworkInitialized(ctx context.Context, network string) (bool, error)
	EnsureNetwork(ctx context.Context, network, city, address string) error
	GetStockCandidates(ctx context.Context, network string) ([]dao.CandidateRow, error)
	GetCatalogCandidates(ctx context.Context) ([]dao.CandidateRow, error)
	SalesTotalsByNetwork(ctx context.Context, fromDay, toDay, network string) ([]dao.NetworkTotal, error)
	StockTable(ctx context.Context, network string) ([]dao.StockTableRow, error)
	UpsertMonthlyPlan(ctx context.Context, network, yearMonth string, plan int) error
	GetMonthlyPlans(ctx context.Context, yearMonth string) ([]dao.MonthlyPlan, error)
	TouchLastSale(ctx context.Context, person, network string, at time.Time) error
	StaleSellers(ctx context.Context, edge time.Time) ([]dao.PersonLastSale, error)
	InsertProduct(ctx context.Context, product dao.Product) (dao.Product, error)
	InsertAlias(ctx context.Context, productID uint, alias string) error
}

type LedgerRepository struct {
	dao LedgerDAO
}

func NewLedgerRepository(dao LedgerDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

func (r *LedgerRepository) MarkMessageProcessed(ctx context.Context, sourceMessageID string, at time.Time) (bool, error) {
	return r.dao.MarkMessageProcessed(ctx, sourceMessageID, at)
}

func (r *LedgerRepository) PromptNeededToday(ctx context.Context, network, day, kind string) (bool, error) {
	return r.dao.PromptNeededToday(ctx, network, day, kind)
}

func (r *LedgerRepository) ClearPromptFlags(ctx context.Context, network, day string) error {
	return r.dao.ClearPromptFlags(ctx, network, day)
}

func (r *LedgerRepository) RecordSale(ctx context.Context, sale domain.SaleEvent) error {
	err := r.dao.InsertSale(ctx, dao.Sale{
		OccurredAt:      sale.OccurredAt,
		Day:             sale.Day,
		Person:          sale.Person,
		Network:         sale.Network,
		ProductID:       sale.ProductID,
		MemoryGB:        sale.MemoryGB,
		Qty:             sale.Qty,
		SourceMessageID: sale.SourceMessageID,
	})
	if err != nil {
		return fmt.Errorf("r.dao.InsertSale -> %w", err)
	}

	return nil
}

func (r *LedgerRepository) RecordShipment(ctx context.Context, shipment domain.ShipmentEvent) error {
	err := r.dao.InsertShipment(ctx, dao.Shipment{
		OccurredAt: shipment.OccurredAt,
		Day:        shipment.Day,
		Network:    shipment.Network,
		ProductID:  shipment.ProductID,
		MemoryGB:   shipment.MemoryGB,
		Qty:        shipment.Qty,
	})
	if err != nil {
		return fmt.Errorf("r.dao.InsertShipment -> %w", err)
	}

	return nil
}

func (r *LedgerRepository) ApplyStockDelta(ctx context.Context, network string, productID uint, memoryGB, delta int) (int, error) {
	return r.dao.AddStockDelta(ctx, network, productID, memoryGB, delta)
}

func (r *LedgerRepository) ReplaceStockSnapshot(ctx context.Context, network, day string, rows []domain.SnapshotRow) error {
	daoRows := make([]dao.NetworkStock, len(rows))
	for i, row := range rows {
		daoRows[i] = dao.NetworkStock{
			Network:   network,
			ProductID: row.ProductID,
			MemoryGB:  row.MemoryGB,
			Qty:       row.Qty,
		}
	}

	return r.dao.ReplaceStockSnapshot(ctx, network, day, daoRows)
}

func (r *LedgerRepository) SetNetworkInitialized(ctx context.Context, network string, value bool) error {
	return r.dao.SetNetworkInitialized(ctx, network, value)
}

func (r *LedgerRepository) IsNetworkInitialized(ctx context.Context, network string) (bool, error) {
	return r.dao.IsNetworkInitialized(ctx, network)
}

func (r *LedgerRepository) EnsureNetwork(ctx context.Context, network, city, address string) error {
	return r.dao.EnsureNetwork(ctx, network, city, address)
}

func (r *LedgerRepository) GetStockCandidates(ctx context.Context, network string) ([]domain.Candidate, error) {
	rows, err := r.dao.GetStockCandidates(ctx, network)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetStockCandidates -> %w", err)
	}

	return candidateRowsToDomain(rows), nil
}

func (r *LedgerRepository) GetCatalogCandidates(ctx context.Context) ([]domain.Candidate, error) {
	rows, err := r.dao.GetCatalogCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetCatalogCandidates -> %w", err)
	}

	return candidateRowsToDomain(rows), nil
}

// candidateRowsToDomain renders display names the way staff write stock items:
// product name plus memory when the capacity is tracked.
func candidateRowsToDomain(rows []dao.CandidateRow) []domain.Candidate {
	candidates := make([]domain.Candidate, len(rows))
	for i, row := range rows {
		name := row.Name
		if row.MemoryGB > 0 {
			name = fmt.Sprintf("%v %v", row.Name, row.MemoryGB)
		}
		candidates[i] = domain.Candidate{
			ProductID:   row.ProductID,
			DisplayName: name,
		}
	}

	return candidates
}

func (r *LedgerRepository) SalesTotalsByNetwork(ctx context.Context, fromDay, toDay, network string) ([]domain.NetworkSales, error) {
	rows, err := r.dao.SalesTotalsByNetwork(ctx, fromDay, toDay, network)
	if err != nil {
		return nil, fmt.Errorf("r.dao.SalesTotalsByNetwork -> %w", err)
	}

	totals := make([]domain.NetworkSales, len(rows))
	for i, row := range rows {
		totals[i] = domain.NetworkSales{
			Network: row.Network,
			Qty:     row.Qty,
		}
	}

	return totals, nil
}

func (r *LedgerRepository) StockTable(ctx context.Context, network string) ([]domain.StockRow, error) {
	rows, err := r.dao.StockTable(ctx, network)
	if err != nil {
		return nil, fmt.Errorf("r.dao.StockTable -> %w", err)
	}

	out := make([]domain.StockRow, len(rows))
	for i, row := range rows {
		out[i] = domain.StockRow{
			ProductID: row.ProductID,
			Name:      row.Name,
			MemoryGB:  row.MemoryGB,
			Qty:       row.Qty,
		}
	}

	return out, nil
}

func (r *LedgerRepository) SetMonthlyPlan(ctx context.Context, network, yearMonth string, plan int) error {
	return r.dao.UpsertMonthlyPlan(ctx, network, yearMonth, plan)
}

func (r *LedgerRepository) GetMonthlyPlans(ctx context.Context, yearMonth string) (map[string]int, error) {
	plans, err := r.dao.GetMonthlyPlans(ctx, yearMonth)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetMonthlyPlans -> %w", err)
	}

	out := make(map[string]int, len(plans))
	for _, p := range plans {
		out[p.Network] = p.Plan
	}

	return out, nil
}

func (r *LedgerRepository) TouchLastSale(ctx context.Context, person, network string, at time.Time) error {
	return r.dao.TouchLastSale(ctx, person, network, at)
}

func (r *LedgerRepository) StaleSellersByNetwork(ctx context.Context, edge time.Time) (map[string][]string, error) {
	rows, err := r.dao.StaleSellers(ctx, edge)
	if err != nil {
		return nil, fmt.Errorf("r.dao.StaleSellers -> %w", err)
	}

	out := make(map[string][]string)
	for _, row := range rows {
		out[row.Network] = append(out[row.Network], row.Person)
	}

	return out, nil
}

func (r *LedgerRepository) CreateProduct(ctx context.Context, name string, aliases []string) (domain.Product, error) {
	daoProduct := dao.Product{Name: name}
	for _, a := range aliases {
		daoProduct.Aliases = append(daoProduct.Aliases, dao.ProductAlias{Alias: a})
	}

	created, err := r.dao.InsertProduct(ctx, daoProduct)
	if err != nil {
		return domain.Product{}, err
	}

	return productDaoToDomain(created), nil
}

func (r *LedgerRepository) AddAlias(ctx context.Context, productID uint, alias string) error {
	return r.dao.InsertAlias(ctx, productID, alias)
}

func productDaoToDomain(p dao.Product) domain.Product {
	out := domain.Product{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for _, a := range p.Aliases {
		out.Aliases = append(out.Aliases, a.Alias)
	}

	return out
}
