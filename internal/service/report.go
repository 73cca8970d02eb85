package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/nurbek2810/stockchat-api/internal/domain"
)

type ReportRepository interface {
	SalesTotalsByNetwork(ctx context.Context, fromDay, toDay, network string) ([]domain.NetworkSales, error)
	StockTable(ctx context.Context, network string) ([]domain.StockRow, error)
	GetMonthlyPlans(ctx context.Context, yearMonth string) (map[string]int, error)
	StaleSellersByNetwork(ctx context.Context, edge time.Time) (map[string][]string, error)
}

// ReportService serves the ledger's read projections: per-network sales for a
// day, ISO week or calendar month, the current stock table and the stale
// seller report.
type ReportService struct {
	repo ReportRepository
	loc  *time.Location
	now  func() time.Time
}

func NewReportService(repo ReportRepository, loc *time.Location) *ReportService {
	return &ReportService{
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

const dayFormat = "2006-01-02"

func (s *ReportService) SalesByDay(ctx context.Context, network string) ([]domain.NetworkSales, error) {
	today := s.now().In(s.loc)
	from := today.Format(dayFormat)
	to := today.AddDate(0, 0, 1).Format(dayFormat)

	totals, err := s.repo.SalesTotalsByNetwork(ctx, from, to, network)
	if err != nil {
		return nil, fmt.Errorf("s.repo.SalesTotalsByNetwork -> %w", err)
	}

	return totals, nil
}

func (s *ReportService) SalesByWeek(ctx context.Context, network string) ([]domain.NetworkSales, error) {
	today := s.now().In(s.loc)
	offset := (int(today.Weekday()) + 6) % 7 // Monday-based week.
	start := today.AddDate(0, 0, -offset)

	totals, err := s.repo.SalesTotalsByNetwork(ctx,
		start.Format(dayFormat),
		start.AddDate(0, 0, 7).Format(dayFormat),
		network,
	)
	if err != nil {
		return nil, fmt.Errorf("s.repo.SalesTotalsByNetwork -> %w", err)
	}

	return totals, nil
}

// SalesByMonth returns month-to-date totals per network, each with the monthly
// plan (when set) and a linear projection: current pace extended to the full
// month.
func (s *ReportService) SalesByMonth(ctx context.Context, network string) ([]domain.NetworkSales, error) {
	today := s.now().In(s.loc)
	year, month, _ := today.Date()

	first := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	next := first.AddDate(0, 1, 0)
	daysInMonth := next.AddDate(0, 0, -1).Day()

	totals, err := s.repo.SalesTotalsByNetwork(ctx,
		first.Format(dayFormat),
		next.Format(dayFormat),
		network,
	)
	if err != nil {
		return nil, fmt.Errorf("s.repo.SalesTotalsByNetwork -> %w", err)
	}

	plans, err := s.repo.GetMonthlyPlans(ctx, first.Format("2006-01"))
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetMonthlyPlans -> %w", err)
	}

	dom := today.Day()
	for i := range totals {
		pace := float64(totals[i].Qty) / float64(max(dom, 1))
		totals[i].Projected = int(math.Round(pace * float64(daysInMonth)))
		totals[i].Plan = plans[totals[i].Network]
	}

	return totals, nil
}

func (s *ReportService) StockTable(ctx context.Context, network string) ([]domain.StockRow, error) {
	rows, err := s.repo.StockTable(ctx, network)
	if err != nil {
		return nil, fmt.Errorf("s.repo.StockTable -> %w", err)
	}

	return rows, nil
}

// StaleSellers returns, per network, the people with no recorded sale in the
// last N days.
func (s *ReportService) StaleSellers(ctx context.Context, days int) (map[string][]string, error) {
	edge := s.now().In(s.loc).AddDate(0, 0, -days)

	groups, err := s.repo.StaleSellersByNetwork(ctx, edge)
	if err != nil {
		return nil, fmt.Errorf("s.repo.StaleSellersByNetwork -> %w", err)
	}

	return groups, nil
}
