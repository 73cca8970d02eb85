package service

import (
	"context"
	"fmt"

	"github.com/nurbek2810/stockchat-api/internal/domain"
	"github.com/nurbek2810/stockchat-api/internal/repository"
)

var (
	ErrProductExists   = repository.ErrProductExists
	ErrProductNotFound = repository.ErrProductNotFound
)

type AdminRepository interface {
	EnsureNetwork(ctx context.Context, network, city, address string) error
	SetMonthlyPlan(ctx context.Context, network, yearMonth string, plan int) error
	CreateProduct(ctx context.Context, name string, aliases []string) (domain.Product, error)
	AddAlias(ctx context.Context, productID uint, alias string) error
}

// AdminService covers the administrative surface: network meta, monthly plans
// and the product catalog that feeds fuzzy resolution.
type AdminService struct {
	repo AdminRepository
}

func NewAdminService(repo AdminRepository) *AdminService {
	return &AdminService{
		repo: repo,
	}
}

func (s *AdminService) EnsureNetwork(ctx context.Context, network, city, address string) error {
	if err := s.repo.EnsureNetwork(ctx, network, city, address); err != nil {
		return fmt.Errorf("s.repo.EnsureNetwork -> %w", err)
	}

	return nil
}

func (s *AdminService) SetMonthlyPlan(ctx context.Context, network string, year, month, qty int) error {
	if err := s.repo.EnsureNetwork(ctx, network, "", ""); err != nil {
		return fmt.Errorf("s.repo.EnsureNetwork -> %w", err)
	}

	yearMonth := fmt.Sprintf("%04d-%02d", year, month)
	if err := s.repo.SetMonthlyPlan(ctx, network, yearMonth, qty); err != nil {
		return fmt.Errorf("s.repo.SetMonthlyPlan -> %w", err)
	}

	return nil
}

func (s *AdminService) CreateProduct(ctx context.Context, name string, aliases []string) (domain.Product, error) {
	product, err := s.repo.CreateProduct(ctx, name, aliases)
	if err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *AdminService) AddAlias(ctx context.Context, productID uint, alias string) error {
	return s.repo.AddAlias(ctx, productID, alias)
}
