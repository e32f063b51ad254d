package company

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateCompany(ctx context.Context, co *Company) error {
	co.Name = strings.TrimSpace(co.Name)
	if co.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.Create(ctx, co)
}

func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateCompany(ctx context.Context, co *Company) error {
	co.Name = strings.TrimSpace(co.Name)
	if co.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.Update(ctx, co)
}

func (s *Service) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListCompanies(ctx context.Context, limit, offset int) ([]*Company, int, error) {
	return s.repo.List(ctx, limit, offset)
}
