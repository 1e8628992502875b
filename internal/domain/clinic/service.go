package clinic

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateClinic(ctx context.Context, c *Clinic) error {
	if c.Sindicato == "" {
		return fmt.Errorf("sindicato is required")
	}
	if c.Endereco == "" {
		return fmt.Errorf("endereco is required")
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) GetClinic(ctx context.Context, id int64) (*ClinicDetail, error) {
	return s.repo.GetDetail(ctx, id)
}

func (s *Service) UpdateClinic(ctx context.Context, c *Clinic) error {
	if c.Sindicato == "" {
		return fmt.Errorf("sindicato is required")
	}
	if _, err := s.repo.GetByID(ctx, c.ID); err != nil {
		return fmt.Errorf("clinic not found: %w", err)
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) DeleteClinic(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListClinics(ctx context.Context, limit, offset int) ([]*ClinicDetail, int, error) {
	return s.repo.List(ctx, limit, offset)
}
