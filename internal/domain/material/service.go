package material

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateMaterial(ctx context.Context, m *Material) error {
	if m.Name == "" {
		return fmt.Errorf("materiais is required")
	}
	if m.Preco < 0 {
		return fmt.Errorf("preco must not be negative")
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) GetMaterial(ctx context.Context, id uuid.UUID) (*Material, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateMaterial(ctx context.Context, m *Material) error {
	if m.Name == "" {
		return fmt.Errorf("materiais is required")
	}
	if m.Preco < 0 {
		return fmt.Errorf("preco must not be negative")
	}
	if _, err := s.repo.GetByID(ctx, m.ID); err != nil {
		return fmt.Errorf("material not found: %w", err)
	}
	return s.repo.Update(ctx, m)
}

func (s *Service) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListMaterials(ctx context.Context, limit, offset int) ([]*Material, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) SearchMaterials(ctx context.Context, name string, limit, offset int) ([]*Material, int, error) {
	return s.repo.Search(ctx, name, limit, offset)
}
