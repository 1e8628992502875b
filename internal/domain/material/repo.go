package material

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Material) error
	GetByID(ctx context.Context, id uuid.UUID) (*Material, error)
	Update(ctx context.Context, m *Material) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Material, int, error)
	Search(ctx context.Context, name string, limit, offset int) ([]*Material, int, error)
}
